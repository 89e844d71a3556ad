package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/metrics"
	"github.com/MKhiriev/go-sync-bridge/internal/queue"
	"github.com/MKhiriev/go-sync-bridge/internal/utils"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// job is one queued action with the channel its result is published on.
type job struct {
	req      models.ActionRequest
	handler  Handler
	result   chan models.ActionResult
	enqueued time.Time
}

// Dispatcher is the serializing dispatcher. Create it with New, then Start it.
type Dispatcher struct {
	registry *Registry
	slot     *Slot
	fence    ResultFence
	classify Classifier
	ids      *utils.UUIDGenerator
	metrics  *metrics.Metrics
	logger   *logger.Logger
	poolSize int

	jobs *queue.Queue[*job]

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
}

// New creates a Dispatcher that resolves actions through registry. By default
// it runs one worker, uses DefaultSlot and classifies every handler error as
// an execution error.
func New(registry *Registry, logger *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		slot:     DefaultSlot(),
		classify: KindTable(nil).Classify,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
		poolSize: 1,
		jobs:     queue.New[*job](),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit queues req and returns a channel that receives its single result.
// It never runs the handler itself and never blocks on the slot. An unknown
// action name is returned as an error wrapping ErrUnknownAction and nothing is
// queued; ErrDispatcherStopped is returned after Stop.
func (d *Dispatcher) Submit(req models.ActionRequest) (<-chan models.ActionResult, error) {
	handler, err := d.registry.Resolve(req.Name)
	if err != nil {
		d.metrics.ActionFinished(string(req.Name), metrics.OutcomeRouting)
		d.logger.Warn().
			Str("func", "Dispatcher.Submit").
			Str("action", string(req.Name)).
			Msg("rejected unknown action")
		return nil, err
	}

	if req.ID == "" {
		req.ID = d.ids.Generate()
	}

	j := &job{
		req:      req,
		handler:  handler,
		result:   make(chan models.ActionResult, 1),
		enqueued: time.Now(),
	}
	if !d.jobs.Push(j) {
		return nil, ErrDispatcherStopped
	}
	d.metrics.SetQueueDepth(d.jobs.Len())

	return j.result, nil
}

// Start launches the worker pool. Handlers run with a context detached from
// ctx's cancellation, so a started action always runs to completion. Calling
// Start on a running dispatcher is a no-op.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrDispatcherStopped
	}
	if d.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.poolSize; i++ {
		d.wg.Add(1)
		go func(worker int) {
			defer d.wg.Done()
			d.work(workerCtx, worker)
		}(i)
	}

	d.logger.Info().Int("pool_size", d.poolSize).Msg("dispatcher started")
	return nil
}

// Stop stops accepting actions, waits for running handlers to return and
// fails every action still queued with ErrDispatcherStopped. Stop is
// idempotent.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	d.stopped = true
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	d.jobs.Close()
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()

	pending := d.jobs.Drain()
	for _, j := range pending {
		d.finish(j, nil, ErrDispatcherStopped)
	}
	d.metrics.SetQueueDepth(0)

	if len(pending) > 0 {
		d.logger.Warn().Int("failed", len(pending)).Msg("dispatcher stopped with queued actions")
	}
}

// work pops jobs until the queue is closed or ctx is cancelled.
func (d *Dispatcher) work(ctx context.Context, worker int) {
	for {
		j, ok := d.jobs.Pop(ctx)
		if !ok {
			return
		}
		d.metrics.SetQueueDepth(d.jobs.Len())
		d.run(ctx, worker, j)
	}
}

// run waits for the slot, invokes the handler and publishes the result.
// Queue wait and invocation times are logged per action.
func (d *Dispatcher) run(ctx context.Context, worker int, j *job) {
	log := d.logger.GetChildLogger()
	log.Logger = log.With().
		Str("action", string(j.req.Name)).
		Str("request_id", j.req.ID).
		Str("store_name", j.req.Store.StoreName).
		Bool("is_global", j.req.Store.IsGlobal).
		Int("worker", worker).
		Logger()

	waitStart := time.Now()
	if err := d.slot.Acquire(ctx); err != nil {
		d.finish(j, nil, fmt.Errorf("%w: %w", ErrDispatcherStopped, err))
		return
	}
	d.metrics.ObserveSlotWait(time.Since(waitStart))

	handlerCtx := log.WithContext(utils.WithRequestID(context.WithoutCancel(ctx), j.req.ID))

	started := time.Now()
	payload, err := d.invoke(handlerCtx, j)
	elapsed := time.Since(started)
	d.metrics.ObserveActionDuration(string(j.req.Name), elapsed)

	if err != nil {
		log.Err(err).
			Str("func", "Dispatcher.run").
			Dur("invoke_time", elapsed).
			Dur("total_time", time.Since(j.enqueued)).
			Msg("action failed")
	} else {
		log.Info().
			Dur("invoke_time", elapsed).
			Dur("total_time", time.Since(j.enqueued)).
			Msg("action completed")
	}

	d.finish(j, payload, err)
}

// invoke runs the handler while holding the slot. The slot is released and a
// panic is turned into an error before invoke returns.
func (d *Dispatcher) invoke(ctx context.Context, j *job) (payload any, err error) {
	defer d.slot.Release()
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
		}
	}()

	return j.handler(ctx, j.req)
}

// finish publishes the job's only result.
func (d *Dispatcher) finish(j *job, payload any, err error) {
	result := models.ActionResult{
		RequestID: j.req.ID,
		Action:    j.req.Name,
		Payload:   payload,
	}

	outcome := metrics.OutcomeSuccess
	if err != nil {
		result.Payload = nil
		result.Err = NewActionError(err, d.classify)
		outcome = metrics.OutcomeFailure
	}
	d.metrics.ActionFinished(string(j.req.Name), outcome)

	deliver := func() { j.result <- result }
	if d.fence == nil {
		deliver()
		return
	}
	d.fence.After(deliver)
}
