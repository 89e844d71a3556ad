package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/utils"
	"github.com/MKhiriev/go-sync-bridge/models"
)

const testTimeout = 2 * time.Second

func newTestDispatcher(t *testing.T, registry *Registry, opts ...Option) *Dispatcher {
	t.Helper()

	opts = append([]Option{WithSlot(NewSlot())}, opts...)
	d := New(registry, logger.Nop(), opts...)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(d.Stop)
	return d
}

func await(t *testing.T, ch <-chan models.ActionResult) models.ActionResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(testTimeout):
		t.Fatal("no result delivered")
		return models.ActionResult{}
	}
}

func registryWith(name models.ActionName, h Handler) *Registry {
	r := NewRegistry()
	r.Register(name, h)
	return r
}

func TestDispatcher_SubmitDoesNotRunHandlerInline(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := registryWith(models.ActionPush, func(context.Context, models.ActionRequest) (any, error) {
		close(started)
		<-release
		return "done", nil
	})
	d := newTestDispatcher(t, r)

	res, err := d.Submit(models.ActionRequest{Name: models.ActionPush})
	require.NoError(t, err, "Submit returned while the handler is still blocked")

	<-started
	close(release)

	got := await(t, res)
	assert.True(t, got.OK())
	assert.Equal(t, "done", got.Payload)
	assert.Equal(t, models.ActionPush, got.Action)
	assert.NotEmpty(t, got.RequestID)
}

func TestDispatcher_UnknownActionIsRejectedSynchronously(t *testing.T) {
	slot := NewSlot()
	require.True(t, slot.TryAcquire(), "slot held by the test")
	defer slot.Release()

	var called atomic.Bool
	r := registryWith(models.ActionPush, func(context.Context, models.ActionRequest) (any, error) {
		called.Store(true)
		return nil, nil
	})
	d := New(r, logger.Nop(), WithSlot(slot))
	require.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	res, err := d.Submit(models.ActionRequest{Name: "explode"})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, 0, d.jobs.Len(), "nothing queued")
	assert.False(t, called.Load())
}

func TestDispatcher_HandlersNeverOverlap(t *testing.T) {
	var active, maxActive, runs atomic.Int32
	handler := func(context.Context, models.ActionRequest) (any, error) {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		runs.Add(1)
		active.Add(-1)
		return nil, nil
	}

	r := NewRegistry()
	r.Register(models.ActionPush, handler)
	r.Register(models.ActionPull, handler)
	d := newTestDispatcher(t, r, WithPoolSize(4))

	var wg sync.WaitGroup
	results := make(chan (<-chan models.ActionResult), 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := models.ActionPush
			if i%2 == 0 {
				name = models.ActionPull
			}
			res, err := d.Submit(models.ActionRequest{
				Name:  name,
				Store: models.StoreRef{StoreName: fmt.Sprintf("store-%d", i)},
			})
			assert.NoError(t, err)
			results <- res
		}(i)
	}
	wg.Wait()
	close(results)

	for res := range results {
		assert.True(t, await(t, res).OK())
	}
	assert.Equal(t, int32(20), runs.Load())
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestDispatcher_SharedSlotSerializesDispatchers(t *testing.T) {
	slot := NewSlot()
	var active, maxActive atomic.Int32
	handler := func(context.Context, models.ActionRequest) (any, error) {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return nil, nil
	}

	a := newTestDispatcher(t, registryWith(models.ActionPush, handler), WithSlot(slot))
	b := newTestDispatcher(t, registryWith(models.ActionPull, handler), WithSlot(slot))

	var pending []<-chan models.ActionResult
	for i := 0; i < 5; i++ {
		ra, err := a.Submit(models.ActionRequest{Name: models.ActionPush})
		require.NoError(t, err)
		rb, err := b.Submit(models.ActionRequest{Name: models.ActionPull})
		require.NoError(t, err)
		pending = append(pending, ra, rb)
	}
	for _, res := range pending {
		await(t, res)
	}

	assert.Equal(t, int32(1), maxActive.Load())
}

func TestDispatcher_SingleWorkerKeepsSubmissionOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	r := registryWith(models.ActionStatus, func(_ context.Context, req models.ActionRequest) (any, error) {
		mu.Lock()
		order = append(order, req.ID)
		mu.Unlock()
		return nil, nil
	})
	d := newTestDispatcher(t, r)

	var last <-chan models.ActionResult
	var want []string
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("req-%d", i)
		want = append(want, id)
		res, err := d.Submit(models.ActionRequest{ID: id, Name: models.ActionStatus})
		require.NoError(t, err)
		last = res
	}
	await(t, last)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, order)
}

func TestDispatcher_FailureReleasesSlot(t *testing.T) {
	slot := NewSlot()
	r := NewRegistry()
	r.Register(models.ActionPush, func(context.Context, models.ActionRequest) (any, error) {
		return nil, errors.New("remote rejected the batch")
	})
	r.Register(models.ActionStatus, func(context.Context, models.ActionRequest) (any, error) {
		return "ok", nil
	})
	d := newTestDispatcher(t, r, WithSlot(slot))

	res, err := d.Submit(models.ActionRequest{Name: models.ActionPush})
	require.NoError(t, err)
	failed := await(t, res)

	require.False(t, failed.OK())
	assert.Nil(t, failed.Payload)
	assert.Equal(t, models.ErrorKindExecution, failed.Err.Kind)
	assert.Equal(t, "remote rejected the batch", failed.Err.Message)

	res, err = d.Submit(models.ActionRequest{Name: models.ActionStatus})
	require.NoError(t, err)
	assert.Equal(t, "ok", await(t, res).Payload)

	assert.True(t, slot.TryAcquire(), "slot is free after both actions")
	slot.Release()
}

func TestDispatcher_PanicBecomesExecutionError(t *testing.T) {
	slot := NewSlot()
	r := NewRegistry()
	r.Register(models.ActionResync, func(context.Context, models.ActionRequest) (any, error) {
		panic("nil store")
	})
	r.Register(models.ActionStatus, func(context.Context, models.ActionRequest) (any, error) {
		return "alive", nil
	})
	d := newTestDispatcher(t, r, WithSlot(slot))

	res, err := d.Submit(models.ActionRequest{Name: models.ActionResync})
	require.NoError(t, err)
	got := await(t, res)

	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindExecution, got.Err.Kind)
	assert.Contains(t, got.Err.Message, "nil store")

	res, err = d.Submit(models.ActionRequest{Name: models.ActionStatus})
	require.NoError(t, err)
	assert.Equal(t, "alive", await(t, res).Payload)
}

func TestDispatcher_Classifier(t *testing.T) {
	errNoSync := errors.New("sync not found")
	r := registryWith(models.ActionStatus, func(context.Context, models.ActionRequest) (any, error) {
		return nil, fmt.Errorf("status 42: %w", errNoSync)
	})
	table := KindTable{{Err: errNoSync, Kind: models.ErrorKindNotFound}}
	d := newTestDispatcher(t, r, WithClassifier(table.Classify))

	res, err := d.Submit(models.ActionRequest{Name: models.ActionStatus})
	require.NoError(t, err)
	got := await(t, res)

	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindNotFound, got.Err.Kind)
	assert.Equal(t, "status 42: sync not found", got.Err.Message)
}

func TestDispatcher_AcknowledgementHasNoPayload(t *testing.T) {
	r := registryWith(models.ActionPurgeGhosts, func(context.Context, models.ActionRequest) (any, error) {
		return nil, nil
	})
	d := newTestDispatcher(t, r)

	res, err := d.Submit(models.ActionRequest{Name: models.ActionPurgeGhosts})
	require.NoError(t, err)
	got := await(t, res)

	assert.True(t, got.OK())
	assert.Nil(t, got.Payload)
}

func TestDispatcher_HandlerContext(t *testing.T) {
	type seen struct {
		requestID string
		ok        bool
	}
	ch := make(chan seen, 1)
	r := registryWith(models.ActionPull, func(ctx context.Context, req models.ActionRequest) (any, error) {
		id, ok := utils.GetRequestIDFromContext(ctx)
		assert.Equal(t, req.ID, id)
		ch <- seen{requestID: id, ok: ok}
		return nil, nil
	})
	d := newTestDispatcher(t, r)

	res, err := d.Submit(models.ActionRequest{Name: models.ActionPull})
	require.NoError(t, err)
	got := await(t, res)

	s := <-ch
	assert.True(t, s.ok)
	assert.Equal(t, got.RequestID, s.requestID)
}

func TestDispatcher_StopFailsQueuedActions(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var handlerCtxErr atomic.Value
	r := registryWith(models.ActionPush, func(ctx context.Context, req models.ActionRequest) (any, error) {
		if req.ID == "first" {
			close(started)
			<-release
			handlerCtxErr.Store(fmt.Sprint(ctx.Err()))
		}
		return req.ID, nil
	})
	d := New(r, logger.Nop(), WithSlot(NewSlot()))
	require.NoError(t, d.Start(context.Background()))

	first, err := d.Submit(models.ActionRequest{ID: "first", Name: models.ActionPush})
	require.NoError(t, err)
	<-started

	second, err := d.Submit(models.ActionRequest{ID: "second", Name: models.ActionPush})
	require.NoError(t, err)
	third, err := d.Submit(models.ActionRequest{ID: "third", Name: models.ActionPush})
	require.NoError(t, err)

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a handler was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-stopped

	assert.Equal(t, "first", await(t, first).Payload, "running action completes")
	assert.Equal(t, "<nil>", handlerCtxErr.Load(), "handler context is not cancelled by Stop")

	for _, res := range []<-chan models.ActionResult{second, third} {
		got := await(t, res)
		require.NotNil(t, got.Err)
		assert.Equal(t, models.ErrorKindExecution, got.Err.Kind)
		assert.Contains(t, got.Err.Message, ErrDispatcherStopped.Error())
	}

	_, err = d.Submit(models.ActionRequest{Name: models.ActionPush})
	assert.ErrorIs(t, err, ErrDispatcherStopped)
	assert.ErrorIs(t, d.Start(context.Background()), ErrDispatcherStopped)
	d.Stop()
}

func TestDispatcher_QueuedBeforeStart(t *testing.T) {
	r := registryWith(models.ActionStatus, func(context.Context, models.ActionRequest) (any, error) {
		return 1, nil
	})
	d := New(r, logger.Nop(), WithSlot(NewSlot()))

	res, err := d.Submit(models.ActionRequest{Name: models.ActionStatus})
	require.NoError(t, err)

	require.NoError(t, d.Start(context.Background()))
	require.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	assert.Equal(t, 1, await(t, res).Payload)
}

func TestDispatcher_ResultFollowsProgressEvents(t *testing.T) {
	var mu sync.Mutex
	var timeline []string
	record := func(s string) {
		mu.Lock()
		timeline = append(timeline, s)
		mu.Unlock()
	}

	sink := bridge.SinkFunc(func(_ context.Context, e models.ProgressEvent) error {
		// a slow sink must not let the result overtake the events
		time.Sleep(5 * time.Millisecond)
		record(fmt.Sprintf("E%d", e.SyncState.Progress))
		return nil
	})
	b := bridge.New(sink, logger.Nop(), nil)
	require.NoError(t, b.Start(context.Background()))
	defer b.Stop()

	r := registryWith(models.ActionPush, func(_ context.Context, req models.ActionRequest) (any, error) {
		update := b.Updater(req.Store)
		for i := 1; i <= 3; i++ {
			update(models.SyncState{ID: 1, Status: models.SyncStatusRunning, Progress: i})
		}
		return models.SyncState{ID: 1, Status: models.SyncStatusDone}, nil
	})
	d := newTestDispatcher(t, r, WithResultFence(b))

	res, err := d.Submit(models.ActionRequest{Name: models.ActionPush})
	require.NoError(t, err)
	got := await(t, res)
	record("result")

	assert.Equal(t, models.SyncStatusDone, got.Payload.(models.SyncState).Status)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"E1", "E2", "E3", "result"}, timeline)
}
