package actions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-bridge/internal/bridge"
	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/dispatcher"
	"github.com/MKhiriev/go-sync-bridge/internal/locator"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/mock"
	"github.com/MKhiriev/go-sync-bridge/models"
)

// timelineSink records events and results in the order they are observed.
type timelineSink struct {
	mu       sync.Mutex
	timeline []string
	events   []models.ProgressEvent
}

func (s *timelineSink) Deliver(_ context.Context, e models.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	s.timeline = append(s.timeline, "event:"+string(e.SyncState.Status))
	return nil
}

func (s *timelineSink) observe(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = append(s.timeline, label)
}

func (s *timelineSink) snapshot() ([]string, []models.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.timeline...), append([]models.ProgressEvent(nil), s.events...)
}

type stack struct {
	dispatcher *dispatcher.Dispatcher
	slot       *dispatcher.Slot
	sink       *timelineSink
	remote     *mock.MockRemoteAdapter
}

// newStack wires a dispatcher, a bridge and a real locator over SQLite stores
// in a temp dir. The default user store exists; nothing else does.
func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()
	remote := mock.NewMockRemoteAdapter(gomock.NewController(t))

	loc := locator.New(config.Storage{Dir: t.TempDir(), DefaultStoreName: defaultStore}, config.App{UserID: 1}, remote, logger.Nop())
	t.Cleanup(func() { _ = loc.Close() })
	_, err := loc.Ensure(ctx, models.StoreRef{StoreName: defaultStore})
	require.NoError(t, err)

	sink := &timelineSink{}
	b := bridge.New(sink, logger.Nop(), nil)
	require.NoError(t, b.Start(ctx))
	t.Cleanup(b.Stop)

	registry := dispatcher.NewRegistry()
	NewInvoker(loc, b, defaultStore).Register(registry)

	slot := dispatcher.NewSlot()
	d := dispatcher.New(registry, logger.Nop(),
		dispatcher.WithSlot(slot),
		dispatcher.WithResultFence(b),
		dispatcher.WithClassifier(Classify),
	)
	require.NoError(t, d.Start(ctx))
	t.Cleanup(d.Stop)

	return &stack{dispatcher: d, slot: slot, sink: sink, remote: remote}
}

func (s *stack) run(t *testing.T, name models.ActionName, args models.ActionArgs) models.ActionResult {
	t.Helper()

	res, err := s.dispatcher.Submit(NewRequest(name, args, defaultStore))
	require.NoError(t, err)

	select {
	case got := <-res:
		s.sink.observe("result")
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("no result")
		return models.ActionResult{}
	}
}

func TestDispatch_PushEmitsProgressBeforeResult(t *testing.T) {
	s := newStack(t)

	got := s.run(t, models.ActionPush, models.ActionArgs{
		Target:   json.RawMessage(`{"type":"soql","query":"SELECT Id FROM Account"}`),
		SoupName: "accounts",
	})

	require.True(t, got.OK(), "%+v", got.Err)
	final, ok := got.Payload.(models.SyncState)
	require.True(t, ok)
	assert.Equal(t, models.SyncStatusDone, final.Status)

	timeline, events := s.sink.snapshot()
	assert.Equal(t, []string{"event:RUNNING", "event:DONE", "result"}, timeline)
	require.Len(t, events, 2)
	assert.Equal(t, final, events[1].SyncState)
	assert.Equal(t, defaultStore, events[1].StoreName)
	assert.False(t, events[1].IsGlobal)
}

func TestDispatch_PurgeGhostsUnknownSync(t *testing.T) {
	s := newStack(t)

	got := s.run(t, models.ActionPurgeGhosts, models.ActionArgs{SyncID: ptr(int64(42))})

	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindNotFound, got.Err.Kind)
	assert.Contains(t, got.Err.Message, "42")

	_, events := s.sink.snapshot()
	assert.Empty(t, events)
}

func TestDispatch_StatusUnknownSyncReleasesSlot(t *testing.T) {
	s := newStack(t)

	got := s.run(t, models.ActionStatus, models.ActionArgs{SyncID: ptr(int64(7))})

	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindNotFound, got.Err.Kind)
	assert.True(t, s.slot.TryAcquire())
	s.slot.Release()
}

func TestDispatch_MissingStore(t *testing.T) {
	s := newStack(t)

	got := s.run(t, models.ActionStatus, models.ActionArgs{SyncID: ptr(int64(1)), IsGlobalStore: ptr(true)})

	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindNotFound, got.Err.Kind)
}

func TestDispatch_UnknownActionTouchesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	loc := mock.NewMockStoreLocator(ctrl) // any call fails the test

	registry := dispatcher.NewRegistry()
	NewInvoker(loc, bridge.New(&timelineSink{}, logger.Nop(), nil), defaultStore).Register(registry)

	slot := dispatcher.NewSlot()
	require.True(t, slot.TryAcquire())
	defer slot.Release()

	d := dispatcher.New(registry, logger.Nop(), dispatcher.WithSlot(slot), dispatcher.WithClassifier(Classify))
	require.NoError(t, d.Start(context.Background()))
	defer d.Stop()

	res, err := d.Submit(NewRequest(models.ParseActionName("dropSoup"), models.ActionArgs{}, defaultStore))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, dispatcher.ErrUnknownAction)
	assert.Equal(t, models.ErrorKindRouting, Classify(err))
}

func TestDispatch_LegacyNames(t *testing.T) {
	s := newStack(t)

	got := s.run(t, models.ParseActionName("getSyncStatus"), models.ActionArgs{SyncID: ptr(int64(1))})

	assert.Equal(t, models.ActionStatus, got.Action)
	require.NotNil(t, got.Err)
	assert.Equal(t, models.ErrorKindNotFound, got.Err.Kind)
}

func TestDispatch_FailedPullDoesNotBlockNextAction(t *testing.T) {
	s := newStack(t)
	args := models.ActionArgs{
		Target:   json.RawMessage(`{"type":"soql","query":"SELECT Id FROM Account"}`),
		SoupName: "accounts",
		Options:  json.RawMessage(`{}`),
	}

	gomock.InOrder(
		s.remote.EXPECT().Query(gomock.Any(), gomock.Any()).Return(models.QueryPage{}, nil),
		s.remote.EXPECT().Query(gomock.Any(), gomock.Any()).Return(models.QueryPage{}, errors.New("gateway timeout")),
	)

	first := s.run(t, models.ActionPull, args)
	require.True(t, first.OK(), "%+v", first.Err)

	failed := s.run(t, models.ActionPull, args)
	require.NotNil(t, failed.Err)
	assert.Equal(t, models.ErrorKindExecution, failed.Err.Kind)
	assert.Contains(t, failed.Err.Message, "gateway timeout")

	status := s.run(t, models.ActionStatus, models.ActionArgs{SyncID: ptr(int64(2))})
	require.True(t, status.OK(), "%+v", status.Err)
	assert.Equal(t, models.SyncStatusFailed, status.Payload.(models.SyncState).Status)
	assert.Contains(t, status.Payload.(models.SyncState).Error, "gateway timeout")
}
