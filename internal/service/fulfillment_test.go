package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dc4ndre/ecommerce-website/config"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStatusStore records guarded transitions in memory.
type fakeStatusStore struct {
	mu       sync.Mutex
	status   map[int64]string
	failures int // number of writes to fail before succeeding
}

func newFakeStatusStore() *fakeStatusStore {
	return &fakeStatusStore{status: make(map[int64]string)}
}

func (f *fakeStatusStore) AdvanceOrderStatus(_ context.Context, orderID int64, from, to string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return false, errors.New("write failed")
	}
	if f.status[orderID] != from {
		return false, nil
	}
	f.status[orderID] = to
	return true, nil
}

func (f *fakeStatusStore) GetOrderCustomerEmail(_ context.Context, _ int64) (string, error) {
	return "buyer@example.com", nil
}

func (f *fakeStatusStore) get(orderID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status[orderID]
}

// fakePublisher collects published status events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*models.OrderStatusChangedEvent
}

func (p *fakePublisher) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Status)
	}
	return out
}

func fastConfig() config.FulfillmentConfig {
	return config.FulfillmentConfig{
		StepDelay:    time.Millisecond,
		WriteRetries: 3,
		RetryBackoff: time.Millisecond,
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestFulfillerWalksStatusSequence(t *testing.T) {
	st := newFakeStatusStore()
	st.status[1] = models.OrderStatusPending

	queue := state.NewOrderQueue()
	queue.Enqueue(state.OrderJob{OrderID: 1, UserID: 7, Total: 100, Status: models.OrderStatusPending})

	pub := &fakePublisher{}
	f := NewFulfiller(st, queue, pub, fastConfig())
	defer f.Stop()

	job, ok := f.ProcessNext(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(1), job.OrderID)

	waitFor(t, func() bool { return st.get(1) == models.OrderStatusDelivered })
	f.Stop()

	assert.Equal(t,
		[]string{models.OrderStatusProcessing, models.OrderStatusShipping, models.OrderStatusDelivered},
		pub.statuses())
}

func TestFulfillerEmptyQueue(t *testing.T) {
	f := NewFulfiller(newFakeStatusStore(), state.NewOrderQueue(), &fakePublisher{}, fastConfig())
	defer f.Stop()

	_, ok := f.ProcessNext(context.Background())
	assert.False(t, ok)
}

func TestFulfillerRetriesTransientWriteFailure(t *testing.T) {
	st := newFakeStatusStore()
	st.status[1] = models.OrderStatusPending
	st.failures = 2 // first two writes fail, third succeeds

	queue := state.NewOrderQueue()
	queue.Enqueue(state.OrderJob{OrderID: 1, Status: models.OrderStatusPending})

	f := NewFulfiller(st, queue, &fakePublisher{}, fastConfig())
	defer f.Stop()

	_, ok := f.ProcessNext(context.Background())
	require.True(t, ok)

	waitFor(t, func() bool { return st.get(1) == models.OrderStatusDelivered })
}

func TestFulfillerStopsAfterAdminOverride(t *testing.T) {
	st := newFakeStatusStore()
	// An admin already cancelled the order; the guarded write must not
	// resurrect it.
	st.status[1] = models.OrderStatusCancelled

	queue := state.NewOrderQueue()
	queue.Enqueue(state.OrderJob{OrderID: 1, Status: models.OrderStatusPending})

	pub := &fakePublisher{}
	f := NewFulfiller(st, queue, pub, fastConfig())

	_, ok := f.ProcessNext(context.Background())
	require.True(t, ok)
	f.Stop()

	assert.Equal(t, models.OrderStatusCancelled, st.get(1))
	assert.Empty(t, pub.statuses())
}

func TestFulfillerAbortsAfterRetryExhaustion(t *testing.T) {
	st := newFakeStatusStore()
	st.status[1] = models.OrderStatusPending
	st.failures = 100 // never recovers

	queue := state.NewOrderQueue()
	queue.Enqueue(state.OrderJob{OrderID: 1, Status: models.OrderStatusPending})

	f := NewFulfiller(st, queue, &fakePublisher{}, fastConfig())

	_, ok := f.ProcessNext(context.Background())
	require.True(t, ok)
	f.Stop()

	// The walk gave up without committing any transition.
	assert.Equal(t, models.OrderStatusPending, st.get(1))
}
