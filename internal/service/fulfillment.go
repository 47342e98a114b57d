package service

import (
	"context"
	"sync"
	"time"

	"github.com/dc4ndre/ecommerce-website/config"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/state"
	"github.com/dc4ndre/ecommerce-website/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderStatusStore is the slice of the store the fulfiller needs.
type orderStatusStore interface {
	AdvanceOrderStatus(ctx context.Context, orderID int64, from, to string) (bool, error)
	GetOrderCustomerEmail(ctx context.Context, orderID int64) (string, error)
}

// statusPublisher publishes committed status transitions.
type statusPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Fulfiller drains the order queue. Each dequeued job gets its own
// background task that walks the fixed status sequence with a delay
// between steps. Every status write is guarded by the expected prior
// status, so a retry or a concurrent admin override can never move an
// order backwards; a write that reports no rows ends the walk. Stop
// cancels all tasks and waits for them, attempting a best-effort final
// write for any job caught mid-sequence.
type Fulfiller struct {
	store     orderStatusStore
	queue     *state.OrderQueue
	publisher statusPublisher
	cfg       config.FulfillmentConfig
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFulfiller creates a new fulfiller
func NewFulfiller(st orderStatusStore, queue *state.OrderQueue, publisher statusPublisher, cfg config.FulfillmentConfig) *Fulfiller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Fulfiller{
		store:     st,
		queue:     queue,
		publisher: publisher,
		cfg:       cfg,
		logger:    util.GetLogger(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ProcessNext dequeues the oldest pending job and starts its background
// status walk. The second return value is false when the queue is empty.
// The dequeued job belongs exclusively to the spawned task; a task that
// dies does not requeue it.
func (f *Fulfiller) ProcessNext(ctx context.Context) (state.OrderJob, bool) {
	_, span := util.StartSpan(ctx, "Fulfiller.ProcessNext")
	defer span.End()

	job, ok := f.queue.Dequeue()
	if !ok {
		return state.OrderJob{}, false
	}
	util.OrderQueueDepth.Set(float64(f.queue.Len()))
	util.OrdersProcessedTotal.Inc()

	f.logger.Info("Order dequeued for fulfillment",
		zap.Int64("order_id", job.OrderID),
		zap.Int64("total", job.Total))

	f.wg.Add(1)
	go f.advance(job)

	return job, true
}

// Stop cancels every in-flight status walk and waits for them to finish.
func (f *Fulfiller) Stop() {
	f.cancel()
	f.wg.Wait()
}

// advance walks the job through the fulfillment sequence. Transitions
// within one job are strictly sequential: the next status is not written
// until the previous write committed.
func (f *Fulfiller) advance(job state.OrderJob) {
	defer f.wg.Done()

	email := f.customerEmail(job.OrderID)

	prev := job.Status
	for _, next := range models.FulfillmentSequence {
		timer := time.NewTimer(f.cfg.StepDelay)
		select {
		case <-f.ctx.Done():
			timer.Stop()
			f.finalWrite(job.OrderID, prev, next)
			return
		case <-timer.C:
		}

		advanced, err := f.writeWithRetry(job.OrderID, prev, next)
		if err != nil {
			// Abort the remaining transitions; the last committed status
			// stands and the admin surface shows where the walk stopped.
			util.FulfillmentStepsTotal.WithLabelValues(next, "error").Inc()
			f.logger.Error("Aborting fulfillment walk",
				zap.Int64("order_id", job.OrderID),
				zap.String("status", next),
				zap.Error(err))
			return
		}
		if !advanced {
			util.FulfillmentStepsTotal.WithLabelValues(next, "skipped").Inc()
			f.logger.Info("Order already moved on, ending walk",
				zap.Int64("order_id", job.OrderID),
				zap.String("expected", prev))
			return
		}

		util.FulfillmentStepsTotal.WithLabelValues(next, "ok").Inc()
		f.publishStatus(job, next, email)
		prev = next
	}

	f.logger.Info("Order fulfillment complete", zap.Int64("order_id", job.OrderID))
}

// writeWithRetry writes one guarded transition with bounded retry and
// backoff. Gives up early when the fulfiller is shutting down.
func (f *Fulfiller) writeWithRetry(orderID int64, from, to string) (bool, error) {
	var lastErr error

	attempts := f.cfg.WriteRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		advanced, err := f.store.AdvanceOrderStatus(f.ctx, orderID, from, to)
		if err == nil {
			return advanced, nil
		}
		lastErr = err

		f.logger.Warn("Status write failed",
			zap.Int64("order_id", orderID),
			zap.String("status", to),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == attempts {
			break
		}
		timer := time.NewTimer(f.cfg.RetryBackoff * time.Duration(attempt))
		select {
		case <-f.ctx.Done():
			timer.Stop()
			return false, f.ctx.Err()
		case <-timer.C:
		}
	}
	return false, lastErr
}

// finalWrite makes one best-effort attempt to commit the interrupted
// transition on a detached context, so shutdown does not strand the order
// between statuses. The guarded update keeps it safe if the order has
// already moved on.
func (f *Fulfiller) finalWrite(orderID int64, from, to string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	advanced, err := f.store.AdvanceOrderStatus(ctx, orderID, from, to)
	if err != nil {
		f.logger.Error("Best-effort final status write failed",
			zap.Int64("order_id", orderID),
			zap.String("status", to),
			zap.Error(err))
		return
	}
	if advanced {
		f.logger.Info("Committed final status before shutdown",
			zap.Int64("order_id", orderID),
			zap.String("status", to))
	}
}

// publishStatus publishes a committed transition; failures are logged and
// do not stop the walk.
func (f *Fulfiller) publishStatus(job state.OrderJob, status, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:       job.OrderID,
		UserID:        job.UserID,
		Status:        status,
		CustomerEmail: email,
	}
	if err := f.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		f.logger.Error("Failed to publish OrderStatusChanged event",
			zap.Int64("order_id", job.OrderID),
			zap.Error(err))
	}
}

// customerEmail resolves the customer's email once per job
func (f *Fulfiller) customerEmail(orderID int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	email, err := f.store.GetOrderCustomerEmail(ctx, orderID)
	if err != nil {
		f.logger.Warn("Failed to look up customer email",
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return ""
	}
	return email
}
