package worker

import (
	"context"
	"log"

	"github.com/dc4ndre/ecommerce-website/internal/broker"
	"github.com/dc4ndre/ecommerce-website/internal/models"
	"github.com/dc4ndre/ecommerce-website/internal/notify"
)

// NotificationWorker consumes order events and emails customers about
// status changes.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	notifier     notify.Notifier
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifier notify.Notifier) *NotificationWorker {
	eventHandler := broker.NewEventHandler()

	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		notifier:     notifier,
	}

	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(_ context.Context, event *models.OrderPlacedEvent) error {
	log.Printf("Order placed: id=%d user=%d total=%d", event.OrderID, event.UserID, event.TotalAmount)
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	if event.CustomerEmail == "" {
		log.Printf("No customer email for order %d, skipping notification", event.OrderID)
		return nil
	}
	return w.notifier.SendOrderStatus(ctx, event.CustomerEmail, event.OrderID, event.Status, event.ExpectedDelivery)
}
