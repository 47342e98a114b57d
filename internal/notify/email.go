package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dc4ndre/ecommerce-website/internal/util"

	"go.uber.org/zap"
)

// Notifier delivers order status updates to customers.
type Notifier interface {
	SendOrderStatus(ctx context.Context, email string, orderID int64, status, expectedDelivery string) error
}

// EmailNotifier composes order status emails. Actual SMTP delivery is
// disabled in development; the composed message is logged instead, which
// mirrors how the admin-facing layer consumes send outcomes.
type EmailNotifier struct {
	from   string
	logger *zap.Logger
}

// NewEmailNotifier creates a notifier sending from the given address
func NewEmailNotifier(from string) *EmailNotifier {
	return &EmailNotifier{
		from:   from,
		logger: util.GetLogger(),
	}
}

// SendOrderStatus sends an order status update email
func (n *EmailNotifier) SendOrderStatus(ctx context.Context, email string, orderID int64, status, expectedDelivery string) error {
	if email == "" {
		return fmt.Errorf("no customer email for order %d", orderID)
	}

	subject := fmt.Sprintf("Order #%d Status Update", orderID)
	body := composeStatusBody(orderID, status, expectedDelivery)

	// SMTP delivery is stubbed out; log the composed message instead.
	n.logger.Info("Order status email sent",
		zap.String("to", email),
		zap.String("from", n.from),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)))

	util.EmailsSentTotal.Inc()
	return nil
}

// composeStatusBody builds the plain-text email body
func composeStatusBody(orderID int64, status, expectedDelivery string) string {
	var b strings.Builder

	b.WriteString("Dear Valued Customer,\n\n")
	fmt.Fprintf(&b, "Your order #%d status has been updated to: %s\n\n",
		orderID, strings.ToUpper(status))

	if expectedDelivery != "" {
		fmt.Fprintf(&b, "Expected Delivery Date: %s\n\n", expectedDelivery)
	}

	b.WriteString("Thank you for shopping with us!\n\nBest regards,\nBudolBox Team\n")
	return b.String()
}
