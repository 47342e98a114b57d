package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeStatusBody(t *testing.T) {
	body := composeStatusBody(42, "shipping", "2026-09-05")

	assert.Contains(t, body, "order #42")
	assert.Contains(t, body, "SHIPPING")
	assert.Contains(t, body, "Expected Delivery Date: 2026-09-05")
}

func TestComposeStatusBodyNoDelivery(t *testing.T) {
	body := composeStatusBody(7, "processing", "")

	assert.Contains(t, body, "PROCESSING")
	assert.NotContains(t, body, "Expected Delivery Date")
}

func TestSendOrderStatusRequiresEmail(t *testing.T) {
	n := NewEmailNotifier("shop@budolbox.test")

	err := n.SendOrderStatus(context.Background(), "", 1, "processing", "")
	require.Error(t, err)

	err = n.SendOrderStatus(context.Background(), "buyer@example.com", 1, "processing", "")
	assert.NoError(t, err)
}
