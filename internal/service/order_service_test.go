package service

import (
	"context"
	"testing"

	"github.com/dc4ndre/ecommerce-website/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	lines := []store.CartLine{
		{ProductID: 1, Price: 29999, Quantity: 2},
		{ProductID: 2, Price: 500, Quantity: 1},
	}

	expected := int64(2*29999 + 1*500) // 60498 centavos
	assert.Equal(t, expected, cartTotal(lines))
}

func TestCartTotalEmpty(t *testing.T) {
	assert.Equal(t, int64(0), cartTotal(nil))
}

func TestCheckoutRequiresShipping(t *testing.T) {
	os := &OrderService{}

	_, err := os.Checkout(context.Background(), 1, &CheckoutRequest{
		Address: "",
		Contact: "09171234567",
	})
	assert.ErrorIs(t, err, ErrMissingShipping)

	_, err = os.Checkout(context.Background(), 1, &CheckoutRequest{
		Address: "123 Mabini St, Manila",
		Contact: "",
	})
	assert.ErrorIs(t, err, ErrMissingShipping)
}
