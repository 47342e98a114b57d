package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "₱0.00", FormatPeso(0))
	assert.Equal(t, "₱0.05", FormatPeso(5))
	assert.Equal(t, "₱9.99", FormatPeso(999))
	assert.Equal(t, "₱1,000.00", FormatPeso(100000))
	assert.Equal(t, "₱1,234,567.89", FormatPeso(123456789))
	assert.Equal(t, "-₱12.50", FormatPeso(-1250))
}
