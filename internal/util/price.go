package util

import (
	"fmt"
	"strconv"
)

// FormatPeso renders an amount in centavos as a peso string with comma
// grouping, e.g. 123456789 -> "₱1,234,567.89".
func FormatPeso(centavos int64) string {
	negative := centavos < 0
	if negative {
		centavos = -centavos
	}

	whole := centavos / 100
	frac := centavos % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s₱%s.%02d", sign, grouped, frac)
}
