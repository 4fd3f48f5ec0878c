package backend

import (
	"strconv"
	"strings"
)

// FormatRupiah renders a price with thousands separators, e.g. "Rp1.500.000".
func FormatRupiah(value float64) string {
	digits := strconv.FormatInt(int64(value), 10)

	var builder strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteByte('.')
		}
		builder.WriteRune(r)
	}

	return "Rp" + builder.String()
}
