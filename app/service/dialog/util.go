package dialog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"warungbot/app/client/backend"

	"github.com/elliotchance/pie/v2"
)

// Optional leading +, then digits, spaces and hyphens only.
var phonePattern = regexp.MustCompile(`^\+?[\d\s-]+$`)

func formatOrderDate(raw string) string {
	if raw == "" {
		return "N/A"
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}

	return raw
}

func merchantNameFor(merchants []backend.Merchant, merchantID string) string {
	idx := pie.FindFirstUsing(merchants, func(m backend.Merchant) bool {
		return m.MerchantID == merchantID
	})
	if idx < 0 {
		return "N/A"
	}

	return merchants[idx].MerchantName
}

func renderOrderItems(items []backend.OrderItem, indent string) string {
	var builder strings.Builder

	for _, item := range items {
		name := "N/A"
		if item.Product != nil {
			name = item.Product.Name
		}

		builder.WriteString(fmt.Sprintf("%s• %s (x%d)\n", indent, name, item.Quantity))
	}

	return builder.String()
}
