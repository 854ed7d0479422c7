package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"kugihands/internal/models"
)

// Summary renders the confirmation text shown after an order is placed.
// Lines without a numeric price print their raw price string instead of a
// computed line total.
func Summary(o *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order ID: %s\n\n", o.ID)
	for _, item := range o.Items {
		total := item.Price.String()
		if item.Price.Parsed() {
			amount := item.Price.Amount().Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = "₱" + amount.StringFixed(2)
		}
		fmt.Fprintf(&b, "%s (%s) - Qty: %d - %s\n", item.Name, item.Set, item.Quantity, total)
	}
	fmt.Fprintf(&b, "\nSubtotal: ₱%.2f\nDelivery Fee: ₱%.2f\nTotal: ₱%.2f\n", o.Subtotal, o.DeliveryFee, o.Total)
	return b.String()
}
