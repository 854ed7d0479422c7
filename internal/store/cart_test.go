package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kugihands/internal/models"
)

func line(id string, price models.Price, qty int, option string) models.CartLine {
	return models.CartLine{ID: id, Name: "Flowers", Price: price, Quantity: qty, DeliveryOption: option}
}

func TestCartUniqueIDs(t *testing.T) {
	cart := NewCart()
	cart.AddItem(line("fresh-a", models.NewPrice(380), 2, models.OptionDelivery))
	cart.AddItem(line("fresh-a", models.NewPrice(380), 5, models.OptionPickup))

	lines := cart.Lines()
	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity, "re-adding an id replaces the line")
	assert.Equal(t, models.OptionPickup, lines[0].DeliveryOption)
}

func TestCartQuantityNeverBelowOne(t *testing.T) {
	cart := NewCart()
	cart.AddItem(line("fresh-a", models.NewPrice(380), 0, models.OptionDelivery))
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	cart.UpdateQuantity("fresh-a", -3)
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	cart.UpdateQuantity("fresh-a", 4)
	assert.Equal(t, 4, cart.Lines()[0].Quantity)

	// unknown id is a no-op
	cart.UpdateQuantity("ghost", 9)
	assert.Len(t, cart.Lines(), 1)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	cart.AddItem(line("a", models.NewPrice(100), 1, models.OptionDelivery))
	cart.AddItem(line("b", models.NewPrice(200), 1, models.OptionDelivery))

	cart.RemoveItem("a")
	assert.Len(t, cart.Lines(), 1)
	cart.RemoveItem("a")
	assert.Len(t, cart.Lines(), 1)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalItems())
}

func TestCartTotals(t *testing.T) {
	cart := NewCart()
	cart.AddItem(line("a", models.NewPrice(380), 2, models.OptionDelivery))
	cart.AddItem(line("b", models.PriceFromString("₱300.00"), 1, models.OptionPickup))
	cart.AddItem(line("c", models.PriceFromString("Price may vary"), 3, models.OptionPickup))

	assert.Equal(t, 6, cart.TotalItems())
	assert.Equal(t, "1060", cart.TotalPrice().String(), "unparseable price contributes zero")
	assert.True(t, cart.HasParseablePrice())
}

func TestCartNoParseablePrice(t *testing.T) {
	cart := NewCart()
	cart.AddItem(line("c", models.PriceFromString("Price may vary"), 1, models.OptionDelivery))
	assert.False(t, cart.HasParseablePrice())
	assert.Equal(t, "0", cart.TotalPrice().String())
}
