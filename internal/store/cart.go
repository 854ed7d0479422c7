package store

import (
	"github.com/shopspring/decimal"

	"kugihands/internal/models"
)

// Cart holds the in-progress order's line items. It is scoped to the
// browsing session and deliberately not persisted: a restart starts with
// an empty cart.
type Cart struct {
	lines []models.CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddItem inserts line, keeping ids unique. Re-adding an existing id
// replaces that line outright (last write wins); quantities are never
// merged. A quantity below 1 is floored to 1.
func (c *Cart) AddItem(line models.CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for i, existing := range c.lines {
		if existing.ID == line.ID {
			c.lines[i] = line
			return
		}
	}
	c.lines = append(c.lines, line)
}

// UpdateQuantity sets the quantity of the line with id, flooring values
// below 1 to 1. Unknown ids are a no-op.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i, line := range c.lines {
		if line.ID == id {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) RemoveItem(id string) {
	for i, line := range c.lines {
		if line.ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart's line items.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of line quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines. Lines whose
// price never parsed as a number contribute zero.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Price.Amount().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// HasParseablePrice reports whether at least one line carries a numeric
// price, which is what makes an order total computable.
func (c *Cart) HasParseablePrice() bool {
	for _, line := range c.lines {
		if line.Price.Parsed() {
			return true
		}
	}
	return false
}
