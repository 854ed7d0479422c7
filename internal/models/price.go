package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a product price as it appears in the catalog: usually a plain
// number, but custom items carry a pre-formatted string such as "₱300.00"
// or "Price may vary". Both forms survive a JSON round trip unchanged, and
// both feed the same total computation: a string price has its currency
// symbol and thousands separators stripped before parsing, and a price
// that still does not parse contributes zero to any total.
type Price struct {
	amount   decimal.Decimal
	display  string
	isString bool
	parsed   bool
}

func NewPrice(amount float64) Price {
	return Price{amount: decimal.NewFromFloat(amount), parsed: true}
}

func PriceFromDecimal(d decimal.Decimal) Price {
	return Price{amount: d, parsed: true}
}

func PriceFromString(s string) Price {
	p := Price{display: s, isString: true}
	if d, ok := parsePriceString(s); ok {
		p.amount = d
		p.parsed = true
	}
	return p
}

func parsePriceString(s string) (decimal.Decimal, bool) {
	cleaned := strings.NewReplacer("₱", "", "$", "", ",", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Amount is the numeric value used for totals; zero when the price never
// parsed as a number.
func (p Price) Amount() decimal.Decimal {
	if !p.parsed {
		return decimal.Zero
	}
	return p.amount
}

// Parsed reports whether the price carries a usable numeric value.
func (p Price) Parsed() bool { return p.parsed }

func (p Price) String() string {
	if p.isString {
		return p.display
	}
	return "₱" + p.amount.StringFixed(2)
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.isString {
		return json.Marshal(p.display)
	}
	return json.Marshal(p.amount.InexactFloat64())
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PriceFromString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return err
	}
	*p = PriceFromDecimal(d)
	return nil
}
