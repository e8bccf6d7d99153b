// Package pricing computes cart and order totals in a three-decimal
// currency. It is shared by the client-side cart view and by the cart and
// order services so both sides agree on every figure.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of minor-unit digits of the shop currency.
const Places int32 = 3

type ShippingOption string

const (
	Pickup   ShippingOption = "pickup"
	Delivery ShippingOption = "delivery"
)

var (
	DeliveryCost = decimal.RequireFromString("2.200")
	VATRate      = decimal.RequireFromString("0.10")
)

var ErrUnknownShipping = errors.New("unknown shipping option")

func ParseShipping(s string) (ShippingOption, error) {
	switch ShippingOption(strings.ToLower(strings.TrimSpace(s))) {
	case Pickup, "":
		return Pickup, nil
	case Delivery:
		return Delivery, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownShipping)
}

func (o ShippingOption) Cost() decimal.Decimal {
	if o == Delivery {
		return DeliveryCost
	}
	return decimal.Zero
}

// Line is the minimum a priced line needs.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	VAT          decimal.Decimal `json:"vat"`
	Total        decimal.Decimal `json:"total"`
}

func LineTotal(l Line) decimal.Decimal {
	return Round(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Summarize returns subtotal, shipping, total = subtotal + shipping, and
// VAT = 10% of total. VAT is informational and is not added to Total.
func Summarize(lines []Line, shipping ShippingOption) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l))
	}

	ship := shipping.Cost()
	total := subtotal.Add(ship)

	return Summary{
		Subtotal:     Round(subtotal),
		ShippingCost: Round(ship),
		VAT:          Round(total.Mul(VATRate)),
		Total:        Round(total),
	}
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Format renders an amount with exactly three decimals, e.g. "15.700".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
