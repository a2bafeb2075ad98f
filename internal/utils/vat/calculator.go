// Package vat holds the single source of truth for invoice money arithmetic.
// Every call site that needs a net, VAT or gross amount (listings, detail
// views, document rendering) goes through these functions so the formulas
// cannot drift apart.
package vat

import (
	"sort"

	"github.com/efakturaplus/efaktura_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmounts carries the derived monetary values for one line item.
type LineAmounts struct {
	Net             decimal.Decimal `json:"netAmount"`
	VAT             decimal.Decimal `json:"vatAmount"`
	Gross           decimal.Decimal `json:"grossAmount"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// Totals carries the invoice-level aggregates.
type Totals struct {
	Net   decimal.Decimal `json:"netTotal"`
	VAT   decimal.Decimal `json:"vatTotal"`
	Gross decimal.Decimal `json:"grossTotal"`
}

// VATGroup is one row of the tax-rate-segmented breakdown printed on a
// rendered document.
type VATGroup struct {
	Rate int             `json:"rate"`
	Net  decimal.Decimal `json:"netAmount"`
	VAT  decimal.Decimal `json:"vatAmount"`
}

// NetAmount is quantity * unitPrice - discount, rounded to 2 decimals.
func NetAmount(li domain.LineItem) decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice).Sub(li.Discount).Round(2)
}

// VATAmount is the net amount times the VAT rate, rounded to 2 decimals.
// A zero rate deterministically yields zero.
func VATAmount(li domain.LineItem) decimal.Decimal {
	rate := decimal.NewFromInt(int64(li.VATRate))
	return NetAmount(li).Mul(rate).Div(hundred).Round(2)
}

// GrossAmount is net plus VAT, rounded to 2 decimals.
func GrossAmount(li domain.LineItem) decimal.Decimal {
	return NetAmount(li).Add(VATAmount(li)).Round(2)
}

// DiscountPercent is the discount as a percentage of quantity * unitPrice,
// or zero when that base is zero.
func DiscountPercent(li domain.LineItem) decimal.Decimal {
	base := li.Quantity.Mul(li.UnitPrice)
	if base.IsZero() {
		return decimal.Zero
	}
	return li.Discount.Div(base).Mul(hundred).Round(2)
}

// Amounts computes all derived values for one line item.
func Amounts(li domain.LineItem) LineAmounts {
	return LineAmounts{
		Net:             NetAmount(li),
		VAT:             VATAmount(li),
		Gross:           GrossAmount(li),
		DiscountPercent: DiscountPercent(li),
	}
}

// InvoiceTotals sums the per-line rounded amounts. Rounding per line before
// summing keeps the totals equal to the sum of the printed line amounts.
func InvoiceTotals(items []domain.LineItem) Totals {
	net, vatSum := decimal.Zero, decimal.Zero
	for _, li := range items {
		net = net.Add(NetAmount(li))
		vatSum = vatSum.Add(VATAmount(li))
	}
	return Totals{
		Net:   net.Round(2),
		VAT:   vatSum.Round(2),
		Gross: net.Add(vatSum).Round(2),
	}
}

// AddTotals accumulates one set of totals into another, keeping the
// two-decimal discipline at every step.
func AddTotals(a, b Totals) Totals {
	return Totals{
		Net:   a.Net.Add(b.Net).Round(2),
		VAT:   a.VAT.Add(b.VAT).Round(2),
		Gross: a.Gross.Add(b.Gross).Round(2),
	}
}

// VATBreakdown groups line items by VAT rate and sums their net and VAT
// amounts. Groups are ordered by rate ascending for stable rendering.
func VATBreakdown(items []domain.LineItem) []VATGroup {
	byRate := make(map[int]*VATGroup)
	for _, li := range items {
		g, ok := byRate[li.VATRate]
		if !ok {
			g = &VATGroup{Rate: li.VATRate, Net: decimal.Zero, VAT: decimal.Zero}
			byRate[li.VATRate] = g
		}
		g.Net = g.Net.Add(NetAmount(li))
		g.VAT = g.VAT.Add(VATAmount(li))
	}

	groups := make([]VATGroup, 0, len(byRate))
	for _, g := range byRate {
		g.Net = g.Net.Round(2)
		g.VAT = g.VAT.Round(2)
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Rate < groups[j].Rate })
	return groups
}
