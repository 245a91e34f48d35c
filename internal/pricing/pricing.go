// Package pricing derives selling prices and discount percentages for the
// catalogue. All arithmetic runs in decimal and rounds half away from zero to
// whole currency units, which for non-negative prices is ordinary half-up.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Pricing is embedded by every price-bearing document (products, combos,
// gifts and product variants).
type Pricing struct {
	ActualMRP  float64 `json:"actual_mrp" bson:"actual_mrp" binding:"gte=0"`
	Discount   float64 `json:"discount" bson:"discount" binding:"gte=0,lte=100"`
	SellingMRP float64 `json:"selling_mrp" bson:"selling_mrp"`
}

// SellingPrice returns round(actual - actual*discount/100). The actual price is
// returned unchanged when either input is not positive.
func SellingPrice(actual, discount float64) float64 {
	if actual <= 0 || discount <= 0 {
		return actual
	}
	a := decimal.NewFromFloat(actual)
	off := a.Mul(decimal.NewFromFloat(discount)).Div(hundred)
	return a.Sub(off).Round(0).InexactFloat64()
}

// DiscountPercent returns round((actual-selling)/actual*100), or 0 when the
// actual price is not positive.
func DiscountPercent(actual, selling float64) float64 {
	if actual <= 0 {
		return 0
	}
	a := decimal.NewFromFloat(actual)
	s := decimal.NewFromFloat(selling)
	return a.Sub(s).Div(a).Mul(hundred).Round(0).InexactFloat64()
}

// Derive returns p with its derived field filled in. A record that carries a
// discount gets its selling price recomputed; a legacy record that only has a
// selling price below its actual price gets the discount back-filled.
func Derive(p Pricing) Pricing {
	if p.Discount <= 0 && p.SellingMRP > 0 && p.SellingMRP < p.ActualMRP {
		p.Discount = DiscountPercent(p.ActualMRP, p.SellingMRP)
		return p
	}
	p.SellingMRP = SellingPrice(p.ActualMRP, p.Discount)
	return p
}

// Apply recomputes the selling price in place.
func (p *Pricing) Apply() {
	p.SellingMRP = SellingPrice(p.ActualMRP, p.Discount)
}

// Backfill fills a missing discount for display without touching the stored
// selling price.
func (p *Pricing) Backfill() {
	if p.Discount <= 0 && p.SellingMRP > 0 && p.SellingMRP < p.ActualMRP {
		p.Discount = DiscountPercent(p.ActualMRP, p.SellingMRP)
	}
}
