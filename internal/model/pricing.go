package model

import (
	"math"
	"sort"
)

// PriceList maps a material item name (as used in MaterialLine.Item) to its unit price.
type PriceList struct {
	Currency      string             `json:"currency" yaml:"currency"`
	MarkupPercent float64            `json:"markup_percent" yaml:"markup_percent"` // e.g. 15 for 15%
	Prices        map[string]float64 `json:"prices" yaml:"prices"`
}

// CostLine is a priced material line.
type CostLine struct {
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// CostSummary holds the results of a material pricing calculation.
type CostSummary struct {
	Currency      string     `json:"currency"`
	Lines         []CostLine `json:"lines"`
	Unpriced      []string   `json:"unpriced,omitempty"` // Items with no price in the list
	Subtotal      float64    `json:"subtotal"`
	MarkupPercent float64    `json:"markup_percent"`
	Markup        float64    `json:"markup"`
	Total         float64    `json:"total"`
}

// PriceMaterials prices every applicable line with a non-zero quantity.
// Lines of the same item are merged before pricing. Money values are
// rounded to cents.
func PriceMaterials(lines []MaterialLine, prices PriceList) CostSummary {
	order := []string{}
	quantities := map[string]int{}
	for _, l := range lines {
		if !l.Quantity.Applicable || l.Quantity.Count == 0 {
			continue
		}
		if _, seen := quantities[l.Item]; !seen {
			order = append(order, l.Item)
		}
		quantities[l.Item] += l.Quantity.Count
	}

	summary := CostSummary{
		Currency:      prices.Currency,
		Lines:         []CostLine{},
		MarkupPercent: prices.MarkupPercent,
	}
	unpriced := map[string]bool{}

	for _, item := range order {
		price, ok := prices.Prices[item]
		if !ok {
			unpriced[item] = true
			continue
		}
		qty := quantities[item]
		total := roundCents(price * float64(qty))
		summary.Lines = append(summary.Lines, CostLine{
			Item:      item,
			Quantity:  qty,
			UnitPrice: price,
			Total:     total,
		})
		summary.Subtotal += total
	}

	for item := range unpriced {
		summary.Unpriced = append(summary.Unpriced, item)
	}
	sort.Strings(summary.Unpriced)

	summary.Subtotal = roundCents(summary.Subtotal)
	summary.Markup = roundCents(summary.Subtotal * prices.MarkupPercent / 100.0)
	summary.Total = roundCents(summary.Subtotal + summary.Markup)
	return summary
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
