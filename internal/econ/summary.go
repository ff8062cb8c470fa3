package econ

import (
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// SummaryLine totals one stream and category across wells and months
type SummaryLine struct {
	Stream     Stream          `json:"stream"`
	Category   Category        `json:"category"`
	Production decimal.Decimal `json:"production"`
	Revenue    decimal.Decimal `json:"revenue"`
	Tax        decimal.Decimal `json:"tax"`
	Profit     decimal.Decimal `json:"profit"`
}

// Summary is the per-stream, per-category rollup of a Result
type Summary struct {
	Wells  int           `json:"wells"`
	Months int           `json:"months"`
	Lines  []SummaryLine `json:"lines"`
	Total  SummaryLine   `json:"total"`
}

// Summarize rolls a result up to cents
func Summarize(r *Result) Summary {
	sum := Summary{Wells: r.Wells(), Months: r.Months()}
	total := SummaryLine{Stream: -1, Category: -1}
	for s := 0; s < NumStreams; s++ {
		for c := 0; c < NumCategories; c++ {
			line := SummaryLine{
				Stream:     Stream(s),
				Category:   Category(c),
				Production: money(floats.Sum(r.Production.Slab(s, c).Data)),
				Revenue:    money(floats.Sum(r.Revenue.Slab(s, c).Data)),
				Tax:        money(floats.Sum(r.Tax.Slab(s, c).Data)),
				Profit:     money(floats.Sum(r.Profit.Slab(s, c).Data)),
			}
			sum.Lines = append(sum.Lines, line)
			total.Revenue = total.Revenue.Add(line.Revenue)
			total.Tax = total.Tax.Add(line.Tax)
			total.Profit = total.Profit.Add(line.Profit)
		}
	}
	sum.Total = total
	return sum
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
