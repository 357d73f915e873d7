package billing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// GSTMode selects how tax on a bill is split.
type GSTMode string

const (
	GSTIntraState GSTMode = "intra" // CGST + SGST
	GSTInterState GSTMode = "inter" // IGST
	GSTNone       GSTMode = "none"  // non-GST sale, needs authorisation
)

var ErrUnknownGSTMode = errors.New("gst mode must be intra, inter or none")

// ParseGSTMode maps the request value to a mode. Empty means intra-state.
func ParseGSTMode(s string) (GSTMode, error) {
	switch GSTMode(s) {
	case "":
		return GSTIntraState, nil
	case GSTIntraState, GSTInterState, GSTNone:
		return GSTMode(s), nil
	}
	return "", ErrUnknownGSTMode
}

// Line is one priced piece of jewellery.
type Line struct {
	Weight       float64
	Rate         float64 // per gram
	MakingCharge float64
	GSTRate      float64 // percent
}

// LineAmounts is the priced form of a Line.
type LineAmounts struct {
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
	Total   float64 `json:"total"`
}

// TaxBreakdown splits a tax amount by jurisdiction.
type TaxBreakdown struct {
	CGST  float64 `json:"cgst"`
	SGST  float64 `json:"sgst"`
	IGST  float64 `json:"igst"`
	Total float64 `json:"total"`
}

// Totals is the header arithmetic of a bill.
type Totals struct {
	Subtotal       float64       `json:"subtotal"`
	Tax            TaxBreakdown  `json:"tax"`
	ExchangeCredit float64       `json:"exchange_credit"`
	GrandTotal     float64       `json:"grand_total"`
	Lines          []LineAmounts `json:"lines"`
}

var hundred = decimal.NewFromInt(100)

func (l Line) taxable() decimal.Decimal {
	return decimal.NewFromFloat(l.Weight).Mul(decimal.NewFromFloat(l.Rate)).
		Add(decimal.NewFromFloat(l.MakingCharge))
}

func (l Line) tax(mode GSTMode) decimal.Decimal {
	if mode == GSTNone {
		return decimal.Zero
	}
	return l.taxable().Mul(decimal.NewFromFloat(l.GSTRate)).Div(hundred).Round(2)
}

// SplitGST divides a tax amount: halves for intra-state, all IGST for inter-state.
func SplitGST(tax float64, mode GSTMode) TaxBreakdown {
	t := decimal.NewFromFloat(tax).Round(2)
	switch mode {
	case GSTInterState:
		return TaxBreakdown{IGST: toFloat(t), Total: toFloat(t)}
	case GSTNone:
		return TaxBreakdown{}
	}
	half := t.Div(decimal.NewFromInt(2)).Round(2)
	return TaxBreakdown{
		CGST:  toFloat(half),
		SGST:  toFloat(t.Sub(half)),
		Total: toFloat(t),
	}
}

// ExchangeValue is the credit for old gold: weight × rate per gram.
func ExchangeValue(weight, ratePerGram float64) float64 {
	return toFloat(decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(ratePerGram)).Round(2))
}

// ComputeTotals prices every line and builds the bill header. The exchange
// credit is subtracted from the grand total.
func ComputeTotals(lines []Line, mode GSTMode, exchangeCredit float64) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	out := Totals{Lines: make([]LineAmounts, 0, len(lines))}

	for _, l := range lines {
		taxable := l.taxable().Round(2)
		lineTax := l.tax(mode)
		subtotal = subtotal.Add(taxable)
		tax = tax.Add(lineTax)
		out.Lines = append(out.Lines, LineAmounts{
			Taxable: toFloat(taxable),
			Tax:     toFloat(lineTax),
			Total:   toFloat(taxable.Add(lineTax)),
		})
	}

	credit := decimal.NewFromFloat(exchangeCredit).Round(2)
	out.Subtotal = toFloat(subtotal)
	out.Tax = SplitGST(toFloat(tax), mode)
	out.ExchangeCredit = toFloat(credit)
	out.GrandTotal = toFloat(subtotal.Add(tax).Sub(credit))
	return out
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
