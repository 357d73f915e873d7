// Package printing sequences the documents printed for a bill. A job starts
// on the sales invoice; the counter confirms each printed phase before the
// next document (the purchase slip, when gold was exchanged) is released.
package printing

import (
	"errors"
	"fmt"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/models"
)

// Phase is the document a job is waiting on.
type Phase string

const (
	PhaseSalesInvoice Phase = "sales_invoice"
	PhasePurchaseSlip Phase = "purchase_slip"
	PhaseDone         Phase = "done"
)

var (
	ErrJobFinished   = errors.New("print job already finished")
	ErrPhaseMismatch = errors.New("acknowledged phase does not match the job")
)

// FirstPhase is where every job starts.
func FirstPhase() Phase {
	return PhaseSalesInvoice
}

// Acknowledge confirms that phase `printed` came off the printer and returns
// the phase that follows. The purchase slip is skipped for bills without an
// exchange.
func Acknowledge(current, printed Phase, hasExchange bool) (Phase, error) {
	if current == PhaseDone {
		return PhaseDone, ErrJobFinished
	}
	if printed != current {
		return current, fmt.Errorf("%w: job is at %s, got %s", ErrPhaseMismatch, current, printed)
	}
	if current == PhaseSalesInvoice && hasExchange {
		return PhasePurchaseSlip, nil
	}
	return PhaseDone, nil
}

// Document is the printable payload for one phase.
type Document struct {
	Phase   Phase       `json:"phase"`
	Title   string      `json:"title"`
	Number  string      `json:"number"`
	Date    time.Time   `json:"date"`
	Payload interface{} `json:"payload"`
}

// InvoiceLine is one row of the sales invoice.
type InvoiceLine struct {
	Description  string  `json:"description"`
	HSNCode      string  `json:"hsn_code"`
	Weight       float64 `json:"weight"`
	Rate         float64 `json:"rate"`
	MakingCharge float64 `json:"making_charge"`
	GSTRate      float64 `json:"gst_rate"`
	Total        float64 `json:"total"`
}

// SalesInvoice is the white bill.
type SalesInvoice struct {
	Customer       *models.Customer `json:"customer,omitempty"`
	Lines          []InvoiceLine    `json:"lines"`
	Subtotal       float64          `json:"subtotal"`
	CGST           float64          `json:"cgst"`
	SGST           float64          `json:"sgst"`
	IGST           float64          `json:"igst"`
	ExchangeCredit float64          `json:"exchange_credit"`
	GrandTotal     float64          `json:"grand_total"`
	PaymentMethod  string           `json:"payment_method"`
	AdvanceAmount  float64          `json:"advance_amount,omitempty"`
	Remaining      float64          `json:"remaining_amount,omitempty"`
}

// PurchaseSlip is the pink slip for old gold taken in.
type PurchaseSlip struct {
	Customer    *models.Customer `json:"customer,omitempty"`
	BillNumber  string           `json:"bill_number"`
	Particulars string           `json:"particulars"`
	HSNCode     string           `json:"hsn_code"`
	Weight      float64          `json:"weight"`
	Purity      float64          `json:"purity"`
	RatePerGram float64          `json:"rate_per_gram"`
	TotalValue  float64          `json:"total_value"`
}

// jewellery articles of precious metal
const jewelleryHSN = "7113"

// Render builds the document for phase from a bill loaded with its items,
// customer and exchange. PhaseDone has no document.
func Render(bill models.Bill, phase Phase) (*Document, error) {
	switch phase {
	case PhaseSalesInvoice:
		return renderInvoice(bill), nil
	case PhasePurchaseSlip:
		if bill.Exchange == nil {
			return nil, fmt.Errorf("bill %s has no exchange to print", bill.BillNumber)
		}
		return renderSlip(bill), nil
	case PhaseDone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown print phase %q", phase)
}

func renderInvoice(bill models.Bill) *Document {
	inv := SalesInvoice{
		Customer:       bill.Customer,
		Lines:          make([]InvoiceLine, 0, len(bill.Items)),
		Subtotal:       bill.Subtotal,
		CGST:           bill.CGST,
		SGST:           bill.SGST,
		IGST:           bill.IGST,
		ExchangeCredit: bill.ExchangeCredit,
		GrandTotal:     bill.GrandTotal,
		PaymentMethod:  bill.PaymentMethod,
	}
	if bill.IsLayaway() {
		inv.AdvanceAmount = bill.AdvanceAmount
		inv.Remaining = bill.RemainingAmount
	}
	for _, it := range bill.Items {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Description:  it.ItemName,
			HSNCode:      jewelleryHSN,
			Weight:       it.Weight,
			Rate:         it.Rate,
			MakingCharge: it.MakingCharge,
			GSTRate:      it.GSTRate,
			Total:        it.LineTotal,
		})
	}
	return &Document{
		Phase:   PhaseSalesInvoice,
		Title:   "Tax Invoice",
		Number:  bill.BillNumber,
		Date:    bill.BillDate,
		Payload: inv,
	}
}

func renderSlip(bill models.Bill) *Document {
	ex := bill.Exchange
	p := billing.ResolveExchangeParticulars(ex.Particulars, ex.HSNCode, ex.Notes)
	return &Document{
		Phase:  PhasePurchaseSlip,
		Title:  "Purchase Slip",
		Number: ex.SlipNumber,
		Date:   bill.BillDate,
		Payload: PurchaseSlip{
			Customer:    bill.Customer,
			BillNumber:  bill.BillNumber,
			Particulars: p.Particulars,
			HSNCode:     p.HSNCode,
			Weight:      ex.Weight,
			Purity:      ex.Purity,
			RatePerGram: ex.RatePerGram,
			TotalValue:  ex.TotalValue,
		},
	}
}
