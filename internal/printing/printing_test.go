package printing

import (
	"errors"
	"testing"

	"go-jewel-backoffice/internal/models"
)

func TestAcknowledgeWithExchange(t *testing.T) {
	next, err := Acknowledge(FirstPhase(), PhaseSalesInvoice, true)
	if err != nil || next != PhasePurchaseSlip {
		t.Fatalf("expected purchase slip after invoice, got %s %v", next, err)
	}
	next, err = Acknowledge(next, PhasePurchaseSlip, true)
	if err != nil || next != PhaseDone {
		t.Fatalf("expected done after slip, got %s %v", next, err)
	}
	if _, err := Acknowledge(next, PhaseDone, true); !errors.Is(err, ErrJobFinished) {
		t.Errorf("expected ErrJobFinished, got %v", err)
	}
}

func TestAcknowledgeWithoutExchangeSkipsSlip(t *testing.T) {
	next, err := Acknowledge(PhaseSalesInvoice, PhaseSalesInvoice, false)
	if err != nil || next != PhaseDone {
		t.Fatalf("expected done, got %s %v", next, err)
	}
}

func TestAcknowledgeRejectsStaleAck(t *testing.T) {
	next, err := Acknowledge(PhasePurchaseSlip, PhaseSalesInvoice, true)
	if !errors.Is(err, ErrPhaseMismatch) {
		t.Fatalf("expected ErrPhaseMismatch, got %v", err)
	}
	if next != PhasePurchaseSlip {
		t.Errorf("phase should not move on a mismatch, got %s", next)
	}
}

func TestRender(t *testing.T) {
	bill := models.Bill{
		BillNumber: "INV-2025-000003",
		GrandTotal: 50000,
		Items:      []models.BillItem{{ItemName: "Necklace", Weight: 8, LineTotal: 50000}},
		Exchange:   &models.OldGoldExchange{SlipNumber: "PS-2025-000001", Notes: "Description: Old Ring | HSN Code: 7113", TotalValue: 12000},
	}

	doc, err := Render(bill, PhaseSalesInvoice)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	inv, ok := doc.Payload.(SalesInvoice)
	if !ok || len(inv.Lines) != 1 || inv.Lines[0].Description != "Necklace" || doc.Number != "INV-2025-000003" {
		t.Errorf("unexpected invoice %+v", doc)
	}

	doc, err = Render(bill, PhasePurchaseSlip)
	if err != nil {
		t.Fatalf("render slip: %v", err)
	}
	slip := doc.Payload.(PurchaseSlip)
	if slip.Particulars != "Old Ring" || slip.HSNCode != "7113" || doc.Number != "PS-2025-000001" {
		t.Errorf("unexpected slip %+v", slip)
	}

	if doc, err := Render(bill, PhaseDone); doc != nil || err != nil {
		t.Errorf("done phase should render nothing, got %v %v", doc, err)
	}

	bill.Exchange = nil
	if _, err := Render(bill, PhasePurchaseSlip); err == nil {
		t.Error("expected error rendering slip without exchange")
	}
}
