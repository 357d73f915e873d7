package handlers_test

import (
	"net/http"
	"testing"

	"go-jewel-backoffice/internal/models"
)

func ringSale() map[string]interface{} {
	return map[string]interface{}{
		"bill_date":      "2025-01-01",
		"payment_method": "cash",
		"customer":       map[string]string{"name": "Lakshmi", "phone": "9840012345"},
		"items": []map[string]interface{}{
			{"item_name": "Bridal Ring", "weight": 10, "rate": 5000, "making_charge": 2000, "gst_rate": 3},
		},
	}
}

func TestCreateBillWithExchangeAndLayaway(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	body := ringSale()
	body["exchange"] = map[string]interface{}{
		"weight": 2, "purity": 91.6, "rate_per_gram": 4000,
		"notes": "Description: Old Chain | HSN Code: 7113 | broken clasp",
	}
	body["layaway"] = map[string]interface{}{
		"advance_date":       "2025-01-01",
		"item_taken_date":    "2025-01-02",
		"final_payment_date": "2025-01-10",
		"advance_amount":     10000,
	}

	w := s.do(http.MethodPost, "/api/bills", staff, body)
	expectStatus(t, w, http.StatusCreated)

	var bill models.Bill
	decode(t, w, &bill)

	if bill.BillNumber != "INV-2025-000001" {
		t.Errorf("bill number %q", bill.BillNumber)
	}
	// 10g × 5000 + 2000 making = 52000, 3% GST = 1560 split 780/780
	if bill.Subtotal != 52000 || bill.CGST != 780 || bill.SGST != 780 || bill.IGST != 0 || bill.TaxTotal != 1560 {
		t.Errorf("unexpected tax figures %+v", bill)
	}
	// old gold 2g × 4000 comes off the total
	if bill.ExchangeCredit != 8000 || bill.GrandTotal != 45560 {
		t.Errorf("exchange credit %.2f grand total %.2f", bill.ExchangeCredit, bill.GrandTotal)
	}
	if bill.RemainingAmount != 35560 || !bill.TrackingRequired {
		t.Errorf("layaway remaining %.2f tracking %t", bill.RemainingAmount, bill.TrackingRequired)
	}
	if len(bill.Items) != 1 || bill.Items[0].LineTotal != 53560 {
		t.Errorf("unexpected lines %+v", bill.Items)
	}
	if bill.Customer == nil || bill.Customer.Phone != "9840012345" {
		t.Errorf("customer not linked: %+v", bill.Customer)
	}

	ex := bill.Exchange
	if ex == nil {
		t.Fatal("exchange missing")
	}
	if ex.SlipNumber != "PS-2025-000001" || ex.TotalValue != 8000 {
		t.Errorf("unexpected exchange %+v", ex)
	}
	if ex.Particulars != "Old Chain" || ex.HSNCode != "7113" {
		t.Errorf("particulars not taken from notes: %q %q", ex.Particulars, ex.HSNCode)
	}

	// The same phone reuses the customer
	w = s.do(http.MethodPost, "/api/bills", staff, ringSale())
	expectStatus(t, w, http.StatusCreated)
	var customers int64
	s.db.Model(&models.Customer{}).Count(&customers)
	if customers != 1 {
		t.Errorf("expected 1 customer, got %d", customers)
	}
}

func TestCreateBillInterState(t *testing.T) {
	s := newServer(t)
	body := ringSale()
	body["gst_mode"] = "inter"

	w := s.do(http.MethodPost, "/api/bills", s.staff(), body)
	expectStatus(t, w, http.StatusCreated)

	var bill models.Bill
	decode(t, w, &bill)
	if bill.IGST != 1560 || bill.CGST != 0 || bill.SGST != 0 || bill.GrandTotal != 53560 {
		t.Errorf("unexpected inter-state split %+v", bill)
	}
}

func TestCreateBillNonGSTNeedsPermission(t *testing.T) {
	s := newServer(t)
	body := ringSale()
	body["gst_mode"] = "none"

	expectStatus(t, s.do(http.MethodPost, "/api/bills", s.staff(), body), http.StatusForbidden)

	allowed := s.user(models.User{Username: "senior", Role: "staff", CanAuthorizeNonGST: true})
	w := s.do(http.MethodPost, "/api/bills", allowed, body)
	expectStatus(t, w, http.StatusCreated)

	var bill models.Bill
	decode(t, w, &bill)
	if bill.TaxTotal != 0 || bill.GrandTotal != 52000 || bill.GSTMode != "none" {
		t.Errorf("unexpected non-GST bill %+v", bill)
	}
}

func TestCreateBillValidation(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	noItems := ringSale()
	noItems["items"] = []map[string]interface{}{}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, noItems), http.StatusBadRequest)

	badPayment := ringSale()
	badPayment["payment_method"] = "barter"
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, badPayment), http.StatusBadRequest)

	badMode := ringSale()
	badMode["gst_mode"] = "half"
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, badMode), http.StatusBadRequest)

	overAdvance := ringSale()
	overAdvance["layaway"] = map[string]interface{}{
		"advance_date": "2025-01-01", "item_taken_date": "2025-01-01", "final_payment_date": "2025-01-01",
		"advance_amount": 60000,
	}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, overAdvance), http.StatusBadRequest)

	var bills int64
	s.db.Model(&models.Bill{}).Count(&bills)
	if bills != 0 {
		t.Errorf("rejected bills were stored: %d", bills)
	}
}

func TestCreateBillDecrementsStock(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	item := models.Item{SKU: "RNG-001", Name: "Bridal Ring", Weight: 10, Purity: "22K", StockQuantity: 1}
	s.db.Create(&item)

	body := ringSale()
	body["items"] = []map[string]interface{}{
		{"item_id": item.ID, "item_name": "Bridal Ring", "weight": 10, "rate": 5000, "making_charge": 2000, "gst_rate": 3},
	}

	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, body), http.StatusCreated)
	s.db.First(&item, item.ID)
	if item.StockQuantity != 0 {
		t.Fatalf("expected stock 0, got %d", item.StockQuantity)
	}

	// Out of stock: the whole bill rolls back
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, body), http.StatusBadRequest)
	var bills int64
	s.db.Model(&models.Bill{}).Count(&bills)
	if bills != 1 {
		t.Errorf("expected 1 bill after rollback, got %d", bills)
	}
}

func TestListAndFilterBills(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, ringSale()), http.StatusCreated)
	card := ringSale()
	card["payment_method"] = "card"
	card["bill_date"] = "2025-02-15"
	card["customer"] = map[string]string{"name": "Ravi Kumar", "phone": "9000000001"}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, card), http.StatusCreated)

	cases := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?payment_method=card", 1},
		{"?q=ravi", 1},
		{"?q=INV-2025", 2},
		{"?from=2025-01-01&to=2025-01-31", 1},
		{"?from=2025-02-15&to=2025-02-15", 1},
		{"?layaway=true", 0},
	}
	for _, tc := range cases {
		w := s.do(http.MethodGet, "/api/bills"+tc.query, staff, nil)
		expectStatus(t, w, http.StatusOK)
		var bills []models.Bill
		decode(t, w, &bills)
		if len(bills) != tc.want {
			t.Errorf("%q: expected %d bills, got %d", tc.query, tc.want, len(bills))
		}
	}

	expectStatus(t, s.do(http.MethodGet, "/api/bills?from=yesterday", staff, nil), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodGet, "/api/bills/99", staff, nil), http.StatusNotFound)
}

func TestUpdateBillNeedsPermission(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	body := ringSale()
	body["layaway"] = map[string]interface{}{
		"advance_date": "2025-01-01", "item_taken_date": "2025-01-01", "final_payment_date": "2025-01-02",
		"advance_amount": 3560,
	}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, body), http.StatusCreated)

	update := map[string]interface{}{"final_payment_date": "2025-01-20", "advance_amount": 20000}
	expectStatus(t, s.do(http.MethodPut, "/api/bills/1", staff, update), http.StatusForbidden)

	editor := s.user(models.User{Username: "editor", Role: "staff", CanEditBills: true})
	w := s.do(http.MethodPut, "/api/bills/1", editor, update)
	expectStatus(t, w, http.StatusOK)

	var resp struct {
		Bill models.Bill `json:"bill"`
	}
	decode(t, w, &resp)
	if resp.Bill.RemainingAmount != 33560 || !resp.Bill.TrackingRequired {
		t.Errorf("layaway not recomputed: remaining %.2f tracking %t", resp.Bill.RemainingAmount, resp.Bill.TrackingRequired)
	}

	w = s.do(http.MethodGet, "/api/layaways?tracking=true", staff, nil)
	expectStatus(t, w, http.StatusOK)
	var open []models.Bill
	decode(t, w, &open)
	if len(open) != 1 {
		t.Errorf("expected 1 tracked layaway, got %d", len(open))
	}
}

func TestCalculateLayaway(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	w := s.do(http.MethodPost, "/api/layaway/calculate", staff, map[string]interface{}{
		"advance_date": "2025-01-04", "item_taken_date": "2025-01-04", "final_payment_date": "2025-01-01",
		"advance_amount": 1000, "total_amount": 6000,
	})
	expectStatus(t, w, http.StatusOK)

	var res map[string]interface{}
	decode(t, w, &res)
	if res["remaining_amount"] != 5000.0 || res["tracking_required"] != true {
		t.Errorf("unexpected result %v", res)
	}

	w = s.do(http.MethodPost, "/api/layaway/calculate", staff, map[string]interface{}{
		"advance_date": "2025-01-01", "item_taken_date": "2025-01-01", "final_payment_date": "2025-01-02",
		"advance_amount": 0, "total_amount": 6000,
	})
	expectStatus(t, w, http.StatusBadRequest)
}
