package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"go-jewel-backoffice/internal/models"
)

func TestUserPermissions(t *testing.T) {
	s := newServer(t)
	admin := s.admin()
	staff := s.staff()

	expectStatus(t, s.do(http.MethodGet, "/api/users", staff, nil), http.StatusForbidden)

	w := s.do(http.MethodGet, "/api/users", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if strings.Contains(w.Body.String(), "secret") {
		t.Fatalf("user list leaks credentials: %s", w.Body.String())
	}

	var counter models.User
	s.db.Where("username = ?", "counter1").First(&counter)
	path := fmt.Sprintf("/api/users/%d/permissions", counter.ID)

	w = s.do(http.MethodPut, path, admin, map[string]bool{"can_edit_stock": true})
	expectStatus(t, w, http.StatusOK)
	var profile map[string]interface{}
	decode(t, w, &profile)
	if profile["can_edit_stock"] != true || profile["can_edit_bills"] != false {
		t.Errorf("unexpected profile %v", profile)
	}

	expectStatus(t, s.do(http.MethodPut, path, admin, map[string]bool{}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPut, "/api/users/99/permissions", admin, map[string]bool{"can_edit_bills": true}), http.StatusNotFound)
}

func TestDashboards(t *testing.T) {
	s := newServer(t)
	admin := s.admin()
	staff := s.staff()

	// Dated today so both dashboards pick it up
	body := ringSale()
	delete(body, "bill_date")
	body["layaway"] = map[string]interface{}{
		"advance_date":       time.Now().Format("2006-01-02"),
		"item_taken_date":    time.Now().Format("2006-01-02"),
		"final_payment_date": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"advance_amount":     20000,
	}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, body), http.StatusCreated)

	expectStatus(t, s.do(http.MethodGet, "/api/dashboard/admin", staff, nil), http.StatusForbidden)

	w := s.do(http.MethodGet, "/api/dashboard/admin", admin, nil)
	expectStatus(t, w, http.StatusOK)
	var dash struct {
		Today struct {
			TotalRevenue float64 `json:"total_revenue"`
			TotalTax     float64 `json:"total_tax"`
			TotalCount   int64   `json:"total_count"`
		} `json:"today"`
		Layaways struct {
			OpenCount        int64   `json:"open_count"`
			TrackingRequired int64   `json:"tracking_required"`
			OutstandingTotal float64 `json:"outstanding_total"`
		} `json:"layaways"`
		RecentBills []models.Bill `json:"recent_bills"`
	}
	decode(t, w, &dash)
	if dash.Today.TotalCount != 1 || dash.Today.TotalRevenue != 53560 || dash.Today.TotalTax != 1560 {
		t.Errorf("unexpected today figures %+v", dash.Today)
	}
	if dash.Layaways.OpenCount != 1 || dash.Layaways.TrackingRequired != 1 || dash.Layaways.OutstandingTotal != 33560 {
		t.Errorf("unexpected layaway summary %+v", dash.Layaways)
	}
	if len(dash.RecentBills) != 1 {
		t.Errorf("expected 1 recent bill, got %d", len(dash.RecentBills))
	}

	w = s.do(http.MethodGet, "/api/dashboard/staff", staff, nil)
	expectStatus(t, w, http.StatusOK)
	var mine map[string]interface{}
	decode(t, w, &mine)
	if mine["bill_count"] != 1.0 || mine["total_sales"] != 53560.0 || mine["username"] != "counter1" {
		t.Errorf("unexpected staff dashboard %v", mine)
	}

	// Someone else's counter is empty
	other := s.user(models.User{Username: "counter2", Role: "staff"})
	w = s.do(http.MethodGet, "/api/dashboard/staff", other, nil)
	decode(t, w, &mine)
	if mine["bill_count"] != 0.0 {
		t.Errorf("expected no bills for counter2, got %v", mine["bill_count"])
	}
}

func TestExchangeRegister(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	withNotes := ringSale()
	withNotes["exchange"] = map[string]interface{}{"weight": 2, "purity": 91.6, "rate_per_gram": 4000, "notes": "Description: Old Ring | HSN Code: 7113"}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, withNotes), http.StatusCreated)

	plain := ringSale()
	plain["bill_date"] = "2025-04-01"
	plain["customer"] = map[string]string{"name": "Anand", "phone": "9000000002"}
	plain["exchange"] = map[string]interface{}{"weight": 1, "purity": 75, "rate_per_gram": 3500}
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, plain), http.StatusCreated)

	w := s.do(http.MethodGet, "/api/exchanges", staff, nil)
	expectStatus(t, w, http.StatusOK)
	var rows []models.ExchangeListing
	decode(t, w, &rows)
	if len(rows) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(rows))
	}

	byBill := map[string]models.ExchangeListing{}
	for _, r := range rows {
		byBill[r.CustomerName] = r
	}
	if r := byBill["Lakshmi"]; r.Particulars != "Old Ring" || r.HSNCode != "7113" {
		t.Errorf("unexpected parsed row %+v", r)
	}
	if r := byBill["Anand"]; r.Particulars != "Old Gold Exchange" || r.HSNCode != "7113" || r.TotalValue != 3500 {
		t.Errorf("expected defaults for a bare exchange, got %+v", r)
	}

	w = s.do(http.MethodGet, "/api/exchanges?q=anand&from=2025-04-01&to=2025-04-01", staff, nil)
	decode(t, w, &rows)
	if len(rows) != 1 {
		t.Errorf("expected 1 filtered exchange, got %d", len(rows))
	}

	w = s.do(http.MethodGet, "/api/exchanges/1", staff, nil)
	expectStatus(t, w, http.StatusOK)
	var one struct {
		BillNumber string `json:"bill_number"`
		Parsed     struct {
			Particulars string `json:"particulars"`
			HSNCode     string `json:"hsnCode"`
		} `json:"parsed"`
	}
	decode(t, w, &one)
	if one.BillNumber != "INV-2025-000001" || one.Parsed.Particulars != "Old Ring" {
		t.Errorf("unexpected exchange detail %+v", one)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/exchanges/9", staff, nil), http.StatusNotFound)
}

func TestCustomers(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	expectStatus(t, s.do(http.MethodPost, "/api/customers", staff, map[string]string{"phone": "1"}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/api/customers", staff, map[string]string{"name": "Priya Nair", "phone": "9811111111"}), http.StatusCreated)
	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, ringSale()), http.StatusCreated)

	w := s.do(http.MethodGet, "/api/customers?q=PRIYA", staff, nil)
	var list []models.Customer
	decode(t, w, &list)
	if len(list) != 1 || list[0].Name != "Priya Nair" {
		t.Errorf("unexpected search result %+v", list)
	}

	// Lakshmi was created by the bill
	w = s.do(http.MethodGet, "/api/customers/2", staff, nil)
	expectStatus(t, w, http.StatusOK)
	var detail struct {
		Customer models.Customer `json:"customer"`
		Bills    []models.Bill   `json:"bills"`
	}
	decode(t, w, &detail)
	if detail.Customer.Name != "Lakshmi" || len(detail.Bills) != 1 {
		t.Errorf("unexpected customer detail %+v", detail)
	}
	expectStatus(t, s.do(http.MethodGet, "/api/customers/50", staff, nil), http.StatusNotFound)
}
