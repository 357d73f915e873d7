package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-jewel-backoffice/internal/auth"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/database/databasetest"
	"go-jewel-backoffice/internal/models"
)

func TestGetSalesReport(t *testing.T) {
	db := databasetest.Open(t)

	day := time.Date(2025, 6, 10, 11, 0, 0, 0, time.Local)
	bills := []models.Bill{
		{BillNumber: "INV-1", BillDate: day, GrandTotal: 1000, TaxTotal: 30, ExchangeCredit: 0},
		{BillNumber: "INV-2", BillDate: day.Add(2 * time.Hour), GrandTotal: 2500, TaxTotal: 75, ExchangeCredit: 500},
		{BillNumber: "INV-3", BillDate: day.AddDate(0, 0, 3), GrandTotal: 9999},
	}
	if err := db.Create(&bills).Error; err != nil {
		t.Fatalf("seed bills: %v", err)
	}

	start, end := database.DayBounds(day)
	report, err := database.GetSalesReport(start, end)
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if report.TotalCount != 2 {
		t.Errorf("expected 2 bills, got %d", report.TotalCount)
	}
	if report.TotalRevenue != 3500 || report.TotalTax != 105 || report.ExchangeCredit != 500 {
		t.Errorf("unexpected totals %+v", report)
	}
}

func TestGetSalesReportEmpty(t *testing.T) {
	databasetest.Open(t)
	start, end := database.DayBounds(time.Now())
	report, err := database.GetSalesReport(start, end)
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if report.TotalRevenue != 0 || report.TotalCount != 0 {
		t.Errorf("expected zero report, got %+v", report)
	}
}

func TestGetLayawaySummary(t *testing.T) {
	db := databasetest.Open(t)
	adv := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	bills := []models.Bill{
		{BillNumber: "L-1", BillDate: adv, AdvanceDate: &adv, RemainingAmount: 4000, TrackingRequired: true},
		{BillNumber: "L-2", BillDate: adv, AdvanceDate: &adv, RemainingAmount: 1000},
		{BillNumber: "L-3", BillDate: adv, AdvanceDate: &adv, RemainingAmount: 0, TrackingRequired: true},
		{BillNumber: "S-1", BillDate: adv},
	}
	if err := db.Create(&bills).Error; err != nil {
		t.Fatalf("seed bills: %v", err)
	}

	s, err := database.GetLayawaySummary()
	if err != nil {
		t.Fatalf("GetLayawaySummary: %v", err)
	}
	if s.OpenCount != 2 || s.TrackingRequired != 1 || s.OutstandingTotal != 5000 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestCountReturnsByStatus(t *testing.T) {
	db := databasetest.Open(t)
	returns := []models.Return{
		{BillID: 1, Status: "pending"},
		{BillID: 1, Status: "pending"},
		{BillID: 2, Status: "approved"},
	}
	if err := db.Create(&returns).Error; err != nil {
		t.Fatalf("seed returns: %v", err)
	}
	counts, err := database.CountReturnsByStatus()
	if err != nil {
		t.Fatalf("CountReturnsByStatus: %v", err)
	}
	if counts["pending"] != 2 || counts["approved"] != 1 || counts["completed"] != 0 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestListExchangeListingsFallsBackToNotes(t *testing.T) {
	db := databasetest.Open(t)

	cust := models.Customer{Name: "Priya", Phone: "9000000001"}
	db.Create(&cust)
	b1 := models.Bill{BillNumber: "INV-10", BillDate: time.Now().Add(-time.Hour), CustomerID: &cust.ID}
	b2 := models.Bill{BillNumber: "INV-11", BillDate: time.Now()}
	db.Create(&b1)
	db.Create(&b2)
	db.Create(&models.OldGoldExchange{BillID: b1.ID, Notes: "Description: Old Ring | HSN Code: 7113"})
	db.Create(&models.OldGoldExchange{BillID: b2.ID, Particulars: "Coin", HSNCode: "7118"})

	rows, err := database.ListExchangeListings()
	if err != nil {
		t.Fatalf("ListExchangeListings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].BillNumber != "INV-11" || rows[0].Particulars != "Coin" || rows[0].HSNCode != "7118" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Particulars != "Old Ring" || rows[1].CustomerName != "Priya" {
		t.Errorf("unexpected second row %+v", rows[1])
	}
	if rows[0].CustomerName != "" {
		t.Errorf("bill without customer should have empty name, got %q", rows[0].CustomerName)
	}
}

func TestMigrateExchangeNotes(t *testing.T) {
	db := databasetest.Open(t)
	db.Create(&models.OldGoldExchange{BillID: 1, Notes: "Description: Chain | HSN Code: 7113"})
	db.Create(&models.OldGoldExchange{BillID: 2, Notes: "weighed at counter"})
	db.Create(&models.OldGoldExchange{BillID: 3, Particulars: "Bangle", HSNCode: "7113"})

	n, err := database.MigrateExchangeNotes()
	if err != nil {
		t.Fatalf("MigrateExchangeNotes: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows migrated, got %d", n)
	}

	var ex models.OldGoldExchange
	db.Where("bill_id = ?", 2).First(&ex)
	if ex.Particulars != "Old Gold Exchange" || ex.HSNCode != "7113" {
		t.Errorf("expected defaults, got %+v", ex)
	}
}

func TestRecordAndListAudit(t *testing.T) {
	databasetest.Open(t)
	database.RecordAudit(nil, database.AuditEntry{Actor: "admin", Action: "create", EntityType: "bill", EntityID: uint(7), Detail: "INV-7"})
	database.RecordAudit(nil, database.AuditEntry{Actor: "admin", Action: "update", EntityType: "bill", EntityID: uint(7)})

	logs, err := database.ListAuditLogs()
	if err != nil {
		t.Fatalf("ListAuditLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(logs))
	}
	if logs[0].Action != "update" || logs[0].EntityID != "7" {
		t.Errorf("expected newest entry first, got %+v", logs[0])
	}
}

func TestLatestGoldRate(t *testing.T) {
	db := databasetest.Open(t)
	d := time.Date(2025, 7, 1, 0, 0, 0, 0, time.Local)
	db.Create(&models.GoldRate{Purity: "22K", RatePerGram: 6000, EffectiveDate: d})
	db.Create(&models.GoldRate{Purity: "22K", RatePerGram: 6100, EffectiveDate: d.AddDate(0, 0, 1)})
	db.Create(&models.GoldRate{Purity: "24K", RatePerGram: 6500, EffectiveDate: d.AddDate(0, 0, 2)})

	rate, err := database.LatestGoldRate("22K")
	if err != nil {
		t.Fatalf("LatestGoldRate: %v", err)
	}
	if rate.RatePerGram != 6100 {
		t.Errorf("expected 6100, got %v", rate.RatePerGram)
	}
	if _, err := database.LatestGoldRate("18K"); err == nil {
		t.Error("expected not found for missing purity")
	}
}

func TestCacheDisabledIsMiss(t *testing.T) {
	var v int
	if err := database.CacheGet(context.Background(), "k", &v); !errors.Is(err, database.ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss without redis, got %v", err)
	}
	database.CacheSet(context.Background(), "k", 1, time.Minute)
	database.CacheDel(context.Background(), "k")
}

func TestSeedUser(t *testing.T) {
	databasetest.Open(t)

	u, err := database.SeedUser(models.User{Username: "asha", Role: "staff", StaffCode: "C2"}, "first")
	if err != nil {
		t.Fatalf("SeedUser: %v", err)
	}
	if !auth.IsBcryptHash(u.Password) || !auth.CheckPassword(u.Password, "first") {
		t.Fatalf("password not stored as bcrypt hash: %q", u.Password)
	}

	// Seeding again resets the credential and flags instead of duplicating
	u2, err := database.SeedUser(models.User{Username: "asha", Role: "admin", CanEditStock: true}, "second")
	if err != nil {
		t.Fatalf("SeedUser again: %v", err)
	}
	if u2.ID != u.ID || u2.Role != "admin" || !u2.CanEditStock || !auth.CheckPassword(u2.Password, "second") {
		t.Errorf("unexpected reseeded user %+v", u2)
	}

	if _, err := database.SeedUser(models.User{Username: "x", Role: "owner"}, "pw"); !errors.Is(err, database.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := database.SeedUser(models.User{Username: "x", Role: "staff"}, ""); err == nil {
		t.Error("expected an error for an empty password")
	}
}
