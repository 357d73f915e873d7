package handlers_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"go-jewel-backoffice/internal/models"

	"github.com/xuri/excelize/v2"
)

func seedAuditLogs(t *testing.T, s *testServer) {
	t.Helper()
	logs := []models.AuditLog{
		{Actor: "owner", Action: "create", EntityType: "bill", EntityID: "1", Detail: "INV-2025-000001 total 45560.00",
			CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)},
		{Actor: "counter1", Action: "update", EntityType: "item", EntityID: "4", Detail: "RNG-001 stock 2 -> 1",
			CreatedAt: time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)},
		{Actor: "counter1", Action: "create", EntityType: "return", EntityID: "2", Detail: "refund 950.00",
			CreatedAt: time.Date(2025, 3, 11, 0, 0, 1, 0, time.Local)},
	}
	if err := s.db.Create(&logs).Error; err != nil {
		t.Fatalf("seed audit logs: %v", err)
	}
}

func TestAuditLogFilters(t *testing.T) {
	s := newServer(t)
	admin := s.admin()
	seedAuditLogs(t, s)

	cases := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?from=2025-03-01&to=2025-03-10", 2}, // 23:59 on the end day is inside
		{"?to=2025-03-10", 2},
		{"?from=2025-03-11", 1},
		{"?q=RNG", 1},
		{"?q=COUNTER1", 2},
		{"?action=create", 2},
		{"?entity_type=return", 1},
		{"?actor=owner&action=update", 0},
	}
	for _, tc := range cases {
		w := s.do(http.MethodGet, "/api/audit-logs"+tc.query, admin, nil)
		expectStatus(t, w, http.StatusOK)
		var logs []models.AuditLog
		decode(t, w, &logs)
		if len(logs) != tc.want {
			t.Errorf("%q: expected %d entries, got %d", tc.query, tc.want, len(logs))
		}
	}

	w := s.do(http.MethodGet, "/api/audit-logs", admin, nil)
	var logs []models.AuditLog
	decode(t, w, &logs)
	if logs[0].EntityType != "return" {
		t.Errorf("expected newest entry first, got %+v", logs[0])
	}

	expectStatus(t, s.do(http.MethodGet, "/api/audit-logs?from=03/01/2025", admin, nil), http.StatusBadRequest)
}

func TestExportAuditLogs(t *testing.T) {
	s := newServer(t)
	admin := s.admin()
	seedAuditLogs(t, s)

	w := s.do(http.MethodGet, "/api/audit-logs/export?entity_type=item", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Audit Log")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header and 1 row, got %d rows", len(rows))
	}
	if rows[0][2] != "Actor" || rows[1][2] != "counter1" || rows[1][6] != "RNG-001 stock 2 -> 1" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestMutationsAreAudited(t *testing.T) {
	s := newServer(t)
	staff := s.staff()

	expectStatus(t, s.do(http.MethodPost, "/api/bills", staff, ringSale()), http.StatusCreated)

	var entry models.AuditLog
	if err := s.db.Where("entity_type = ? AND action = ?", "bill", "create").First(&entry).Error; err != nil {
		t.Fatalf("no bill audit entry: %v", err)
	}
	if entry.Actor != "counter1" || entry.EntityID != "1" || !strings.Contains(entry.Detail, "INV-") {
		t.Errorf("unexpected entry %+v", entry)
	}
}
