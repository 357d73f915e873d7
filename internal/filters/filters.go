// Package filters narrows already-fetched lists the way the back-office
// screens do: OR-ed case-insensitive text search, exact categorical matches
// and whole-day inclusive date ranges.
package filters

import (
	"fmt"
	"strings"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/models"
)

// DateRange is inclusive on both ends. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseDateRange reads YYYY-MM-DD bounds. The end bound is moved to
// 23:59:59.999 so the whole end day is included.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		s, err := billing.ParseDate(start)
		if err != nil {
			return r, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		r.Start = &s
	}
	if end != "" {
		e, err := billing.ParseDate(end)
		if err != nil {
			return r, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		e = EndOfDay(e)
		r.End = &e
	}
	return r, nil
}

// EndOfDay returns 23:59:59.999 on the same calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// MatchesText is a case-insensitive substring match against any of fields.
// An empty query matches everything.
func MatchesText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchesExact is an equality filter where an empty want matches everything.
func MatchesExact(want, got string) bool {
	return want == "" || want == got
}

// AuditLogFilter narrows the audit log screen.
type AuditLogFilter struct {
	Search     string
	Action     string
	EntityType string
	Actor      string
	Range      DateRange
}

// AuditLogs returns the entries matching f, keeping input order.
func AuditLogs(logs []models.AuditLog, f AuditLogFilter) []models.AuditLog {
	out := make([]models.AuditLog, 0, len(logs))
	for _, l := range logs {
		if !MatchesText(f.Search, l.Actor, l.Action, l.EntityType, l.EntityID, l.Detail) {
			continue
		}
		if !MatchesExact(f.Action, l.Action) || !MatchesExact(f.EntityType, l.EntityType) || !MatchesExact(f.Actor, l.Actor) {
			continue
		}
		if !f.Range.Contains(l.CreatedAt) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ExchangeFilter narrows the old gold exchange register.
type ExchangeFilter struct {
	Search string
	Range  DateRange
}

// Exchanges returns the listings matching f.
func Exchanges(rows []models.ExchangeListing, f ExchangeFilter) []models.ExchangeListing {
	out := make([]models.ExchangeListing, 0, len(rows))
	for _, r := range rows {
		if !MatchesText(f.Search, r.BillNumber, r.SlipNumber, r.CustomerName, r.CustomerPhone, r.Particulars) {
			continue
		}
		if !f.Range.Contains(r.BillDate) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// BillFilter narrows the bill list.
type BillFilter struct {
	Search        string
	PaymentMethod string
	GSTMode       string
	LayawayOnly   bool
	Range         DateRange
}

// Bills returns the bills matching f. Customer fields are searched when preloaded.
func Bills(bills []models.Bill, f BillFilter) []models.Bill {
	out := make([]models.Bill, 0, len(bills))
	for _, b := range bills {
		var name, phone string
		if b.Customer != nil {
			name, phone = b.Customer.Name, b.Customer.Phone
		}
		if !MatchesText(f.Search, b.BillNumber, name, phone) {
			continue
		}
		if !MatchesExact(f.PaymentMethod, b.PaymentMethod) || !MatchesExact(f.GSTMode, b.GSTMode) {
			continue
		}
		if f.LayawayOnly && !b.IsLayaway() {
			continue
		}
		if !f.Range.Contains(b.BillDate) {
			continue
		}
		out = append(out, b)
	}
	return out
}
