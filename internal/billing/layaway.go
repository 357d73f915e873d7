package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by every date field on the wire.
const DateLayout = "2006-01-02"

// TrackingThresholdDays is the gap between advance and final payment at which
// a layaway needs follow-up.
const TrackingThresholdDays = 3

var (
	ErrAdvanceNotPositive  = errors.New("advance amount must be greater than zero")
	ErrAdvanceExceedsTotal = errors.New("advance amount cannot exceed total amount")
	ErrMissingLayawayDate  = errors.New("advance, item taken and final payment dates are required")
)

// LayawayInput is one advance booking as typed at the counter.
type LayawayInput struct {
	AdvanceDate      time.Time
	ItemTakenDate    time.Time
	FinalPaymentDate time.Time
	AdvanceAmount    float64
	TotalAmount      float64
}

// LayawayResult is what gets stored on the bill.
type LayawayResult struct {
	RemainingAmount  float64 `json:"remaining_amount"`
	TrackingRequired bool    `json:"tracking_required"`
	DaysBetween      int     `json:"days_between"`
}

// ComputeLayaway validates a booking and derives its balance and tracking flag.
func ComputeLayaway(in LayawayInput) (LayawayResult, error) {
	if in.AdvanceDate.IsZero() || in.ItemTakenDate.IsZero() || in.FinalPaymentDate.IsZero() {
		return LayawayResult{}, ErrMissingLayawayDate
	}
	if in.AdvanceAmount <= 0 {
		return LayawayResult{}, ErrAdvanceNotPositive
	}
	if in.AdvanceAmount > in.TotalAmount {
		return LayawayResult{}, ErrAdvanceExceedsTotal
	}

	days := DaysBetween(in.AdvanceDate, in.FinalPaymentDate)
	return LayawayResult{
		RemainingAmount:  Remaining(in.TotalAmount, in.AdvanceAmount),
		TrackingRequired: abs(days) >= TrackingThresholdDays,
		DaysBetween:      days,
	}, nil
}

// Remaining is total minus advance. It is not clamped at zero.
func Remaining(total, advance float64) float64 {
	r, _ := decimal.NewFromFloat(total).Sub(decimal.NewFromFloat(advance)).Round(2).Float64()
	return r
}

// TrackingRequired is true when the two payments are at least three calendar
// days apart in either direction.
func TrackingRequired(advanceDate, finalPaymentDate time.Time) bool {
	return abs(DaysBetween(advanceDate, finalPaymentDate)) >= TrackingThresholdDays
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD calendar date in local time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
