package database

import (
	"time"

	"go-jewel-backoffice/internal/models"

	"gorm.io/gorm"
)

// SalesReportResult holds billed totals for a period
type SalesReportResult struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalTax       float64 `json:"total_tax"`
	ExchangeCredit float64 `json:"exchange_credit"`
	TotalCount     int64   `json:"total_count"`
}

// GetSalesReport sums bills dated within [start, end]
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE gives 0 instead of NULL when the period has no bills
	err := DB.Model(&models.Bill{}).
		Where("bill_date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(grand_total), 0) AS total_revenue, COALESCE(SUM(tax_total), 0) AS total_tax, COALESCE(SUM(exchange_credit), 0) AS exchange_credit").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Bill{}).
		Where("bill_date BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// LayawaySummary counts bills that still owe a balance
type LayawaySummary struct {
	OpenCount        int64   `json:"open_count"`
	TrackingRequired int64   `json:"tracking_required"`
	OutstandingTotal float64 `json:"outstanding_total"`
}

// GetLayawaySummary looks at layaway bills with a positive remaining amount
func GetLayawaySummary() (*LayawaySummary, error) {
	var s LayawaySummary
	open := DB.Model(&models.Bill{}).
		Where("advance_date IS NOT NULL AND remaining_amount > 0").
		Session(&gorm.Session{})

	if err := open.Count(&s.OpenCount).Error; err != nil {
		return nil, err
	}
	if err := open.Where("tracking_required = ?", true).Count(&s.TrackingRequired).Error; err != nil {
		return nil, err
	}
	if err := open.Select("COALESCE(SUM(remaining_amount), 0)").Scan(&s.OutstandingTotal).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountReturnsByStatus returns how many return requests sit in each status
func CountReturnsByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := DB.Model(&models.Return{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// DayBounds returns midnight and 23:59:59.999 for t's calendar day
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24*time.Hour - time.Millisecond)
}
