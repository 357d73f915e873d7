package database

import (
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/models"
)

type exchangeRow struct {
	models.ExchangeListing
	Notes string
}

// ListExchangeListings joins every exchange with its bill and customer,
// newest bill first. Particulars come from the structured columns, or from
// the legacy notes when those are blank.
func ListExchangeListings() ([]models.ExchangeListing, error) {
	var rows []exchangeRow
	err := DB.Table("old_gold_exchanges AS e").
		Select(`e.id AS exchange_id, e.slip_number, e.bill_id, b.bill_number, b.bill_date,
			COALESCE(c.name, '') AS customer_name, COALESCE(c.phone, '') AS customer_phone,
			e.weight, e.purity, e.rate_per_gram, e.total_value, e.particulars, e.hsn_code, e.notes`).
		Joins("JOIN bills AS b ON b.id = e.bill_id").
		Joins("LEFT JOIN customers AS c ON c.id = b.customer_id").
		Order("b.bill_date desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.ExchangeListing, 0, len(rows))
	for _, r := range rows {
		p := billing.ResolveExchangeParticulars(r.Particulars, r.HSNCode, r.Notes)
		r.ExchangeListing.Particulars = p.Particulars
		r.ExchangeListing.HSNCode = p.HSNCode
		out = append(out, r.ExchangeListing)
	}
	return out, nil
}

// MigrateExchangeNotes fills particulars/hsn_code from legacy notes on rows
// where they are still blank. Returns the number of rows updated.
func MigrateExchangeNotes() (int, error) {
	var legacy []models.OldGoldExchange
	err := DB.Where("particulars = '' OR particulars IS NULL OR hsn_code = '' OR hsn_code IS NULL").
		Find(&legacy).Error
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, ex := range legacy {
		p := billing.ResolveExchangeParticulars(ex.Particulars, ex.HSNCode, ex.Notes)
		err := DB.Model(&models.OldGoldExchange{}).Where("id = ?", ex.ID).
			Updates(map[string]interface{}{"particulars": p.Particulars, "hsn_code": p.HSNCode}).Error
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// LatestGoldRate returns the most recent board rate for a purity label.
func LatestGoldRate(purity string) (*models.GoldRate, error) {
	var rate models.GoldRate
	err := DB.Where("purity = ?", purity).
		Order("effective_date desc").Order("id desc").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GoldRateCacheKey is the Redis key for the latest rate of a purity.
func GoldRateCacheKey(purity string) string {
	return "gold_rate:latest:" + purity
}

// GoldRateCacheTTL bounds how stale a cached board rate may be.
const GoldRateCacheTTL = 30 * time.Minute
