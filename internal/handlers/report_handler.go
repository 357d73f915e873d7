package handlers

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminDashboard is the owner's landing screen
type AdminDashboard struct {
	Today       *database.SalesReportResult `json:"today"`
	AllTime     *database.SalesReportResult `json:"all_time"`
	Layaways    *database.LayawaySummary    `json:"layaways"`
	Returns     map[string]int64            `json:"returns"`
	RecentBills []models.Bill               `json:"recent_bills"`
}

// --- GET: /api/dashboard/admin ---
func GetAdminDashboard(c *gin.Context) {
	var data AdminDashboard
	var err error

	// 1. Today and all time totals
	start, end := database.DayBounds(time.Now())
	if data.Today, err = database.GetSalesReport(start, end); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}
	if data.AllTime, err = database.GetSalesReport(time.Time{}, time.Now().AddDate(100, 0, 0)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	// 2. Open advance bookings
	if data.Layaways, err = database.GetLayawaySummary(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarise layaways"})
		return
	}

	// 3. Returns per status
	if data.Returns, err = database.CountReturnsByStatus(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count returns"})
		return
	}

	// 4. Last 10 bills
	err = database.DB.Preload("Customer").Order("bill_date desc").Order("id desc").Limit(10).Find(&data.RecentBills).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent bills"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// StaffDashboard shows the caller's own counter activity for today
type StaffDashboard struct {
	Username   string        `json:"username"`
	BillCount  int           `json:"bill_count"`
	TotalSales float64       `json:"total_sales"`
	Bills      []models.Bill `json:"bills"`
}

// --- GET: /api/dashboard/staff ---
func GetStaffDashboard(c *gin.Context) {
	start, end := database.DayBounds(time.Now())

	var bills []models.Bill
	err := database.DB.Where("created_by = ? AND bill_date BETWEEN ? AND ?", currentUserID(c), start, end).
		Order("bill_date desc").
		Find(&bills).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}

	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(decimal.NewFromFloat(b.GrandTotal))
	}

	c.JSON(http.StatusOK, StaffDashboard{
		Username:   currentUsername(c),
		BillCount:  len(bills),
		TotalSales: total.Round(2).InexactFloat64(),
		Bills:      bills,
	})
}

// --- DATA STRUCTURES FOR VALUATION REPORT ---

// ValuationItem is one stocked piece valued at the latest board rate
type ValuationItem struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Purity      string  `json:"purity"`
	Quantity    int     `json:"quantity"`
	Weight      float64 `json:"weight"`
	RatePerGram float64 `json:"rate_per_gram"`
	Value       float64 `json:"value"`
}

// CategoryGroup is one table of the valuation sheet
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	TotalWeight  float64         `json:"total_weight"`
	Subtotal     float64         `json:"subtotal"`
}

type ValuationResponse struct {
	Categories  []CategoryGroup `json:"categories"`
	GrandTotal  float64         `json:"grand_total"`
	MissingRate []string        `json:"missing_rate,omitempty"`
}

// --- GET: /api/reports/valuation ---
// Stock weight per category at today's rate for each purity
func GetStockValuation(c *gin.Context) {
	var items []models.Item
	if err := database.DB.Preload("Category").Where("stock_quantity > 0").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	rates := map[string]decimal.Decimal{}
	var missing []string
	rateFor := func(purity string) (decimal.Decimal, error) {
		if r, ok := rates[purity]; ok {
			return r, nil
		}
		gr, err := database.LatestGoldRate(purity)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			missing = append(missing, purity)
			rates[purity] = decimal.Zero
			return decimal.Zero, nil
		}
		if err != nil {
			return decimal.Zero, err
		}
		rates[purity] = decimal.NewFromFloat(gr.RatePerGram)
		return rates[purity], nil
	}

	type groupTotals struct {
		group  *CategoryGroup
		weight decimal.Decimal
		value  decimal.Decimal
	}
	groups := map[string]*groupTotals{}
	grand := decimal.Zero

	for _, it := range items {
		catName := "Uncategorized"
		if it.Category != nil && it.Category.Name != "" {
			catName = it.Category.Name
		}
		g, ok := groups[catName]
		if !ok {
			g = &groupTotals{group: &CategoryGroup{CategoryName: catName, Items: []ValuationItem{}}}
			groups[catName] = g
		}

		rate, err := rateFor(it.Purity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gold rate"})
			return
		}
		weight := decimal.NewFromFloat(it.Weight).Mul(decimal.NewFromInt(int64(it.StockQuantity)))
		value := weight.Mul(rate).Round(2)

		g.group.Items = append(g.group.Items, ValuationItem{
			SKU:         it.SKU,
			Name:        it.Name,
			Purity:      it.Purity,
			Quantity:    it.StockQuantity,
			Weight:      weight.Round(3).InexactFloat64(),
			RatePerGram: rate.InexactFloat64(),
			Value:       value.InexactFloat64(),
		})
		g.weight = g.weight.Add(weight)
		g.value = g.value.Add(value)
		grand = grand.Add(value)
	}

	resp := ValuationResponse{Categories: []CategoryGroup{}, GrandTotal: grand.Round(2).InexactFloat64(), MissingRate: missing}
	for _, g := range groups {
		g.group.TotalWeight = g.weight.Round(3).InexactFloat64()
		g.group.Subtotal = g.value.Round(2).InexactFloat64()
		resp.Categories = append(resp.Categories, *g.group)
	}
	sort.Slice(resp.Categories, func(i, j int) bool {
		return resp.Categories[i].CategoryName < resp.Categories[j].CategoryName
	})

	c.JSON(http.StatusOK, resp)
}
