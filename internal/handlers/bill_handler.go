package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/filters"
	"go-jewel-backoffice/internal/metrics"
	"go-jewel-backoffice/internal/middleware"
	"go-jewel-backoffice/internal/models"
	"go-jewel-backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BillLineRequest struct {
	ItemID       *uint   `json:"item_id"`
	ItemName     string  `json:"item_name" binding:"required"`
	Weight       float64 `json:"weight" binding:"gt=0"`
	Rate         float64 `json:"rate" binding:"gte=0"`
	MakingCharge float64 `json:"making_charge" binding:"gte=0"`
	GSTRate      float64 `json:"gst_rate" binding:"gte=0,lte=100"`
}

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
}

type LayawayRequest struct {
	AdvanceDate      string  `json:"advance_date"`
	ItemTakenDate    string  `json:"item_taken_date"`
	FinalPaymentDate string  `json:"final_payment_date"`
	AdvanceAmount    float64 `json:"advance_amount"`
}

type ExchangeRequest struct {
	Weight      float64 `json:"weight" binding:"gt=0"`
	Purity      float64 `json:"purity" binding:"gte=0,lte=100"`
	RatePerGram float64 `json:"rate_per_gram" binding:"gt=0"`
	Particulars string  `json:"particulars"`
	HSNCode     string  `json:"hsn_code"`
	Notes       string  `json:"notes"`
}

// CreateBillRequest is one counter sale: lines, optional customer, layaway and exchange
type CreateBillRequest struct {
	BillDate      string            `json:"bill_date"`
	CustomerID    *uint             `json:"customer_id"`
	Customer      *CustomerRequest  `json:"customer"`
	Items         []BillLineRequest `json:"items" binding:"required,min=1,dive"`
	GSTMode       string            `json:"gst_mode"`
	PaymentMethod string            `json:"payment_method" binding:"required,oneof=cash card upi bank cheque"`
	Layaway       *LayawayRequest   `json:"layaway"`
	Exchange      *ExchangeRequest  `json:"exchange"`
}

// billError carries the HTTP status for failures raised inside the bill transaction
type billError struct {
	status int
	msg    string
}

func (e *billError) Error() string { return e.msg }

func (r LayawayRequest) toInput(total float64) (billing.LayawayInput, error) {
	in := billing.LayawayInput{AdvanceAmount: r.AdvanceAmount, TotalAmount: total}
	dates := []struct {
		raw string
		dst *time.Time
	}{
		{r.AdvanceDate, &in.AdvanceDate},
		{r.ItemTakenDate, &in.ItemTakenDate},
		{r.FinalPaymentDate, &in.FinalPaymentDate},
	}
	for _, d := range dates {
		if d.raw == "" {
			continue
		}
		t, err := billing.ParseDate(d.raw)
		if err != nil {
			return in, fmt.Errorf("invalid date %q, use YYYY-MM-DD", d.raw)
		}
		*d.dst = t
	}
	return in, nil
}

// --- POST: /api/bills ---
func CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bill: " + err.Error()})
		return
	}

	// 1. GST mode, and who may skip GST
	mode, err := billing.ParseGSTMode(req.GSTMode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if mode == billing.GSTNone && !middleware.HasPermission(c, middleware.PermAuthorizeNonGST) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorised to create non-GST bills"})
		return
	}

	billDate := time.Now()
	if req.BillDate != "" {
		d, err := billing.ParseDate(req.BillDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bill_date must be YYYY-MM-DD"})
			return
		}
		billDate = d
	}

	// 2. Price the lines and the exchange credit
	lines := make([]billing.Line, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, billing.Line{Weight: it.Weight, Rate: it.Rate, MakingCharge: it.MakingCharge, GSTRate: it.GSTRate})
	}
	var exchangeValue float64
	if req.Exchange != nil {
		exchangeValue = billing.ExchangeValue(req.Exchange.Weight, req.Exchange.RatePerGram)
	}
	totals := billing.ComputeTotals(lines, mode, exchangeValue)

	bill := models.Bill{
		BillNumber:     utils.PendingNumber(),
		BillDate:       billDate,
		CustomerID:     req.CustomerID,
		Subtotal:       totals.Subtotal,
		CGST:           totals.Tax.CGST,
		SGST:           totals.Tax.SGST,
		IGST:           totals.Tax.IGST,
		TaxTotal:       totals.Tax.Total,
		ExchangeCredit: totals.ExchangeCredit,
		GrandTotal:     totals.GrandTotal,
		PaymentMethod:  req.PaymentMethod,
		GSTMode:        string(mode),
		CreatedBy:      currentUserID(c),
	}
	for i, it := range req.Items {
		bill.Items = append(bill.Items, models.BillItem{
			ItemID:       it.ItemID,
			ItemName:     it.ItemName,
			Weight:       it.Weight,
			Rate:         it.Rate,
			MakingCharge: it.MakingCharge,
			GSTRate:      it.GSTRate,
			LineTotal:    totals.Lines[i].Total,
		})
	}

	// 3. Layaway fields are derived, never taken from the client
	if req.Layaway != nil {
		in, err := req.Layaway.toInput(totals.GrandTotal)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := billing.ComputeLayaway(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		bill.AdvanceDate = &in.AdvanceDate
		bill.ItemTakenDate = &in.ItemTakenDate
		bill.FinalPaymentDate = &in.FinalPaymentDate
		bill.AdvanceAmount = in.AdvanceAmount
		bill.RemainingAmount = res.RemainingAmount
		bill.TrackingRequired = res.TrackingRequired
	}

	// 4. Bill, lines, stock and exchange are written in one transaction
	tx := database.DB.Begin()
	if err := saveBill(c, tx, &bill, req); err != nil {
		tx.Rollback()
		var be *billError
		if errors.As(err, &be) {
			c.JSON(be.status, gin.H{"error": be.msg})
			return
		}
		log.Printf("bills: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save bill"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("bills: commit failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save bill"})
		return
	}
	metrics.BillsCreated.WithLabelValues(string(mode)).Inc()

	var saved models.Bill
	if err := loadBill(database.DB, bill.ID, &saved); err != nil {
		c.JSON(http.StatusCreated, bill)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func saveBill(c *gin.Context, tx *gorm.DB, bill *models.Bill, req CreateBillRequest) error {
	// Customer: existing id, or a new record (reused when the phone is already known)
	if req.CustomerID != nil {
		var cust models.Customer
		if err := tx.First(&cust, *req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &billError{http.StatusBadRequest, "Customer not found"}
			}
			return err
		}
	} else if req.Customer != nil {
		cust, err := findOrCreateCustomer(tx, *req.Customer)
		if err != nil {
			return err
		}
		bill.CustomerID = &cust.ID
	}

	// Linked stock pieces leave inventory, locked against concurrent sales
	for _, line := range bill.Items {
		if line.ItemID == nil {
			continue
		}
		var item models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, *line.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &billError{http.StatusNotFound, fmt.Sprintf("Item %d not found", *line.ItemID)}
			}
			return err
		}
		if item.StockQuantity < 1 {
			return &billError{http.StatusBadRequest, fmt.Sprintf("Insufficient stock for %s", item.Name)}
		}
		if err := tx.Model(&item).Update("stock_quantity", item.StockQuantity-1).Error; err != nil {
			return err
		}
	}

	if err := tx.Create(bill).Error; err != nil {
		return err
	}
	bill.BillNumber = utils.GenBillNumber(bill.ID, bill.BillDate)
	if err := tx.Model(bill).Update("bill_number", bill.BillNumber).Error; err != nil {
		return err
	}

	if req.Exchange != nil {
		p := billing.ResolveExchangeParticulars(req.Exchange.Particulars, req.Exchange.HSNCode, req.Exchange.Notes)
		ex := models.OldGoldExchange{
			BillID:      bill.ID,
			Weight:      req.Exchange.Weight,
			Purity:      req.Exchange.Purity,
			RatePerGram: req.Exchange.RatePerGram,
			TotalValue:  bill.ExchangeCredit,
			Notes:       req.Exchange.Notes,
			Particulars: p.Particulars,
			HSNCode:     p.HSNCode,
		}
		if err := tx.Create(&ex).Error; err != nil {
			return err
		}
		ex.SlipNumber = utils.GenSlipNumber(ex.ID, bill.BillDate)
		if err := tx.Model(&ex).Update("slip_number", ex.SlipNumber).Error; err != nil {
			return err
		}
		bill.Exchange = &ex
	}

	audit(c, tx, "create", "bill", bill.ID, fmt.Sprintf("%s total %.2f", bill.BillNumber, bill.GrandTotal))
	return nil
}

func findOrCreateCustomer(tx *gorm.DB, req CustomerRequest) (*models.Customer, error) {
	var cust models.Customer
	if req.Phone != "" {
		err := tx.Where("phone = ?", req.Phone).First(&cust).Error
		if err == nil {
			return &cust, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	cust = models.Customer{Name: req.Name, Phone: req.Phone, Address: req.Address, GSTIN: req.GSTIN}
	if err := tx.Create(&cust).Error; err != nil {
		return nil, err
	}
	return &cust, nil
}

func loadBill(db *gorm.DB, id uint, dst *models.Bill) error {
	return db.Preload("Items").Preload("Exchange").Preload("Customer").First(dst, id).Error
}

// --- GET: /api/bills ---
// Query: q, from, to (YYYY-MM-DD), payment_method, gst_mode, layaway=true
func GetBills(c *gin.Context) {
	r, err := filters.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var bills []models.Bill
	if err := database.DB.Preload("Customer").Order("bill_date desc").Order("id desc").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}

	c.JSON(http.StatusOK, filters.Bills(bills, filters.BillFilter{
		Search:        c.Query("q"),
		PaymentMethod: c.Query("payment_method"),
		GSTMode:       c.Query("gst_mode"),
		LayawayOnly:   c.Query("layaway") == "true",
		Range:         r,
	}))
}

// --- GET: /api/bills/:id ---
func GetBill(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Bill ID"})
		return
	}
	var bill models.Bill
	if err := loadBill(database.DB, id, &bill); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}
	c.JSON(http.StatusOK, bill)
}

// UpdateBillRequest lists what may change after a bill is saved
type UpdateBillRequest struct {
	PaymentMethod    *string  `json:"payment_method" binding:"omitempty,oneof=cash card upi bank cheque"`
	CustomerID       *uint    `json:"customer_id"`
	ItemTakenDate    *string  `json:"item_taken_date"`
	FinalPaymentDate *string  `json:"final_payment_date"`
	AdvanceAmount    *float64 `json:"advance_amount"`
}

func (r UpdateBillRequest) touchesLayaway() bool {
	return r.ItemTakenDate != nil || r.FinalPaymentDate != nil || r.AdvanceAmount != nil
}

// --- PUT: /api/bills/:id ---
func UpdateBill(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Bill ID"})
		return
	}

	var bill models.Bill
	if err := database.DB.First(&bill, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}

	var req UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if req.PaymentMethod != nil {
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.CustomerID != nil {
		var cust models.Customer
		if err := database.DB.First(&cust, *req.CustomerID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Customer not found"})
			return
		}
		updates["customer_id"] = *req.CustomerID
	}

	// Layaway changes are recomputed from the stored advance date and grand total
	if req.touchesLayaway() {
		if !bill.IsLayaway() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bill is not a layaway booking"})
			return
		}
		in := billing.LayawayInput{
			AdvanceDate:   *bill.AdvanceDate,
			AdvanceAmount: bill.AdvanceAmount,
			TotalAmount:   bill.GrandTotal,
		}
		if bill.ItemTakenDate != nil {
			in.ItemTakenDate = *bill.ItemTakenDate
		}
		if bill.FinalPaymentDate != nil {
			in.FinalPaymentDate = *bill.FinalPaymentDate
		}
		for _, d := range []struct {
			raw *string
			dst *time.Time
		}{{req.ItemTakenDate, &in.ItemTakenDate}, {req.FinalPaymentDate, &in.FinalPaymentDate}} {
			if d.raw == nil {
				continue
			}
			t, err := billing.ParseDate(*d.raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD"})
				return
			}
			*d.dst = t
		}
		if req.AdvanceAmount != nil {
			in.AdvanceAmount = *req.AdvanceAmount
		}

		res, err := billing.ComputeLayaway(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		updates["item_taken_date"] = in.ItemTakenDate
		updates["final_payment_date"] = in.FinalPaymentDate
		updates["advance_amount"] = in.AdvanceAmount
		updates["remaining_amount"] = res.RemainingAmount
		updates["tracking_required"] = res.TrackingRequired
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	if err := database.DB.Model(&bill).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bill"})
		return
	}
	audit(c, nil, "update", "bill", bill.ID, fmt.Sprintf("%s fields %d", bill.BillNumber, len(updates)))

	var saved models.Bill
	if err := loadBill(database.DB, bill.ID, &saved); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload bill"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill updated successfully", "bill": saved})
}

// LayawayCalcRequest mirrors the layaway form on the billing screen
type LayawayCalcRequest struct {
	LayawayRequest
	TotalAmount float64 `json:"total_amount"`
}

// --- POST: /api/layaway/calculate ---
func CalculateLayaway(c *gin.Context) {
	var req LayawayCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	in, err := req.toInput(req.TotalAmount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := billing.ComputeLayaway(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- GET: /api/layaways ---
// Open bookings that still owe a balance, soonest final payment first
func GetOpenLayaways(c *gin.Context) {
	var bills []models.Bill
	q := database.DB.Preload("Customer").
		Where("advance_date IS NOT NULL AND remaining_amount > 0")
	if c.Query("tracking") == "true" {
		q = q.Where("tracking_required = ?", true)
	}
	if err := q.Order("final_payment_date asc").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch layaways"})
		return
	}
	c.JSON(http.StatusOK, bills)
}
