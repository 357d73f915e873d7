package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/metrics"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ReturnCalcRequest struct {
	OriginalAmount   float64  `json:"original_amount"`
	DeductionPercent *float64 `json:"deduction_percent"`
}

func (r ReturnCalcRequest) percent() float64 {
	if r.DeductionPercent == nil {
		return billing.DefaultDeductionPercent
	}
	return *r.DeductionPercent
}

type CreateReturnRequest struct {
	ReturnCalcRequest
	BillID     uint   `json:"bill_id" binding:"required"`
	BillItemID uint   `json:"bill_item_id" binding:"required"`
	Reason     string `json:"reason"`
}

// --- POST: /api/returns/calculate ---
func CalculateReturn(c *gin.Context) {
	var req ReturnCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	p := req.percent()
	if err := billing.ValidateReturn(req.OriginalAmount, p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"original_amount":   req.OriginalAmount,
		"deduction_percent": p,
		"refund_amount":     billing.Refund(req.OriginalAmount, p),
	})
}

// --- POST: /api/returns ---
func CreateReturn(c *gin.Context) {
	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill_id and bill_item_id are required"})
		return
	}
	p := req.percent()
	if err := billing.ValidateReturn(req.OriginalAmount, p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 1. The line must belong to the bill
	var line models.BillItem
	if err := database.DB.Where("id = ? AND bill_id = ?", req.BillItemID, req.BillID).First(&line).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill line not found"})
		return
	}

	// 2. The return must fit inside what is left of the line
	if req.OriginalAmount > line.LineTotal {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Return amount exceeds the line total of %.2f", line.LineTotal)})
		return
	}
	var open int64
	if err := database.DB.Model(&models.Return{}).
		Where("bill_item_id = ? AND status <> ?", line.ID, string(billing.ReturnCompleted)).
		Count(&open).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing returns"})
		return
	}
	if open > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "This line already has a return in progress"})
		return
	}
	var returned float64
	if err := database.DB.Model(&models.Return{}).
		Where("bill_item_id = ?", line.ID).
		Select("COALESCE(SUM(original_amount), 0)").
		Scan(&returned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing returns"})
		return
	}
	if decimal.NewFromFloat(returned).Add(decimal.NewFromFloat(req.OriginalAmount)).GreaterThan(decimal.NewFromFloat(line.LineTotal)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Only %.2f of this line is left to return", line.LineTotal-returned)})
		return
	}

	// 3. Save as pending with the computed refund
	ret := models.Return{
		BillID:           req.BillID,
		BillItemID:       req.BillItemID,
		OriginalAmount:   req.OriginalAmount,
		DeductionPercent: p,
		RefundAmount:     billing.Refund(req.OriginalAmount, p),
		Status:           string(billing.ReturnPending),
		Reason:           req.Reason,
		ProcessedBy:      currentUserID(c),
	}
	if err := database.DB.Create(&ret).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create return"})
		return
	}
	metrics.ReturnTransitions.WithLabelValues(ret.Status).Inc()
	audit(c, nil, "create", "return", ret.ID, fmt.Sprintf("bill %d line %d refund %.2f", ret.BillID, ret.BillItemID, ret.RefundAmount))

	c.JSON(http.StatusCreated, ret)
}

// --- GET: /api/returns ---
// Optional ?status= filter
func GetReturns(c *gin.Context) {
	q := database.DB.Order("created_at desc").Order("id desc")
	if s := c.Query("status"); s != "" {
		if !billing.ReturnStatus(s).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		q = q.Where("status = ?", s)
	}

	var returns []models.Return
	if err := q.Find(&returns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch returns"})
		return
	}
	c.JSON(http.StatusOK, returns)
}

// --- POST: /api/returns/:id/approve ---
func ApproveReturn(c *gin.Context) {
	advanceReturn(c, billing.ReturnApproved)
}

// --- POST: /api/returns/:id/complete ---
func CompleteReturn(c *gin.Context) {
	advanceReturn(c, billing.ReturnCompleted)
}

func advanceReturn(c *gin.Context, target billing.ReturnStatus) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Return ID"})
		return
	}

	var ret models.Return
	if err := database.DB.First(&ret, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Return not found"})
		return
	}

	current := billing.ReturnStatus(ret.Status)
	if err := billing.Advance(current, target); err != nil {
		if errors.Is(err, billing.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Return is %s and cannot become %s", current, target)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	by := currentUserID(c)
	updates := map[string]interface{}{"status": string(target)}
	switch target {
	case billing.ReturnApproved:
		updates["approved_at"] = now
		updates["approved_by"] = by
	case billing.ReturnCompleted:
		updates["completed_at"] = now
		updates["completed_by"] = by
	}

	// Guard on the old status so two clicks cannot both advance the row
	res := database.DB.Model(&models.Return{}).
		Where("id = ? AND status = ?", ret.ID, string(current)).
		Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update return"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Return was changed by someone else, reload and try again"})
		return
	}

	metrics.ReturnTransitions.WithLabelValues(string(target)).Inc()
	audit(c, nil, string(target), "return", ret.ID, fmt.Sprintf("%s -> %s", current, target))

	if err := database.DB.First(&ret, ret.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload return"})
		return
	}
	c.JSON(http.StatusOK, ret)
}
