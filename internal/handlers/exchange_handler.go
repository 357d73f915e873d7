package handlers

import (
	"net/http"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/filters"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/exchanges ---
// Old gold register joined with bill and customer. Query: q, from, to
func GetExchanges(c *gin.Context) {
	r, err := filters.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := database.ListExchangeListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch exchanges"})
		return
	}

	c.JSON(http.StatusOK, filters.Exchanges(rows, filters.ExchangeFilter{
		Search: c.Query("q"),
		Range:  r,
	}))
}

// --- GET: /api/exchanges/:id ---
func GetExchange(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Exchange ID"})
		return
	}

	var ex models.OldGoldExchange
	if err := database.DB.First(&ex, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exchange not found"})
		return
	}
	var bill models.Bill
	if err := database.DB.Preload("Customer").First(&bill, ex.BillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Linked bill not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exchange":    ex,
		"bill_number": bill.BillNumber,
		"bill_date":   bill.BillDate,
		"customer":    bill.Customer,
		"parsed":      billing.ResolveExchangeParticulars(ex.Particulars, ex.HSNCode, ex.Notes),
	})
}
