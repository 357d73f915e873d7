package handlers

import (
	"net/http"
	"strings"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/customers?q= ---
func GetCustomers(c *gin.Context) {
	q := database.DB.Order("name")
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := q.Limit(200).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// --- POST: /api/customers ---
func AddCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required"})
		return
	}
	cust := models.Customer{Name: req.Name, Phone: req.Phone, Address: req.Address, GSTIN: req.GSTIN}
	if err := database.DB.Create(&cust).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	audit(c, nil, "create", "customer", cust.ID, cust.Name)
	c.JSON(http.StatusCreated, cust)
}

// --- GET: /api/customers/:id ---
// Customer with their bills, newest first
func GetCustomer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Customer ID"})
		return
	}
	var cust models.Customer
	if err := database.DB.First(&cust, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	var bills []models.Bill
	if err := database.DB.Where("customer_id = ?", id).Order("bill_date desc").Find(&bills).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": cust, "bills": bills})
}
