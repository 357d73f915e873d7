package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/categories ---
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// --- POST: /api/categories ---
func AddCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil || cat.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}
	cat.ID = 0
	if err := database.DB.Create(&cat).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category likely already exists"})
		return
	}
	audit(c, nil, "create", "category", cat.ID, cat.Name)
	c.JSON(http.StatusCreated, cat)
}

// --- DELETE: /api/categories/:id ---
func DeleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Category ID"})
		return
	}
	var inUse int64
	if err := database.DB.Model(&models.Item{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check category usage"})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete category. Items still use it."})
		return
	}
	if err := database.DB.Delete(&models.Category{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	audit(c, nil, "delete", "category", id, "")
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// --- GET: /api/items ---
// Optional ?category_id= filter
func GetItems(c *gin.Context) {
	q := database.DB.Preload("Category").Order("name")
	if cat := c.Query("category_id"); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- POST: /api/items ---
func AddItem(c *gin.Context) {
	var item models.Item
	if err := c.ShouldBindJSON(&item); err != nil || item.Name == "" || item.SKU == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item name and sku are required"})
		return
	}
	if item.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
		return
	}
	item.ID = 0
	item.Category = nil
	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create item, sku may already exist"})
		return
	}
	audit(c, nil, "create", "item", item.ID, fmt.Sprintf("%s stock %d", item.SKU, item.StockQuantity))
	c.JSON(http.StatusCreated, item)
}

// Fields an item update may touch
var itemFields = map[string]bool{
	"name": true, "category_id": true, "weight": true, "purity": true,
	"making_charge": true, "gst_rate": true, "stock_quantity": true,
}

// --- PUT: /api/items/:id ---
func UpdateItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Item ID"})
		return
	}

	var item models.Item
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	// A map keeps this a partial update: only what was sent changes
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	for k := range updateData {
		if !itemFields[k] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Field %q cannot be updated", k)})
			return
		}
	}
	if stock, touched := updateData["stock_quantity"]; touched {
		if n, ok := stock.(float64); !ok || n < 0 || n != float64(int(n)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must be a whole number >= 0"})
			return
		}
	}

	before := item.StockQuantity
	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload item"})
		return
	}
	audit(c, nil, "update", "item", item.ID, fmt.Sprintf("%s stock %d -> %d", item.SKU, before, item.StockQuantity))

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// --- DELETE: /api/items/:id ---
func DeleteItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Item ID"})
		return
	}
	res := database.DB.Delete(&models.Item{}, id)
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete item. It might be linked to past bills."})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	audit(c, nil, "delete", "item", id, "")
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// --- POST: /api/items/:id/image ---
// Stores the photo under dir and points the item at baseURL/uploads/<file>
func UploadItemImage(dir, baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Item ID"})
			return
		}
		var item models.Item
		if err := database.DB.First(&item, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !imageExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only jpg, png or webp images are accepted"})
			return
		}

		// e.g. "RNG-001_1767890123.jpg"
		filename := fmt.Sprintf("%s_%d%s", item.SKU, time.Now().Unix(), ext)
		if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		fullURL := strings.TrimRight(baseURL, "/") + "/uploads/" + filename
		if err := database.DB.Model(&item).Update("image_url", fullURL).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
			return
		}
		audit(c, nil, "update", "item", item.ID, "image "+filename)

		c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "url": fullURL})
	}
}
