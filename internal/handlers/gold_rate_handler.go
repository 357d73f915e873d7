package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GoldRateRequest struct {
	Purity        string  `json:"purity" binding:"required"`
	RatePerGram   float64 `json:"rate_per_gram" binding:"gt=0"`
	EffectiveDate string  `json:"effective_date"`
}

// --- GET: /api/gold-rates ---
func GetGoldRates(c *gin.Context) {
	var rates []models.GoldRate
	if err := database.DB.Order("effective_date desc").Order("id desc").Limit(100).Find(&rates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gold rates"})
		return
	}
	c.JSON(http.StatusOK, rates)
}

// --- GET: /api/gold-rates/latest?purity=22K ---
func GetLatestGoldRate(c *gin.Context) {
	purity := c.DefaultQuery("purity", "22K")
	ctx := c.Request.Context()

	var rate models.GoldRate
	if err := database.CacheGet(ctx, database.GoldRateCacheKey(purity), &rate); err == nil {
		c.JSON(http.StatusOK, rate)
		return
	}

	latest, err := database.LatestGoldRate(purity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate recorded for " + purity})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch gold rate"})
		return
	}
	database.CacheSet(ctx, database.GoldRateCacheKey(purity), latest, database.GoldRateCacheTTL)
	c.JSON(http.StatusOK, latest)
}

// --- POST: /api/gold-rates ---
func AddGoldRate(c *gin.Context) {
	var req GoldRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "purity and a positive rate_per_gram are required"})
		return
	}

	effective := time.Now()
	if req.EffectiveDate != "" {
		d, err := billing.ParseDate(req.EffectiveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "effective_date must be YYYY-MM-DD"})
			return
		}
		effective = d
	}

	rate := models.GoldRate{
		Purity:        req.Purity,
		RatePerGram:   req.RatePerGram,
		EffectiveDate: effective,
		CreatedBy:     currentUserID(c),
	}
	if err := database.DB.Create(&rate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save gold rate"})
		return
	}
	database.CacheDel(c.Request.Context(), database.GoldRateCacheKey(rate.Purity))
	audit(c, nil, "create", "gold_rate", rate.ID, fmt.Sprintf("%s %.2f", rate.Purity, rate.RatePerGram))

	c.JSON(http.StatusCreated, rate)
}
