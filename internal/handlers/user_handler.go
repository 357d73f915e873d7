package handlers

import (
	"fmt"
	"net/http"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
)

// PermissionsRequest - nil fields are left unchanged
type PermissionsRequest struct {
	CanEditBills       *bool `json:"can_edit_bills"`
	CanEditStock       *bool `json:"can_edit_stock"`
	CanAuthorizeNonGST *bool `json:"can_authorize_nongst"`
}

// --- GET: /api/users ---
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("username").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	out := make([]UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, profileOf(u))
	}
	c.JSON(http.StatusOK, out)
}

// --- PUT: /api/users/:id/permissions ---
// Takes effect on the user's next login
func UpdateUserPermissions(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid User ID"})
		return
	}
	var req PermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.CanEditBills != nil {
		updates["can_edit_bills"] = *req.CanEditBills
	}
	if req.CanEditStock != nil {
		updates["can_edit_stock"] = *req.CanEditStock
	}
	if req.CanAuthorizeNonGST != nil {
		updates["can_authorize_nongst"] = *req.CanAuthorizeNonGST
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No permission given"})
		return
	}

	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update permissions"})
		return
	}
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload user"})
		return
	}
	audit(c, nil, "permissions", "user", user.ID, fmt.Sprintf("bills=%t stock=%t nongst=%t",
		user.CanEditBills, user.CanEditStock, user.CanAuthorizeNonGST))

	c.JSON(http.StatusOK, profileOf(user))
}
