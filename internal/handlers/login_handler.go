package handlers

import (
	"errors"
	"log"
	"net/http"

	"go-jewel-backoffice/internal/auth"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/metrics"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserProfile is the user as the browser keeps it in session storage. It never
// carries the stored credential.
type UserProfile struct {
	ID                 uint   `json:"id"`
	Username           string `json:"username"`
	Role               string `json:"role"`
	StaffCode          string `json:"staff_code"`
	CanEditBills       bool   `json:"can_edit_bills"`
	CanEditStock       bool   `json:"can_edit_stock"`
	CanAuthorizeNonGST bool   `json:"can_authorize_nongst"`
}

func profileOf(u models.User) UserProfile {
	return UserProfile{
		ID:                 u.ID,
		Username:           u.Username,
		Role:               u.Role,
		StaffCode:          u.StaffCode,
		CanEditBills:       u.CanEditBills,
		CanEditStock:       u.CanEditStock,
		CanAuthorizeNonGST: u.CanAuthorizeNonGST,
	}
}

const invalidCredentials = "Invalid credentials"

// --- POST: /api/auth/login ---
func Login(c *gin.Context) {
	var input LoginRequest
	// 1. Both fields are required
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	// 2. Find User in DB. Unknown users get the same answer as a wrong password.
	var user models.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
			return
		}
		log.Printf("login: lookup %q: %v", input.Username, err)
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed, please try again"})
		return
	}

	// 3. Verify Password (bcrypt hash or legacy plaintext)
	if !auth.CheckPassword(user.Password, input.Password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentials})
		return
	}

	// 4. Sign a token carrying role and permission flags
	token, err := auth.GenerateToken(auth.Claims{
		UserID:             user.ID,
		Username:           user.Username,
		Role:               user.Role,
		CanEditBills:       user.CanEditBills,
		CanEditStock:       user.CanEditStock,
		CanAuthorizeNonGST: user.CanAuthorizeNonGST,
	})
	if err != nil {
		log.Printf("login: sign token for %q: %v", user.Username, err)
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed, please try again"})
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	database.RecordAudit(nil, database.AuditEntry{
		Actor:         user.Username,
		Action:        "login",
		EntityType:    "user",
		EntityID:      user.ID,
		SourceAddress: c.ClientIP(),
	})

	// 5. Success! Return the profile and the bearer token
	c.JSON(http.StatusOK, gin.H{
		"user":  profileOf(user),
		"token": token,
	})
}
