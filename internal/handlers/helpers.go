package handlers

import (
	"strconv"

	"go-jewel-backoffice/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// paramID reads a positive numeric :id path parameter.
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUserID is set by AuthMiddleware.
func currentUserID(c *gin.Context) uint {
	id, _ := c.Get("userID")
	uid, _ := id.(uint)
	return uid
}

func currentUsername(c *gin.Context) string {
	name, _ := c.Get("username")
	s, _ := name.(string)
	return s
}

// audit appends an entry for the calling user. Pass tx to tie the entry to a transaction.
func audit(c *gin.Context, tx *gorm.DB, action, entityType string, entityID interface{}, detail string) {
	database.RecordAudit(tx, database.AuditEntry{
		Actor:         currentUsername(c),
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		SourceAddress: c.ClientIP(),
	})
}
