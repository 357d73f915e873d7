package handlers

import (
	"net/http"

	"go-jewel-backoffice/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// AskAI answers admin questions about stock, sales and rates. Without a key the
// route stays mounted and reports that the assistant is off.
func AskAI(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
			return
		}

		if apiKey == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured (GEMINI_API_KEY)"})
			return
		}

		response, err := ai.RunAgent(c.Request.Context(), req.Message, apiKey)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": response})
	}
}
