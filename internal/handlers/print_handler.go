package handlers

import (
	"errors"
	"net/http"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/models"
	"go-jewel-backoffice/internal/printing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AckRequest struct {
	Phase string `json:"phase" binding:"required"`
}

// --- POST: /api/bills/:id/print ---
// Starts a job and hands back the first document
func StartPrint(c *gin.Context) {
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

	job := models.PrintJob{
		ID:        uuid.NewString(),
		BillID:    bill.ID,
		Phase:     string(printing.FirstPhase()),
		CreatedBy: currentUserID(c),
	}
	doc, err := printing.Render(bill, printing.FirstPhase())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := database.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start print job"})
		return
	}
	audit(c, nil, "print", "bill", bill.ID, "job "+job.ID)

	c.JSON(http.StatusCreated, gin.H{"job": job, "document": doc})
}

// --- POST: /api/print-jobs/:id/ack ---
// Confirms the printed phase and releases the next document, if any
func AckPrint(c *gin.Context) {
	var req AckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phase is required"})
		return
	}

	var job models.PrintJob
	if err := database.DB.First(&job, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Print job not found"})
		return
	}
	var bill models.Bill
	if err := loadBill(database.DB, job.BillID, &bill); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bill not found"})
		return
	}

	current := printing.Phase(job.Phase)
	next, err := printing.Acknowledge(current, printing.Phase(req.Phase), bill.Exchange != nil)
	if err != nil {
		if errors.Is(err, printing.ErrJobFinished) || errors.Is(err, printing.ErrPhaseMismatch) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "phase": job.Phase})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Only the ack that still sees the old phase moves the job
	res := database.DB.Model(&models.PrintJob{}).
		Where("id = ? AND phase = ?", job.ID, job.Phase).
		Update("phase", string(next))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update print job"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Print job already acknowledged"})
		return
	}
	job.Phase = string(next)

	doc, err := printing.Render(bill, next)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "document": doc})
}

// --- GET: /api/print-jobs/:id ---
func GetPrintJob(c *gin.Context) {
	var job models.PrintJob
	if err := database.DB.First(&job, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Print job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
