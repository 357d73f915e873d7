package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/filters"
	"go-jewel-backoffice/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// filteredAuditLogs applies q, action, entity_type, actor, from, to.
func filteredAuditLogs(c *gin.Context) ([]models.AuditLog, int, error) {
	r, err := filters.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	logs, err := database.ListAuditLogs()
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to fetch audit logs")
	}
	return filters.AuditLogs(logs, filters.AuditLogFilter{
		Search:     c.Query("q"),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Actor:      c.Query("actor"),
		Range:      r,
	}), http.StatusOK, nil
}

// --- GET: /api/audit-logs ---
func GetAuditLogs(c *gin.Context) {
	logs, status, err := filteredAuditLogs(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// --- GET: /api/audit-logs/export ---
// Same filters as the list, written to an xlsx workbook
func ExportAuditLogs(c *gin.Context) {
	logs, status, err := filteredAuditLogs(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	f, err := buildAuditWorkbook(logs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build workbook"})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook"})
		return
	}
	name := fmt.Sprintf("audit_logs_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

const auditSheet = "Audit Log"

func buildAuditWorkbook(logs []models.AuditLog) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", auditSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	headers := []string{"ID", "Time", "Actor", "Action", "Entity", "Entity ID", "Detail", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(auditSheet, cell, h)
		f.SetCellStyle(auditSheet, cell, cell, headerStyle)
	}

	for r, l := range logs {
		row := []interface{}{
			l.ID,
			l.CreatedAt.Format("2006-01-02 15:04:05"),
			l.Actor,
			l.Action,
			l.EntityType,
			l.EntityID,
			l.Detail,
			l.SourceAddress,
		}
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(auditSheet, cell, v)
		}
	}

	f.SetColWidth(auditSheet, "B", "B", 20)
	f.SetColWidth(auditSheet, "G", "G", 50)
	f.AutoFilter(auditSheet, "A1:H1", []excelize.AutoFilterOptions{})
	f.SetPanes(auditSheet, &excelize.Panes{Freeze: true, Split: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return f, nil
}
