package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuditController struct {
	AuditService *AuditService
}

func (ac *AuditController) GetLogs(c *gin.Context) {
	var input AuditFilterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, aggs, total, totalPages, err := ac.AuditService.GetLogs(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        logs,
		"page":        input.Page,
		"page_size":   input.PageSize,
		"total":       total,
		"total_pages": totalPages,
		"aggregates":  aggs,
	})
}
