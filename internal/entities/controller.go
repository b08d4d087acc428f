package entities

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"contract-admin-api/internal/audit"
	"contract-admin-api/internal/entityconfig"
	"contract-admin-api/internal/remote"
	"contract-admin-api/internal/table"
	"contract-admin-api/internal/util"
)

type EntityController struct {
	EntityService EntityServicePort
	AuditService  AuditPort
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	switch v := userIDVal.(type) {
	case uint:
		return v, true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// parseListQuery reads the grid state from query params: f_<header> filters,
// sort/dir, page/page_size, hidden (CSV of headers).
func parseListQuery(c *gin.Context) table.Query {
	q := table.Query{Filters: map[string]string{}}

	for key, vals := range c.Request.URL.Query() {
		if strings.HasPrefix(key, "f_") && len(vals) > 0 && strings.TrimSpace(vals[0]) != "" {
			q.Filters[strings.TrimPrefix(key, "f_")] = vals[0]
		}
	}

	q.SortBy = c.Query("sort")
	q.SortDesc = strings.EqualFold(c.Query("dir"), "desc")

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "0")); err == nil {
		q.PageSize = size
	}

	q.HiddenColumns = util.ParseCSVList(c.Query("hidden"))
	return q
}

func respondError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": ve.Fields})
		return
	}

	var se *remote.StatusError
	if errors.As(err, &se) {
		c.JSON(se.Status, gin.H{"error": se.Body})
		return
	}

	switch {
	case errors.Is(err, ErrUnknownEntity):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, table.ErrCellNotEditable),
		errors.Is(err, table.ErrUnknownColumn),
		errors.Is(err, ErrInvalidOption):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (ec *EntityController) audit(c *gin.Context, level, entity, action, recordID, message string, metadata interface{}) {
	userID, ok := currentUserID(c)
	var uid *uint
	if ok {
		uid = &userID
	}

	if err := ec.AuditService.Log(audit.AuditLog{
		Level:    level,
		Entity:   entity,
		Action:   action,
		UserID:   uid,
		RecordID: recordID,
		Message:  message,
	}, metadata); err != nil {
		fmt.Printf("Failed to insert audit log: %v\n", err)
	}
}

// GET /api/entities
func (ec *EntityController) ListEntities(c *gin.Context) {
	names := entityconfig.Entities()

	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		cfg, ok := entityconfig.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, gin.H{"entity": name, "label": cfg.Name, "endpoint": cfg.Endpoint})
	}

	c.JSON(http.StatusOK, gin.H{"entities": out})
}

// GET /api/entities/:entity
func (ec *EntityController) ListRecords(c *gin.Context) {
	userID, _ := currentUserID(c)
	entity := c.Param("entity")

	page, err := ec.EntityService.List(c.Request.Context(), userID, entity, parseListQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rows":        page.Rows,
		"columns":     page.Columns,
		"total":       page.Total,
		"total_pages": page.TotalPages,
		"page":        page.Page,
		"page_size":   page.PageSize,
	})
}

// GET /api/entities/:entity/record/:id
func (ec *EntityController) GetRecord(c *gin.Context) {
	entity := c.Param("entity")
	id := c.Param("id")

	record, err := ec.EntityService.Detail(c.Request.Context(), entity, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record})
}

// POST /api/entities/:entity
func (ec *EntityController) CreateRecord(c *gin.Context) {
	entity := c.Param("entity")

	var input saveRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := ec.EntityService.Create(c.Request.Context(), entity, input.Values)
	if err != nil {
		respondError(c, err)
		return
	}

	ec.audit(c, "INFO", entity, "CREATE", recordIDOf(record), fmt.Sprintf("Record created in %s", entity), nil)

	c.JSON(http.StatusCreated, gin.H{"message": "record created", "record": record})
}

// PUT /api/entities/:entity/record/:id
func (ec *EntityController) UpdateRecord(c *gin.Context) {
	entity := c.Param("entity")
	id := c.Param("id")

	var input saveRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := ec.EntityService.Update(c.Request.Context(), entity, id, input.Values)
	if err != nil {
		respondError(c, err)
		return
	}

	ec.audit(c, "INFO", entity, "UPDATE", id, fmt.Sprintf("Record %s updated in %s", id, entity), nil)

	c.JSON(http.StatusOK, gin.H{"message": "record updated", "record": record})
}

// PATCH /api/entities/:entity/cell
func (ec *EntityController) UpdateCell(c *gin.Context) {
	entity := c.Param("entity")

	var input cellEditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := ec.EntityService.UpdateCell(c.Request.Context(), entity, input.ID, input.Column, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	ec.audit(c, "INFO", entity, "UPDATE_CELL", input.ID,
		fmt.Sprintf("%s: %v -> %v", input.Column, result.OldValue, result.NewValue),
		gin.H{"column": input.Column, "field": result.RealColumn})

	c.JSON(http.StatusOK, gin.H{"message": "cell updated", "result": result})
}

// DELETE /api/entities/:entity/record/:id
func (ec *EntityController) DeleteRecord(c *gin.Context) {
	entity := c.Param("entity")
	id := c.Param("id")

	if err := ec.EntityService.Delete(c.Request.Context(), entity, id); err != nil {
		respondError(c, err)
		return
	}

	ec.audit(c, "INFO", entity, "DELETE", id, fmt.Sprintf("Record %s deleted from %s", id, entity), nil)

	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}

// GET /api/entities/:entity/form
func (ec *EntityController) GetFormFields(c *gin.Context) {
	entity := c.Param("entity")

	fields, err := ec.EntityService.FormFields(c.Request.Context(), entity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// GET /api/entities/:entity/config
func (ec *EntityController) GetConfig(c *gin.Context) {
	entity := c.Param("entity")

	cfg, err := ec.EntityService.ResolveConfig(entity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// GET /api/entities/:entity/export?format=xlsx|csv|json
func (ec *EntityController) ExportRecords(c *gin.Context) {
	userID, _ := currentUserID(c)
	entity := c.Param("entity")

	result, err := ec.EntityService.Export(c.Request.Context(), userID, entity, c.Query("format"), parseListQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	ec.audit(c, "INFO", entity, "EXPORT", "", fmt.Sprintf("Export of %s as %s", entity, result.Filename), nil)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

func recordIDOf(record map[string]interface{}) string {
	if record == nil {
		return ""
	}
	for _, key := range []string{"id", "uuid"} {
		if v, ok := record[key]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}
