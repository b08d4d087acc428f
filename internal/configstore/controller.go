package configstore

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ConfigStoreServiceAPI interface {
	GetByEntityIfModified(entity string, clientLastModified *time.Time) (*GetConfigResult, error)
	Save(entity string, overrides map[string]ColumnOverride) (*EntityConfigRecord, error)
}

type ConfigStoreController struct {
	ConfigStoreService ConfigStoreServiceAPI
}

// GET /api/config?entity=...&last_modified=...
//
// last_modified is the timestamp of the overrides the client has cached.
// Accepted formats:
// - RFC3339 / RFC3339Nano (recommended)
// - unix milliseconds (e.g., 1708451234567)
func (cc *ConfigStoreController) GetConfig(c *gin.Context) {
	entity := strings.TrimSpace(c.Query("entity"))
	if entity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity is required"})
		return
	}

	clientLM, err := parseOptionalTime(c.Query("last_modified"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid last_modified (use RFC3339 or unix ms)"})
		return
	}

	res, err := cc.ConfigStoreService.GetByEntityIfModified(entity, clientLM)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rec := res.Record

	c.Header("Last-Modified", rec.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if rec.Checksum != "" {
		c.Header("ETag", rec.Checksum)
	}

	if res.NotModified {
		c.JSON(http.StatusOK, gin.H{
			"not_modified": true,
			"entity":       rec.EntityName,
			"version":      rec.Version,
			"checksum":     rec.Checksum,
			"updated_at":   rec.UpdatedAt,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"not_modified": false,
		"entity":       rec.EntityName,
		"version":      rec.Version,
		"checksum":     rec.Checksum,
		"updated_at":   rec.UpdatedAt,
		"overrides":    rec.Overrides,
	})
}

type saveConfigInput struct {
	Entity    string                    `json:"entity" binding:"required"`
	Overrides map[string]ColumnOverride `json:"overrides" binding:"required"`
}

// PUT /api/config
func (cc *ConfigStoreController) SaveConfig(c *gin.Context) {
	var input saveConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := cc.ConfigStoreService.Save(input.Entity, input.Overrides)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "config saved",
		"entity":     rec.EntityName,
		"version":    rec.Version,
		"checksum":   rec.Checksum,
		"updated_at": rec.UpdatedAt,
	})
}

func parseOptionalTime(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}

	// unix milliseconds
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		t := time.Unix(0, ms*int64(time.Millisecond))
		return &t, nil
	}

	return nil, strconv.ErrSyntax
}
