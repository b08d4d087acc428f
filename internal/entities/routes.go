package entities

import (
	"contract-admin-api/internal/audit"
	"contract-admin-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, entityService *EntityService, auditService *audit.AuditService) {
	entityController := &EntityController{EntityService: entityService, AuditService: auditService}

	entityGroup := r.Group("/api/entities")
	entityGroup.Use(middlewares.AuthMiddleware())
	{
		entityGroup.GET("", entityController.ListEntities)
		entityGroup.GET("/:entity", entityController.ListRecords)
		entityGroup.POST("/:entity", entityController.CreateRecord)
		entityGroup.GET("/:entity/form", entityController.GetFormFields)
		entityGroup.GET("/:entity/config", entityController.GetConfig)
		entityGroup.GET("/:entity/export", entityController.ExportRecords)
		entityGroup.PATCH("/:entity/cell", entityController.UpdateCell)
		entityGroup.GET("/:entity/record/:id", entityController.GetRecord)
		entityGroup.PUT("/:entity/record/:id", entityController.UpdateRecord)
		entityGroup.DELETE("/:entity/record/:id", entityController.DeleteRecord)
	}
}
