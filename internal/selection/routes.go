package selection

import (
	"contract-admin-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, selectionService *SelectionService) {
	selectionController := &SelectionController{SelectionService: selectionService}

	selectionGroup := r.Group("/api/selection")
	selectionGroup.Use(middlewares.AuthMiddleware())
	{
		selectionGroup.GET("", selectionController.GetSelection)
		selectionGroup.PUT("", selectionController.UpdateSelection)
		selectionGroup.DELETE("", selectionController.ClearSelection)
	}
}
