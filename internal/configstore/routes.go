package configstore

import (
	"contract-admin-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, configStoreService *ConfigStoreService) {
	configController := &ConfigStoreController{ConfigStoreService: configStoreService}

	configGroup := r.Group("/api/config")
	configGroup.Use(middlewares.AuthMiddleware())
	{
		configGroup.GET("", configController.GetConfig)
		configGroup.PUT("", configController.SaveConfig)
	}
}
