package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"contract-admin-api/config"
	"contract-admin-api/internal/audit"
	"contract-admin-api/internal/auth"
	"contract-admin-api/internal/configstore"
	"contract-admin-api/internal/entities"
	"contract-admin-api/internal/remote"
	"contract-admin-api/internal/selection"
)

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auditService := &audit.AuditService{DB: db}
	audit.RegisterRoutes(r, auditService)

	authService := &auth.AuthService{DB: db, CFG: &cfg}
	auth.RegisterRoutes(r, authService, auditService)

	selectionService := &selection.SelectionService{DB: db}
	selection.RegisterRoutes(r, selectionService)

	configStoreService := &configstore.ConfigStoreService{DB: db}
	configstore.RegisterRoutes(r, configStoreService)

	registry := remote.NewRegistry(cfg)
	entityService := &entities.EntityService{
		Remote:    entities.RegistryResolver{Registry: registry},
		Selection: selectionService,
		Overrides: configStoreService,
		Bucket:    cfg.AttachmentBucket,
	}
	entities.RegisterRoutes(r, entityService, auditService)

	// Cloud Run expects plain HTTP, on $PORT, bind to 0.0.0.0
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
