package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/config"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/database"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/middleware"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/modules/defecttypes"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/modules/events"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/modules/records"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/pkg/photostore"
	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if !strings.HasPrefix(cfg.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgresql://") &&
		cfg.DatabaseURL != ":memory:" {
		if dir := filepath.Dir(cfg.DatabaseURL); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatal(err)
			}
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	photos, err := photostore.New(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	deviceRepo := repository.NewDeviceRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	hub := events.NewHub()

	recordsService := records.NewService(recordRepo, photos, hub)
	recordsHandler := records.NewHandler(recordsService)
	eventsHandler := events.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	// Stored photos are served as static files; paths in responses are
	// relative to this mount.
	r.Static("/uploads", photos.BaseDir())

	api := r.Group("/api")
	api.Use(middleware.DeviceIdentity(deviceRepo))
	{
		recordsHandler.RegisterRoutes(api)
		defecttypes.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	}

	// Listen on all interfaces so phones on the same network can reach it.
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
