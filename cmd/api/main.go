// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"time"

	"garment-dispatch-api-server/config"
	"garment-dispatch-api-server/internal/api/routes"
	"garment-dispatch-api-server/internal/auth"
	"garment-dispatch-api-server/internal/database"
	"garment-dispatch-api-server/internal/s3"
	"garment-dispatch-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load configuration (.env is optional, real env wins)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	auth.JwtSecret = []byte(cfg.JWT.Secret)
	if lifetime, err := time.ParseDuration(cfg.JWT.Expiration); err == nil {
		auth.TokenLifetime = lifetime
	}

	// 2. Connect to MongoDB and prepare the schema
	db, err := database.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Client().Disconnect(context.Background())

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// 3. Seed the superadmin account (and demo data when enabled)
	if err := database.SeedSuperAdmin(db); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}
	if cfg.Seed.DemoData {
		if err := database.SeedDemoData(db); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// 4. S3 uploader for receipt proof photos (optional)
	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, receipt photo upload disabled")
	}

	// 5. WebSocket hub for order lifecycle events
	wsHub := socket.NewHub()

	// 6. Router
	router := routes.SetupRouter(cfg, db, s3Uploader, wsHub)

	// 7. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
