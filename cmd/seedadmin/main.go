// Command seedadmin creates a dashboard operator record.
//
// Usage: seedadmin -email admin@example.com -password secret -otp 54321
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"citizen-services/internal/config"
	"citizen-services/internal/db"
	"citizen-services/internal/domain"
	"citizen-services/internal/repository"
	"citizen-services/internal/service"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	otp := flag.String("otp", "", "permanent verification code")
	flag.Parse()

	if *email == "" || *password == "" || *otp == "" {
		log.Fatal("email, password and otp are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	// Only the database is needed here; the full API config would demand
	// unrelated variables like JWT_SECRET.
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, &config.Config{DatabaseURL: databaseURL})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin := domain.Admin{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		PermanentOtp: *otp,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repository.NewPgAdminRepository(pool).Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("admin created: %s", admin.ID)
}
