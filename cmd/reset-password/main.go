package main

import (
	"flag"
	"log"

	"go-erp-sync/internal/config"
	"go-erp-sync/internal/repository"
	"go-erp-sync/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	email := flag.String("email", cfg.AdminEmail, "account to reset")
	password := flag.String("password", cfg.AdminPassword, "new password")
	flag.Parse()

	db := database.ConnectDB(cfg.DB)
	users := repository.NewUserRepo(db)

	user, err := users.FindByEmail(*email)
	if err != nil {
		log.Fatalf("User %s not found in database: %v", *email, err)
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := users.SetPasswordHash(user.ID, user.PasswordHash); err != nil {
		log.Fatalf("Failed to update password in DB: %v", err)
	}
	// Existing sessions stop validating.
	if _, err := users.RotateSession(user.ID); err != nil {
		log.Fatalf("Failed to revoke sessions: %v", err)
	}

	log.Printf("Password for %s has been reset", *email)
}
