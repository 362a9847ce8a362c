package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Widedbounou/SK-B/config"
	"github.com/Widedbounou/SK-B/internal/application"
	mongoinfra "github.com/Widedbounou/SK-B/internal/infrastructure/mongo"
	"github.com/Widedbounou/SK-B/pkg/apperror"
	"github.com/Widedbounou/SK-B/pkg/helpers"
)

// seed creates the first admin account from ADMIN_* settings.
// Running it twice is harmless: an existing email is reported and skipped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout*3)
	defer cancel()

	client, err := mongoinfra.NewClient(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users, err := mongoinfra.NewUserRepository(ctx, client.Database(cfg.MongoDatabase))
	if err != nil {
		log.Fatalf("failed to prepare users collection: %v", err)
	}
	svc := application.NewUserService(users, nil, nil, cfg, logger)

	view, err := svc.CreateAdmin(ctx, application.SignupInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Username: cfg.AdminUsername,
		Phone:    cfg.AdminPhone,
	})
	if apperror.Is(err, apperror.KindConflict) {
		fmt.Printf("admin already exists: email=%s\n", cfg.AdminEmail)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s username=%s\n", view.ID, view.Email, view.Account.Username)
}
