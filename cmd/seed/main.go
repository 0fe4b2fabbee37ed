package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-cqrs-user-service/config"
	"github.com/oksasatya/go-cqrs-user-service/internal/application"
	"github.com/oksasatya/go-cqrs-user-service/internal/bootstrap"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	pginfra "github.com/oksasatya/go-cqrs-user-service/internal/infrastructure/postgres"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

// Seeds demo users by dispatching CreateUser through the bus so the
// same duplicate checks and hashing run as in production. Re-running
// is safe: duplicates are reported and skipped.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	bus := bootstrap.NewBus(bootstrap.BusDeps{
		NewUoW:  pginfra.NewUnitOfWorkFactory(pool),
		NewView: pginfra.NewViewFactory(pool),
		Hasher:  helpers.NewBcryptHasher(cfg.BcryptCost),
		JWT:     helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL),
		Logger:  logger,
	})

	seeds := []message.CreateUser{
		{Phone: "+6281000000001", Email: "demo@example.com", Password: "password123"},
		{Phone: "+6281000000002", Email: "admin@example.com", Password: "password123"},
	}

	for _, cmd := range seeds {
		res, err := bus.Handle(ctx, cmd)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindDuplicateRecord {
				fmt.Printf("skipped %s: already exists\n", cmd.Email)
				continue
			}
			log.Fatalf("failed to seed %s: %v", cmd.Email, err)
		}
		out := res.(application.UserOut)
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", out.ID, out.Email, cmd.Password)
	}
}
