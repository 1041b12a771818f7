package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/projecthub/config"
	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/domain/entity"
	pginfra "github.com/oksasatya/projecthub/internal/infrastructure/postgres"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

const demoPassword = "password123"

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
		AppName:         cfg.AppName,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLife,
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	store := pginfra.NewStore(pool)

	existing, err := store.Users().List(ctx)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("database already has %d users, skipping seed\n", len(existing))
		return
	}

	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		log.Fatalf("jwt: %v", err)
	}
	hasher, err := helpers.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	// no mailer: seeded accounts are confirmed directly
	users := app.NewUserService(store, hasher, jwt, cfg.ConfirmURL, logger)
	projects := app.NewProjectService(store, logger)

	owner := register(ctx, users, "owner@example.com", "Demo Owner")
	member := register(ctx, users, "member@example.com", "Demo Member")
	for _, u := range []*entity.User{owner, member} {
		if err := store.Users().SetConfirmed(ctx, u.ID); err != nil {
			log.Fatalf("confirm %s: %v", u.Email, err)
		}
	}

	p, err := projects.Create(ctx, owner.ID, app.CreateProjectInput{
		Name:    "Demo Project",
		Billing: entity.Billing{Plan: "free", Email: owner.Email},
	})
	if err != nil {
		log.Fatalf("create project: %v", err)
	}
	fmt.Printf("seeded project: id=%s slug=%s\n", p.ID, p.Slug)

	for _, inv := range []app.InviteInput{
		{Email: member.Email, Role: entity.RoleAdmin},
		{Email: "pending@example.com"},
	} {
		res, err := projects.Invite(ctx, p.ID, inv)
		if err != nil && !errors.Is(err, app.ErrConflict) {
			log.Fatalf("invite %s: %v", inv.Email, err)
		}
		if res != nil && res.Invite != nil {
			fmt.Printf("pending invite: %s\n", inv.Email)
		}
	}
}

func register(ctx context.Context, users *app.UserService, email, name string) *entity.User {
	u, err := users.Register(ctx, app.RegisterInput{Email: email, Name: name, Password: demoPassword})
	if err != nil {
		log.Fatalf("register %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, demoPassword)
	return u
}
