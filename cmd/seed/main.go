package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	"medhaven/internal/repository"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type account struct {
	FirstName  string
	LastName   string
	Email      string
	Password   string
	Phone      string
	Gender     string
	Role       domain.Role
	Department string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appLogger := logger.New(cfg.Log.Level)
	defer appLogger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		appLogger.Fatal("Failed to prepare database schema", "error", err)
	}

	users := repository.NewUserRepository(pool, appLogger)
	audit := service.NewAuditService(repository.NewAuditRepository(pool, appLogger), appLogger)
	auth := service.NewAuthService(users, cfg.JWT, appLogger)

	accounts := []account{{
		FirstName: "Admin",
		LastName:  "MedHaven",
		Email:     "admin@medhaven.com",
		Password:  envOr("SEED_ADMIN_PASSWORD", "admin123"),
		Phone:     "0000000000",
		Gender:    "Other",
		Role:      domain.RoleAdmin,
	}}
	if demo, _ := strconv.ParseBool(os.Getenv("SEED_DEMO")); demo {
		accounts = append(accounts,
			account{FirstName: "Gregory", LastName: "House", Email: "doctor@medhaven.com", Password: "doctor123",
				Phone: "1111111111", Gender: "Male", Role: domain.RoleDoctor, Department: "Diagnostics"},
			account{FirstName: "Ada", LastName: "Lovelace", Email: "patient@medhaven.com", Password: "patient123",
				Phone: "2222222222", Gender: "Female", Role: domain.RolePatient},
		)
	}

	for _, a := range accounts {
		user, err := seedAccount(ctx, users, audit, a)
		if err != nil {
			appLogger.Fatal("Failed to seed account", "error", err, "email", a.Email)
		}
		if cfg.IsProduction() {
			continue
		}
		token, err := auth.IssueToken(user)
		if err != nil {
			appLogger.Fatal("Failed to issue token", "error", err, "email", a.Email)
		}
		fmt.Printf("%-8s %-24s id=%s\n         token=%s\n", user.Role, user.Email, user.ID, token)
	}
}

// seedAccount creates the account unless one with the same email exists.
func seedAccount(ctx context.Context, users repository.UserRepository, audit service.AuditService, a account) (*domain.User, error) {
	existing, err := users.GetByEmail(ctx, a.Email)
	if err == nil {
		return existing, nil
	}
	if !stderrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrapf(err, "look up %s", a.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &domain.User{
		ID:               uuid.NewString(),
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Email:            a.Email,
		Phone:            a.Phone,
		Gender:           a.Gender,
		Role:             a.Role,
		DoctorDepartment: a.Department,
		PasswordHash:     string(hash),
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, errors.Wrapf(err, "create %s", a.Email)
	}

	_ = audit.LogEvent(ctx, user.ID, domain.ActorRoleSystem, "", nil, domain.EventTypeUserSeeded, map[string]interface{}{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return user, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
