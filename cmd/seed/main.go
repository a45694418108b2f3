// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"billhub/internal/core/id"
	"billhub/internal/core/security"
	"billhub/internal/infrastructure/storage/postgres"
	"billhub/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedPlatformAdmin(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed platform admin", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoTenant(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo tenant", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedPlatformAdmin creates the platform operator account. The account has an
// empty tenant and the super admin role, so it sees every tenant's records.
func seedPlatformAdmin(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	email := envOr("ADMIN_EMAIL", "admin@billhub.local")
	password := envOr("ADMIN_PASSWORD", "Admin123!")

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, email,
	).Scan(&existingID)
	if err == nil {
		log.Infow("platform admin already exists", "email", email, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()
	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, tenant_id, email, password_hash, name, role,
			is_active, created_at, updated_at, version
		) VALUES ($1, '', $2, $3, 'Platform Admin', $4, true, $5, $5, 1)
	`, userID, email, string(hash), string(security.RolePlatformSuperAdmin), now)
	if err != nil {
		return fmt.Errorf("insert platform admin: %w", err)
	}

	log.Infow("platform admin created", "email", email, "user_id", userID)
	return nil
}

// seedDemoTenant creates a demo tenant admin plus a business profile, a client
// and a product, enough to draft a first quotation.
func seedDemoTenant(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	tenantID := envOr("DEMO_TENANT_ID", "demo")
	email := envOr("DEMO_ADMIN_EMAIL", "owner@demo.billhub.local")
	password := envOr("DEMO_ADMIN_PASSWORD", "Demo123!")

	var existing int
	err := pool.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = $1`, tenantID,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check demo tenant: %w", err)
	}
	if existing > 0 {
		log.Infow("demo tenant already seeded", "tenant_id", tenantID)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	tx, err := pool.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (
			id, tenant_id, email, password_hash, name, role,
			is_active, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, 'Demo Owner', $5, true, $6, $6, 1)
	`, id.New(), tenantID, email, string(hash), string(security.RoleTenantAdmin), now)
	if err != nil {
		return fmt.Errorf("insert demo admin: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cat_businesses (
			id, tenant_id, code, name, company, email,
			registration_no, vat_no, deletion_mark, version
		) VALUES ($1, $2, 'BZ-2026-00001', 'Main profile', 'Acme Studio Ltd',
			'billing@acme.example', 'REG-001', 'VAT-001', false, 1)
	`, id.New(), tenantID)
	if err != nil {
		return fmt.Errorf("insert demo business: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cat_clients (
			id, tenant_id, code, name, company, email, deletion_mark, version
		) VALUES ($1, $2, 'CL-2026-00001', 'Alice Thompson', 'Alpha Systems',
			'alice@alpha.example', false, 1)
	`, id.New(), tenantID)
	if err != nil {
		return fmt.Errorf("insert demo client: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO cat_products (
			id, tenant_id, code, name, type, description,
			unit_price, unit, deletion_mark, version
		) VALUES ($1, $2, 'PR-2026-00001', 'Consulting hour', 'service',
			'Consulting services', 150.00, 'hour', false, 1)
	`, id.New(), tenantID)
	if err != nil {
		return fmt.Errorf("insert demo product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Infow("demo tenant seeded", "tenant_id", tenantID, "admin", email)
	return nil
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
