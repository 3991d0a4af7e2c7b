package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/dmitrijs2005/todoauth/internal/admin"
	"github.com/dmitrijs2005/todoauth/internal/dbx"
	"github.com/dmitrijs2005/todoauth/internal/server/auth"
	"github.com/dmitrijs2005/todoauth/internal/server/config"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todoauth/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const dbConnectAttempts = 3

// backend is the Postgres-backed admin.Backend built from the server
// configuration.
type backend struct {
	db       *sql.DB
	rm       repomanager.RepositoryManager
	accounts *services.AccountService
}

func (b *backend) Migrate(ctx context.Context) error { return b.rm.RunMigrations(ctx, b.db) }

func (b *backend) Accounts() admin.AccountCreator { return b.accounts }

func (b *backend) Close() error { return b.db.Close() }

func openBackend(ctx context.Context) (admin.Backend, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := dbx.Open(ctx, "pgx", cfg.DatabaseDSN, dbConnectAttempts)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	accounts := services.NewAccountService(db, rm,
		auth.NewBcryptHasher(cfg.BcryptCost),
		auth.NewTokenCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
	)

	return &backend{db: db, rm: rm, accounts: accounts}, nil
}

func main() {
	if err := admin.NewRootCmd(openBackend).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
