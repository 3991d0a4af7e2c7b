// Package server wires configuration, storage and services together and runs
// the HTTP API and the gRPC health endpoint until a termination signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/dbx"
	"github.com/dmitrijs2005/todoauth/internal/logging"
	"github.com/dmitrijs2005/todoauth/internal/server/auth"
	"github.com/dmitrijs2005/todoauth/internal/server/config"
	"github.com/dmitrijs2005/todoauth/internal/server/csrf"
	"github.com/dmitrijs2005/todoauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todoauth/internal/server/rest"
	"github.com/dmitrijs2005/todoauth/internal/server/services"
	"github.com/dmitrijs2005/todoauth/internal/server/session"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/todoauth/internal/server/grpc"
)

const (
	dbConnectRetries = 5
	dbConnectBackoff = 500 * time.Millisecond
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	accountService *services.AccountService
	taskService    *services.TaskService
	sessionGuard   *session.Guard
	csrfGuard      *csrf.Guard
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	codec := auth.NewTokenCodec([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	cg := csrf.NewGuard([]byte(c.CSRFSecretKey), c.CSRFTokenValidityDuration, c.CookieSecure)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		repomanager:    rm,
		accountService: services.NewAccountService(db, rm, auth.NewBcryptHasher(c.BcryptCost), codec),
		taskService:    services.NewTaskService(db, rm),
		sessionGuard:   session.NewGuard(codec, cg),
		csrfGuard:      cg,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(app.config.GinMode)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.accountService, app.taskService, app.sessionGuard, app.csrfGuard,
		rest.Options{
			AllowedOrigins: app.config.AllowedOrigins(),
			CookieSecure:   app.config.CookieSecure,
			Registry:       reg,
		})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run migrates the schema and serves until a signal arrives or either
// server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := dbx.WaitForDB(ctx, app.db, dbConnectRetries, dbConnectBackoff); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}
