// Package rest exposes the account and task services over HTTP with gin.
// Identity travels in an http-only cookie and state-changing requests must
// carry the double-submit CSRF pair.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoauth/internal/common"
	"github.com/dmitrijs2005/todoauth/internal/logging"
	"github.com/dmitrijs2005/todoauth/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

type AccountService interface {
	Signup(ctx context.Context, email, password string) (*models.AccountInfo, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type TaskService interface {
	Create(ctx context.Context, body models.TaskBody) (*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, id string, body models.TaskBody) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

type SessionGuard interface {
	VerifyOnly(identityCookie string) (string, error)
	VerifyAndRotate(identityCookie string) (newToken, subject string, err error)
	VerifyCSRFAndRotate(identityCookie, csrfHeader, csrfCookie string) (newToken, subject string, err error)
	ValidateCSRF(csrfHeader, csrfCookie string) error
}

type CSRFIssuer interface {
	IssuePair() (clientHalf, serverHalf string, err error)
	Cookie(serverHalf string) *http.Cookie
	Clear() *http.Cookie
}

type Options struct {
	AllowedOrigins []string
	CookieSecure   bool
	// Registry receives the HTTP metrics served on /metrics. A private
	// registry is created when nil.
	Registry *prometheus.Registry
}

type HTTPServer struct {
	address  string
	logger   logging.Logger
	accounts AccountService
	tasks    TaskService
	guard    SessionGuard
	csrf     CSRFIssuer
	opts     Options
	registry *prometheus.Registry
	metrics  *metrics
}

// NewHTTPServer returns a server for address; Run starts it.
func NewHTTPServer(address string, l logging.Logger, accounts AccountService, tasks TaskService, guard SessionGuard, csrf CSRFIssuer, opts Options) *HTTPServer {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &HTTPServer{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: accounts,
		tasks:    tasks,
		guard:    guard,
		csrf:     csrf,
		opts:     opts,
		registry: reg,
		metrics:  newMetrics(reg),
	}
}

// Router builds the gin engine with all routes and middleware installed.
func (s *HTTPServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.metrics.middleware())

	if len(s.opts.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = s.opts.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", common.CSRFHeaderName}
		corsConfig.ExposeHeaders = []string{common.CSRFHeaderName}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metricsHandler(s.registry))

	api := router.Group("/api")
	{
		api.GET("/csrftoken", s.getCSRFToken)
		api.POST("/register", s.register)
		api.POST("/login", s.login)
		api.POST("/logout", s.logout)
		api.GET("/user", s.currentUser)

		api.POST("/todo", s.createTask)
		api.GET("/todo", s.listTasks)
		api.GET("/todo/:id", s.getTask)
		api.PUT("/todo/:id", s.updateTask)
		api.DELETE("/todo/:id", s.deleteTask)
	}

	return router
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request served",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully. It
// returns only after the shutdown goroutine has exited.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	err := srv.ListenAndServe()
	cancel()
	<-idle

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
