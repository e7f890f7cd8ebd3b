package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/analytics"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/invoice"
)

// Server is the HTTP entry point wiring config, storage and services
// into a gin router.
type Server struct {
	cfg        *config.Config
	db         *postgres.Database
	redis      *redis.Client
	log        *logrus.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer wires all services and routes.
func NewServer(cfg *config.Config, db *postgres.Database, rdb *redis.Client, log *logrus.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	s := &Server{
		cfg:    cfg,
		db:     db,
		redis:  rdb,
		log:    log,
		router: router,
	}

	s.setupMiddleware()
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.log))
	s.router.Use(middleware.CORS(s.cfg.Security))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.RequestSizeLimit(s.cfg.Security.RequestSizeLimit))
	s.router.Use(middleware.Timeout(s.cfg.Server.WriteTimeout))
	if s.redis != nil {
		s.router.Use(middleware.RateLimit(s.redis.GetClient(), s.log, s.cfg.Security.RateLimitRPS, time.Minute))
	}
}

func (s *Server) setupRoutes() error {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)

	jwtManager := auth.NewJWTManager(s.cfg.JWT)
	passwords := auth.NewPasswordManager(s.cfg.Security.BcryptCost)
	db := s.db.GetDB()

	invoices, err := invoice.NewService(s.cfg.Company)
	if err != nil {
		return err
	}
	notifier, err := email.NewNotifier(s.cfg.Email, s.cfg.Company, invoices, s.log)
	if err != nil {
		return err
	}

	catalogSvc := catalog.NewService(db, s.log)
	importer := catalog.NewImporter(catalogSvc, &catalog.HTTPImageFetcher{}, s.log)
	cartSvc := cart.NewService(db, s.log)
	orderSvc := order.NewService(db, notifier, s.log)
	userSvc := user.NewService(db, jwtManager, passwords, s.log)
	analyticsSvc := analytics.NewService(db)

	routes.Setup(s.router, &routes.Handlers{
		Auth:      handlers.NewAuthHandler(userSvc),
		Product:   handlers.NewProductHandler(catalogSvc),
		Category:  handlers.NewCategoryHandler(catalogSvc),
		Cart:      handlers.NewCartHandler(cartSvc),
		Order:     handlers.NewOrderHandler(orderSvc),
		Invoice:   handlers.NewInvoiceHandler(orderSvc, invoices),
		Import:    handlers.NewImportHandler(importer),
		Analytics: handlers.NewAnalyticsHandler(analyticsSvc),
		Customer:  handlers.NewCustomerHandler(userSvc),
	}, jwtManager)

	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"app":     s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) handleReady(c *gin.Context) {
	checks := gin.H{}
	healthy := true

	if err := s.db.Health(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if s.redis != nil {
		if err := s.redis.Health(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains connections and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
