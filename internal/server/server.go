package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"educenter/internal/config"
	"educenter/internal/logger"
	"educenter/internal/middleware"
	"educenter/internal/modules/auth"
	"educenter/internal/modules/billing"
	"educenter/internal/modules/catalog"
	"educenter/internal/modules/realtime"
	"educenter/internal/modules/schedule"
	"educenter/internal/notify"
	jwtsvc "educenter/internal/pkg/jwt"
	"educenter/internal/repository"
)

// Server owns the router and the long-lived pieces behind it.
type Server struct {
	router  *gin.Engine
	config  *config.Config
	db      *gorm.DB
	hub     *realtime.Hub
	billing *billing.Service
}

// New wires repositories, services and handlers onto a gin engine. The
// database must already be migrated.
func New(cfg *config.Config, db *gorm.DB) *Server {
	gin.SetMode(cfg.GinMode)

	loc := cfg.Location()
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	hub := realtime.NewHub()

	var reminders billing.ReminderSender = notify.LogSender{}
	if cfg.Twilio.Enabled() {
		reminders = notify.NewSMSSender(cfg.Twilio)
	}

	authService := auth.NewService(userRepo, jwt)
	catalogService := catalog.NewService(roomRepo, employeeRepo)
	scheduleService := schedule.NewService(sessionRepo, catalogService, hub, loc)
	billingService := billing.NewService(invoiceRepo, reminders, loc)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	s := &Server{
		router:  router,
		config:  cfg,
		db:      db,
		hub:     hub,
		billing: billingService,
	}

	authMW := middleware.JWTAuth(jwt)
	manage := middleware.ManageOnly()
	adminOnly := middleware.AdminOnly()

	router.GET("/health", s.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", authMW, realtime.NewHandler(hub, cfg.CORSAllowedOrigins).ServeWS)

	v1 := router.Group("/api/v1")
	authHandler := auth.NewHandler(authService)
	authHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(authMW)
	{
		authHandler.RegisterProtectedRoutes(protected, adminOnly)
		catalog.NewHandler(catalogService).RegisterRoutes(protected, adminOnly)
		schedule.NewHandler(scheduleService).RegisterRoutes(protected, manage)
		billing.NewHandler(billingService).RegisterRoutes(protected, manage, adminOnly)
	}

	return s
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "educenter-api",
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Billing exposes the billing service for the in-process overdue sweeper.
func (s *Server) Billing() *billing.Service {
	return s.billing
}

// Cleanup closes websocket connections. The caller closes the database.
func (s *Server) Cleanup() {
	s.hub.Close()
	logger.Get().Info("server resources released")
}
