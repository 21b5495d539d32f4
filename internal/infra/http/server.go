package http

import (
	"net/http"
	"time"

	"tenantd/internal/config"
	"tenantd/internal/domain"
	"tenantd/internal/logger"
	"tenantd/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg     config.Config
	console *usecase.Console
	r       *gin.Engine
	log     logger.Logger

	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

// NewServer wires the console behind the HTTP API. A nil limiter disables
// login throttling.
func NewServer(cfg config.Config, console *usecase.Console, limiter domain.RateLimiter, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:               cfg,
		console:           console,
		r:                 r,
		log:               log,
		rateLimiter:       limiter,
		rateLimitRequests: cfg.LoginRateLimitRequests,
		rateLimitWindow:   cfg.LoginRateLimitWindow(),
	}
	r.Use(s.requestLog)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": s.cfg.StoreBackend, "policy": s.cfg.PolicyMode})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/session/login", s.handleLogin)
		v1.POST("/session/logout", s.handleLogout)
		v1.GET("/session", s.handleSession)
		v1.PUT("/session/active-tenant", s.handleSetActiveTenant)

		v1.GET("/permissions", s.handleListPermissions)
		v1.GET("/permissions/:permission", s.handleCheckPermission)
		v1.GET("/branding", s.handleBranding)
		v1.POST("/bootstrap", s.handleBootstrap)

		authed := v1.Group("", s.requireSession)
		authed.GET("/tenants", s.handleListTenants)
		authed.GET("/tenants/accessible", s.handleAccessibleTenants)
		authed.GET("/tenants/:tenant_id", s.handleGetTenant)
		authed.POST("/tenants", s.handleCreateTenant)
		authed.PATCH("/tenants/:tenant_id", s.handleUpdateTenant)
		authed.GET("/tenants/:tenant_id/users", s.handleListUsers)
		authed.POST("/tenants/:tenant_id/users", s.handleInviteUser)
		authed.PATCH("/users/:user_id", s.handleUpdateUser)
		authed.DELETE("/users/:user_id", s.handleDeleteUser)
		authed.GET("/switcher", s.handleSwitcher)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
}

// requestLog scopes a logger to the request and carries it in the request
// context for the console and error paths.
func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	log := s.log.With("method", c.Request.Method, "path", c.FullPath())
	c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))
	c.Next()
	log.Debug("request",
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *Server) requireSession(c *gin.Context) {
	if err := s.console.RequireAuth(c.Request.Context()); err != nil {
		writeError(c, err)
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) Run() error {
	s.log.Info("listening", "addr", s.cfg.HTTPAddr)
	return s.r.Run(s.cfg.HTTPAddr)
}
