// Package http exposes a Canopy server over HTTP with JSON bodies.
package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/forest"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/middleware"
	authnmw "github.com/canopyhq/canopy/pkg/middleware/authn"
	httpmiddleware "github.com/canopyhq/canopy/pkg/middleware/http"
	"github.com/canopyhq/canopy/pkg/middleware/logging"
	"github.com/canopyhq/canopy/pkg/middleware/recovery"
	"github.com/canopyhq/canopy/pkg/middleware/requestid"
	"github.com/canopyhq/canopy/pkg/server/commands"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
)

const defaultServiceName = "canopy"

// Service is the backend the handlers delegate to. It is implemented by *server.Server.
type Service interface {
	Authenticate(ctx context.Context, token string) (*authn.AuthClaims, error)
	Login(ctx context.Context, username, plain string) (*commands.AuthResult, error)
	Register(ctx context.Context, req *commands.RegisterRequest) (*commands.AuthResult, error)
	CreateNode(ctx context.Context, req *commands.CreateNodeRequest) (*storage.Node, error)
	GetNode(ctx context.Context, id int64) (*storage.Node, error)
	ListNodes(ctx context.Context) ([]*storage.Node, error)
	UpdateNode(ctx context.Context, req *commands.UpdateNodeRequest) (*storage.Node, error)
	DeleteNode(ctx context.Context, id int64) error
	GetTree(ctx context.Context, rootID *int64) (*forest.TreeNode, error)
	ExportTree(ctx context.Context, rootID *int64, format string) (*commands.ExportedTree, error)
	IsReady(ctx context.Context) (bool, error)
}

type routerConfig struct {
	logger             logger.Logger
	requestTimeout     time.Duration
	serviceName        string
	healthCheckTimeout time.Duration
}

type RouterOption func(*routerConfig)

func WithLogger(l logger.Logger) RouterOption {
	return func(c *routerConfig) {
		c.logger = l
	}
}

// WithRequestTimeout bounds every request. Zero disables the bound.
func WithRequestTimeout(timeout time.Duration) RouterOption {
	return func(c *routerConfig) {
		c.requestTimeout = timeout
	}
}

// WithServiceName names the server in the spans created by the router.
func WithServiceName(name string) RouterOption {
	return func(c *routerConfig) {
		c.serviceName = name
	}
}

func WithHealthCheckTimeout(timeout time.Duration) RouterOption {
	return func(c *routerConfig) {
		c.healthCheckTimeout = timeout
	}
}

// NewRouter returns the gin engine serving every Canopy endpoint.
func NewRouter(svc Service, opts ...RouterOption) *gin.Engine {
	cfg := &routerConfig{
		logger:      logger.NewNoopLogger(),
		serviceName: defaultServiceName,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	registerValidations()

	router := gin.New()

	router.Use(
		recovery.NewRecoveryMiddleware(cfg.logger),
		otelgin.Middleware(cfg.serviceName),
		requestid.NewMiddleware(),
		logging.NewLoggingMiddleware(cfg.logger),
	)
	if cfg.requestTimeout > 0 {
		router.Use(middleware.NewTimeoutHandler(cfg.requestTimeout, cfg.logger).NewTimeoutMiddleware())
	}

	h := &handlers{svc: svc, healthCheckTimeout: cfg.healthCheckTimeout}

	router.GET("/healthz", h.health)
	router.POST("/login", h.login)
	router.POST("/register", h.register)

	nodes := router.Group("/nodes", authnmw.RequireAuthentication(svc))
	{
		nodes.GET("", h.listNodes)
		nodes.GET("/tree", h.getTree)
		nodes.GET("/export", h.exportTree)
		nodes.GET("/:id", h.getNode)

		admin := nodes.Group("", authnmw.RequireRole(authn.RoleAdmin))
		admin.POST("", h.createNode)
		admin.PUT("/:id", h.updateNode)
		admin.DELETE("/:id", h.deleteNode)
	}

	router.NoRoute(func(c *gin.Context) {
		httpmiddleware.CustomHTTPErrorHandler(c, serverErrors.ErrUndefinedEndpoint)
	})

	return router
}

// CORSOptions configures the cross-origin policy applied by NewHandler.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedHeaders []string
}

// NewHandler wraps the router with the cross-origin policy and a last-resort panic handler.
func NewHandler(router nethttp.Handler, corsOpts CORSOptions, l logger.Logger) nethttp.Handler {
	return recovery.HTTPPanicRecoveryHandler(cors.New(cors.Options{
		AllowedOrigins:   corsOpts.AllowedOrigins,
		AllowCredentials: true,
		AllowedHeaders:   corsOpts.AllowedHeaders,
		AllowedMethods: []string{
			nethttp.MethodGet, nethttp.MethodPost,
			nethttp.MethodPut, nethttp.MethodDelete, nethttp.MethodOptions,
		},
		ExposedHeaders: []string{requestid.RequestIDHeader, "Location"},
	}).Handler(router), l)
}
