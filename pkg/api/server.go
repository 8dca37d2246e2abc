package api

import (
	"embed"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	CORSOrigins       []string
}

// NewRouter builds the gin engine with middleware, templates and routes.
func NewRouter(handlers *Handlers, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.CORS(corsOrigins...))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	handlers.RegisterRoutes(router)
	return router
}

// NewServer wraps the router in an http.Server with explicit timeouts.
func NewServer(cfg ServerConfig, handlers *Handlers, logger *zap.Logger) *http.Server {
	return &http.Server{
		Handler:           NewRouter(handlers, cfg.CORSOrigins, logger),
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
