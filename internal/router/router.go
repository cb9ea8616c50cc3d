package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authhandler "github.com/jwalitptl/hospital-api/internal/handler/auth"
	doctorhandler "github.com/jwalitptl/hospital-api/internal/handler/doctor"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	medicalhandler "github.com/jwalitptl/hospital-api/internal/handler/medical"
	patienthandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	"github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	"github.com/jwalitptl/hospital-api/internal/middleware"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Handlers struct {
	Auth    *authhandler.Handler
	Doctor  *doctorhandler.Handler
	Patient *patienthandler.Handler
	Medical *medicalhandler.Handler
	Health  *health.Handler
	Metrics *prometheus.Handler
}

type RouterConfig struct {
	Mode           string
	CORS           middleware.CORSConfig
	RateLimit      *middleware.RateLimiterConfig
	RequestTimeout time.Duration
	MaxBodySize    int64
}

type Router struct {
	engine *gin.Engine
	auth   *middleware.AuthMiddleware
	h      Handlers
}

// NewRouter installs the global middleware chain. A nil RateLimit disables
// rate limiting.
func NewRouter(auth *middleware.AuthMiddleware, h Handlers, config RouterConfig) (*Router, error) {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if err := validator.RegisterGin(model.ValidationRules()...); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)
	if h.Metrics != nil {
		engine.Use(h.Metrics.Middleware())
	}
	engine.Use(
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.CORS(config.CORS),
	)
	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}
	if config.MaxBodySize > 0 {
		engine.Use(middleware.SizeLimit(middleware.SizeLimitConfig{MaxBodySize: config.MaxBodySize}))
	}
	engine.Use(middleware.Timeout(middleware.TimeoutConfig{Duration: config.RequestTimeout}))

	r := &Router{engine: engine, auth: auth, h: h}
	r.setup()
	return r, nil
}

func (r *Router) setup() {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(r.engine)
	}
	if r.h.Metrics != nil {
		r.engine.GET("/metrics", r.h.Metrics.Handler())
	}

	api := r.engine.Group("/api")

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.h.Auth.RegisterRoutes(api, protected)
	for _, h := range []Handler{r.h.Doctor, r.h.Patient, r.h.Medical} {
		h.RegisterRoutes(protected)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httputil.Response{Success: false, Message: "Route not found"})
	})
	r.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, httputil.Response{Success: false, Message: "Method not allowed"})
	})
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
