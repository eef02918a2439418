package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/signup/internal/config"
	"github.com/geocoder89/signup/internal/countries"
	"github.com/geocoder89/signup/internal/domain/signup"
	"github.com/geocoder89/signup/internal/http/handlers"
	"github.com/geocoder89/signup/internal/http/middlewares"
	"github.com/geocoder89/signup/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
)

const serviceName = "signup-api"

type Deps struct {
	Config    config.Config
	Logger    *slog.Logger
	Prom      *observability.Prom
	Gatherer  prometheus.Gatherer
	Countries *countries.Service
	Sink      signup.Sink
	Checks    map[string]handlers.Check
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Sink == nil {
		d.Sink = signup.EchoSink{}
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Logger))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	locale, err := language.Parse(d.Config.DefaultLocale)
	if err != nil {
		locale = language.Spanish
	}

	countriesHandler := handlers.NewCountriesHandler(d.Countries, d.Logger)
	registrationHandler := handlers.NewRegistrationHandler(
		signup.New(),
		d.Countries,
		d.Sink,
		signup.NewCatalog(locale),
		d.Prom,
		d.Logger,
	)

	submitLimiter := middlewares.NewRateLimiter(d.Config.RateLimitPerMinute, time.Minute)
	validateLimiter := middlewares.NewRateLimiter(d.Config.ValidateRateLimitPerMinute, time.Minute)

	api := r.Group("/api")
	api.GET("/countries", countriesHandler.List)

	registrations := api.Group("/registrations",
		middlewares.RequireJSON(),
		middlewares.MaxBodyBytes(d.Config.MaxBodyBytes),
		middlewares.NoStore(),
	)
	registrations.POST("", submitLimiter.RateLimiterMiddleware(middlewares.KeyByIP), registrationHandler.Submit)
	registrations.POST("/validate", validateLimiter.RateLimiterMiddleware(middlewares.KeyByIP), registrationHandler.ValidateField)

	return r
}
