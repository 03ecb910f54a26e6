package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/cache"
	"github.com/servinear/marketplace-backend/internal/config"
	"github.com/servinear/marketplace-backend/internal/middleware"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Dependencies are the services the router dispatches to
type Dependencies struct {
	Auth       *services.AuthService
	Catalog    *services.CatalogService
	Moderation *services.ModerationService
	Discovery  *services.DiscoveryService
	Bookings   *services.BookingService
	Audit      *services.AuditService // optional
	DB         Pinger
	Cache      cache.Cache // optional
	Logger     *logrus.Logger
}

// RouterConfig holds the HTTP-level settings
type RouterConfig struct {
	CORS   config.CORSConfig
	Cookie CookieConfig
}

var registerValidation sync.Once

// NewRouter builds the gin engine with every API route
func NewRouter(deps Dependencies, cfg RouterConfig) *gin.Engine {
	logger := deps.Logger

	registerValidation.Do(func() {
		if v, ok := binding.Validator.Engine().(*playground.Validate); ok {
			if err := validator.Register(v); err != nil {
				logger.WithError(err).Fatal("Failed to register validation tags")
			}
		}
	})

	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:   api.CodeNotFound,
			Message: "Route not found",
		})
	})

	authHandler := NewAuthHandler(deps.Auth, deps.Audit, cfg.Cookie, logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, logger)
	providerHandler := NewProviderHandler(deps.Discovery, deps.Moderation, deps.Audit, logger)
	bookingHandler := NewBookingHandler(deps.Bookings, deps.Audit, logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Cache, logger)

	session := middleware.AuthMiddleware(deps.Auth, cfg.Cookie.Name, logger)
	need := middleware.RequireCapability

	handle := func(e api.Endpoint, chain ...gin.HandlerFunc) {
		router.Handle(e.Method, e.Path, chain...)
		logger.Debugf("Route registered: %s %s", e.Method, e.Path)
	}

	handle(api.HealthCheck, healthHandler.Check)

	// Identity
	handle(api.Register, authHandler.Register)
	handle(api.Login, authHandler.Login)
	handle(api.Logout, session, authHandler.Logout)
	handle(api.Me, session, authHandler.Me)

	// Catalog
	handle(api.ListCountries, catalogHandler.ListCountries)
	handle(api.ListCities, catalogHandler.ListCities)
	handle(api.ListServices, catalogHandler.ListServices)
	handle(api.CreateCountry, session, need(models.CapManageCatalog), catalogHandler.CreateCountry)
	handle(api.CreateCity, session, need(models.CapManageCatalog), catalogHandler.CreateCity)
	handle(api.CreateService, session, need(models.CapManageCatalog), catalogHandler.CreateService)

	// Providers and moderation
	handle(api.ListProviders, providerHandler.ListProviders)
	handle(api.GetProvider, providerHandler.GetProvider)
	handle(api.RegisterService, session, need(models.CapOfferServices), providerHandler.RegisterService)
	handle(api.ListPendingServices, session, need(models.CapModerate), providerHandler.ListPending)
	handle(api.SetServiceApproval, session, need(models.CapModerate), providerHandler.SetApproval)

	// Bookings
	handle(api.CreateBooking, session, need(models.CapBook), bookingHandler.Create)
	handle(api.ListBookings, session, bookingHandler.List)
	handle(api.UpdateBookingStatus, session, bookingHandler.UpdateStatus)

	return router
}
