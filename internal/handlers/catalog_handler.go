package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves countries, cities and service categories
type CatalogHandler struct {
	catalog *services.CatalogService
	logger  logrus.FieldLogger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *services.CatalogService, logger logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListCountries handles GET /api/countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries, err := h.catalog.ListCountries(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// ListCities handles GET /api/countries/:countryId/cities
func (h *CatalogHandler) ListCities(c *gin.Context) {
	countryID, ok := idParam(c, "countryId")
	if !ok {
		return
	}

	cities, err := h.catalog.ListCities(c.Request.Context(), countryID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

// ListServices handles GET /api/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	list, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateCountry handles POST /api/admin/countries
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var req api.CreateCountryRequest
	if !bindJSON(c, &req) {
		return
	}

	country, err := h.catalog.CreateCountry(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, country)
}

// CreateCity handles POST /api/admin/cities
func (h *CatalogHandler) CreateCity(c *gin.Context) {
	var req api.CreateCityRequest
	if !bindJSON(c, &req) {
		return
	}

	city, err := h.catalog.CreateCity(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, city)
}

// CreateService handles POST /api/admin/services
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req api.CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service, err := h.catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, service)
}
