// Package api is the HTTP contract shared by the server router and the Go client:
// endpoint methods and paths, request bodies with their validation rules, and error shapes.
package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint is a method and a path pattern with :param placeholders
type Endpoint struct {
	Method string
	Path   string
}

var (
	Register = Endpoint{http.MethodPost, "/api/auth/register"}
	Login    = Endpoint{http.MethodPost, "/api/auth/login"}
	Logout   = Endpoint{http.MethodPost, "/api/auth/logout"}
	Me       = Endpoint{http.MethodGet, "/api/user"}

	ListCountries = Endpoint{http.MethodGet, "/api/countries"}
	ListCities    = Endpoint{http.MethodGet, "/api/countries/:countryId/cities"}
	CreateCountry = Endpoint{http.MethodPost, "/api/admin/countries"}
	CreateCity    = Endpoint{http.MethodPost, "/api/admin/cities"}

	ListServices  = Endpoint{http.MethodGet, "/api/services"}
	CreateService = Endpoint{http.MethodPost, "/api/admin/services"}

	ListProviders       = Endpoint{http.MethodGet, "/api/providers"}
	GetProvider         = Endpoint{http.MethodGet, "/api/providers/:id"}
	RegisterService     = Endpoint{http.MethodPost, "/api/providers/services"}
	SetServiceApproval  = Endpoint{http.MethodPatch, "/api/admin/provider-services/:id/approval"}
	ListPendingServices = Endpoint{http.MethodGet, "/api/admin/provider-services/pending"}
	CreateBooking       = Endpoint{http.MethodPost, "/api/bookings"}
	ListBookings        = Endpoint{http.MethodGet, "/api/bookings"}
	UpdateBookingStatus = Endpoint{http.MethodPatch, "/api/bookings/:id/status"}
	HealthCheck         = Endpoint{http.MethodGet, "/health"}
)

// URL substitutes path params, e.g. BuildURL("/api/providers/:id", Params{"id": 3})
func (e Endpoint) URL(params Params) string {
	return BuildURL(e.Path, params)
}

// Params are path parameter values keyed by placeholder name
type Params map[string]interface{}

// BuildURL replaces each :key segment present in path with its value. Unknown keys are ignored.
func BuildURL(path string, params Params) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if v, ok := params[seg[1:]]; ok {
			segments[i] = url.PathEscape(fmt.Sprint(v))
		}
	}
	return strings.Join(segments, "/")
}
