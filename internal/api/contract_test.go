package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "/api/providers/3", BuildURL("/api/providers/:id", Params{"id": 3}))
	assert.Equal(t, "/api/countries/12/cities", ListCities.URL(Params{"countryId": int64(12)}))
	assert.Equal(t, "/api/admin/provider-services/7/approval", SetServiceApproval.URL(Params{"id": 7}))
	assert.Equal(t, "/api/providers/:id", BuildURL("/api/providers/:id", nil))
	assert.Equal(t, "/api/providers/a%2Fb", GetProvider.URL(Params{"id": "a/b"}))
	assert.Equal(t, "/api/services", ListServices.URL(Params{"id": 1}))
}
