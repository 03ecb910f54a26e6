package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleClient.Can(CapBook))
	assert.False(t, RoleClient.Can(CapOfferServices))
	assert.False(t, RoleClient.Can(CapModerate))

	assert.True(t, RoleProvider.Can(CapOfferServices))
	assert.False(t, RoleProvider.Can(CapManageCatalog))

	assert.True(t, RoleAdmin.Can(CapModerate))
	assert.True(t, RoleAdmin.Can(CapManageCatalog))
	assert.True(t, RoleAdmin.Can(CapViewAllBookings))
	assert.False(t, RoleAdmin.Can(CapOfferServices))

	assert.False(t, Role("superuser").Can(CapBook))
}

func TestRegistrationRole(t *testing.T) {
	assert.Equal(t, RoleProvider, RegistrationRole("provider"))
	assert.Equal(t, RoleClient, RegistrationRole("client"))
	assert.Equal(t, RoleClient, RegistrationRole(""))
	assert.Equal(t, RoleClient, RegistrationRole("admin"))
}

func TestRoleScan(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan([]byte("provider")))
	assert.Equal(t, RoleProvider, r)

	assert.Error(t, r.Scan("root"))
	assert.Error(t, r.Scan(42))
}

func TestApprovalTransitions(t *testing.T) {
	assert.True(t, ApprovalPending.CanTransitionTo(ApprovalApproved))
	assert.True(t, ApprovalPending.CanTransitionTo(ApprovalRejected))
	assert.False(t, ApprovalPending.CanTransitionTo(ApprovalPending))
	assert.False(t, ApprovalApproved.CanTransitionTo(ApprovalRejected))
	assert.False(t, ApprovalRejected.CanTransitionTo(ApprovalApproved))

	assert.False(t, ApprovalPending.IsTerminal())
	assert.True(t, ApprovalApproved.IsTerminal())
	assert.True(t, ApprovalRejected.IsTerminal())
}

func TestBookingTransitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingPending, BookingAccepted, true},
		{BookingPending, BookingCancelled, true},
		{BookingPending, BookingCompleted, false},
		{BookingAccepted, BookingCompleted, true},
		{BookingAccepted, BookingCancelled, true},
		{BookingAccepted, BookingPending, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingAccepted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.False(t, BookingAccepted.IsTerminal())
	assert.True(t, BookingCompleted.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
}

func TestProviderJSONShape(t *testing.T) {
	p := Provider{
		User: User{ID: 7, Username: "bob", PasswordHash: "secret-hash", Role: RoleProvider, Name: "Bob"},
		ProvidedServices: []ProviderService{
			{ID: 1, UserID: 7, ServiceID: 3, Status: ApprovalApproved},
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "bob", decoded["username"])
	assert.Nil(t, decoded["email"])
	assert.Nil(t, decoded["cityId"])
	assert.NotContains(t, decoded, "password_hash")
	assert.NotContains(t, string(data), "secret-hash")
	services, ok := decoded["providedServices"].([]interface{})
	require.True(t, ok)
	assert.Len(t, services, 1)
}
