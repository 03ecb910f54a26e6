package models

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of account roles
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Capability is an action a role may be granted
type Capability string

const (
	CapBook            Capability = "book"             // create bookings, list own bookings
	CapOfferServices   Capability = "offer_services"   // register provider services
	CapModerate        Capability = "moderate"         // approve/reject provider services
	CapManageCatalog   Capability = "manage_catalog"   // create countries, cities, services
	CapViewAllBookings Capability = "view_all_bookings"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleClient: {
		CapBook: true,
	},
	RoleProvider: {
		CapBook:          true,
		CapOfferServices: true,
	},
	RoleAdmin: {
		CapBook:            true,
		CapModerate:        true,
		CapManageCatalog:   true,
		CapViewAllBookings: true,
	},
}

// ParseRole converts a stored or submitted value into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// RegistrationRole maps a requested role to the role a self-registering user receives.
// Only "provider" is honored; anything else, including "admin", becomes client.
func RegistrationRole(requested string) Role {
	if Role(requested) == RoleProvider {
		return RoleProvider
	}
	return RoleClient
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role holds the capability
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// Scan implements sql.Scanner so unknown stored roles fail loudly
func (r *Role) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer
func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}
