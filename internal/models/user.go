package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// NewNullString returns a valid NullString for non-empty input
func NewNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NullInt64 wraps sql.NullInt64 to provide proper JSON marshaling
type NullInt64 struct {
	sql.NullInt64
}

// NewNullInt64 returns a valid NullInt64 when v is non-nil
func NewNullInt64(v *int64) NullInt64 {
	if v == nil {
		return NullInt64{}
	}
	return NullInt64{sql.NullInt64{Int64: *v, Valid: true}}
}

// MarshalJSON implements json.Marshaler
func (n NullInt64) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Int64)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullInt64) UnmarshalJSON(data []byte) error {
	var v *int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NewNullInt64(v)
	return nil
}

// NullFloat64 wraps sql.NullFloat64 to provide proper JSON marshaling
type NullFloat64 struct {
	sql.NullFloat64
}

// MarshalJSON implements json.Marshaler
func (n NullFloat64) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return json.Marshal(n.Float64)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NullFloat64) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v != nil {
		n.Valid = true
		n.Float64 = *v
	} else {
		n.Valid = false
	}
	return nil
}

// NullTime wraps sql.NullTime to provide proper JSON marshaling
type NullTime struct {
	sql.NullTime
}

// NewNullTime returns a valid NullTime when t is non-nil
func NewNullTime(t *time.Time) NullTime {
	if t == nil {
		return NullTime{}
	}
	return NullTime{sql.NullTime{Time: *t, Valid: true}}
}

// MarshalJSON implements json.Marshaler
func (nt NullTime) MarshalJSON() ([]byte, error) {
	if nt.Valid {
		return json.Marshal(nt.Time)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (nt *NullTime) UnmarshalJSON(data []byte) error {
	var t *time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*nt = NewNullTime(t)
	return nil
}

// User represents a marketplace account (client, provider or admin)
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose
	Role         Role       `json:"role" db:"role"`
	Name         string     `json:"name" db:"name"`
	Email        NullString `json:"email" db:"email"`
	Phone        NullString `json:"phone" db:"phone"`
	Bio          NullString `json:"bio" db:"bio"`
	CityID       NullInt64  `json:"cityId" db:"city_id"`
	Language     string     `json:"language" db:"language"`
	IsVerified   bool       `json:"isVerified" db:"is_verified"`
	Rating       float64    `json:"rating" db:"rating"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// NewUser holds the fields needed to insert a user row
type NewUser struct {
	Username     string
	PasswordHash string
	Role         Role
	Name         string
	Email        string
	Phone        string
	Bio          string
	CityID       *int64
	Language     string
}

// Provider is a provider user together with their approved services
type Provider struct {
	User
	ProvidedServices []ProviderService `json:"providedServices"`
}

// ProviderFilter narrows a provider listing; nil fields are ignored
type ProviderFilter struct {
	CityID    *int64
	ServiceID *int64
}

// UserSession represents a server-side login session
type UserSession struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         int64      `json:"userId" db:"user_id"`
	IPAddress      NullString `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent      NullString `json:"userAgent,omitempty" db:"user_agent"`
	DeviceType     NullString `json:"deviceType,omitempty" db:"device_type"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt      time.Time  `json:"expiresAt" db:"expires_at"`
	LastActivityAt time.Time  `json:"lastActivityAt" db:"last_activity_at"`
	RevokedAt      NullTime   `json:"revokedAt,omitempty" db:"revoked_at"`
}

// IsActive reports whether the session can still authenticate requests
func (s *UserSession) IsActive(now time.Time) bool {
	return !s.RevokedAt.Valid && now.Before(s.ExpiresAt)
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         int64      `json:"id" db:"id"`
	UserID     NullInt64  `json:"userId,omitempty" db:"user_id"`
	Action     string     `json:"action" db:"action"`
	EntityType NullString `json:"entityType,omitempty" db:"entity_type"`
	EntityID   NullInt64  `json:"entityId,omitempty" db:"entity_id"`
	IPAddress  NullString `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent  NullString `json:"userAgent,omitempty" db:"user_agent"`
	Details    NullString `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}
