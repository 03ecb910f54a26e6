// Package testutil provides in-memory stores that behave like the database
// repositories: same ordering, same sentinel errors, same joins.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/servinear/marketplace-backend/internal/database"
	"github.com/servinear/marketplace-backend/internal/models"
)

// Store holds all tables. Each field exposes the store interface of one repository.
type Store struct {
	mu sync.Mutex

	users            map[int64]models.User
	sessions         map[uuid.UUID]models.UserSession
	countries        map[int64]models.Country
	cities           map[int64]models.City
	services         map[int64]models.Service
	providerServices map[int64]models.ProviderService
	bookings         map[int64]models.Booking
	auditLogs        []models.AuditLog

	nextID int64
	clock  time.Time

	Users            *UserStore
	Sessions         *SessionStore
	Locations        *LocationStore
	Services         *ServiceStore
	ProviderServices *ProviderServiceStore
	Bookings         *BookingStore
	Audit            *AuditStore
}

// NewStore returns an empty store
func NewStore() *Store {
	s := &Store{
		users:            map[int64]models.User{},
		sessions:         map[uuid.UUID]models.UserSession{},
		countries:        map[int64]models.Country{},
		cities:           map[int64]models.City{},
		services:         map[int64]models.Service{},
		providerServices: map[int64]models.ProviderService{},
		bookings:         map[int64]models.Booking{},
		clock:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Users = &UserStore{s}
	s.Sessions = &SessionStore{s}
	s.Locations = &LocationStore{s}
	s.Services = &ServiceStore{s}
	s.ProviderServices = &ProviderServiceStore{s}
	s.Bookings = &BookingStore{s}
	s.Audit = &AuditStore{s}
	return s
}

// id and tick must be called with mu held. Every row gets a strictly later
// created_at so newest-first orderings are deterministic.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// AuditLogs returns a copy of the recorded audit entries in insertion order
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.auditLogs...)
}

// SessionCount returns the number of stored sessions
func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func notFound(what string) error {
	return fmt.Errorf("failed to get %s: %w", what, database.ErrNotFound)
}

// UserStore is the in-memory users table
type UserStore struct{ s *Store }

// CreateUser inserts a user; a taken username yields ErrDuplicate
func (u *UserStore) CreateUser(_ context.Context, in models.NewUser) (*models.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == in.Username {
			return nil, fmt.Errorf("failed to create user: %w", database.ErrDuplicate)
		}
	}
	if in.CityID != nil {
		if _, ok := s.cities[*in.CityID]; !ok {
			return nil, fmt.Errorf("failed to create user: %w", database.ErrInvalidReference)
		}
	}

	language := in.Language
	if language == "" {
		language = "en"
	}

	user := models.User{
		ID:           s.id(),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		Name:         in.Name,
		Email:        models.NewNullString(in.Email),
		Phone:        models.NewNullString(in.Phone),
		Bio:          models.NewNullString(in.Bio),
		CityID:       models.NewNullInt64(in.CityID),
		Language:     language,
		CreatedAt:    s.tick(),
	}
	s.users[user.ID] = user
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (u *UserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, notFound("user by ID")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (u *UserStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, user := range u.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, notFound("user by username")
}

// GetProvider retrieves a user that has the provider role
func (u *UserStore) GetProvider(_ context.Context, id int64) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok || user.Role != models.RoleProvider {
		return nil, notFound("provider")
	}
	return &user, nil
}

// ListProviders returns providers ordered by id
func (u *UserStore) ListProviders(_ context.Context, filter models.ProviderFilter) ([]models.User, error) {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	users := []models.User{}
	for _, user := range s.users {
		if user.Role != models.RoleProvider {
			continue
		}
		if filter.CityID != nil && (!user.CityID.Valid || user.CityID.Int64 != *filter.CityID) {
			continue
		}
		if filter.ServiceID != nil && !s.hasApproved(user.ID, *filter.ServiceID) {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *Store) hasApproved(userID, serviceID int64) bool {
	for _, ps := range s.providerServices {
		if ps.UserID == userID && ps.ServiceID == serviceID && ps.Status == models.ApprovalApproved {
			return true
		}
	}
	return false
}

// SessionStore is the in-memory user_sessions table
type SessionStore struct{ s *Store }

// CreateSession stores a new login session
func (ss *SessionStore) CreateSession(_ context.Context, session *models.UserSession) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	if _, ok := ss.s.users[session.UserID]; !ok {
		return fmt.Errorf("failed to create session: %w", database.ErrInvalidReference)
	}
	ss.s.sessions[session.ID] = *session
	return nil
}

// GetSession retrieves a session by ID regardless of state
func (ss *SessionStore) GetSession(_ context.Context, id uuid.UUID) (*models.UserSession, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	session, ok := ss.s.sessions[id]
	if !ok {
		return nil, notFound("session")
	}
	return &session, nil
}

// TouchSession records activity on a session
func (ss *SessionStore) TouchSession(_ context.Context, id uuid.UUID, at time.Time) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	if session, ok := ss.s.sessions[id]; ok {
		session.LastActivityAt = at
		ss.s.sessions[id] = session
	}
	return nil
}

// RevokeSession marks a session revoked if it is not already
func (ss *SessionStore) RevokeSession(_ context.Context, id uuid.UUID, at time.Time) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	if session, ok := ss.s.sessions[id]; ok && !session.RevokedAt.Valid {
		session.RevokedAt = models.NewNullTime(&at)
		ss.s.sessions[id] = session
	}
	return nil
}

// DeleteExpiredSessions removes sessions expired or revoked before cutoff
func (ss *SessionStore) DeleteExpiredSessions(_ context.Context, cutoff time.Time) (int64, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	var deleted int64
	for id, session := range ss.s.sessions {
		if session.ExpiresAt.Before(cutoff) || (session.RevokedAt.Valid && session.RevokedAt.Time.Before(cutoff)) {
			delete(ss.s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// LocationStore is the in-memory countries and cities tables
type LocationStore struct{ s *Store }

// ListCountries returns countries ordered by name, id
func (l *LocationStore) ListCountries(_ context.Context) ([]models.Country, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	countries := []models.Country{}
	for _, c := range l.s.countries {
		countries = append(countries, c)
	}
	sort.Slice(countries, func(i, j int) bool {
		if countries[i].Name != countries[j].Name {
			return countries[i].Name < countries[j].Name
		}
		return countries[i].ID < countries[j].ID
	})
	return countries, nil
}

// GetCountryByID retrieves a country by ID
func (l *LocationStore) GetCountryByID(_ context.Context, id int64) (*models.Country, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	c, ok := l.s.countries[id]
	if !ok {
		return nil, notFound("country")
	}
	return &c, nil
}

// GetCountryByCode retrieves a country by ISO code
func (l *LocationStore) GetCountryByCode(_ context.Context, code string) (*models.Country, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for _, c := range l.s.countries {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}
	return nil, notFound("country by code")
}

// CreateCountry inserts a country; a taken code yields ErrDuplicate
func (l *LocationStore) CreateCountry(_ context.Context, country models.Country) (*models.Country, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for _, c := range l.s.countries {
		if c.Code == country.Code {
			return nil, fmt.Errorf("failed to create country: %w", database.ErrDuplicate)
		}
	}
	country.ID = l.s.id()
	l.s.countries[country.ID] = country
	return &country, nil
}

// ListCities returns the cities of a country ordered by name, id
func (l *LocationStore) ListCities(_ context.Context, countryID int64) ([]models.City, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	cities := []models.City{}
	for _, c := range l.s.cities {
		if c.CountryID == countryID {
			cities = append(cities, c)
		}
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Name != cities[j].Name {
			return cities[i].Name < cities[j].Name
		}
		return cities[i].ID < cities[j].ID
	})
	return cities, nil
}

// GetCityByID retrieves a city by ID
func (l *LocationStore) GetCityByID(_ context.Context, id int64) (*models.City, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	c, ok := l.s.cities[id]
	if !ok {
		return nil, notFound("city")
	}
	return &c, nil
}

// CreateCity inserts a city; an unknown country yields ErrInvalidReference
func (l *LocationStore) CreateCity(_ context.Context, city models.City) (*models.City, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if _, ok := l.s.countries[city.CountryID]; !ok {
		return nil, fmt.Errorf("failed to create city: %w", database.ErrInvalidReference)
	}
	city.ID = l.s.id()
	l.s.cities[city.ID] = city
	return &city, nil
}

// ServiceStore is the in-memory services table
type ServiceStore struct{ s *Store }

// ListServices returns services ordered by id
func (sv *ServiceStore) ListServices(_ context.Context) ([]models.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	services := []models.Service{}
	for _, svc := range sv.s.services {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

// GetServiceByID retrieves a service by ID
func (sv *ServiceStore) GetServiceByID(_ context.Context, id int64) (*models.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	svc, ok := sv.s.services[id]
	if !ok {
		return nil, notFound("service")
	}
	return &svc, nil
}

// GetServiceBySlug retrieves a service by slug
func (sv *ServiceStore) GetServiceBySlug(_ context.Context, slug string) (*models.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	for _, svc := range sv.s.services {
		if svc.Slug == slug {
			return &svc, nil
		}
	}
	return nil, notFound("service by slug")
}

// CreateService inserts a service; a taken slug yields ErrDuplicate
func (sv *ServiceStore) CreateService(_ context.Context, service models.Service) (*models.Service, error) {
	sv.s.mu.Lock()
	defer sv.s.mu.Unlock()
	for _, svc := range sv.s.services {
		if svc.Slug == service.Slug {
			return nil, fmt.Errorf("failed to create service: %w", database.ErrDuplicate)
		}
	}
	service.ID = sv.s.id()
	sv.s.services[service.ID] = service
	return &service, nil
}

// ProviderServiceStore is the in-memory provider_services table
type ProviderServiceStore struct{ s *Store }

// CreateProviderService inserts a pending provider service
func (p *ProviderServiceStore) CreateProviderService(_ context.Context, in models.NewProviderService) (*models.ProviderService, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	_, userOK := s.users[in.UserID]
	_, serviceOK := s.services[in.ServiceID]
	if !userOK || !serviceOK {
		return nil, fmt.Errorf("failed to create provider service: %w", database.ErrInvalidReference)
	}
	if in.CountryID != nil {
		if _, ok := s.countries[*in.CountryID]; !ok {
			return nil, fmt.Errorf("failed to create provider service: %w", database.ErrInvalidReference)
		}
	}
	if in.CityID != nil {
		if _, ok := s.cities[*in.CityID]; !ok {
			return nil, fmt.Errorf("failed to create provider service: %w", database.ErrInvalidReference)
		}
	}

	ps := models.ProviderService{
		ID:          s.id(),
		UserID:      in.UserID,
		ServiceID:   in.ServiceID,
		CountryID:   models.NewNullInt64(in.CountryID),
		CityID:      models.NewNullInt64(in.CityID),
		PriceRange:  models.NewNullString(in.PriceRange),
		Description: models.NewNullString(in.Description),
		Status:      models.ApprovalPending,
		CreatedAt:   s.tick(),
	}
	s.providerServices[ps.ID] = ps
	return &ps, nil
}

// GetProviderServiceByID retrieves a provider service by ID
func (p *ProviderServiceStore) GetProviderServiceByID(_ context.Context, id int64) (*models.ProviderService, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	ps, ok := p.s.providerServices[id]
	if !ok {
		return nil, notFound("provider service")
	}
	return &ps, nil
}

// ListPending returns pending rows with their service and provider, newest first.
// Rows whose service or provider is missing are skipped.
func (p *ProviderServiceStore) ListPending(_ context.Context) ([]models.PendingProviderService, error) {
	s := p.s
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []models.PendingProviderService{}
	for _, ps := range s.providerServices {
		if ps.Status != models.ApprovalPending {
			continue
		}
		svc, ok := s.services[ps.ServiceID]
		if !ok {
			continue
		}
		provider, ok := s.users[ps.UserID]
		if !ok {
			continue
		}
		rows = append(rows, models.PendingProviderService{ProviderService: ps, Service: svc, Provider: provider})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows, nil
}

// UpdateStatus sets the status; with from set, only a row currently in from is updated
func (p *ProviderServiceStore) UpdateStatus(_ context.Context, id int64, status models.ApprovalStatus, from *models.ApprovalStatus) (*models.ProviderService, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	ps, ok := p.s.providerServices[id]
	if !ok || (from != nil && ps.Status != *from) {
		return nil, fmt.Errorf("failed to update provider service status: %w", database.ErrNotFound)
	}
	ps.Status = status
	p.s.providerServices[id] = ps
	return &ps, nil
}

// ListApprovedByUsers returns approved rows of the users ordered by user and id
func (p *ProviderServiceStore) ListApprovedByUsers(_ context.Context, userIDs []int64) ([]models.ProviderService, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	want := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		want[id] = true
	}
	rows := []models.ProviderService{}
	for _, ps := range p.s.providerServices {
		if want[ps.UserID] && ps.Status == models.ApprovalApproved {
			rows = append(rows, ps)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].UserID != rows[j].UserID {
			return rows[i].UserID < rows[j].UserID
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

// HasApprovedService reports whether the user holds an approved row for the service
func (p *ProviderServiceStore) HasApprovedService(_ context.Context, userID, serviceID int64) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return p.s.hasApproved(userID, serviceID), nil
}

// BookingStore is the in-memory bookings table
type BookingStore struct{ s *Store }

// CreateBooking inserts a pending booking
func (b *BookingStore) CreateBooking(_ context.Context, in models.NewBooking) (*models.Booking, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	_, clientOK := s.users[in.ClientID]
	_, providerOK := s.users[in.ProviderID]
	_, serviceOK := s.services[in.ServiceID]
	if !clientOK || !providerOK || !serviceOK {
		return nil, fmt.Errorf("failed to create booking: %w", database.ErrInvalidReference)
	}

	booking := models.Booking{
		ID:            s.id(),
		ClientID:      in.ClientID,
		ProviderID:    in.ProviderID,
		ServiceID:     in.ServiceID,
		Status:        models.BookingPending,
		ScheduledDate: models.NewNullTime(in.ScheduledDate),
		CreatedAt:     s.tick(),
	}
	s.bookings[booking.ID] = booking
	return &booking, nil
}

// GetBookingByID retrieves a booking by ID
func (b *BookingStore) GetBookingByID(_ context.Context, id int64) (*models.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	booking, ok := b.s.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return &booking, nil
}

// UpdateStatus moves a booking from one status to another; a row not in from yields ErrNotFound
func (b *BookingStore) UpdateStatus(_ context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	booking, ok := b.s.bookings[id]
	if !ok || booking.Status != from {
		return nil, fmt.Errorf("failed to update booking status: %w", database.ErrNotFound)
	}
	booking.Status = to
	b.s.bookings[id] = booking
	return &booking, nil
}

// ListBookingDetails returns bookings with their service, provider and client,
// newest first. Rows with a missing joined entity are skipped.
func (b *BookingStore) ListBookingDetails(_ context.Context, filter models.BookingFilter) ([]models.BookingDetails, error) {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []models.BookingDetails{}
	for _, booking := range s.bookings {
		if filter.ClientID != nil && booking.ClientID != *filter.ClientID {
			continue
		}
		if filter.ProviderID != nil && booking.ProviderID != *filter.ProviderID {
			continue
		}
		svc, ok := s.services[booking.ServiceID]
		if !ok {
			continue
		}
		provider, ok := s.users[booking.ProviderID]
		if !ok {
			continue
		}
		client, ok := s.users[booking.ClientID]
		if !ok {
			continue
		}
		rows = append(rows, models.BookingDetails{Booking: booking, Service: svc, Provider: provider, Client: client})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows, nil
}

// AuditStore is the in-memory audit_logs table
type AuditStore struct{ s *Store }

// InsertAuditLog stores one audit event
func (a *AuditStore) InsertAuditLog(_ context.Context, entry models.AuditLog) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	entry.ID = a.s.id()
	a.s.auditLogs = append(a.s.auditLogs, entry)
	return nil
}

// DeleteAuditLogsBefore removes entries created before cutoff
func (a *AuditStore) DeleteAuditLogsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	kept := a.s.auditLogs[:0]
	var deleted int64
	for _, entry := range a.s.auditLogs {
		if entry.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	a.s.auditLogs = kept
	return deleted, nil
}
