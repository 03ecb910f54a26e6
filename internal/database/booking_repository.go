package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/servinear/marketplace-backend/internal/models"
)

const bookingColumns = `id, client_id, provider_id, service_id, status,
	scheduled_date, commission_amount, created_at`

// BookingRepository handles booking database operations
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{
		db: db,
	}
}

// CreateBooking inserts a pending booking. Commission stays unset.
func (r *BookingRepository) CreateBooking(ctx context.Context, in models.NewBooking) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (client_id, provider_id, service_id, status, scheduled_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + bookingColumns

	var booking models.Booking
	err := r.db.GetContext(ctx, &booking, query,
		in.ClientID,
		in.ProviderID,
		in.ServiceID,
		models.BookingPending,
		models.NewNullTime(in.ScheduledDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", translateError(err))
	}

	return &booking, nil
}

// GetBookingByID retrieves a booking by ID
func (r *BookingRepository) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", translateError(err))
	}

	return &booking, nil
}

// UpdateStatus moves a booking from one status to another. A booking that no longer
// holds the from status yields ErrNotFound.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to models.BookingStatus) (*models.Booking, error) {
	query := `
		UPDATE bookings SET status = $1
		WHERE id = $2 AND status = $3
		RETURNING ` + bookingColumns

	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, to, id, from); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", translateError(err))
	}

	return &booking, nil
}

// ListBookingDetails returns bookings joined with service, provider and client, newest first.
// Bookings whose joined rows are missing are dropped by the inner joins.
func (r *BookingRepository) ListBookingDetails(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetails, error) {
	selection := []interface{}{
		"b.id", "b.client_id", "b.provider_id", "b.service_id", "b.status",
		"b.scheduled_date", "b.commission_amount", "b.created_at",
	}
	selection = append(selection, nestedSelection("s", "service", joinedServiceFields)...)
	selection = append(selection, nestedSelection("p", "provider", joinedUserFields)...)
	selection = append(selection, nestedSelection("c", "client", joinedUserFields)...)

	ds := dialect.From(goqu.T("bookings").As("b")).
		Select(selection...).
		InnerJoin(goqu.T("services").As("s"), goqu.On(goqu.I("s.id").Eq(goqu.I("b.service_id")))).
		InnerJoin(goqu.T("users").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.provider_id")))).
		InnerJoin(goqu.T("users").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("b.client_id"))))

	if filter.ClientID != nil {
		ds = ds.Where(goqu.I("b.client_id").Eq(*filter.ClientID))
	}
	if filter.ProviderID != nil {
		ds = ds.Where(goqu.I("b.provider_id").Eq(*filter.ProviderID))
	}

	query, args, err := ds.
		Order(goqu.I("b.created_at").Desc(), goqu.I("b.id").Desc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build booking query: %w", err)
	}

	rows := []models.BookingDetails{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return rows, nil
}

// nestedSelection is the goqu form of nestedColumns
func nestedSelection(alias, prefix string, fields []string) []interface{} {
	cols := make([]interface{}, len(fields))
	for i, f := range fields {
		cols[i] = goqu.I(alias + "." + f).As(goqu.C(prefix + "." + f))
	}
	return cols
}
