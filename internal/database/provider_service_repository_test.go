package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/servinear/marketplace-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var providerServiceRowColumns = []string{
	"id", "user_id", "service_id", "country_id", "city_id",
	"price_range", "description", "status", "created_at",
}

func TestCreateProviderService(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProviderServiceRepository(db)

	cityID := int64(2)
	mock.ExpectQuery(`INSERT INTO provider_services`).
		WithArgs(int64(7), int64(3), nil, cityID, "50-100", nil, "pending").
		WillReturnRows(sqlmock.NewRows(providerServiceRowColumns).
			AddRow(int64(11), int64(7), int64(3), nil, cityID, "50-100", nil, "pending", time.Now()))

	ps, err := repo.CreateProviderService(context.Background(), models.NewProviderService{
		UserID:     7,
		ServiceID:  3,
		CityID:     &cityID,
		PriceRange: "50-100",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), ps.ID)
	assert.Equal(t, models.ApprovalPending, ps.Status)
	assert.Equal(t, "50-100", ps.PriceRange.String)
	assert.False(t, ps.Description.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProviderServiceRepository(db)

	columns := append([]string{}, providerServiceRowColumns...)
	columns = append(columns,
		"service.id", "service.name_en", "service.name_fr", "service.name_ar",
		"service.icon", "service.slug", "service.commission_rate",
		"provider.id", "provider.username", "provider.role", "provider.name",
	)
	now := time.Now()
	rows := sqlmock.NewRows(columns).
		AddRow(int64(12), int64(7), int64(3), nil, nil, nil, nil, "pending", now,
			int64(3), "Cleaning", "Nettoyage", "تنظيف", "Sparkles", "cleaning", 10,
			int64(7), "bob", "provider", "Bob").
		AddRow(int64(11), int64(8), int64(1), nil, nil, nil, nil, "pending", now.Add(-time.Hour),
			int64(1), "Plumbing", "Plomberie", "سباكة", "Wrench", "plumbing", 10,
			int64(8), "dan", "provider", "Dan")

	mock.ExpectQuery(`FROM provider_services ps\s+JOIN services s .+ JOIN users u .+ WHERE ps.status = \$1\s+ORDER BY ps.created_at DESC, ps.id DESC`).
		WithArgs("pending").
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)

	assert.Equal(t, int64(12), pending[0].ID)
	assert.Equal(t, "cleaning", pending[0].Service.Slug)
	assert.Equal(t, "bob", pending[0].Provider.Username)
	assert.Equal(t, models.RoleProvider, pending[0].Provider.Role)
	assert.Equal(t, "dan", pending[1].Provider.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProviderServiceStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProviderServiceRepository(db)
	ctx := context.Background()

	t.Run("Unconditional", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE provider_services SET status = \$1 WHERE id = \$2 RETURNING`).
			WithArgs("approved", int64(11)).
			WillReturnRows(sqlmock.NewRows(providerServiceRowColumns).
				AddRow(int64(11), int64(7), int64(3), nil, nil, nil, nil, "approved", time.Now()))

		ps, err := repo.UpdateStatus(ctx, 11, models.ApprovalApproved, nil)
		require.NoError(t, err)
		assert.Equal(t, models.ApprovalApproved, ps.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Guarded Lost Race", func(t *testing.T) {
		from := models.ApprovalPending
		mock.ExpectQuery(`UPDATE provider_services SET status = \$1 WHERE id = \$2 AND status = \$3`).
			WithArgs("rejected", int64(11), "pending").
			WillReturnError(sql.ErrNoRows)

		ps, err := repo.UpdateStatus(ctx, 11, models.ApprovalRejected, &from)
		assert.Nil(t, ps)
		assert.True(t, errors.Is(err, ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListApprovedByUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProviderServiceRepository(db)
	ctx := context.Background()

	t.Run("Empty Input Skips Query", func(t *testing.T) {
		rows, err := repo.ListApprovedByUsers(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Batch", func(t *testing.T) {
		mock.ExpectQuery(`FROM "provider_services" WHERE .*"status" = \$1.*"user_id" IN \(\$2, \$3\)`).
			WithArgs("approved", int64(2), int64(4)).
			WillReturnRows(sqlmock.NewRows(providerServiceRowColumns).
				AddRow(int64(5), int64(2), int64(3), nil, nil, nil, nil, "approved", time.Now()))

		rows, err := repo.ListApprovedByUsers(ctx, []int64{2, 4})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(2), rows[0].UserID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
