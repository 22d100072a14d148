package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "github.com/cargaexpress/booking/internal/db/mocks"
	"github.com/cargaexpress/booking/internal/repository"
)

func sampleShipment() *repository.Shipment {
	return &repository.Shipment{
		ID:              "ship-1",
		ClientID:        "client-1",
		PickupAddress:   "Calle 10 #43-12, Medellin",
		DeliveryAddress: "Carrera 7 #32-16, Bogota",
		WeightKg:        120,
		DistanceKm:      150,
		OriginalPrice:   225000,
		Status:          "PENDING_DRIVER_ACTION",
		Version:         1,
		CreatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestShipmentRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewShipmentRepo(mockDB)

		mockDB.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("ship-1")).
			DoAndReturn(func(_ context.Context, dest interface{}, _ string, _ ...interface{}) error {
				*dest.(*repository.Shipment) = *sampleShipment()
				return nil
			})

		s, err := repo.GetByID(ctx, "ship-1")
		require.NoError(t, err)
		assert.Equal(t, "ship-1", s.ID)
		assert.Equal(t, int64(225000), s.OriginalPrice)
	})

	t.Run("Not Found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewShipmentRepo(mockDB)

		mockDB.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestShipmentRepo_CreateTx(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewShipmentRepo(mockDB)

	s := sampleShipment()
	mockTx.EXPECT().
		Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(s.ID), gomock.Eq(s.ClientID), gomock.Any(), gomock.Eq(s.PickupAddress), gomock.Eq(s.DeliveryAddress),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(s.WeightKg), gomock.Eq(s.DistanceKm), gomock.Eq(s.OriginalPrice), gomock.Any(), gomock.Any(),
			gomock.Eq(s.Status), gomock.Any(), gomock.Any(), gomock.Eq(s.Version), gomock.Eq(s.CreatedAt), gomock.Eq(s.UpdatedAt)).
		Return(nil, nil)

	err := repo.CreateTx(ctx, mockTx, s)
	assert.NoError(t, err)
}

func TestShipmentRepo_UpdateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewShipmentRepo(mockDB)

		s := sampleShipment()
		s.Status = "ACCEPTED_BY_DRIVER"
		s.Version = 2

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(s.Status),
				gomock.Any(), gomock.Any(), gomock.Eq(int64(2)), gomock.Any(),
				gomock.Eq(s.ID), gomock.Eq(int64(1))).
			Return(pgconn.CommandTag("UPDATE 1"), nil)

		err := repo.UpdateTx(ctx, mockTx, s, 1)
		assert.NoError(t, err)
	})

	t.Run("Version Mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewShipmentRepo(mockDB)

		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTx(ctx, mockTx, sampleShipment(), 1)
		assert.ErrorIs(t, err, repository.ErrVersionMismatch)
	})

	t.Run("DB Error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewShipmentRepo(mockDB)

		dbErr := errors.New("connection reset")
		mockTx.EXPECT().
			Exec(gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
				gomock.Any(), gomock.Any()).
			Return(nil, dbErr)

		err := repo.UpdateTx(ctx, mockTx, sampleShipment(), 1)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestShipmentRepo_GetOpen(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewShipmentRepo(mockDB)

	mockDB.EXPECT().
		Select(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "PENDING_DRIVER_ACTION")
			assert.Contains(t, query, "REJECTED_BY_USER")
			*dest.(*[]*repository.Shipment) = []*repository.Shipment{sampleShipment()}
			return nil
		})

	shipments, err := repo.GetOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, shipments, 1)
}

func TestShipmentRepo_GetByDriverID(t *testing.T) {
	ctx := context.Background()

	t.Run("active only filters by status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewShipmentRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("driver-1")).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
				assert.Contains(t, query, "ACCEPTED_BY_DRIVER")
				assert.Contains(t, query, "PICKED_UP")
				return nil
			})

		_, err := repo.GetByDriverID(ctx, "driver-1", true)
		assert.NoError(t, err)
	})

	t.Run("all shipments", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewShipmentRepo(mockDB)

		mockDB.EXPECT().
			Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("driver-1")).
			DoAndReturn(func(_ context.Context, _ interface{}, query string, _ ...interface{}) error {
				assert.NotContains(t, query, "ACCEPTED_BY_DRIVER")
				return nil
			})

		_, err := repo.GetByDriverID(ctx, "driver-1", false)
		assert.NoError(t, err)
	})
}
