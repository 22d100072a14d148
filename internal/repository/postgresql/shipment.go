package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/cargaexpress/booking/internal/db"
	"github.com/cargaexpress/booking/internal/repository"
)

type ShipmentRepo struct {
	db db.DB
}

func NewShipmentRepo(db db.DB) *ShipmentRepo {
	return &ShipmentRepo{db: db}
}

const shipmentColumns = `
        id, client_id, driver_id, pickup_address, delivery_address,
        pickup_lat, pickup_lng, delivery_lat, delivery_lng,
        weight_kg, distance_km, original_price, driver_suggested_price, final_price,
        status, driver_lat, driver_lng, version, created_at, updated_at`

func (r *ShipmentRepo) CreateTx(ctx context.Context, tx db.Tx, s *repository.Shipment) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO shipments (`+shipmentColumns+`
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
    `, s.ID, s.ClientID, s.DriverID, s.PickupAddress, s.DeliveryAddress,
		s.PickupLat, s.PickupLng, s.DeliveryLat, s.DeliveryLng,
		s.WeightKg, s.DistanceKm, s.OriginalPrice, s.DriverSuggestedPrice, s.FinalPrice,
		s.Status, s.DriverLat, s.DriverLng, s.Version, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*repository.Shipment, error) {
	var s repository.Shipment
	err := r.db.Get(ctx, &s, "SELECT * FROM shipments WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx locks the row for the duration of the transaction so concurrent
// drivers cannot both claim the same offer.
func (r *ShipmentRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Shipment, error) {
	var s repository.Shipment
	err := tx.Get(ctx, &s, "SELECT * FROM shipments WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpdateTx writes the record guarded by its previous version. A zero row count
// with an existing row means the optimistic check lost.
func (r *ShipmentRepo) UpdateTx(ctx context.Context, tx db.Tx, s *repository.Shipment, prevVersion int64) error {
	tag, err := tx.Exec(ctx, `
        UPDATE shipments
        SET
            driver_id = $1,
            driver_suggested_price = $2,
            final_price = $3,
            status = $4,
            driver_lat = $5,
            driver_lng = $6,
            version = $7,
            updated_at = $8
        WHERE id = $9 AND version = $10
    `, s.DriverID, s.DriverSuggestedPrice, s.FinalPrice, s.Status,
		s.DriverLat, s.DriverLng, s.Version, s.UpdatedAt, s.ID, prevVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVersionMismatch
	}
	return nil
}

// GetOpen returns the offers any driver may act on.
func (r *ShipmentRepo) GetOpen(ctx context.Context) ([]*repository.Shipment, error) {
	query := `
        SELECT * FROM shipments
        WHERE status IN ('PENDING_DRIVER_ACTION', 'REJECTED_BY_USER')
        ORDER BY created_at ASC
    `
	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get open shipments: %w", err)
	}
	return shipments, nil
}

func (r *ShipmentRepo) GetByClientID(ctx context.Context, clientID string) ([]*repository.Shipment, error) {
	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments,
		"SELECT * FROM shipments WHERE client_id = $1 ORDER BY created_at DESC", clientID)
	return shipments, err
}

func (r *ShipmentRepo) GetByDriverID(ctx context.Context, driverID string, activeOnly bool) ([]*repository.Shipment, error) {
	query := "SELECT * FROM shipments WHERE driver_id = $1"
	if activeOnly {
		query += " AND status IN ('ACCEPTED_BY_DRIVER', 'ACCEPTED_BY_USER', 'PICKED_UP')"
	}
	query += " ORDER BY created_at DESC"

	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments, query, driverID)
	return shipments, err
}

func (r *ShipmentRepo) GetDeliveredByDriverID(ctx context.Context, driverID string) ([]*repository.Shipment, error) {
	var shipments []*repository.Shipment
	err := r.db.Select(ctx, &shipments,
		"SELECT * FROM shipments WHERE driver_id = $1 AND status = 'DELIVERED' ORDER BY updated_at DESC", driverID)
	return shipments, err
}
