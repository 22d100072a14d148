//go:generate mockgen -source ./postgres.go -destination=./mocks/storage.go -package=mock_storage
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cargaexpress/booking/internal/db"
	"github.com/cargaexpress/booking/internal/repository"
	"github.com/cargaexpress/booking/internal/shipment"
)

type ShipmentRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, s *repository.Shipment) error
	GetByID(ctx context.Context, id string) (*repository.Shipment, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Shipment, error)
	UpdateTx(ctx context.Context, tx db.Tx, s *repository.Shipment, prevVersion int64) error
	GetOpen(ctx context.Context) ([]*repository.Shipment, error)
	GetByClientID(ctx context.Context, clientID string) ([]*repository.Shipment, error)
	GetByDriverID(ctx context.Context, driverID string, activeOnly bool) ([]*repository.Shipment, error)
	GetDeliveredByDriverID(ctx context.Context, driverID string) ([]*repository.Shipment, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.HistoryEntry, error)
}

// PostgresStorage orchestrates engine transitions over the repositories. Every
// mutation runs in one transaction: row lock, transition, version-guarded
// write, history entry, outbox task.
type PostgresStorage struct {
	db          db.DB
	engine      *shipment.Engine
	shipments   ShipmentRepository
	history     HistoryRepository
	outbox      OutboxTaskRepository
	outboxTopic string
}

func NewPostgresStorage(database db.DB, shipments ShipmentRepository, history HistoryRepository, outbox OutboxTaskRepository, outboxTopic string) *PostgresStorage {
	return &PostgresStorage{
		db:          database,
		engine:      shipment.NewEngine(),
		shipments:   shipments,
		history:     history,
		outbox:      outbox,
		outboxTopic: outboxTopic,
	}
}

func (s *PostgresStorage) CreateShipment(ctx context.Context, clientID string, draft shipment.Draft) (*shipment.Record, error) {
	rec, err := s.engine.Submit(clientID, draft)
	if err != nil {
		return nil, err
	}
	rec.ID = uuid.NewString()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, &shipment.StorageError{Op: "begin tx", Err: err}
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := s.shipments.CreateTx(ctx, tx, toRepo(rec)); err != nil {
		return nil, &shipment.StorageError{Op: "insert shipment", Err: err}
	}
	if err := s.appendHistoryTx(ctx, tx, rec, clientID); err != nil {
		return nil, err
	}
	if err := s.enqueueStatusChangeTx(ctx, tx, rec, clientID, ""); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &shipment.StorageError{Op: "commit", Err: err}
	}
	return &rec, nil
}

func (s *PostgresStorage) GetShipment(ctx context.Context, id string) (*shipment.Record, error) {
	row, err := s.shipments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, shipment.ErrNotFound
		}
		return nil, &shipment.StorageError{Op: "get shipment", Err: err}
	}
	rec := fromRepo(row)
	return &rec, nil
}

func (s *PostgresStorage) ApplyShipment(ctx context.Context, id string, actor shipment.Actor, action shipment.Action, payload shipment.Payload) (*shipment.Record, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, &shipment.StorageError{Op: "begin tx", Err: err}
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	row, err := s.shipments.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, shipment.ErrNotFound
		}
		return nil, &shipment.StorageError{Op: "lock shipment", Err: err}
	}

	current := fromRepo(row)
	updated, err := s.engine.Apply(current, actor, action, payload)
	if err != nil {
		return nil, err
	}
	prevVersion := updated.Version
	updated.Version++

	if err := s.shipments.UpdateTx(ctx, tx, toRepo(updated), prevVersion); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, shipment.ErrVersionConflict
		}
		return nil, &shipment.StorageError{Op: "update shipment", Err: err}
	}
	if err := s.appendHistoryTx(ctx, tx, updated, actor.ID); err != nil {
		return nil, err
	}
	if err := s.enqueueStatusChangeTx(ctx, tx, updated, actor.ID, current.Status); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &shipment.StorageError{Op: "commit", Err: err}
	}
	return &updated, nil
}

func (s *PostgresStorage) UpdateDriverLocation(ctx context.Context, id string, driverID string, loc shipment.Coords) (*shipment.Record, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, &shipment.StorageError{Op: "begin tx", Err: err}
	}
	defer func() { _ = tx.Rollback(context.Background()) }()

	row, err := s.shipments.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, shipment.ErrNotFound
		}
		return nil, &shipment.StorageError{Op: "lock shipment", Err: err}
	}

	current := fromRepo(row)
	updated, err := s.engine.UpdateDriverLocation(current, driverID, loc)
	if err != nil {
		return nil, err
	}
	prevVersion := updated.Version
	updated.Version++

	if err := s.shipments.UpdateTx(ctx, tx, toRepo(updated), prevVersion); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			return nil, shipment.ErrVersionConflict
		}
		return nil, &shipment.StorageError{Op: "update shipment", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &shipment.StorageError{Op: "commit", Err: err}
	}
	return &updated, nil
}

func (s *PostgresStorage) ListPendingOffers(ctx context.Context) ([]shipment.Record, error) {
	rows, err := s.shipments.GetOpen(ctx)
	if err != nil {
		return nil, &shipment.StorageError{Op: "list open shipments", Err: err}
	}
	return fromRepoSlice(rows), nil
}

func (s *PostgresStorage) ListDriverShipments(ctx context.Context, driverID string, activeOnly bool) ([]shipment.Record, error) {
	rows, err := s.shipments.GetByDriverID(ctx, driverID, activeOnly)
	if err != nil {
		return nil, &shipment.StorageError{Op: "list driver shipments", Err: err}
	}
	return fromRepoSlice(rows), nil
}

func (s *PostgresStorage) ListClientShipments(ctx context.Context, clientID string) ([]shipment.Record, error) {
	rows, err := s.shipments.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, &shipment.StorageError{Op: "list client shipments", Err: err}
	}
	return fromRepoSlice(rows), nil
}

func (s *PostgresStorage) DriverSummary(ctx context.Context, driverID string) (*shipment.DriverSummary, error) {
	rows, err := s.shipments.GetDeliveredByDriverID(ctx, driverID)
	if err != nil {
		return nil, &shipment.StorageError{Op: "list delivered shipments", Err: err}
	}
	summary := shipment.SummarizeDriver(fromRepoSlice(rows), driverID)
	return &summary, nil
}

func (s *PostgresStorage) GetShipmentHistory(ctx context.Context, id string) ([]shipment.HistoryEntry, error) {
	if _, err := s.GetShipment(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.history.GetByShipmentID(ctx, id)
	if err != nil {
		return nil, &shipment.StorageError{Op: "get shipment history", Err: err}
	}

	entries := make([]shipment.HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = shipment.HistoryEntry{
			ShipmentID: row.ShipmentID,
			Status:     shipment.Status(row.Status),
			ActorID:    row.ActorID,
			ChangedAt:  row.ChangedAt,
		}
	}
	return entries, nil
}

func (s *PostgresStorage) appendHistoryTx(ctx context.Context, tx db.Tx, rec shipment.Record, actorID string) error {
	entry := &repository.HistoryEntry{
		ShipmentID: rec.ID,
		Status:     string(rec.Status),
		ActorID:    actorID,
		ChangedAt:  rec.UpdatedAt,
	}
	if err := s.history.CreateTx(ctx, tx, entry); err != nil {
		return &shipment.StorageError{Op: "insert history entry", Err: err}
	}
	return nil
}

type statusChangeEvent struct {
	ShipmentID string          `json:"shipment_id"`
	ActorID    string          `json:"actor_id,omitempty"`
	OldStatus  shipment.Status `json:"old_status,omitempty"`
	NewStatus  shipment.Status `json:"new_status"`
	ChangedAt  time.Time       `json:"changed_at"`
}

// enqueueStatusChangeTx writes the change event into the transactional outbox;
// the publisher delivers it to kafka after commit.
func (s *PostgresStorage) enqueueStatusChangeTx(ctx context.Context, tx db.Tx, rec shipment.Record, actorID string, oldStatus shipment.Status) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(statusChangeEvent{
		ShipmentID: rec.ID,
		ActorID:    actorID,
		OldStatus:  oldStatus,
		NewStatus:  rec.Status,
		ChangedAt:  rec.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status change event: %w", err)
	}

	task := &repository.OutboxTask{Payload: payload, Topic: s.outboxTopic}
	if err := s.outbox.CreateTx(ctx, tx, task); err != nil {
		return &shipment.StorageError{Op: "enqueue outbox task", Err: err}
	}
	return nil
}

func toRepo(rec shipment.Record) *repository.Shipment {
	row := &repository.Shipment{
		ID:                   rec.ID,
		ClientID:             rec.ClientID,
		PickupAddress:        rec.PickupAddress,
		DeliveryAddress:      rec.DeliveryAddress,
		WeightKg:             rec.WeightKg,
		DistanceKm:           rec.DistanceKm,
		OriginalPrice:        rec.OriginalPrice,
		DriverSuggestedPrice: rec.DriverSuggestedPrice,
		FinalPrice:           rec.FinalPrice,
		Status:               string(rec.Status),
		Version:              rec.Version,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}
	if rec.DriverID != "" {
		driverID := rec.DriverID
		row.DriverID = &driverID
	}
	if rec.PickupCoords != nil {
		row.PickupLat, row.PickupLng = &rec.PickupCoords.Lat, &rec.PickupCoords.Lng
	}
	if rec.DeliveryCoords != nil {
		row.DeliveryLat, row.DeliveryLng = &rec.DeliveryCoords.Lat, &rec.DeliveryCoords.Lng
	}
	if rec.DriverCurrentLocation != nil {
		row.DriverLat, row.DriverLng = &rec.DriverCurrentLocation.Lat, &rec.DriverCurrentLocation.Lng
	}
	return row
}

func fromRepo(row *repository.Shipment) shipment.Record {
	rec := shipment.Record{
		ID:                   row.ID,
		ClientID:             row.ClientID,
		PickupAddress:        row.PickupAddress,
		DeliveryAddress:      row.DeliveryAddress,
		WeightKg:             row.WeightKg,
		DistanceKm:           row.DistanceKm,
		OriginalPrice:        row.OriginalPrice,
		DriverSuggestedPrice: row.DriverSuggestedPrice,
		FinalPrice:           row.FinalPrice,
		Status:               shipment.Status(row.Status),
		Version:              row.Version,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
	if row.DriverID != nil {
		rec.DriverID = *row.DriverID
	}
	if row.PickupLat != nil && row.PickupLng != nil {
		rec.PickupCoords = &shipment.Coords{Lat: *row.PickupLat, Lng: *row.PickupLng}
	}
	if row.DeliveryLat != nil && row.DeliveryLng != nil {
		rec.DeliveryCoords = &shipment.Coords{Lat: *row.DeliveryLat, Lng: *row.DeliveryLng}
	}
	if row.DriverLat != nil && row.DriverLng != nil {
		rec.DriverCurrentLocation = &shipment.Coords{Lat: *row.DriverLat, Lng: *row.DriverLng}
	}
	return rec
}

func fromRepoSlice(rows []*repository.Shipment) []shipment.Record {
	records := make([]shipment.Record, len(rows))
	for i, row := range rows {
		records[i] = fromRepo(row)
	}
	return records
}
