package postgresql

import (
	"context"
	"fmt"

	"github.com/cargaexpress/booking/internal/db"
	"github.com/cargaexpress/booking/internal/repository"
)

type HistoryRepo struct {
	db db.DB
}

func NewHistoryRepo(db db.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Create(ctx context.Context, entry *repository.HistoryEntry) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO shipment_history (shipment_id, status, actor_id, changed_at)
        VALUES ($1, $2, $3, $4)
    `, entry.ShipmentID, entry.Status, entry.ActorID, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO shipment_history (shipment_id, status, actor_id, changed_at)
        VALUES ($1, $2, $3, $4)
    `, entry.ShipmentID, entry.Status, entry.ActorID, entry.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepo) GetByShipmentID(ctx context.Context, shipmentID string) ([]*repository.HistoryEntry, error) {
	var entries []*repository.HistoryEntry
	err := r.db.Select(ctx, &entries, `
        SELECT id, shipment_id, status, actor_id, changed_at
        FROM shipment_history
        WHERE shipment_id = $1
        ORDER BY changed_at ASC, id ASC
    `, shipmentID)
	return entries, err
}
