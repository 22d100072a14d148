package storage

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cargaexpress/booking/internal/shipment"
)

// FileStorage keeps the whole record set in a single JSON file, the way the
// original demo kept it in the browser's local storage. It is the default
// backend for single-user demo runs; postgres is the durable one.
type FileStorage struct {
	filePath string
	engine   *shipment.Engine
	mu       sync.Mutex
	data     *fileData
}

type fileData struct {
	Shipments []shipment.Record       `json:"shipments"`
	History   []shipment.HistoryEntry `json:"history"`
}

func NewFileStorage(filePath string) (*FileStorage, error) {
	fs := &FileStorage{
		filePath: filePath,
		engine:   shipment.NewEngine(),
		data:     &fileData{},
	}
	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}
	return fs, nil
}

// load and save assume fs.mu is held by the caller of the exported method.
func (fs *FileStorage) load() error {
	file, err := os.Open(fs.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(fs.data)
}

func (fs *FileStorage) save() error {
	file, err := os.Create(fs.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(fs.data)
}

func (fs *FileStorage) addHistory(rec shipment.Record, actorID string) {
	fs.data.History = append(fs.data.History, shipment.HistoryEntry{
		ShipmentID: rec.ID,
		Status:     rec.Status,
		ActorID:    actorID,
		ChangedAt:  rec.UpdatedAt,
	})
}

func (fs *FileStorage) find(id string) (int, bool) {
	for i := range fs.data.Shipments {
		if fs.data.Shipments[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// CreateShipment validates the draft through the engine, assigns an id and
// persists the new record.
func (fs *FileStorage) CreateShipment(ctx context.Context, clientID string, draft shipment.Draft) (*shipment.Record, error) {
	rec, err := fs.engine.Submit(clientID, draft)
	if err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}

	rec.ID = uuid.NewString()
	fs.data.Shipments = append(fs.data.Shipments, rec)
	fs.addHistory(rec, clientID)

	if err := fs.save(); err != nil {
		return nil, &shipment.StorageError{Op: "save", Err: err}
	}
	return &rec, nil
}

func (fs *FileStorage) GetShipment(ctx context.Context, id string) (*shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}

	i, ok := fs.find(id)
	if !ok {
		return nil, shipment.ErrNotFound
	}
	rec := fs.data.Shipments[i]
	return &rec, nil
}

// ApplyShipment runs one negotiation action as an atomic read-modify-write.
// A failed transition leaves the stored record untouched.
func (fs *FileStorage) ApplyShipment(ctx context.Context, id string, actor shipment.Actor, action shipment.Action, payload shipment.Payload) (*shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}

	i, ok := fs.find(id)
	if !ok {
		return nil, shipment.ErrNotFound
	}

	updated, err := fs.engine.Apply(fs.data.Shipments[i], actor, action, payload)
	if err != nil {
		return nil, err
	}
	updated.Version++

	fs.data.Shipments[i] = updated
	fs.addHistory(updated, actor.ID)

	if err := fs.save(); err != nil {
		return nil, &shipment.StorageError{Op: "save", Err: err}
	}
	return &updated, nil
}

// UpdateDriverLocation stores the assigned driver's advisory position without
// a history entry; location pings are not lifecycle events.
func (fs *FileStorage) UpdateDriverLocation(ctx context.Context, id string, driverID string, loc shipment.Coords) (*shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}

	i, ok := fs.find(id)
	if !ok {
		return nil, shipment.ErrNotFound
	}

	updated, err := fs.engine.UpdateDriverLocation(fs.data.Shipments[i], driverID, loc)
	if err != nil {
		return nil, err
	}
	updated.Version++
	fs.data.Shipments[i] = updated

	if err := fs.save(); err != nil {
		return nil, &shipment.StorageError{Op: "save", Err: err}
	}
	return &updated, nil
}

func (fs *FileStorage) snapshot() ([]shipment.Record, error) {
	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}
	out := make([]shipment.Record, len(fs.data.Shipments))
	copy(out, fs.data.Shipments)
	return out, nil
}

func (fs *FileStorage) ListPendingOffers(ctx context.Context) ([]shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.snapshot()
	if err != nil {
		return nil, err
	}
	return shipment.PendingOffers(records), nil
}

func (fs *FileStorage) ListDriverShipments(ctx context.Context, driverID string, activeOnly bool) ([]shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.snapshot()
	if err != nil {
		return nil, err
	}
	if activeOnly {
		return shipment.ActiveForDriver(records, driverID), nil
	}

	var out []shipment.Record
	for _, r := range records {
		if r.DriverID == driverID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (fs *FileStorage) ListClientShipments(ctx context.Context, clientID string) ([]shipment.Record, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.snapshot()
	if err != nil {
		return nil, err
	}
	return shipment.ForClient(records, clientID), nil
}

func (fs *FileStorage) DriverSummary(ctx context.Context, driverID string) (*shipment.DriverSummary, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	records, err := fs.snapshot()
	if err != nil {
		return nil, err
	}
	summary := shipment.SummarizeDriver(records, driverID)
	return &summary, nil
}

func (fs *FileStorage) GetShipmentHistory(ctx context.Context, id string) ([]shipment.HistoryEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return nil, &shipment.StorageError{Op: "load", Err: err}
	}
	if _, ok := fs.find(id); !ok {
		return nil, shipment.ErrNotFound
	}

	var history []shipment.HistoryEntry
	for _, h := range fs.data.History {
		if h.ShipmentID == id {
			history = append(history, h)
		}
	}
	return history, nil
}

// timeNow is kept here so tests can pin timestamps on the embedded engine.
func (fs *FileStorage) withClock(now func() time.Time) *FileStorage {
	fs.engine = shipment.NewEngineWithClock(now)
	return fs
}
