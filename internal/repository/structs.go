package repository

import (
	"errors"
	"time"
)

var ErrObjectNotFound = errors.New("not found")

// ErrVersionMismatch is returned when an optimistic update loses the race.
var ErrVersionMismatch = errors.New("version mismatch")

type Shipment struct {
	ID                   string    `db:"id"`
	ClientID             string    `db:"client_id"`
	DriverID             *string   `db:"driver_id"`
	PickupAddress        string    `db:"pickup_address"`
	DeliveryAddress      string    `db:"delivery_address"`
	PickupLat            *float64  `db:"pickup_lat"`
	PickupLng            *float64  `db:"pickup_lng"`
	DeliveryLat          *float64  `db:"delivery_lat"`
	DeliveryLng          *float64  `db:"delivery_lng"`
	WeightKg             float64   `db:"weight_kg"`
	DistanceKm           float64   `db:"distance_km"`
	OriginalPrice        int64     `db:"original_price"`
	DriverSuggestedPrice *int64    `db:"driver_suggested_price"`
	FinalPrice           *int64    `db:"final_price"`
	Status               string    `db:"status"`
	DriverLat            *float64  `db:"driver_lat"`
	DriverLng            *float64  `db:"driver_lng"`
	Version              int64     `db:"version"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type HistoryEntry struct {
	ID         int64     `db:"id"`
	ShipmentID string    `db:"shipment_id"`
	Status     string    `db:"status"`
	ActorID    string    `db:"actor_id"`
	ChangedAt  time.Time `db:"changed_at"`
}

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
	Role     string `db:"role"`
}
