package shipment

import "time"

// Status values are persisted literally; they must stay byte-compatible with
// records written by earlier versions of the application.
type Status string

const (
	StatusPendingDriverAction    Status = "PENDING_DRIVER_ACTION"
	StatusPriceSuggestedByDriver Status = "PRICE_SUGGESTED_BY_DRIVER"
	StatusAcceptedByUser         Status = "ACCEPTED_BY_USER"
	StatusAcceptedByDriver       Status = "ACCEPTED_BY_DRIVER"
	StatusRejectedByUser         Status = "REJECTED_BY_USER"
	StatusDeniedByDriver         Status = "DENIED_BY_DRIVER"
	StatusPickedUp               Status = "PICKED_UP"
	StatusDelivered              Status = "DELIVERED"
	StatusCancelledByUser        Status = "CANCELLED_BY_USER"
)

// IsTerminal reports whether no further transition is defined for s.
// REJECTED_BY_USER is not terminal: a rejected offer re-enters the open pool.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDeniedByDriver, StatusDelivered, StatusCancelledByUser:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusPendingDriverAction, StatusPriceSuggestedByDriver, StatusAcceptedByUser,
		StatusAcceptedByDriver, StatusRejectedByUser, StatusDeniedByDriver,
		StatusPickedUp, StatusDelivered, StatusCancelledByUser:
		return true
	}
	return false
}

type Role string

const (
	RoleClient Role = "client"
	RoleDriver Role = "driver"
)

// Actor identifies who is performing an operation. There is no ambient
// session; every operation receives its actor explicitly.
type Actor struct {
	ID   string
	Role Role
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Record is the sole persisted entity. JSON field names match the records the
// original browser client wrote, so an exported store can be imported as-is.
type Record struct {
	ID                    string    `json:"id"`
	ClientID              string    `json:"clientId"`
	DriverID              string    `json:"driverId,omitempty"`
	PickupAddress         string    `json:"pickupAddress"`
	DeliveryAddress       string    `json:"deliveryAddress"`
	PickupCoords          *Coords   `json:"pickupCoords,omitempty"`
	DeliveryCoords        *Coords   `json:"deliveryCoords,omitempty"`
	WeightKg              float64   `json:"weight"`
	DistanceKm            float64   `json:"distance"`
	OriginalPrice         int64     `json:"originalPrice"`
	DriverSuggestedPrice  *int64    `json:"driverSuggestedPrice,omitempty"`
	FinalPrice            *int64    `json:"finalPrice,omitempty"`
	Status                Status    `json:"status"`
	DriverCurrentLocation *Coords   `json:"driverCurrentLocation,omitempty"`
	Version               int64     `json:"version"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Draft carries the client-supplied fields of a new shipment request. Distance
// may be typed manually or derived from the coordinate pair by the caller.
type Draft struct {
	PickupAddress   string  `json:"pickupAddress"`
	DeliveryAddress string  `json:"deliveryAddress"`
	PickupCoords    *Coords `json:"pickupCoords,omitempty"`
	DeliveryCoords  *Coords `json:"deliveryCoords,omitempty"`
	WeightKg        float64 `json:"weight"`
	DistanceKm      float64 `json:"distance"`
}

// HistoryEntry records one status change of a shipment.
type HistoryEntry struct {
	ShipmentID string    `json:"shipmentId"`
	Status     Status    `json:"status"`
	ActorID    string    `json:"actorId,omitempty"`
	ChangedAt  time.Time `json:"changedAt"`
}
