package shipment

import (
	"time"
)

// Action tokens match the ones the original client sent, plus the client-side
// operations it performed inline.
type Action string

const (
	ActionSubmit           Action = "submit"
	ActionAcceptOriginal   Action = "accept_original"
	ActionDeny             Action = "deny"
	ActionSuggestPrice     Action = "suggest_price"
	ActionAcceptSuggestion Action = "accept_suggestion"
	ActionRejectSuggestion Action = "reject_suggestion"
	ActionPickedUp         Action = "picked_up"
	ActionDelivered        Action = "delivered"
	ActionCancel           Action = "cancel"
)

// Engine is the negotiation state machine. Every method validates the action
// against the record's current status and the acting party, then returns an
// updated copy. The input record is never mutated and no storage is touched;
// persisting the result is the caller's concern.
type Engine struct {
	timeNow func() time.Time
}

func NewEngine() *Engine {
	return &Engine{timeNow: time.Now}
}

// NewEngineWithClock pins the engine's clock, for tests.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{timeNow: now}
}

func (e *Engine) now() time.Time {
	return e.timeNow().UTC()
}

// Submit validates a draft and builds a new record in PENDING_DRIVER_ACTION.
// The ID is assigned by storage. When the distance is missing but both
// coordinate pairs are present it is derived with the great-circle formula.
func (e *Engine) Submit(clientID string, draft Draft) (Record, error) {
	if clientID == "" {
		return Record{}, &ValidationError{Field: "clientId", Reason: "must not be empty"}
	}
	if draft.PickupAddress == "" {
		return Record{}, &ValidationError{Field: "pickupAddress", Reason: "must not be empty"}
	}
	if draft.DeliveryAddress == "" {
		return Record{}, &ValidationError{Field: "deliveryAddress", Reason: "must not be empty"}
	}
	if draft.WeightKg <= 0 {
		return Record{}, &ValidationError{Field: "weight", Reason: "must be positive"}
	}

	distance := draft.DistanceKm
	if distance == 0 && draft.PickupCoords != nil && draft.DeliveryCoords != nil {
		distance = HaversineKm(*draft.PickupCoords, *draft.DeliveryCoords)
	}
	if distance <= 0 {
		return Record{}, &ValidationError{Field: "distance", Reason: "must be positive"}
	}

	now := e.now()
	return Record{
		ClientID:        clientID,
		PickupAddress:   draft.PickupAddress,
		DeliveryAddress: draft.DeliveryAddress,
		PickupCoords:    draft.PickupCoords,
		DeliveryCoords:  draft.DeliveryCoords,
		WeightKg:        draft.WeightKg,
		DistanceKm:      distance,
		OriginalPrice:   Price(distance),
		Status:          StatusPendingDriverAction,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// open reports whether rec is claimable by a driver. A rejected suggestion
// sends the shipment back into the open pool; any driver may claim it and the
// new action overwrites the previous round's driverId and suggested price.
func open(rec Record) bool {
	return rec.Status == StatusPendingDriverAction || rec.Status == StatusRejectedByUser
}

// DriverAcceptOriginal assigns the driver and agrees the originally computed
// price. The final price is set exactly once here or in ClientAcceptSuggestion.
func (e *Engine) DriverAcceptOriginal(rec Record, driverID string) (Record, error) {
	if driverID == "" {
		return rec, &ValidationError{Field: "driverId", Reason: "must not be empty"}
	}
	if !open(rec) {
		return rec, &TransitionError{Action: string(ActionAcceptOriginal), From: rec.Status}
	}
	final := rec.OriginalPrice
	rec.Status = StatusAcceptedByDriver
	rec.DriverID = driverID
	rec.FinalPrice = &final
	rec.UpdatedAt = e.now()
	return rec, nil
}

// DriverDeny is terminal. The denying driver's id is retained on the record.
func (e *Engine) DriverDeny(rec Record, driverID string) (Record, error) {
	if driverID == "" {
		return rec, &ValidationError{Field: "driverId", Reason: "must not be empty"}
	}
	if !open(rec) {
		return rec, &TransitionError{Action: string(ActionDeny), From: rec.Status}
	}
	rec.Status = StatusDeniedByDriver
	rec.DriverID = driverID
	rec.UpdatedAt = e.now()
	return rec, nil
}

// DriverSuggestPrice proposes a counter-offer for the client to decide on.
func (e *Engine) DriverSuggestPrice(rec Record, driverID string, price int64) (Record, error) {
	if driverID == "" {
		return rec, &ValidationError{Field: "driverId", Reason: "must not be empty"}
	}
	if price <= 0 {
		return rec, &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if !open(rec) {
		return rec, &TransitionError{Action: string(ActionSuggestPrice), From: rec.Status}
	}
	rec.Status = StatusPriceSuggestedByDriver
	rec.DriverID = driverID
	rec.DriverSuggestedPrice = &price
	rec.UpdatedAt = e.now()
	return rec, nil
}

// ClientAcceptSuggestion agrees the driver's counter-offer.
func (e *Engine) ClientAcceptSuggestion(rec Record, clientID string) (Record, error) {
	if rec.ClientID != clientID {
		return rec, &TransitionError{Action: string(ActionAcceptSuggestion), From: rec.Status, Reason: "not the owning client"}
	}
	if rec.Status != StatusPriceSuggestedByDriver || rec.DriverSuggestedPrice == nil {
		return rec, &TransitionError{Action: string(ActionAcceptSuggestion), From: rec.Status}
	}
	final := *rec.DriverSuggestedPrice
	rec.Status = StatusAcceptedByUser
	rec.FinalPrice = &final
	rec.UpdatedAt = e.now()
	return rec, nil
}

// ClientRejectSuggestion sends the shipment back into the open pool. The
// rejected suggestion stays on the record for audit until the next driver
// action overwrites it.
func (e *Engine) ClientRejectSuggestion(rec Record, clientID string) (Record, error) {
	if rec.ClientID != clientID {
		return rec, &TransitionError{Action: string(ActionRejectSuggestion), From: rec.Status, Reason: "not the owning client"}
	}
	if rec.Status != StatusPriceSuggestedByDriver {
		return rec, &TransitionError{Action: string(ActionRejectSuggestion), From: rec.Status}
	}
	rec.Status = StatusRejectedByUser
	rec.UpdatedAt = e.now()
	return rec, nil
}

// MarkPickedUp is only valid for the assigned driver once a price is agreed.
func (e *Engine) MarkPickedUp(rec Record, driverID string) (Record, error) {
	if rec.Status != StatusAcceptedByDriver && rec.Status != StatusAcceptedByUser {
		return rec, &TransitionError{Action: string(ActionPickedUp), From: rec.Status}
	}
	if rec.DriverID != driverID {
		return rec, &TransitionError{Action: string(ActionPickedUp), From: rec.Status, Reason: "not the assigned driver"}
	}
	rec.Status = StatusPickedUp
	rec.UpdatedAt = e.now()
	return rec, nil
}

// MarkDelivered is terminal.
func (e *Engine) MarkDelivered(rec Record, driverID string) (Record, error) {
	if rec.Status != StatusPickedUp {
		return rec, &TransitionError{Action: string(ActionDelivered), From: rec.Status}
	}
	if rec.DriverID != driverID {
		return rec, &TransitionError{Action: string(ActionDelivered), From: rec.Status, Reason: "not the assigned driver"}
	}
	rec.Status = StatusDelivered
	rec.UpdatedAt = e.now()
	return rec, nil
}

// ClientCancel is terminal and legal from any non-terminal state, but only for
// the owning client. Cancellation is a status, never a deletion.
func (e *Engine) ClientCancel(rec Record, clientID string) (Record, error) {
	if rec.ClientID != clientID {
		return rec, &TransitionError{Action: string(ActionCancel), From: rec.Status, Reason: "not the owning client"}
	}
	if rec.Status.IsTerminal() {
		return rec, &TransitionError{Action: string(ActionCancel), From: rec.Status}
	}
	rec.Status = StatusCancelledByUser
	rec.UpdatedAt = e.now()
	return rec, nil
}

// UpdateDriverLocation records the assigned driver's advisory position. It is
// not part of the negotiation lifecycle and does not change the status, but it
// still bumps updatedAt like every other mutation.
func (e *Engine) UpdateDriverLocation(rec Record, driverID string, loc Coords) (Record, error) {
	if rec.DriverID != driverID {
		return rec, &TransitionError{Action: "update_location", From: rec.Status, Reason: "not the assigned driver"}
	}
	rec.DriverCurrentLocation = &loc
	rec.UpdatedAt = e.now()
	return rec, nil
}

// Payload carries the action-specific input for Apply.
type Payload struct {
	Price    int64
	Location *Coords
}

// Apply dispatches an action token against an existing record, enforcing that
// the actor's role matches the action. Submit creates records and is not
// routed through here.
func (e *Engine) Apply(rec Record, actor Actor, action Action, payload Payload) (Record, error) {
	switch action {
	case ActionAcceptOriginal, ActionDeny, ActionSuggestPrice, ActionPickedUp, ActionDelivered:
		if actor.Role != RoleDriver {
			return rec, &TransitionError{Action: string(action), From: rec.Status, Reason: "driver action"}
		}
	case ActionAcceptSuggestion, ActionRejectSuggestion, ActionCancel:
		if actor.Role != RoleClient {
			return rec, &TransitionError{Action: string(action), From: rec.Status, Reason: "client action"}
		}
	default:
		return rec, &ValidationError{Field: "action", Reason: "unknown action " + string(action)}
	}

	switch action {
	case ActionAcceptOriginal:
		return e.DriverAcceptOriginal(rec, actor.ID)
	case ActionDeny:
		return e.DriverDeny(rec, actor.ID)
	case ActionSuggestPrice:
		return e.DriverSuggestPrice(rec, actor.ID, payload.Price)
	case ActionAcceptSuggestion:
		return e.ClientAcceptSuggestion(rec, actor.ID)
	case ActionRejectSuggestion:
		return e.ClientRejectSuggestion(rec, actor.ID)
	case ActionPickedUp:
		return e.MarkPickedUp(rec, actor.ID)
	case ActionDelivered:
		return e.MarkDelivered(rec, actor.ID)
	case ActionCancel:
		return e.ClientCancel(rec, actor.ID)
	}
	return rec, &ValidationError{Field: "action", Reason: "unknown action " + string(action)}
}
