package shipment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngineWithClock(func() time.Time { return fixedTime })
}

func validDraft() Draft {
	return Draft{
		PickupAddress:   "Calle 10 #43-12, Medellin",
		DeliveryAddress: "Carrera 7 #32-16, Bogota",
		WeightKg:        120,
		DistanceKm:      150,
	}
}

func TestSubmit(t *testing.T) {
	eng := testEngine()

	t.Run("valid draft", func(t *testing.T) {
		rec, err := eng.Submit("client-1", validDraft())
		require.NoError(t, err)

		assert.Equal(t, "client-1", rec.ClientID)
		assert.Equal(t, StatusPendingDriverAction, rec.Status)
		assert.Equal(t, int64(225000), rec.OriginalPrice)
		assert.Equal(t, int64(1), rec.Version)
		assert.Nil(t, rec.DriverSuggestedPrice)
		assert.Nil(t, rec.FinalPrice)
		assert.Empty(t, rec.DriverID)
		assert.Equal(t, fixedTime, rec.CreatedAt)
		assert.Equal(t, fixedTime, rec.UpdatedAt)
	})

	t.Run("distance derived from coords", func(t *testing.T) {
		draft := validDraft()
		draft.DistanceKm = 0
		draft.PickupCoords = &Coords{Lat: 6.2442, Lng: -75.5812}
		draft.DeliveryCoords = &Coords{Lat: 4.7110, Lng: -74.0721}

		rec, err := eng.Submit("client-1", draft)
		require.NoError(t, err)

		want := HaversineKm(*draft.PickupCoords, *draft.DeliveryCoords)
		assert.InDelta(t, want, rec.DistanceKm, 1e-9)
		assert.Equal(t, Price(want), rec.OriginalPrice)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name     string
			clientID string
			mutate   func(*Draft)
			field    string
		}{
			{"empty client", "", func(d *Draft) {}, "clientId"},
			{"empty pickup address", "client-1", func(d *Draft) { d.PickupAddress = "" }, "pickupAddress"},
			{"empty delivery address", "client-1", func(d *Draft) { d.DeliveryAddress = "" }, "deliveryAddress"},
			{"zero weight", "client-1", func(d *Draft) { d.WeightKg = 0 }, "weight"},
			{"negative weight", "client-1", func(d *Draft) { d.WeightKg = -5 }, "weight"},
			{"no distance and no coords", "client-1", func(d *Draft) { d.DistanceKm = 0 }, "distance"},
			{"negative distance", "client-1", func(d *Draft) { d.DistanceKm = -10 }, "distance"},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				draft := validDraft()
				tc.mutate(&draft)

				_, err := eng.Submit(tc.clientID, draft)
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.field, vErr.Field)
			})
		}
	})
}

func TestDriverAcceptOriginal(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)

	accepted, err := eng.DriverAcceptOriginal(rec, "driver-1")
	require.NoError(t, err)

	assert.Equal(t, StatusAcceptedByDriver, accepted.Status)
	assert.Equal(t, "driver-1", accepted.DriverID)
	require.NotNil(t, accepted.FinalPrice)
	assert.Equal(t, rec.OriginalPrice, *accepted.FinalPrice)

	t.Run("rejected offer can be accepted by another driver", func(t *testing.T) {
		rejected := rec
		rejected.Status = StatusRejectedByUser
		rejected.DriverID = "driver-1"
		price := int64(90000)
		rejected.DriverSuggestedPrice = &price

		again, err := eng.DriverAcceptOriginal(rejected, "driver-2")
		require.NoError(t, err)
		assert.Equal(t, StatusAcceptedByDriver, again.Status)
		assert.Equal(t, "driver-2", again.DriverID)
	})

	t.Run("not allowed once claimed", func(t *testing.T) {
		_, err := eng.DriverAcceptOriginal(accepted, "driver-2")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestDriverDeny(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)

	denied, err := eng.DriverDeny(rec, "driver-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeniedByDriver, denied.Status)
	assert.Equal(t, "driver-1", denied.DriverID)
	assert.True(t, denied.Status.IsTerminal())

	_, err = eng.DriverAcceptOriginal(denied, "driver-2")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSuggestPriceNegotiation(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)

	suggested, err := eng.DriverSuggestPrice(rec, "driver-1", 90000)
	require.NoError(t, err)
	assert.Equal(t, StatusPriceSuggestedByDriver, suggested.Status)
	assert.Equal(t, "driver-1", suggested.DriverID)
	require.NotNil(t, suggested.DriverSuggestedPrice)
	assert.Equal(t, int64(90000), *suggested.DriverSuggestedPrice)

	t.Run("client accepts suggestion", func(t *testing.T) {
		agreed, err := eng.ClientAcceptSuggestion(suggested, "client-1")
		require.NoError(t, err)
		assert.Equal(t, StatusAcceptedByUser, agreed.Status)
		require.NotNil(t, agreed.FinalPrice)
		assert.Equal(t, int64(90000), *agreed.FinalPrice)
	})

	t.Run("client rejects suggestion", func(t *testing.T) {
		rejected, err := eng.ClientRejectSuggestion(suggested, "client-1")
		require.NoError(t, err)
		assert.Equal(t, StatusRejectedByUser, rejected.Status)
		// The rejected counter-offer stays on the record for audit.
		require.NotNil(t, rejected.DriverSuggestedPrice)
		assert.Equal(t, int64(90000), *rejected.DriverSuggestedPrice)
		assert.Nil(t, rejected.FinalPrice)

		again, err := eng.DriverSuggestPrice(rejected, "driver-2", 110000)
		require.NoError(t, err)
		assert.Equal(t, "driver-2", again.DriverID)
		assert.Equal(t, int64(110000), *again.DriverSuggestedPrice)
	})

	t.Run("only the owning client decides", func(t *testing.T) {
		_, err := eng.ClientAcceptSuggestion(suggested, "client-2")
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = eng.ClientRejectSuggestion(suggested, "client-2")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("non-positive price", func(t *testing.T) {
		_, err := eng.DriverSuggestPrice(rec, "driver-1", 0)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "price", vErr.Field)
	})

	t.Run("accept without pending suggestion", func(t *testing.T) {
		_, err := eng.ClientAcceptSuggestion(rec, "client-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestPickupAndDelivery(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)
	accepted, err := eng.DriverAcceptOriginal(rec, "driver-1")
	require.NoError(t, err)

	t.Run("assigned driver picks up and delivers", func(t *testing.T) {
		picked, err := eng.MarkPickedUp(accepted, "driver-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPickedUp, picked.Status)

		delivered, err := eng.MarkDelivered(picked, "driver-1")
		require.NoError(t, err)
		assert.Equal(t, StatusDelivered, delivered.Status)
		assert.True(t, delivered.Status.IsTerminal())
	})

	t.Run("pickup after accepted suggestion", func(t *testing.T) {
		suggested, err := eng.DriverSuggestPrice(rec, "driver-1", 90000)
		require.NoError(t, err)
		agreed, err := eng.ClientAcceptSuggestion(suggested, "client-1")
		require.NoError(t, err)

		picked, err := eng.MarkPickedUp(agreed, "driver-1")
		require.NoError(t, err)
		assert.Equal(t, StatusPickedUp, picked.Status)
	})

	t.Run("wrong driver cannot pick up", func(t *testing.T) {
		_, err := eng.MarkPickedUp(accepted, "driver-2")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("deliver requires picked up", func(t *testing.T) {
		_, err := eng.MarkDelivered(accepted, "driver-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("pickup before any agreement", func(t *testing.T) {
		_, err := eng.MarkPickedUp(rec, "driver-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestClientCancel(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)

	t.Run("cancel while pending", func(t *testing.T) {
		cancelled, err := eng.ClientCancel(rec, "client-1")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelledByUser, cancelled.Status)
	})

	t.Run("cancel after pickup", func(t *testing.T) {
		accepted, err := eng.DriverAcceptOriginal(rec, "driver-1")
		require.NoError(t, err)
		picked, err := eng.MarkPickedUp(accepted, "driver-1")
		require.NoError(t, err)

		cancelled, err := eng.ClientCancel(picked, "client-1")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelledByUser, cancelled.Status)
	})

	t.Run("cannot cancel terminal record", func(t *testing.T) {
		denied, err := eng.DriverDeny(rec, "driver-1")
		require.NoError(t, err)

		_, err = eng.ClientCancel(denied, "client-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("only owner cancels", func(t *testing.T) {
		_, err := eng.ClientCancel(rec, "client-2")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestUpdateDriverLocation(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)
	accepted, err := eng.DriverAcceptOriginal(rec, "driver-1")
	require.NoError(t, err)

	loc := Coords{Lat: 5.0689, Lng: -75.5174}
	updated, err := eng.UpdateDriverLocation(accepted, "driver-1", loc)
	require.NoError(t, err)

	// Status is untouched, only the advisory position changes.
	assert.Equal(t, StatusAcceptedByDriver, updated.Status)
	require.NotNil(t, updated.DriverCurrentLocation)
	assert.Equal(t, loc, *updated.DriverCurrentLocation)

	_, err = eng.UpdateDriverLocation(accepted, "driver-2", loc)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApplyRoleEnforcement(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)

	client := Actor{ID: "client-1", Role: RoleClient}
	driver := Actor{ID: "driver-1", Role: RoleDriver}

	t.Run("client cannot run driver actions", func(t *testing.T) {
		for _, action := range []Action{ActionAcceptOriginal, ActionDeny, ActionSuggestPrice, ActionPickedUp, ActionDelivered} {
			_, err := eng.Apply(rec, client, action, Payload{Price: 90000})
			assert.ErrorIs(t, err, ErrInvalidTransition, string(action))
		}
	})

	t.Run("driver cannot run client actions", func(t *testing.T) {
		for _, action := range []Action{ActionAcceptSuggestion, ActionRejectSuggestion, ActionCancel} {
			_, err := eng.Apply(rec, driver, action, Payload{})
			assert.ErrorIs(t, err, ErrInvalidTransition, string(action))
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := eng.Apply(rec, driver, Action("teleport"), Payload{})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("dispatches to the transition", func(t *testing.T) {
		out, err := eng.Apply(rec, driver, ActionSuggestPrice, Payload{Price: 90000})
		require.NoError(t, err)
		assert.Equal(t, StatusPriceSuggestedByDriver, out.Status)

		out, err = eng.Apply(out, client, ActionAcceptSuggestion, Payload{})
		require.NoError(t, err)
		assert.Equal(t, StatusAcceptedByUser, out.Status)
	})
}

// A failed transition must leave the input record untouched.
func TestFailedTransitionLeavesRecordUnchanged(t *testing.T) {
	eng := testEngine()
	rec, err := eng.Submit("client-1", validDraft())
	require.NoError(t, err)
	accepted, err := eng.DriverAcceptOriginal(rec, "driver-1")
	require.NoError(t, err)

	before := accepted
	out, err := eng.DriverAcceptOriginal(accepted, "driver-2")
	require.Error(t, err)
	assert.Equal(t, before, out)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}
