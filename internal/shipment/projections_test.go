package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func price(v int64) *int64 { return &v }

func projectionFixture() []Record {
	return []Record{
		{ID: "s1", ClientID: "c1", Status: StatusPendingDriverAction, OriginalPrice: 100000},
		{ID: "s2", ClientID: "c1", DriverID: "d1", Status: StatusRejectedByUser, OriginalPrice: 150000, DriverSuggestedPrice: price(120000)},
		{ID: "s3", ClientID: "c2", DriverID: "d1", Status: StatusAcceptedByDriver, OriginalPrice: 200000, FinalPrice: price(200000)},
		{ID: "s4", ClientID: "c2", DriverID: "d1", Status: StatusPickedUp, OriginalPrice: 80000, FinalPrice: price(60000)},
		{ID: "s5", ClientID: "c1", DriverID: "d1", Status: StatusDelivered, OriginalPrice: 90000, FinalPrice: price(75000)},
		{ID: "s6", ClientID: "c2", DriverID: "d1", Status: StatusDelivered, OriginalPrice: 50000},
		{ID: "s7", ClientID: "c2", DriverID: "d2", Status: StatusDelivered, OriginalPrice: 40000, FinalPrice: price(40000)},
		{ID: "s8", ClientID: "c1", Status: StatusCancelledByUser, OriginalPrice: 30000},
	}
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestPendingOffers(t *testing.T) {
	got := PendingOffers(projectionFixture())
	assert.Equal(t, []string{"s1", "s2"}, ids(got))
}

func TestActiveForDriver(t *testing.T) {
	got := ActiveForDriver(projectionFixture(), "d1")
	assert.Equal(t, []string{"s3", "s4"}, ids(got))

	assert.Empty(t, ActiveForDriver(projectionFixture(), "d3"))
}

func TestCompletedForDriver(t *testing.T) {
	got := CompletedForDriver(projectionFixture(), "d1")
	assert.Equal(t, []string{"s5", "s6"}, ids(got))
}

func TestForClient(t *testing.T) {
	got := ForClient(projectionFixture(), "c1")
	assert.Equal(t, []string{"s1", "s2", "s5", "s8"}, ids(got))
}

func TestSummarizeDriver(t *testing.T) {
	summary := SummarizeDriver(projectionFixture(), "d1")

	assert.Equal(t, "d1", summary.DriverID)
	assert.Equal(t, 2, summary.CompletedTrips)
	// s5 counts its final price, s6 predates finalPrice and falls back to the
	// original one.
	assert.Equal(t, int64(75000+50000), summary.TotalEarnings)

	empty := SummarizeDriver(projectionFixture(), "d3")
	assert.Zero(t, empty.CompletedTrips)
	assert.Zero(t, empty.TotalEarnings)
}
