package shipment

// Derived read-only views over a record set. They are pure filters so both
// storage backends can share them; indexed variants live behind the postgres
// repository where volume matters.

// PendingOffers returns the shipments any driver may still claim: fresh
// requests plus offers whose counter-price the client rejected.
func PendingOffers(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if open(r) {
			out = append(out, r)
		}
	}
	return out
}

// ActiveForDriver returns the shipments a driver has claimed and not yet
// delivered.
func ActiveForDriver(records []Record, driverID string) []Record {
	var out []Record
	for _, r := range records {
		if r.DriverID != driverID {
			continue
		}
		switch r.Status {
		case StatusAcceptedByDriver, StatusAcceptedByUser, StatusPickedUp:
			out = append(out, r)
		}
	}
	return out
}

// CompletedForDriver returns a driver's delivered shipments.
func CompletedForDriver(records []Record, driverID string) []Record {
	var out []Record
	for _, r := range records {
		if r.DriverID == driverID && r.Status == StatusDelivered {
			out = append(out, r)
		}
	}
	return out
}

// ForClient returns every shipment a client has submitted.
func ForClient(records []Record, clientID string) []Record {
	var out []Record
	for _, r := range records {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out
}

// DriverSummary aggregates a driver's completed trips and earnings. Earnings
// fall back to the original price for records agreed before finalPrice existed.
type DriverSummary struct {
	DriverID       string `json:"driverId"`
	CompletedTrips int    `json:"completedTrips"`
	TotalEarnings  int64  `json:"totalEarnings"`
}

func SummarizeDriver(records []Record, driverID string) DriverSummary {
	summary := DriverSummary{DriverID: driverID}
	for _, r := range CompletedForDriver(records, driverID) {
		summary.CompletedTrips++
		if r.FinalPrice != nil {
			summary.TotalEarnings += *r.FinalPrice
		} else {
			summary.TotalEarnings += r.OriginalPrice
		}
	}
	return summary
}
