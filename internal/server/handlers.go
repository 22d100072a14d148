package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cargaexpress/booking/internal/metrics"
	"github.com/cargaexpress/booking/internal/shipment"
)

// respondDomainError maps the core error taxonomy onto HTTP statuses: bad
// input 400, unknown shipment 404, illegal transition or lost race 409,
// storage trouble 500.
func respondDomainError(w http.ResponseWriter, operation string, err error) {
	var vErr *shipment.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, shipment.ErrNotFound):
		respondError(w, http.StatusNotFound, "Shipment not found")
	case errors.Is(err, shipment.ErrInvalidTransition):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, shipment.ErrVersionConflict):
		respondError(w, http.StatusConflict, "Shipment was modified concurrently, retry")
	default:
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		respondError(w, http.StatusInternalServerError, "Error: "+err.Error())
	}
}

func (s *Server) handleSubmitShipment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if actor.Role != shipment.RoleClient {
		respondError(w, http.StatusForbidden, "Only clients can submit shipments")
		return
	}

	var draft shipment.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.storage.CreateShipment(r.Context(), actor.ID, draft)
	if err != nil {
		respondDomainError(w, "submit", err)
		return
	}

	metrics.ShipmentsCreatedTotal.Inc()
	if s.offerCache != nil {
		s.offerCache.Set(*rec)
	}
	respondJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := s.storage.GetShipment(r.Context(), id)
	if err != nil {
		respondDomainError(w, "get", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleShipmentHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	history, err := s.storage.GetShipmentHistory(r.Context(), id)
	if err != nil {
		respondDomainError(w, "history", err)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// handleAction serves the negotiation actions that carry no payload. The
// engine decides legality; the handler only moves bytes.
func (s *Server) handleAction(action shipment.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		id := mux.Vars(r)["id"]

		rec, err := s.storage.ApplyShipment(r.Context(), id, actor, action, shipment.Payload{})
		if err != nil {
			respondDomainError(w, string(action), err)
			return
		}

		s.recordAction(action, rec)
		respondJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) handleSuggestPrice(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := mux.Vars(r)["id"]

	var req struct {
		Price int64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.storage.ApplyShipment(r.Context(), id, actor, shipment.ActionSuggestPrice, shipment.Payload{Price: req.Price})
	if err != nil {
		respondDomainError(w, string(shipment.ActionSuggestPrice), err)
		return
	}

	s.recordAction(shipment.ActionSuggestPrice, rec)
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if actor.Role != shipment.RoleDriver {
		respondError(w, http.StatusForbidden, "Only drivers can report a location")
		return
	}
	id := mux.Vars(r)["id"]

	var loc shipment.Coords
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.storage.UpdateDriverLocation(r.Context(), id, actor.ID, loc)
	if err != nil {
		respondDomainError(w, "update_location", err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	if s.offerCache != nil {
		respondJSON(w, http.StatusOK, s.offerCache.List())
		return
	}

	offers, err := s.storage.ListPendingOffers(r.Context())
	if err != nil {
		respondDomainError(w, "list_offers", err)
		return
	}
	respondJSON(w, http.StatusOK, offers)
}

func (s *Server) handleDriverShipments(w http.ResponseWriter, r *http.Request) {
	driverID := mux.Vars(r)["driverID"]
	activeOnly := r.URL.Query().Get("active") == "true"

	records, err := s.storage.ListDriverShipments(r.Context(), driverID, activeOnly)
	if err != nil {
		respondDomainError(w, "list_driver_shipments", err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleDriverSummary(w http.ResponseWriter, r *http.Request) {
	driverID := mux.Vars(r)["driverID"]

	summary, err := s.storage.DriverSummary(r.Context(), driverID)
	if err != nil {
		respondDomainError(w, "driver_summary", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleClientShipments(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientID"]

	records, err := s.storage.ListClientShipments(r.Context(), clientID)
	if err != nil {
		respondDomainError(w, "list_client_shipments", err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) recordAction(action shipment.Action, rec *shipment.Record) {
	metrics.NegotiationActionsTotal.WithLabelValues(string(action)).Inc()
	if rec.Status == shipment.StatusDelivered {
		metrics.ShipmentsDeliveredTotal.Inc()
	}
	if s.offerCache != nil {
		s.offerCache.Set(*rec)
	}
}
