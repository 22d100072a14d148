package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// auditLogMiddleware records every request through the AuditManager. For
// negotiation actions it also captures the status the shipment held before
// and after, which is the part operators actually look at.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		entry := AuditLogEntry{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
		}
		entry.ShipmentID, entry.Action = parseShipmentPath(r.URL.Path, r.Method)
		entry.Handler = entry.Action

		if username, _, ok := r.BasicAuth(); ok {
			entry.UserID = username
		}

		if r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)
		}

		if entry.ShipmentID != "" && entry.Action != "" {
			if rec, err := s.storage.GetShipment(r.Context(), entry.ShipmentID); err == nil {
				entry.OldStatus = string(rec.Status)
			}
		}

		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		entry.StatusCode = wrw.GetStatusCode()
		entry.Response = string(wrw.GetBody())

		if entry.ShipmentID != "" && entry.StatusCode < 300 {
			var resp struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(wrw.GetBody(), &resp); err == nil {
				entry.NewStatus = resp.Status
			}
		}

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

// parseShipmentPath extracts the shipment id and the action token from paths
// of the form /shipments/{id}[/action].
func parseShipmentPath(path, method string) (shipmentID, action string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] != "shipments" {
		return "", ""
	}
	if len(parts) == 1 {
		if method == http.MethodPost {
			return "", "submit"
		}
		return "", ""
	}
	shipmentID = parts[1]
	if len(parts) == 2 {
		return shipmentID, ""
	}

	switch parts[2] {
	case "accept":
		action = "accept_original"
	case "deny":
		action = "deny"
	case "suggest-price":
		action = "suggest_price"
	case "accept-suggestion":
		action = "accept_suggestion"
	case "reject-suggestion":
		action = "reject_suggestion"
	case "pickup":
		action = "picked_up"
	case "deliver":
		action = "delivered"
	case "cancel":
		action = "cancel"
	case "location":
		action = "update_location"
	}
	return shipmentID, action
}
