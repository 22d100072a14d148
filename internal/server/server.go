//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cargaexpress/booking/internal/cache"
	"github.com/cargaexpress/booking/internal/repository"
	"github.com/cargaexpress/booking/internal/shipment"
)

// Storage is the persistence contract the HTTP layer depends on. Both the
// file and postgres backends satisfy it; all lifecycle invariants are enforced
// behind it, never in the handlers.
type Storage interface {
	CreateShipment(ctx context.Context, clientID string, draft shipment.Draft) (*shipment.Record, error)
	GetShipment(ctx context.Context, id string) (*shipment.Record, error)
	ApplyShipment(ctx context.Context, id string, actor shipment.Actor, action shipment.Action, payload shipment.Payload) (*shipment.Record, error)
	UpdateDriverLocation(ctx context.Context, id string, driverID string, loc shipment.Coords) (*shipment.Record, error)
	ListPendingOffers(ctx context.Context) ([]shipment.Record, error)
	ListDriverShipments(ctx context.Context, driverID string, activeOnly bool) ([]shipment.Record, error)
	ListClientShipments(ctx context.Context, clientID string) ([]shipment.Record, error)
	DriverSummary(ctx context.Context, driverID string) (*shipment.DriverSummary, error)
	GetShipmentHistory(ctx context.Context, id string) ([]shipment.HistoryEntry, error)
}

type UserRepo interface {
	Authenticate(ctx context.Context, username, password string) (*repository.User, error)
}

type Server struct {
	storage      Storage
	userRepo     UserRepo
	offerCache   *cache.ShipmentCache
	server       *http.Server
	AuditManager *AuditManager
}

func New(storage Storage, userRepo UserRepo, offerCache *cache.ShipmentCache, auditManager *AuditManager) *Server {
	return &Server{
		storage:      storage,
		userRepo:     userRepo,
		offerCache:   offerCache,
		AuditManager: auditManager,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.AuditManager.Start(ctx)

	go s.handleShutdown()

	log.Printf("Server starting on port %s", port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleShutdown() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signals
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("HTTP server shutdown completed")

	s.AuditManager.Shutdown(ctx)
	log.Println("Server shutdown completed successfully")

	return nil
}

func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/shipments", s.handleSubmitShipment).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}", s.handleGetShipment).Methods(http.MethodGet)
	r.HandleFunc("/shipments/{id}/history", s.handleShipmentHistory).Methods(http.MethodGet)

	// Driver side of the negotiation.
	r.HandleFunc("/shipments/{id}/accept", s.handleAction(shipment.ActionAcceptOriginal)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/deny", s.handleAction(shipment.ActionDeny)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/suggest-price", s.handleSuggestPrice).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/pickup", s.handleAction(shipment.ActionPickedUp)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/deliver", s.handleAction(shipment.ActionDelivered)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/location", s.handleUpdateLocation).Methods(http.MethodPost)

	// Client side.
	r.HandleFunc("/shipments/{id}/accept-suggestion", s.handleAction(shipment.ActionAcceptSuggestion)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/reject-suggestion", s.handleAction(shipment.ActionRejectSuggestion)).Methods(http.MethodPost)
	r.HandleFunc("/shipments/{id}/cancel", s.handleAction(shipment.ActionCancel)).Methods(http.MethodPost)

	// Projections.
	r.HandleFunc("/offers", s.handleListOffers).Methods(http.MethodGet)
	r.HandleFunc("/drivers/{driverID}/shipments", s.handleDriverShipments).Methods(http.MethodGet)
	r.HandleFunc("/drivers/{driverID}/summary", s.handleDriverSummary).Methods(http.MethodGet)
	r.HandleFunc("/clients/{clientID}/shipments", s.handleClientShipments).Methods(http.MethodGet)

	return s.auditLogMiddleware(s.basicAuthMiddleware(r))
}

type contextKey string

const actorContextKey contextKey = "actor"

// basicAuthMiddleware resolves the acting user and stores it on the request
// context so every operation receives an explicit actor. The original demo
// read a global "current user" from local storage; there is no ambient
// session here.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := s.userRepo.Authenticate(r.Context(), username, password)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		actor := shipment.Actor{ID: user.ID, Role: shipment.Role(user.Role)}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorContextKey, actor)))
	})
}

func actorFromContext(ctx context.Context) (shipment.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(shipment.Actor)
	return actor, ok
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
