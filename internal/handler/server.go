// Package handler implements the HTTP handlers for the itinerary API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, location.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/itinerary/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching storage or the service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id string) error
	AddLocation(ctx context.Context, tripID string, dayIndex int, loc domain.Location) (domain.Day, error)
	RemoveLocation(ctx context.Context, tripID string, dayIndex int, locationID string) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// LocationGatewayer defines the device location and map operations the geo
// handlers depend on. *geo.Gateway satisfies it.
type LocationGatewayer interface {
	CurrentLocation(ctx context.Context) (domain.Position, error)
	PickLocation(ctx context.Context) (domain.PickedLocation, error)
	OpenMapWithMarkers(ctx context.Context, markers []domain.Marker)
	NavigateToMapOverview(ctx context.Context, markers []domain.Marker)
	MapPageURL(markers []domain.Marker) (string, error)
}

// Server holds the dependencies of every API endpoint.
// Register its routes on a chi router with Routes.
type Server struct {
	trips  TripServicer
	export ExportServicer
	geo    LocationGatewayer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// Any dependency may be nil when the routes that use it are not exercised.
func NewServer(trips TripServicer, export ExportServicer, geo LocationGatewayer) *Server {
	return &Server{trips: trips, export: export, geo: geo, log: slog.Default()}
}

// WithLogger sets the logger used to report unexpected handler errors.
func (s *Server) WithLogger(log *slog.Logger) *Server {
	s.log = log
	return s
}

// Routes registers every API endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)
			r.Post("/days/{dayIndex}/locations", s.AddLocation)
			r.Post("/days/{dayIndex}/locations/pick", s.AddPickedLocation)
			r.Delete("/days/{dayIndex}/locations/{locationId}", s.RemoveLocation)
		})
	})

	r.Get("/export", s.GetExport)

	r.Get("/location/current", s.GetCurrentLocation)
	r.Post("/location/pick", s.PickLocation)
	r.Post("/map/open", s.OpenMap)
	r.Post("/map/overview", s.MapOverview)
}

// Handler returns a standalone chi router serving every API endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
