package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/internal/geo"
)

// mapRequest selects the markers for a map call. Explicit markers win;
// otherwise the markers are taken from a stored trip, from one day when
// dayIndex is set or from every day in order.
type mapRequest struct {
	Markers  []domain.Marker `json:"markers"`
	TripID   string          `json:"tripId"`
	DayIndex *int            `json:"dayIndex"`
}

type mapOverviewResponse struct {
	URL    string  `json:"url,omitempty"`
	Center *center `json:"center,omitempty"`
}

type center struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GetCurrentLocation handles GET /location/current.
func (s *Server) GetCurrentLocation(w http.ResponseWriter, r *http.Request) {
	pos, err := s.geo.CurrentLocation(r.Context())
	if err != nil {
		s.writeGatewayError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

// PickLocation handles POST /location/pick.
// Responds 422 when the picker returns without a name and an address.
func (s *Server) PickLocation(w http.ResponseWriter, r *http.Request) {
	picked, err := s.geo.PickLocation(r.Context())
	if err != nil {
		s.writeGatewayError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, picked)
}

// AddPickedLocation handles POST /trips/{id}/days/{dayIndex}/locations/pick.
// The host picker is opened and the chosen place is added to the trip day.
// Responds 201 with the day, like AddLocation.
func (s *Server) AddPickedLocation(w http.ResponseWriter, r *http.Request) {
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	picked, err := s.geo.PickLocation(r.Context())
	if err != nil {
		s.writeGatewayError(w, r, err)
		return
	}

	day, err := s.trips.AddLocation(r.Context(), chi.URLParam(r, "id"), dayIndex, picked.Location())
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, day)
}

// OpenMap handles POST /map/open.
// The native map view is opened on the first marker; host failures are
// logged by the gateway, so the response is always 202.
func (s *Server) OpenMap(w http.ResponseWriter, r *http.Request) {
	markers, ok := s.resolveMarkers(w, r)
	if !ok {
		return
	}
	s.geo.OpenMapWithMarkers(r.Context(), markers)
	w.WriteHeader(http.StatusAccepted)
}

// MapOverview handles POST /map/overview.
// Responds 202 with the map page URL and the centroid of the markers; both
// are omitted when there are no markers.
func (s *Server) MapOverview(w http.ResponseWriter, r *http.Request) {
	markers, ok := s.resolveMarkers(w, r)
	if !ok {
		return
	}

	var resp mapOverviewResponse
	if len(markers) > 0 {
		url, err := s.geo.MapPageURL(markers)
		if err != nil {
			s.writeServiceError(w, r, err, "")
			return
		}
		resp.URL = url
		if lat, lng, ok := geo.Centroid(markers); ok {
			resp.Center = &center{Latitude: lat, Longitude: lng}
		}
	}

	s.geo.NavigateToMapOverview(r.Context(), markers)
	writeJSON(w, http.StatusAccepted, resp)
}

// resolveMarkers decodes a mapRequest and returns its markers, writing the
// error response itself when it cannot.
func (s *Server) resolveMarkers(w http.ResponseWriter, r *http.Request) ([]domain.Marker, bool) {
	var req mapRequest
	if err := decodeBody(r, &req); err != nil {
		writeDecodeError(w, err)
		return nil, false
	}
	if len(req.Markers) > 0 || req.TripID == "" {
		return req.Markers, true
	}

	trip, err := s.trips.GetByID(r.Context(), req.TripID)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return nil, false
	}
	if req.DayIndex != nil {
		day := trip.DayAt(*req.DayIndex)
		if day == nil {
			writeJSON(w, http.StatusNotFound, notFoundBody("trip day not found"))
			return nil, false
		}
		return domain.MarkersFromDay(day), true
	}

	var markers []domain.Marker
	for _, day := range trip.Days {
		markers = append(markers, domain.MarkersFromDay(day)...)
	}
	return markers, true
}

// writeGatewayError maps gateway errors: sentinel errors as usual, any other
// host failure as 502.
func (s *Server) writeGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNoValidLocation) || errors.Is(err, domain.ErrHostUnavailable) {
		s.writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusBadGateway, hostBody(err))
}
