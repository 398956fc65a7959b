package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/itinerary/internal/domain"
)

// AddLocation handles POST /trips/{id}/days/{dayIndex}/locations.
// Responds 201 with the day the location was added to.
func (s *Server) AddLocation(w http.ResponseWriter, r *http.Request) {
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}
	var loc domain.Location
	if err := decodeBody(r, &loc); err != nil {
		writeDecodeError(w, err)
		return
	}

	day, err := s.trips.AddLocation(r.Context(), chi.URLParam(r, "id"), dayIndex, loc)
	if err != nil {
		s.writeServiceError(w, r, err, "trip not found")
		return
	}

	writeJSON(w, http.StatusCreated, day)
}

// RemoveLocation handles DELETE /trips/{id}/days/{dayIndex}/locations/{locationId}.
func (s *Server) RemoveLocation(w http.ResponseWriter, r *http.Request) {
	dayIndex, err := dayIndexParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody(err.Error()))
		return
	}

	err = s.trips.RemoveLocation(r.Context(), chi.URLParam(r, "id"), dayIndex, chi.URLParam(r, "locationId"))
	if err != nil {
		s.writeServiceError(w, r, err, "trip day not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func dayIndexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "dayIndex")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: "dayIndex", value: raw}
	}
	return n, nil
}
