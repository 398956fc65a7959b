package domain

// Position is the raw result of a current-location request, as reported by the
// device host. Fields the host does not supply are zero.
type Position struct {
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	Speed              float64 `json:"speed,omitempty"`
	Accuracy           float64 `json:"accuracy,omitempty"`
	Altitude           float64 `json:"altitude,omitempty"`
	VerticalAccuracy   float64 `json:"verticalAccuracy,omitempty"`
	HorizontalAccuracy float64 `json:"horizontalAccuracy,omitempty"`
}

// PickedLocation is the normalized result of the host location picker.
type PickedLocation struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location converts the picked place into a Location ready to be added to a
// trip day. The ID is left empty; the store assigns it.
func (p PickedLocation) Location() Location {
	return Location{
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
	}
}

// Marker is a point shown on a map view.
type Marker struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarkersFromDay returns one marker per location of the day, in order.
func MarkersFromDay(d *Day) []Marker {
	if d == nil {
		return nil
	}
	markers := make([]Marker, 0, len(d.Locations))
	for _, l := range d.Locations {
		markers = append(markers, Marker{
			ID:        l.ID,
			Name:      l.Name,
			Address:   l.Address,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		})
	}
	return markers
}

// OpenLocationRequest asks the host to open its native map view on one point.
type OpenLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Scale     int     `json:"scale"`
}
