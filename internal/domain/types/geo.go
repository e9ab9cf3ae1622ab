package types

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether either coordinate is missing. The backend uses zero
// for unset coordinates.
func (p Point) IsZero() bool { return p.Lat == 0 || p.Lng == 0 }

// Place is a geocoded address picked from autocomplete.
type Place struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
	Point       Point  `json:"point"`
}

// Country is a backend country record.
type Country struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}

// State is a backend state (province) record.
type State struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
}
