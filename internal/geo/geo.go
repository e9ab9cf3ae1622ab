// Package geo holds great-circle distance and the address heuristics used to
// label load cards.
package geo

import (
	"math"
	"strings"
	"unicode"

	"vtruck/internal/domain"
)

// EarthRadiusKM is the mean Earth radius used by Distance.
const EarthRadiusKM = 6371.0

// Distance returns the Haversine distance between a and b in kilometres,
// rounded to two decimals. It returns +Inf when either point is missing a
// coordinate, so unknown loads sort last.
func Distance(a, b domain.Point) float64 {
	if a.IsZero() || b.IsZero() {
		return math.Inf(1)
	}
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(EarthRadiusKM*c*100) / 100
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Within reports whether b lies within radiusKM of a.
func Within(a, b domain.Point, radiusKM float64) bool {
	return Distance(a, b) <= radiusKM
}

func parts(addr string) []string {
	raw := strings.Split(addr, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stripDigits(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s))
}

// CityState returns the first two comma-separated parts of an address.
func CityState(addr string) string {
	p := parts(addr)
	if len(p) > 2 {
		p = p[:2]
	}
	return strings.Join(p, ", ")
}

// FirstPart returns the first comma-separated part of an address.
func FirstPart(addr string) string {
	if p := parts(addr); len(p) > 0 {
		return p[0]
	}
	return ""
}

// StateOf guesses the state from a formatted address like
// "Vijay Nagar, Indore, Madhya Pradesh 452010, India": the second-to-last
// part with the postcode removed. Addresses with a single part fall back to
// the whole address, digits removed.
func StateOf(addr string) string {
	p := parts(addr)
	if len(p) < 2 {
		return stripDigits(addr)
	}
	return stripDigits(p[len(p)-2])
}

// CityOf guesses the city: the third-to-last part, digits removed. Shorter
// addresses fall back to the whole address, digits removed.
func CityOf(addr string) string {
	p := parts(addr)
	if len(p) < 3 {
		return stripDigits(addr)
	}
	return stripDigits(p[len(p)-3])
}

// SameState reports whether two state names match, ignoring case and spacing.
func SameState(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}
