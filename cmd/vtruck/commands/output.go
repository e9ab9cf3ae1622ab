package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"vtruck/internal/domain"
	"vtruck/internal/maps"
)

// table writes tab-separated rows aligned into columns. The header row is
// made of message keys.
type table struct {
	tw *tabwriter.Writer
}

func (c *cli) table(headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)}
	cols := make([]any, len(headers))
	for i, h := range headers {
		cols[i] = c.p.T(h)
	}
	t.row(cols...)
	return t
}

func (t *table) row(cols ...any) {
	parts := make([]string, len(cols))
	for i, v := range cols {
		parts[i] = fmt.Sprint(v)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() { _ = t.tw.Flush() }

// km renders a distance, or "-" when it is unknown.
func km(d float64) string {
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return "-"
	}
	return strconv.FormatFloat(d, 'f', 2, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// parsePoint reads "lat,lng".
func parsePoint(s string) (domain.Point, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Point{}, fmt.Errorf("coordinates must be lat,lng: %q", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	if la < -90 || la > 90 || ln < -180 || ln > 180 {
		return domain.Point{}, fmt.Errorf("coordinates out of range: %q", s)
	}
	return domain.Point{Lat: la, Lng: ln}, nil
}

// place turns an address and optional "lat,lng" into a Place. Without
// coordinates the first autocomplete suggestion supplies the place id; when
// no maps key is configured the bare address is returned.
func (c *cli) place(ctx context.Context, address, at string) (domain.Place, error) {
	p := domain.Place{Description: strings.TrimSpace(address)}
	if at != "" {
		pt, err := parsePoint(at)
		if err != nil {
			return domain.Place{}, err
		}
		p.Point = pt
		return p, nil
	}
	if p.Description == "" {
		return p, nil
	}
	suggestions, err := c.wire.Maps.Autocomplete(ctx, p.Description)
	switch {
	case errors.Is(err, maps.ErrNoAPIKey):
		return p, nil
	case err != nil:
		return domain.Place{}, err
	case len(suggestions) == 0:
		return p, nil
	}
	p.PlaceID = suggestions[0].PlaceID
	return p, nil
}
