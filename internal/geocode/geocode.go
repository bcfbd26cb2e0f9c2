package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/twpayne/go-geom"
)

// ErrNoMatch is returned when the resolver finds nothing for the place.
var ErrNoMatch = errors.New("geocode: no match for place")

// Geocoder resolves a human-readable place name to a WGS84 point
// (X = longitude, Y = latitude). Implementations return an error when
// the place cannot be resolved; callers decide whether that matters.
type Geocoder interface {
	Lookup(ctx context.Context, place string) (*geom.Point, error)
}

// Nominatim queries the OpenStreetMap Nominatim search API.
type Nominatim struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

// NewNominatim returns a Nominatim geocoder with a short timeout so a
// slow resolver degrades a save instead of hanging it.
func NewNominatim() *Nominatim {
	return &Nominatim{
		BaseURL:   "https://nominatim.openstreetmap.org",
		UserAgent: "fleet_manager/1.0",
		Client:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup resolves place to a point using the first search result.
func (n *Nominatim) Lookup(ctx context.Context, place string) (*geom.Point, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, err
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, err
	}

	pt := geom.NewPointFlat(geom.XY, []float64{lon, lat})
	pt.SetSRID(4326)
	return pt, nil
}

// Default is the geocoder used when saving vehicles with a place name.
// Swappable in tests.
var Default Geocoder = NewNominatim()
