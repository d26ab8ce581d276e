package geocode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"googlemaps.github.io/maps"

	"flood-watch/internal/models"
)

// Result holds a geocoding result.
type Result struct {
	Name     string       `json:"name"`
	Point    models.Point `json:"point"`
	Provider string       `json:"provider"`
}

// Geocoder resolves a free-text place name. A nil result with a nil error means nothing was found.
type Geocoder interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// DefaultNominatimURL is the public OpenStreetMap search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

type nominatimResult struct {
	Lat     string        `json:"lat"`
	Lon     string        `json:"lon"`
	Display string        `json:"display_name"`
	Address nominatimAddr `json:"address"`
}

type nominatimAddr struct {
	Road          string `json:"road"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	StateDistrict string `json:"state_district"`
	State         string `json:"state"`
}

// Nominatim searches OpenStreetMap, restricted to one country.
type Nominatim struct {
	BaseURL     string
	CountryCode string
	UserAgent   string
	client      *http.Client
}

func NewNominatim() *Nominatim {
	return &Nominatim{
		BaseURL:     DefaultNominatimURL,
		CountryCode: "in",
		UserAgent:   "flood-watch/1.0",
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Search queries Nominatim for the given place name.
func (n *Nominatim) Search(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "en")
	if n.CountryCode != "" {
		params.Set("countrycodes", n.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read nominatim response: %w", err)
	}
	var results []nominatimResult
	if err := sonic.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, nil
	}

	r := results[0]

	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lat: %w", err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse lon: %w", err)
	}

	name := formatAddress(r.Address)
	if name == "" {
		name = r.Display
	}
	return &Result{Name: name, Point: models.Point{Lat: lat, Lng: lon}, Provider: "nominatim"}, nil
}

// formatAddress builds a short place name: locality, settlement, district.
func formatAddress(a nominatimAddr) string {
	// Pick the settlement name: city > town > village.
	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}

	var parts []string
	add := func(s string) {
		if s == "" {
			return
		}
		for _, p := range parts {
			if p == s {
				return
			}
		}
		parts = append(parts, s)
	}

	if a.Suburb != "" {
		add(a.Suburb)
	} else if a.CityDistrict != "" {
		add(a.CityDistrict)
	} else {
		add(a.Road)
	}
	add(city)
	add(a.StateDistrict)

	return strings.Join(parts, ", ")
}

type geocodingAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Google resolves places with the Google Geocoding API.
type Google struct {
	client geocodingAPI
	region string
}

func NewGoogle(apiKey string) (*Google, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google maps client: %w", err)
	}
	return &Google{client: c, region: "in"}, nil
}

func (g *Google) Search(ctx context.Context, query string) (*Result, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query, Region: g.region})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return nil, nil
		}
		return nil, fmt.Errorf("google geocode: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	r := results[0]
	return &Result{
		Name:     r.FormattedAddress,
		Point:    models.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Provider: "google",
	}, nil
}

// Chain asks each geocoder in turn and returns the first hit. Errors are
// remembered and returned only when nobody found the place.
type Chain []Geocoder

func (c Chain) Search(ctx context.Context, query string) (*Result, error) {
	var errs []error
	for _, g := range c {
		res, err := g.Search(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, errors.Join(errs...)
}
