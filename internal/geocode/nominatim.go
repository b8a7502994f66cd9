package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bizon-consulting/backend/internal/models"
)

// NominatimGeocoder looks addresses up on a Nominatim instance and answers
// from Fallback when the lookup fails. Requests from one instance are
// spaced at least MinInterval apart (one second by default), as the public
// host's usage policy requires.
type NominatimGeocoder struct {
	BaseURL     string
	UserAgent   string
	Client      *http.Client
	Fallback    Geocoder
	MinInterval time.Duration
	Log         zerolog.Logger

	once    sync.Once
	limiter *rate.Limiter
}

type nominatimResult struct {
	Lat         float64
	Lon         float64
	DisplayName string
	Confidence  float64
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	res, err := g.lookup(ctx, BuildGeocodeQuery(address))
	if err == nil {
		return models.Coordinates{Lat: res.Lat, Lng: res.Lon}, nil
	}
	if g.Fallback == nil {
		return models.Coordinates{}, err
	}
	g.Log.Warn().Err(err).Str("address", address).Msg("nominatim lookup failed, using table")
	return g.Fallback.Geocode(ctx, address)
}

func (g *NominatimGeocoder) lookup(ctx context.Context, query string) (nominatimResult, error) {
	if query == "" {
		return nominatimResult{}, ErrNotFound
	}
	if err := g.throttle().Wait(ctx); err != nil {
		return nominatimResult{}, fmt.Errorf("nominatim throttle: %w", err)
	}
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	base := g.BaseURL
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	ua := g.UserAgent
	if ua == "" {
		ua = "bizon-consulting-backend"
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&countrycodes=kr&limit=1", base, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nominatimResult{}, err
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "ko")

	resp, err := client.Do(req)
	if err != nil {
		return nominatimResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nominatimResult{}, fmt.Errorf("nominatim http error: %s", resp.Status)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nominatimResult{}, err
	}
	return parseNominatimItems(items)
}

func (g *NominatimGeocoder) throttle() *rate.Limiter {
	g.once.Do(func() {
		interval := g.MinInterval
		if interval <= 0 {
			interval = time.Second
		}
		g.limiter = rate.NewLimiter(rate.Every(interval), 1)
	})
	return g.limiter
}

func parseNominatimItems(items []nominatimItem) (nominatimResult, error) {
	if len(items) == 0 {
		return nominatimResult{}, ErrNotFound
	}
	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return nominatimResult{}, err
	}
	lon, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return nominatimResult{}, err
	}
	if lat == 0 && lon == 0 {
		return nominatimResult{}, ErrNotFound
	}
	return nominatimResult{
		Lat:         lat,
		Lon:         lon,
		DisplayName: items[0].DisplayName,
		Confidence:  items[0].Importance,
	}, nil
}
