package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/bizon-consulting/backend/internal/models"
)

var ErrNotFound = errors.New("geocode not found")

type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// Locator is satisfied by *codes.Resolver.
type Locator interface {
	Coordinates(text string) (lat float64, lng float64)
}

// TableGeocoder answers from the fixed district table and never fails.
type TableGeocoder struct {
	Table Locator
}

func (g TableGeocoder) Geocode(_ context.Context, address string) (models.Coordinates, error) {
	lat, lng := g.Table.Coordinates(address)
	return models.Coordinates{Lat: lat, Lng: lng}, nil
}

// BuildGeocodeQuery collapses whitespace and scopes the query to Korea.
func BuildGeocodeQuery(address string) string {
	address = strings.Join(strings.Fields(address), " ")
	if address == "" {
		return ""
	}
	if strings.Contains(address, "대한민국") {
		return address
	}
	return address + ", 대한민국"
}
