package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Location is the country and first-level subdivision of an address.
type Location struct {
	Country string
	Region  string
}

// RegionResolver resolves an IP address to a coarse location.
type RegionResolver interface {
	Lookup(ip string) (Location, error)
}

// Resolver provides lookups backed by a MaxMind GeoIP2 or GeoLite2 database.
// City databases yield a region; country databases yield only the country.
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the GeoIP database at the given path. When the path is empty, nil is returned.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Lookup returns the ISO country and subdivision codes for ip.
func (r *Resolver) Lookup(ip string) (Location, error) {
	if r == nil || r.reader == nil {
		return Location{}, ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("geoip: invalid ip %q", ip)
	}
	if city, err := r.reader.City(parsed); err == nil && city != nil {
		loc := Location{Country: city.Country.IsoCode}
		if len(city.Subdivisions) > 0 {
			loc.Region = city.Subdivisions[0].IsoCode
		}
		return loc, nil
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return Location{}, nil
	}
	return Location{Country: record.Country.IsoCode}, nil
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
