package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"studymate/internal/infra/geoip"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// Supported reply languages. English is the default.
var supportedTags = []language.Tag{
	language.English,
	language.Hindi,
	language.MustParse("kn"),
}

var localeMatcher = language.NewMatcher(supportedTags)

// Indian subdivisions whose default reply language is Hindi.
var hindiRegions = map[string]struct{}{
	"UP": {}, "BR": {}, "MP": {}, "RJ": {}, "HR": {}, "DL": {},
	"UT": {}, "UK": {}, "JH": {}, "CT": {}, "CG": {}, "HP": {}, "CH": {},
}

// RegionLookup resolves a coarse location for an IP address.
type RegionLookup func(ip string) (geoip.Location, error)

func I18N(defaultLocale string, lookup RegionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			loc := ResolveLocation(r, lookup)
			locale := detectLocale(r, defaultLocale, loc)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if loc.Country != "" {
				ctx = context.WithValue(ctx, CountryKey, loc.Country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, loc geoip.Location) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		if tag, err := language.Parse(strings.TrimSpace(v)); err == nil {
			if locale, ok := matchLocale(tag); ok {
				return locale
			}
		}
	}
	if tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language")); err == nil && len(tags) > 0 {
		if locale, ok := matchLocale(tags...); ok {
			return locale
		}
	}
	if locale := regionLocale(loc); locale != "" {
		return locale
	}
	if fallback != "" {
		return fallback
	}
	return "en"
}

// matchLocale reports the supported base language closest to tags. Weak
// matches are rejected so an unsupported language falls through to region
// detection instead of collapsing to English.
func matchLocale(tags ...language.Tag) (string, bool) {
	tag, _, conf := localeMatcher.Match(tags...)
	if conf < language.High {
		return "", false
	}
	base, _ := tag.Base()
	return base.String(), true
}

func regionLocale(loc geoip.Location) string {
	if !strings.EqualFold(loc.Country, "IN") {
		if loc.Country != "" {
			return "en"
		}
		return ""
	}
	region := strings.ToUpper(loc.Region)
	if region == "KA" {
		return "kn"
	}
	if _, ok := hindiRegions[region]; ok {
		return "hi"
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveLocation resolves a best-effort location from proxy headers, then
// the GeoIP lookup.
func ResolveLocation(r *http.Request, lookup RegionLookup) geoip.Location {
	if r == nil {
		return geoip.Location{}
	}
	var loc geoip.Location
	for _, key := range []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			loc.Country = strings.ToUpper(val)
			break
		}
	}
	if val := strings.TrimSpace(r.Header.Get("X-Region-Code")); val != "" && loc.Country != "" {
		loc.Region = strings.ToUpper(val)
		return loc
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if found, err := lookup(ip); err == nil && found.Country != "" {
				if loc.Country == "" || strings.EqualFold(loc.Country, found.Country) {
					return geoip.Location{Country: strings.ToUpper(found.Country), Region: strings.ToUpper(found.Region)}
				}
			}
		}
	}
	return loc
}
