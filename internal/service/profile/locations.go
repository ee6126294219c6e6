package profile

import (
	"sort"
	"strings"
)

// Location is the locale bundle of a country.
type Location struct {
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Language string `json:"language"`
	TimeZone string `json:"timeZone"`
}

var commonLocations = map[string]Location{
	"US": {Country: "United States", Currency: "USD", Language: "en", TimeZone: "UTC"},
	"IN": {Country: "India", Currency: "INR", Language: "en", TimeZone: "Asia/Kolkata"},
	"GB": {Country: "United Kingdom", Currency: "GBP", Language: "en", TimeZone: "Europe/London"},
	"DE": {Country: "Germany", Currency: "EUR", Language: "de", TimeZone: "Europe/Berlin"},
	"FR": {Country: "France", Currency: "EUR", Language: "fr", TimeZone: "Europe/Paris"},
	"JP": {Country: "Japan", Currency: "JPY", Language: "ja", TimeZone: "Asia/Tokyo"},
	"AU": {Country: "Australia", Currency: "AUD", Language: "en", TimeZone: "Australia/Sydney"},
	"CA": {Country: "Canada", Currency: "CAD", Language: "en", TimeZone: "America/Toronto"},
	"BR": {Country: "Brazil", Currency: "BRL", Language: "pt", TimeZone: "America/Sao_Paulo"},
	"MX": {Country: "Mexico", Currency: "MXN", Language: "es", TimeZone: "America/Mexico_City"},
}

// DefaultLocation is used for users without a profile.
var DefaultLocation = commonLocations["US"]

// LocationByCountryCode looks up an ISO 3166 alpha-2 code, falling back to
// DefaultLocation.
func LocationByCountryCode(code string) Location {
	if loc, ok := commonLocations[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return loc
	}
	return DefaultLocation
}

// SupportedCountries lists country names, sorted.
func SupportedCountries() []string {
	names := make([]string, 0, len(commonLocations))
	for _, loc := range commonLocations {
		names = append(names, loc.Country)
	}
	sort.Strings(names)
	return names
}

// CommonLocations returns a copy of the location table keyed by country code.
func CommonLocations() map[string]Location {
	out := make(map[string]Location, len(commonLocations))
	for code, loc := range commonLocations {
		out[code] = loc
	}
	return out
}
