package util

import (
	"strings"
)

// DefaultCountry is assigned when an address is recognised as Brazilian.
const DefaultCountry = "Brasil"

// brazilianStates holds the 27 federative unit codes.
var brazilianStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsBrazilianState reports whether code is one of the 27 UF codes.
func IsBrazilianState(code string) bool {
	_, ok := brazilianStates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// ParsedAddress is the city/state/country extracted from a one-line address.
// Confident is false when the positional fallback produced the values.
type ParsedAddress struct {
	City      string
	State     string
	Country   string
	Confident bool
}

// ParseAddress extracts city, state and country from a formatted address
// such as "R. Tristão de Castro, 1119 - São Benedito, Uberaba - MG, 38022-200".
//
// Comma segments are scanned left to right for one shaped "City - UF" where
// the trailing hyphen part, upper-cased and cut to two letters, is a valid
// UF. The first such segment wins. Otherwise the last segment is taken as
// the country and, with at least three segments, the third- and
// second-from-last as city and state, unvalidated.
func ParseAddress(formatted string) ParsedAddress {
	segments := splitTrim(formatted, ",")
	if len(segments) == 0 {
		return ParsedAddress{}
	}

	for _, segment := range segments {
		if !strings.Contains(segment, "-") {
			continue
		}
		parts := splitTrim(segment, "-")
		if len(parts) < 2 {
			continue
		}
		state := truncateRunes(strings.ToUpper(parts[len(parts)-1]), 2)
		if !IsBrazilianState(state) {
			continue
		}
		city := strings.Join(parts[:len(parts)-1], "-")
		if city == "" {
			continue
		}
		return ParsedAddress{
			City:      city,
			State:     state,
			Country:   DefaultCountry,
			Confident: true,
		}
	}

	parsed := ParsedAddress{Country: segments[len(segments)-1]}
	if len(segments) >= 3 {
		parsed.City = segments[len(segments)-3]
		parsed.State = segments[len(segments)-2]
	}
	return parsed
}

// splitTrim splits s on sep, trims each piece and drops empty ones.
func splitTrim(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// TruncateText cuts s to at most n runes, appending suffix when it was cut.
func TruncateText(s string, n int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + suffix
}
