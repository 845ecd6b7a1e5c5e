package geocode

import (
	"regexp"
	"strings"
)

// AddressParts are the locality fields recovered from a formatted address.
type AddressParts struct {
	Suburb   string
	Postcode string
}

var (
	postcodePattern = regexp.MustCompile(`\b(\d{4})\b`)
	// A suburb is the comma-free run immediately before "STATE 1234".
	suburbPattern = regexp.MustCompile(`([^,]+)\s+(?:ACT|NSW|VIC|QLD|SA|WA|TAS|NT)\s+\d{4}`)
)

// ExtractAddressParts pulls an Australian postcode and suburb out of a
// formatted address such as "1 Hibberson St, Gungahlin ACT 2912, Australia".
// Either field is empty when its pattern does not match.
func ExtractAddressParts(address string) AddressParts {
	var parts AddressParts
	if m := postcodePattern.FindStringSubmatch(address); m != nil {
		parts.Postcode = m[1]
	}
	if m := suburbPattern.FindStringSubmatch(address); m != nil {
		parts.Suburb = strings.TrimSpace(m[1])
	}
	return parts
}
