package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAddressParts(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		suburb   string
		postcode string
	}{
		{
			name:     "suburb state postcode",
			address:  "1 Hibberson St, Gungahlin ACT 2912, Australia",
			suburb:   "Gungahlin",
			postcode: "2912",
		},
		{
			name:     "multi-word suburb",
			address:  "Shop 4, Isabella Plains NSW 2905",
			suburb:   "Isabella Plains",
			postcode: "2905",
		},
		{
			name:     "postcode without state",
			address:  "Belconnen, Australian Capital Territory, 2617, Australia",
			postcode: "2617",
		},
		{
			name:    "no postcode",
			address: "Civic, Canberra, Australia",
		},
		{
			name:    "five digits are not a postcode",
			address: "PO Box 12345, Sydney",
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAddressParts(tt.address)
			assert.Equal(t, tt.suburb, got.Suburb)
			assert.Equal(t, tt.postcode, got.Postcode)
		})
	}
}
