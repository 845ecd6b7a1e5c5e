package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kidseatfree/venue-cli/internal/browse"
	"github.com/kidseatfree/venue-cli/internal/geo"
)

// writeGeoJSON emits a FeatureCollection. Venues without a coordinate are kept
// with a null geometry.
func writeGeoJSON(w io.Writer, results []browse.Result, opts Options) error {
	now := opts.now()
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(results))}

	for _, r := range results {
		v := r.Venue
		props := map[string]interface{}{
			"name":         v.Name,
			"area":         v.Area,
			"address":      v.Address,
			"days":         v.Days,
			"details":      v.Details,
			"website":      v.Website,
			"membership":   v.MembershipRequired,
			"verification": string(v.VerificationStatus(now)),
		}
		if r.DistanceKm != nil {
			props["distance_km"] = *r.DistanceKm
		}

		f := &geojson.Feature{ID: v.ID, Properties: props}
		if c, ok := v.Coordinate(); ok {
			f.Geometry = geo.Point(c)
		}
		fc.Features = append(fc.Features, f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}
