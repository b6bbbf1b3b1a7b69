package geo

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"camino_routes/internal/trail"
)

// SRID of every emitted geometry (WGS 84).
const SRID = 4326

// AccommodationPoint returns the accommodation location, or false when it
// lacks either coordinate.
func AccommodationPoint(a trail.Accommodation) (*geom.Point, bool) {
	if !a.HasCoordinates() {
		return nil, false
	}
	p := geom.NewPointFlat(geom.XY, []float64{*a.Long, *a.Lat}).SetSRID(SRID)
	return p, true
}

// AccommodationsCollection builds one Point feature per accommodation that
// has both coordinates, in stage then list order.
func AccommodationsCollection(route trail.Route) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}
	for si, s := range route.Stages {
		for ai, a := range s.Accommodations {
			p, ok := AccommodationPoint(a)
			if !ok {
				continue
			}
			props := map[string]interface{}{
				"route_id":       route.RouteID,
				"stage_number":   s.StageNumber,
				"stage_name":     s.StageName,
				"name":           a.Name,
				"price_category": a.PriceCategory,
			}
			if a.ContactURL != "" {
				props["contact_url"] = a.ContactURL
			}
			if a.ContactPhone != "" {
				props["contact_phone"] = a.ContactPhone
			}
			fc.Features = append(fc.Features, &geojson.Feature{
				ID:         fmt.Sprintf("%s/%d/%d", route.RouteID, si, ai),
				Geometry:   p,
				Properties: props,
			})
		}
	}
	return fc
}

// AccommodationsGeoJSON renders AccommodationsCollection as JSON.
func AccommodationsGeoJSON(route trail.Route) ([]byte, error) {
	b, err := json.Marshal(AccommodationsCollection(route))
	if err != nil {
		return nil, fmt.Errorf("encode accommodations of %q: %w", route.RouteID, err)
	}
	return b, nil
}
