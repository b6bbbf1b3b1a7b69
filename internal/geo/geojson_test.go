package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camino_routes/internal/trail"
)

func route() trail.Route {
	return trail.Route{
		RouteID: "camino-primitivo",
		Stages: []trail.Stage{
			{
				StageNumber: 1,
				StageName:   "Oviedo to San Juan",
				Accommodations: []trail.Accommodation{
					{Name: "Albergue", PriceCategory: "€", Lat: trail.Float(43.36), Long: trail.Float(-5.85)},
					{Name: "No coordinates", PriceCategory: "€"},
					{Name: "Only lat", PriceCategory: "€", Lat: trail.Float(43.3)},
				},
			},
			{
				StageNumber: 2,
				StageName:   "San Juan to Salas",
				Accommodations: []trail.Accommodation{
					{Name: "Hotel", PriceCategory: "€€", ContactURL: "https://example.org", Lat: trail.Float(43.41), Long: trail.Float(-6.26)},
				},
			},
		},
	}
}

func TestAccommodationsCollection(t *testing.T) {
	t.Parallel()

	fc := AccommodationsCollection(route())
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	assert.Equal(t, "camino-primitivo/0/0", first.ID)
	assert.Equal(t, []float64{-5.85, 43.36}, first.Geometry.FlatCoords())
	assert.Equal(t, SRID, first.Geometry.SRID())
	assert.Equal(t, "Albergue", first.Properties["name"])

	assert.Equal(t, "camino-primitivo/1/0", fc.Features[1].ID)
	assert.Equal(t, "https://example.org", fc.Features[1].Properties["contact_url"])
}

func TestAccommodationsGeoJSON(t *testing.T) {
	t.Parallel()

	b, err := AccommodationsGeoJSON(route())
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.Equal(t, []float64{-5.85, 43.36}, doc.Features[0].Geometry.Coordinates)
	assert.Equal(t, 2.0, doc.Features[1].Properties["stage_number"])
}

func TestAccommodationsGeoJSON_Empty(t *testing.T) {
	t.Parallel()

	b, err := AccommodationsGeoJSON(trail.Route{RouteID: "r"})
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])
	assert.Equal(t, []any{}, doc["features"])
}
