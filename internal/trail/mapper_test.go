package trail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInternal_RenamesRecursively(t *testing.T) {
	t.Parallel()

	doc := ToInternal(NormalizeDocument(wireRoute()))

	assert.Equal(t, "camino-portugues", doc["routeId"])
	assert.Equal(t, "Camino Portugués", doc["routeName"])
	assert.NotContains(t, doc, "route_id")
	assert.NotContains(t, doc, "unknown_top_level")

	bands := doc["avgDailyDistance"].([]any)
	require.Len(t, bands, 3)
	assert.Equal(t, Document{"label": "Medium days", "minimumKm": "20", "maximumKm": "25"}, bands[1])

	stages := doc["stages"].([]any)
	require.Len(t, stages, 2)
	first := stages[0].(Document)
	assert.Equal(t, "26.5", first["distanceKm"], "mapper must not convert values")
	details := first["details"].(Document)
	assert.Equal(t, "320 m", details["accumulatedAscent"])
	assert.Equal(t, []any{"asphalt", "cobblestone"}, details["walkingSurface"])

	acc := first["accommodations"].([]any)[1].(Document)
	assert.Equal(t, "https://example.org", acc["contactUrl"])
	assert.Equal(t, "€€", acc["priceCategory"])
}

func TestToInternal_DropsUnknownNestedKeys(t *testing.T) {
	t.Parallel()

	doc := ToInternal(Document{
		"stages": []any{
			map[string]any{"stage_name": "x", "colour": "red", "details": map[string]any{"mood": "good"}},
		},
	})
	stage := doc["stages"].([]any)[0].(Document)
	assert.Equal(t, Document{"stageName": "x", "details": Document{}}, stage)
}

func TestToInternal_PassesWrongShapesThrough(t *testing.T) {
	t.Parallel()

	doc := ToInternal(Document{
		"stages":             "not a list",
		"avg_daily_distance": []any{"not an object"},
	})
	assert.Equal(t, "not a list", doc["stages"])
	assert.Equal(t, []any{"not an object"}, doc["avgDailyDistance"])
	assert.Nil(t, ToInternal(nil))
}

func TestMapper_RoundTrip(t *testing.T) {
	t.Parallel()

	v := NewValidator()
	route, err := v.Validate(ToInternal(NormalizeDocument(wireRoute())))
	require.NoError(t, err)

	internal, err := ToDocument(route)
	require.NoError(t, err)

	assert.Equal(t, internal, ToInternal(ToExternal(internal)))

	ext := ToExternal(internal)
	assert.Equal(t, ext, ToExternal(ToInternal(ext)))
}

func TestShapes_NamesAreUnique(t *testing.T) {
	t.Parallel()

	for _, s := range []*Shape{RouteShape, DistanceBandShape, StartingPointShape, StageShape, StageDetailsShape, FacilityShape, AccommodationShape} {
		assert.Len(t, s.byExternal, len(s.Fields), s.Name)
		assert.Len(t, s.byInternal, len(s.Fields), s.Name)
	}
}
