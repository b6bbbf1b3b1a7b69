package editor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camino_routes/internal/trail"
)

func cmd(t *testing.T, op string, value any) Command {
	t.Helper()
	c := Command{Op: op}
	if value != nil {
		b, err := json.Marshal(value)
		require.NoError(t, err)
		c.Value = b
	}
	return c
}

func TestApply_BuildsSubmittableRoute(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := NewDraft("d", trail.Route{})

	steps := []Command{
		cmd(t, "set_route", map[string]any{"route_id": "camino-ingles", "route_name": "Camino Inglés"}),
		cmd(t, "add_band", map[string]any{"avg_daily_distance_1": "Easy", "minimum_km": "15"}),
		cmd(t, "add_starting_point", map[string]any{"name": "Ferrol", "avg_distance": "119 km"}),
		cmd(t, "add_stage", map[string]any{"stage_name": "Ferrol to Pontedeume", "distance_km": "29.4"}),
		cmd(t, "add_stage", map[string]any{"stage_name": "Pontedeume to Betanzos"}),
		cmd(t, "add_facility", map[string]any{"index": 1, "name": "Neda"}),
		cmd(t, "toggle_service", "Food_Drink"),
		cmd(t, "add_accommodation", map[string]any{"name": "Albergue", "price_category": "€", "lat": "43.48", "long": "-8.23"}),
		cmd(t, "add_detail_item", "coastal path"),
	}
	steps[8].List = WalkingSurface

	for _, c := range steps {
		require.NoError(t, e.Apply(d, c), c.Op)
	}

	route, err := e.Submit(d)
	require.NoError(t, err)
	assert.Equal(t, "camino-ingles", route.RouteID)
	assert.Equal(t, "Easy", route.AvgDailyDistance[0].Label)
	require.NotNil(t, route.AvgDailyDistance[0].MinimumKm)
	assert.InDelta(t, 15.0, *route.AvgDailyDistance[0].MinimumKm, 1e-9)
	assert.Equal(t, "119 km", route.StartingPoint[0].AvgDistance)
	require.Len(t, route.Stages, 2)
	assert.InDelta(t, 29.4, route.Stages[0].DistanceKm, 1e-9)
	assert.Equal(t, 2, route.Stages[1].StageNumber)
	assert.Equal(t, []string{"Food_Drink"}, route.Stages[0].Facilities[0].Services)
	assert.True(t, route.Stages[0].Accommodations[0].HasCoordinates())
	assert.Equal(t, []string{"coastal path"}, route.Stages[0].Details.WalkingSurface)
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{name: "unknown op", cmd: Command{Op: "explode"}, want: ErrUnknownOp},
		{name: "stage out of range", cmd: Command{Op: "remove_stage", Stage: 4}, want: ErrIndexOutOfRange},
		{name: "service missing value", cmd: Command{Op: "toggle_service"}, want: ErrInvalidValue},
		{name: "band value not an object", cmd: Command{Op: "add_band", Value: json.RawMessage(`"wide"`)}, want: ErrInvalidValue},
		{name: "facility value not an object", cmd: Command{Op: "add_facility", Value: json.RawMessage(`5`)}, want: ErrInvalidValue},
		{name: "accommodation value not an object", cmd: Command{Op: "add_accommodation", Value: json.RawMessage(`["Albergue"]`)}, want: ErrInvalidValue},
		{name: "facility replacement not an object", cmd: Command{Op: "set_facility", Value: json.RawMessage(`"Bar"`)}, want: ErrInvalidValue},
		{name: "unknown service", cmd: Command{Op: "toggle_service", Value: json.RawMessage(`"Spa"`)}, want: ErrUnknownService},
		{name: "unknown list", cmd: Command{Op: "add_detail_item", List: "views", Value: json.RawMessage(`"sea"`)}, want: ErrUnknownList},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewDraft("d", trail.Route{Stages: []trail.Stage{{StageNumber: 1, StageName: "s", Details: trail.NewStageDetails()}}})
			d.Route.Stages[0].Facilities = []trail.Facility{{Index: 1, Services: []string{}}}
			err := New(nil).Apply(d, tt.cmd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestPaste(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := NewDraft("d", trail.Route{RouteID: "keep", RouteName: "Keep"})
	before := d.Route

	for _, text := range []string{`{"route_id":`, `not json`, `[1,2,3]`, `{"routes":[]}`, `{"route_id":"x","route_name":"X"} trailing`} {
		assert.False(t, e.Paste(d, []byte(text)), text)
		assert.Equal(t, before, d.Route, text)
	}

	ok := e.Paste(d, []byte(`{"routes":[{"route_id":"pasted","route_name":"P",
		"avg_daily_distance":[{"range_value":"Relaxed"}],
		"stages":[{"stage_number":"1","stage_name":"s","distance_km":"nope"}]}]}`))
	require.True(t, ok)
	assert.Equal(t, "pasted", d.Route.RouteID)
	assert.Equal(t, "Relaxed", d.Route.AvgDailyDistance[0].Label)
	assert.Zero(t, d.Route.Stages[0].DistanceKm)
}

func TestSubmit_ReportsValidationErrors(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := NewDraft("d", trail.Route{RouteName: "No id"})
	d.AddStage(trail.Stage{})

	_, err := e.Submit(d)
	require.Error(t, err)
	var verr *trail.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("route_id"))
	assert.True(t, verr.Has("stages[0].stage_name"))
}
