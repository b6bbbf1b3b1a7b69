package editor

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"camino_routes/internal/trail"
)

// Command is one edit sent by a form client. Indices are zero-based.
type Command struct {
	Op    string          `json:"op"`
	Stage int             `json:"stage"`
	Index int             `json:"index"`
	From  int             `json:"from"`
	To    int             `json:"to"`
	List  string          `json:"list"`
	Value json.RawMessage `json:"value"`
}

// Editor applies commands to drafts. Values inside commands use the wire
// shape and are decoded leniently.
type Editor struct {
	decoder *trail.Decoder
}

func New(decoder *trail.Decoder) *Editor {
	if decoder == nil {
		decoder = trail.NewDecoder(nil)
	}
	return &Editor{decoder: decoder}
}

// Paste replaces the draft route with the route in text. Text that does
// not parse as a route leaves the draft untouched and reports false.
func (e *Editor) Paste(d *Draft, text []byte) bool {
	doc, err := trail.ParseDocument(text)
	if err != nil {
		logrus.WithField("draft_id", d.ID).Debugf("Ignoring pasted text: %v", err)
		return false
	}
	d.Route = e.decoder.DecodeLenient(doc)
	d.touch()
	return true
}

// Submit runs the draft through the full inbound checks and returns the
// validated route.
func (e *Editor) Submit(d *Draft) (trail.Route, error) {
	doc, err := trail.ToDocument(d.Route)
	if err != nil {
		return trail.Route{}, err
	}
	return e.decoder.Validator().Validate(doc)
}

// Apply dispatches cmd against d.
func (e *Editor) Apply(d *Draft, cmd Command) error {
	switch cmd.Op {
	case "set_route":
		var info struct {
			RouteID   *string `json:"route_id"`
			RouteName *string `json:"route_name"`
		}
		if err := decodeValue(cmd.Value, &info); err != nil {
			return err
		}
		id, name := d.Route.RouteID, d.Route.RouteName
		if info.RouteID != nil {
			id = *info.RouteID
		}
		if info.RouteName != nil {
			name = *info.RouteName
		}
		d.SetRouteInfo(id, name)
		return nil

	case "add_band", "set_band":
		b, err := e.band(cmd.Value)
		if err != nil {
			return err
		}
		if cmd.Op == "set_band" {
			return d.SetBand(cmd.Index, b)
		}
		d.AddBand(b)
		return nil
	case "remove_band":
		return d.RemoveBand(cmd.Index)
	case "move_band":
		return d.MoveBand(cmd.From, cmd.To)

	case "add_starting_point", "set_starting_point":
		p, err := e.startingPoint(cmd.Value)
		if err != nil {
			return err
		}
		if cmd.Op == "set_starting_point" {
			return d.SetStartingPoint(cmd.Index, p)
		}
		d.AddStartingPoint(p)
		return nil
	case "remove_starting_point":
		return d.RemoveStartingPoint(cmd.Index)
	case "move_starting_point":
		return d.MoveStartingPoint(cmd.From, cmd.To)

	case "add_stage", "set_stage":
		s, err := e.stage(cmd.Value)
		if err != nil {
			return err
		}
		if cmd.Op == "set_stage" {
			return d.SetStage(cmd.Stage, s)
		}
		d.AddStage(s)
		return nil
	case "remove_stage":
		return d.RemoveStage(cmd.Stage)
	case "move_stage":
		return d.MoveStage(cmd.From, cmd.To)
	case "renumber_stages":
		d.Renumber()
		d.touch()
		return nil

	case "add_facility", "set_facility":
		f, err := e.facility(cmd.Value)
		if err != nil {
			return err
		}
		if cmd.Op == "set_facility" {
			return d.SetFacility(cmd.Stage, cmd.Index, f)
		}
		return d.AddFacility(cmd.Stage, f)
	case "remove_facility":
		return d.RemoveFacility(cmd.Stage, cmd.Index)
	case "move_facility":
		return d.MoveFacility(cmd.Stage, cmd.From, cmd.To)
	case "toggle_service":
		var service string
		if err := decodeValue(cmd.Value, &service); err != nil {
			return err
		}
		return d.ToggleService(cmd.Stage, cmd.Index, service)
	case "set_services":
		var services []string
		if err := decodeValue(cmd.Value, &services); err != nil {
			return err
		}
		return d.SetServices(cmd.Stage, cmd.Index, services)

	case "add_accommodation", "set_accommodation":
		a, err := e.accommodation(cmd.Value)
		if err != nil {
			return err
		}
		if cmd.Op == "set_accommodation" {
			return d.SetAccommodation(cmd.Stage, cmd.Index, a)
		}
		return d.AddAccommodation(cmd.Stage, a)
	case "remove_accommodation":
		return d.RemoveAccommodation(cmd.Stage, cmd.Index)
	case "move_accommodation":
		return d.MoveAccommodation(cmd.Stage, cmd.From, cmd.To)

	case "add_detail_item", "set_detail_item":
		var item string
		if err := decodeValue(cmd.Value, &item); err != nil {
			return err
		}
		if cmd.Op == "set_detail_item" {
			return d.SetDetailItem(cmd.Stage, cmd.List, cmd.Index, item)
		}
		return d.AddDetailItem(cmd.Stage, cmd.List, item)
	case "remove_detail_item":
		return d.RemoveDetailItem(cmd.Stage, cmd.List, cmd.Index)
	case "move_detail_item":
		return d.MoveDetailItem(cmd.Stage, cmd.List, cmd.From, cmd.To)
	}
	return fmt.Errorf("%q: %w", cmd.Op, ErrUnknownOp)
}

func decodeValue(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("value is required: %w", ErrInvalidValue)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%v: %w", err, ErrInvalidValue)
	}
	return nil
}

// object decodes an optional wire object. A missing value is an empty
// object.
func object(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := decodeValue(raw, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

// wrap builds a one-element route document around m and decodes it
// leniently, so element values go through the same normalization and
// coercion as a full route.
func (e *Editor) wrap(raw json.RawMessage, key string) (trail.Route, error) {
	m, err := object(raw)
	if err != nil {
		return trail.Route{}, err
	}
	return e.decoder.DecodeLenient(trail.Document{key: []any{m}}), nil
}

func (e *Editor) band(raw json.RawMessage) (trail.DistanceBand, error) {
	r, err := e.wrap(raw, trail.FieldAvgDailyDistance.External)
	if err != nil {
		return trail.DistanceBand{}, err
	}
	return r.AvgDailyDistance[0], nil
}

func (e *Editor) startingPoint(raw json.RawMessage) (trail.StartingPoint, error) {
	r, err := e.wrap(raw, trail.FieldStartingPoint.External)
	if err != nil {
		return trail.StartingPoint{}, err
	}
	return r.StartingPoint[0], nil
}

func (e *Editor) stage(raw json.RawMessage) (trail.Stage, error) {
	r, err := e.wrap(raw, trail.FieldStages.External)
	if err != nil {
		return trail.Stage{}, err
	}
	return r.Stages[0], nil
}

func (e *Editor) facility(raw json.RawMessage) (trail.Facility, error) {
	if _, err := object(raw); err != nil {
		return trail.Facility{}, err
	}
	s, err := e.stage(stageWith(raw, trail.FieldFacilities.External))
	if err != nil {
		return trail.Facility{}, err
	}
	if len(s.Facilities) == 0 {
		return trail.Facility{Services: []string{}}, nil
	}
	return s.Facilities[0], nil
}

func (e *Editor) accommodation(raw json.RawMessage) (trail.Accommodation, error) {
	if _, err := object(raw); err != nil {
		return trail.Accommodation{}, err
	}
	s, err := e.stage(stageWith(raw, trail.FieldAccommodations.External))
	if err != nil {
		return trail.Accommodation{}, err
	}
	if len(s.Accommodations) == 0 {
		return trail.Accommodation{}, nil
	}
	return s.Accommodations[0], nil
}

// stageWith nests raw as the single element of a stage list field.
func stageWith(raw json.RawMessage, key string) json.RawMessage {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	b, _ := json.Marshal(map[string]any{key: []json.RawMessage{raw}})
	return b
}

func cloneRoute(r trail.Route) trail.Route {
	b, err := json.Marshal(r)
	if err != nil {
		return r
	}
	var out trail.Route
	if err := json.Unmarshal(b, &out); err != nil {
		return r
	}
	return out
}
