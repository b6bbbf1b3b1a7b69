package editor

import (
	"errors"
	"fmt"
	"time"

	"camino_routes/internal/trail"
)

var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownService   = errors.New("unknown service")
	ErrDuplicateService = errors.New("duplicate service")
	ErrUnknownList      = errors.New("unknown detail list")
	ErrUnknownOp        = errors.New("unknown edit operation")
	ErrInvalidValue     = errors.New("invalid edit value")
)

// Services is the vocabulary a facility can offer.
var Services = []string{
	"Shop",
	"ATM",
	"Food_Drink",
	"Camino_Stamp",
	"Hotel",
	"Guest_House",
	"Supermarket",
	"Campsite",
}

// KnownService reports whether name is in the service vocabulary.
func KnownService(name string) bool {
	for _, s := range Services {
		if s == name {
			return true
		}
	}
	return false
}

// Detail list names, in wire spelling.
const (
	WalkingSurface = "walking_surface"
	Challenges     = "challenges"
	Highlights     = "highlights"
)

// Draft is a route being edited. It may be incomplete or invalid until
// submitted.
type Draft struct {
	ID        string      `json:"id"`
	Route     trail.Route `json:"route"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewDraft starts a draft from route. The route is copied.
func NewDraft(id string, route trail.Route) *Draft {
	d := &Draft{ID: id, Route: cloneRoute(route)}
	d.Route.Fill()
	return d
}

func outOfRange(what string, i, n int) error {
	return fmt.Errorf("%s %d of %d: %w", what, i, n, ErrIndexOutOfRange)
}

func removeAt[T any](s []T, i int, what string) ([]T, error) {
	if i < 0 || i >= len(s) {
		return s, outOfRange(what, i, len(s))
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...), nil
}

func moveTo[T any](s []T, from, to int, what string) ([]T, error) {
	if from < 0 || from >= len(s) {
		return s, outOfRange(what, from, len(s))
	}
	if to < 0 || to >= len(s) {
		return s, outOfRange(what, to, len(s))
	}
	item := s[from]
	rest, _ := removeAt(s, from, what)
	out := make([]T, 0, len(s))
	out = append(out, rest[:to]...)
	out = append(out, item)
	return append(out, rest[to:]...), nil
}

func setAt[T any](s []T, i int, v T, what string) error {
	if i < 0 || i >= len(s) {
		return outOfRange(what, i, len(s))
	}
	s[i] = v
	return nil
}

func (d *Draft) touch() {
	d.UpdatedAt = time.Now().UTC()
}

func (d *Draft) SetRouteInfo(routeID, routeName string) {
	d.Route.RouteID = routeID
	d.Route.RouteName = routeName
	d.touch()
}

func (d *Draft) AddBand(b trail.DistanceBand) {
	d.Route.AvgDailyDistance = append(d.Route.AvgDailyDistance, b)
	d.touch()
}

func (d *Draft) SetBand(i int, b trail.DistanceBand) error {
	return d.edit(setAt(d.Route.AvgDailyDistance, i, b, "distance band"))
}

func (d *Draft) RemoveBand(i int) error {
	bands, err := removeAt(d.Route.AvgDailyDistance, i, "distance band")
	if err != nil {
		return err
	}
	d.Route.AvgDailyDistance = bands
	d.touch()
	return nil
}

func (d *Draft) MoveBand(from, to int) error {
	bands, err := moveTo(d.Route.AvgDailyDistance, from, to, "distance band")
	if err != nil {
		return err
	}
	d.Route.AvgDailyDistance = bands
	d.touch()
	return nil
}

func (d *Draft) AddStartingPoint(p trail.StartingPoint) {
	d.Route.StartingPoint = append(d.Route.StartingPoint, p)
	d.touch()
}

func (d *Draft) SetStartingPoint(i int, p trail.StartingPoint) error {
	return d.edit(setAt(d.Route.StartingPoint, i, p, "starting point"))
}

func (d *Draft) RemoveStartingPoint(i int) error {
	points, err := removeAt(d.Route.StartingPoint, i, "starting point")
	if err != nil {
		return err
	}
	d.Route.StartingPoint = points
	d.touch()
	return nil
}

func (d *Draft) MoveStartingPoint(from, to int) error {
	points, err := moveTo(d.Route.StartingPoint, from, to, "starting point")
	if err != nil {
		return err
	}
	d.Route.StartingPoint = points
	d.touch()
	return nil
}

// AddStage appends s, numbering it after the current last stage. A stage
// without details gets empty ones.
func (d *Draft) AddStage(s trail.Stage) {
	s.StageNumber = len(d.Route.Stages) + 1
	if s.Details == nil {
		s.Details = trail.NewStageDetails()
	}
	d.Route.Stages = append(d.Route.Stages, s)
	d.Route.Fill()
	d.touch()
}

func (d *Draft) SetStage(i int, s trail.Stage) error {
	if s.Details == nil {
		s.Details = trail.NewStageDetails()
	}
	if err := setAt(d.Route.Stages, i, s, "stage"); err != nil {
		return err
	}
	d.Route.Fill()
	d.touch()
	return nil
}

// RemoveStage drops stage i and renumbers the rest 1..n.
func (d *Draft) RemoveStage(i int) error {
	stages, err := removeAt(d.Route.Stages, i, "stage")
	if err != nil {
		return err
	}
	d.Route.Stages = stages
	d.Renumber()
	d.touch()
	return nil
}

// MoveStage reorders stages and renumbers them 1..n.
func (d *Draft) MoveStage(from, to int) error {
	stages, err := moveTo(d.Route.Stages, from, to, "stage")
	if err != nil {
		return err
	}
	d.Route.Stages = stages
	d.Renumber()
	d.touch()
	return nil
}

// Renumber sets every stage_number to its position plus one.
func (d *Draft) Renumber() {
	for i := range d.Route.Stages {
		d.Route.Stages[i].StageNumber = i + 1
	}
}

func (d *Draft) stage(i int) (*trail.Stage, error) {
	if i < 0 || i >= len(d.Route.Stages) {
		return nil, outOfRange("stage", i, len(d.Route.Stages))
	}
	return &d.Route.Stages[i], nil
}

func (d *Draft) AddFacility(stage int, f trail.Facility) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	if f.Services == nil {
		f.Services = []string{}
	}
	s.Facilities = append(s.Facilities, f)
	d.touch()
	return nil
}

func (d *Draft) SetFacility(stage, i int, f trail.Facility) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	if f.Services == nil {
		f.Services = []string{}
	}
	return d.edit(setAt(s.Facilities, i, f, "facility"))
}

func (d *Draft) RemoveFacility(stage, i int) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	facilities, err := removeAt(s.Facilities, i, "facility")
	if err != nil {
		return err
	}
	s.Facilities = facilities
	d.touch()
	return nil
}

func (d *Draft) MoveFacility(stage, from, to int) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	facilities, err := moveTo(s.Facilities, from, to, "facility")
	if err != nil {
		return err
	}
	s.Facilities = facilities
	d.touch()
	return nil
}

// ToggleService adds service to the facility, or removes it when already
// offered.
func (d *Draft) ToggleService(stage, facility int, service string) error {
	if !KnownService(service) {
		return fmt.Errorf("%q: %w", service, ErrUnknownService)
	}
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	if facility < 0 || facility >= len(s.Facilities) {
		return outOfRange("facility", facility, len(s.Facilities))
	}
	f := &s.Facilities[facility]
	for i, have := range f.Services {
		if have == service {
			f.Services, _ = removeAt(f.Services, i, "service")
			d.touch()
			return nil
		}
	}
	f.Services = append(f.Services, service)
	d.touch()
	return nil
}

// SetServices replaces the services of a facility. Every entry must be in
// the vocabulary and appear once.
func (d *Draft) SetServices(stage, facility int, services []string) error {
	seen := make(map[string]bool, len(services))
	for _, svc := range services {
		if !KnownService(svc) {
			return fmt.Errorf("%q: %w", svc, ErrUnknownService)
		}
		if seen[svc] {
			return fmt.Errorf("%q: %w", svc, ErrDuplicateService)
		}
		seen[svc] = true
	}
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	if facility < 0 || facility >= len(s.Facilities) {
		return outOfRange("facility", facility, len(s.Facilities))
	}
	s.Facilities[facility].Services = append([]string{}, services...)
	d.touch()
	return nil
}

func (d *Draft) AddAccommodation(stage int, a trail.Accommodation) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	s.Accommodations = append(s.Accommodations, a)
	d.touch()
	return nil
}

func (d *Draft) SetAccommodation(stage, i int, a trail.Accommodation) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	return d.edit(setAt(s.Accommodations, i, a, "accommodation"))
}

func (d *Draft) RemoveAccommodation(stage, i int) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	accommodations, err := removeAt(s.Accommodations, i, "accommodation")
	if err != nil {
		return err
	}
	s.Accommodations = accommodations
	d.touch()
	return nil
}

func (d *Draft) MoveAccommodation(stage, from, to int) error {
	s, err := d.stage(stage)
	if err != nil {
		return err
	}
	accommodations, err := moveTo(s.Accommodations, from, to, "accommodation")
	if err != nil {
		return err
	}
	s.Accommodations = accommodations
	d.touch()
	return nil
}

// detailList returns a pointer to one of the stage's detail lists, creating
// empty details when the stage has none.
func (d *Draft) detailList(stage int, list string) (*[]string, error) {
	s, err := d.stage(stage)
	if err != nil {
		return nil, err
	}
	if s.Details == nil {
		s.Details = trail.NewStageDetails()
	}
	switch list {
	case WalkingSurface:
		return &s.Details.WalkingSurface, nil
	case Challenges:
		return &s.Details.Challenges, nil
	case Highlights:
		return &s.Details.Highlights, nil
	}
	return nil, fmt.Errorf("%q: %w", list, ErrUnknownList)
}

func (d *Draft) AddDetailItem(stage int, list, item string) error {
	items, err := d.detailList(stage, list)
	if err != nil {
		return err
	}
	*items = append(*items, item)
	d.touch()
	return nil
}

func (d *Draft) SetDetailItem(stage int, list string, i int, item string) error {
	items, err := d.detailList(stage, list)
	if err != nil {
		return err
	}
	return d.edit(setAt(*items, i, item, list))
}

func (d *Draft) RemoveDetailItem(stage int, list string, i int) error {
	items, err := d.detailList(stage, list)
	if err != nil {
		return err
	}
	out, err := removeAt(*items, i, list)
	if err != nil {
		return err
	}
	*items = out
	d.touch()
	return nil
}

func (d *Draft) MoveDetailItem(stage int, list string, from, to int) error {
	items, err := d.detailList(stage, list)
	if err != nil {
		return err
	}
	out, err := moveTo(*items, from, to, list)
	if err != nil {
		return err
	}
	*items = out
	d.touch()
	return nil
}

func (d *Draft) edit(err error) error {
	if err != nil {
		return err
	}
	d.touch()
	return nil
}
