package trail

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Validator turns internal route documents into typed routes. The zero value
// is not usable; build one with NewValidator. A Validator is safe for
// concurrent use.
type Validator struct {
	tags *validator.Validate
}

// NewValidator builds a validator whose error paths use wire field names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("wire")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{tags: v}
}

// Validate coerces and checks an internal route document. It returns either
// a typed route or a *ValidationError listing every failed field, never both.
func (v *Validator) Validate(doc Document) (Route, error) {
	route, verr := v.decode(doc)
	if verr.HasErrors() {
		verr.Sort()
		return Route{}, verr
	}
	return route, nil
}

// Lenient decodes whatever it can from an internal route document and
// ignores every error. The result is not guaranteed to pass Validate.
func (v *Validator) Lenient(doc Document) Route {
	r := &reader{errs: &ValidationError{}}
	route := r.route(doc)
	route.Fill()
	return route
}

// Check runs the structural rules on an already typed route.
func (v *Validator) Check(route Route) error {
	verr := &ValidationError{}
	v.tagPass(&route, verr)
	if verr.HasErrors() {
		verr.Sort()
		return verr
	}
	return nil
}

func (v *Validator) decode(doc Document) (Route, *ValidationError) {
	r := &reader{errs: &ValidationError{}}
	if doc == nil {
		r.errs.Add("", CodeType, "route must be an object")
		return Route{}, r.errs
	}
	route := r.route(doc)
	route.Fill()
	v.tagPass(&route, r.errs)
	return route, r.errs
}

// tagPass applies the struct tag rules. Paths already reported by the
// coercion pass are skipped.
func (v *Validator) tagPass(route *Route, verr *ValidationError) {
	err := v.tags.Struct(route)
	if err == nil {
		return
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add("", CodeInvalid, err.Error())
		return
	}
	seen := make(map[string]bool, len(verr.Fields))
	for _, f := range verr.Fields {
		seen[f.Path] = true
	}
	for _, e := range errs {
		path := e.Namespace()
		if idx := strings.Index(path, "."); idx != -1 {
			path = path[idx+1:]
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		code, msg := tagMessage(e)
		verr.Add(path, code, msg)
	}
}

func tagMessage(e validator.FieldError) (string, string) {
	switch e.Tag() {
	case "required":
		return CodeRequired, "is required"
	case "gte", "min":
		return CodeMin, fmt.Sprintf("must be at least %s", e.Param())
	default:
		return CodeInvalid, fmt.Sprintf("failed %q rule", e.Tag())
	}
}

// reader walks an internal document, coercing values and recording errors
// under wire paths.
type reader struct {
	errs *ValidationError
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func indexed(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func (r *reader) route(doc Document) Route {
	route := Route{
		RouteID:   r.str(doc, FieldRouteID, "", false),
		RouteName: r.str(doc, FieldRouteName, "", false),
	}

	for i, item := range r.list(doc, FieldAvgDailyDistance, "") {
		path := indexed(FieldAvgDailyDistance.External, i)
		if m := r.object(item, path); m != nil {
			route.AvgDailyDistance = append(route.AvgDailyDistance, r.band(m, path))
		}
	}
	for i, item := range r.list(doc, FieldStartingPoint, "") {
		path := indexed(FieldStartingPoint.External, i)
		if m := r.object(item, path); m != nil {
			route.StartingPoint = append(route.StartingPoint, StartingPoint{
				Name:        r.str(m, FieldPointName, path, false),
				AvgDistance: r.str(m, FieldAvgDistance, path, false),
				AvgDaily:    r.str(m, FieldAvgDaily, path, false),
			})
		}
	}
	for i, item := range r.list(doc, FieldStages, "") {
		path := indexed(FieldStages.External, i)
		if m := r.object(item, path); m != nil {
			route.Stages = append(route.Stages, r.stage(m, path))
		}
	}
	return route
}

func (r *reader) band(m Document, path string) DistanceBand {
	return DistanceBand{
		Label:       r.str(m, FieldLabel, path, false),
		MinimumKm:   r.optNumber(m, FieldMinimumKm, path),
		MinimumMile: r.optNumber(m, FieldMinimumMile, path),
		MaximumKm:   r.optNumber(m, FieldMaximumKm, path),
		MaximumMile: r.optNumber(m, FieldMaximumMile, path),
		Days:        r.optNumber(m, FieldDays, path),
	}
}

func (r *reader) stage(m Document, path string) Stage {
	s := Stage{
		StageNumber:   r.integer(m, FieldStageNumber, path, true),
		StageName:     r.str(m, FieldStageName, path, false),
		DistanceKm:    r.number(m, FieldDistanceKm, path),
		DistanceMiles: r.number(m, FieldDistanceMiles, path),
		GPX:           r.str(m, FieldGPX, path, false),
	}

	detailsPath := join(path, FieldDetails.External)
	if raw, ok := present(m, FieldDetails.Internal); ok {
		if d := r.object(raw, detailsPath); d != nil {
			s.Details = r.details(d, detailsPath)
		}
	}

	for i, item := range r.list(m, FieldFacilities, path) {
		p := indexed(join(path, FieldFacilities.External), i)
		if f := r.object(item, p); f != nil {
			s.Facilities = append(s.Facilities, Facility{
				Index:    r.integer(f, FieldFacilityIndex, p, false),
				Name:     r.str(f, FieldFacilityName, p, false),
				Distance: r.str(f, FieldFacilityDistance, p, false),
				Services: r.strings(f, FieldServices, p, false),
			})
		}
	}
	for i, item := range r.list(m, FieldAccommodations, path) {
		p := indexed(join(path, FieldAccommodations.External), i)
		if a := r.object(item, p); a != nil {
			s.Accommodations = append(s.Accommodations, Accommodation{
				Name:          r.str(a, FieldAccommodationName, p, false),
				PriceCategory: r.str(a, FieldPriceCategory, p, false),
				ContactURL:    r.str(a, FieldContactURL, p, false),
				ContactPhone:  r.str(a, FieldContactPhone, p, false),
				Lat:           r.optNumber(a, FieldLat, p),
				Long:          r.optNumber(a, FieldLong, p),
			})
		}
	}
	return s
}

// details reads the stage details. Every field must be present; empty
// values are allowed.
func (r *reader) details(m Document, path string) *StageDetails {
	return &StageDetails{
		TotalDistance:      r.str(m, FieldTotalDistance, path, true),
		TotalTime:          r.str(m, FieldTotalTime, path, true),
		AccumulatedAscent:  r.str(m, FieldAccumulatedAscent, path, true),
		AccumulatedDescent: r.str(m, FieldAccumulatedDescent, path, true),
		ElevationProfile:   r.str(m, FieldElevationProfile, path, true),
		WalkingSurface:     r.strings(m, FieldWalkingSurface, path, true),
		Challenges:         r.strings(m, FieldChallenges, path, true),
		Highlights:         r.strings(m, FieldHighlights, path, true),
	}
}

// present returns the value under key unless it is missing or null.
func present(m Document, key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) object(v any, path string) Document {
	m, ok := v.(map[string]any)
	if !ok {
		r.errs.Add(path, CodeType, "must be an object")
		return nil
	}
	return m
}

func (r *reader) list(m Document, f Field, prefix string) []any {
	v, ok := present(m, f.Internal)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		r.errs.Add(join(prefix, f.External), CodeType, "must be an array")
		return nil
	}
	return items
}

func (r *reader) str(m Document, f Field, prefix string, required bool) string {
	path := join(prefix, f.External)
	v, ok := present(m, f.Internal)
	if !ok {
		if required {
			r.errs.Add(path, CodeRequired, "is required")
		}
		return ""
	}
	s, err := toString(v)
	if err != nil {
		r.errs.Add(path, CodeType, "must be a string")
		return ""
	}
	return s
}

func (r *reader) strings(m Document, f Field, prefix string, required bool) []string {
	path := join(prefix, f.External)
	v, ok := present(m, f.Internal)
	if !ok {
		if required {
			r.errs.Add(path, CodeRequired, "is required")
		}
		return []string{}
	}
	items, ok := v.([]any)
	if !ok {
		r.errs.Add(path, CodeType, "must be an array of strings")
		return []string{}
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := toString(item)
		if err != nil {
			r.errs.Add(indexed(path, i), CodeType, "must be a string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *reader) number(m Document, f Field, prefix string) float64 {
	if p := r.optNumber(m, f, prefix); p != nil {
		return *p
	}
	return 0
}

func (r *reader) optNumber(m Document, f Field, prefix string) *float64 {
	v, ok := present(m, f.Internal)
	if !ok {
		return nil
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := toFloat(v)
	if err != nil {
		r.errs.Add(join(prefix, f.External), CodeType, "must be a number")
		return nil
	}
	return &n
}

func (r *reader) integer(m Document, f Field, prefix string, required bool) int {
	path := join(prefix, f.External)
	v, ok := present(m, f.Internal)
	if !ok {
		if required {
			r.errs.Add(path, CodeRequired, "is required")
		}
		return 0
	}
	n, err := toFloat(v)
	if err != nil || n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
		r.errs.Add(path, CodeType, "must be an integer")
		return 0
	}
	return int(n)
}

// toFloat accepts numbers and numeric-looking strings. Booleans are rejected
// even though cast would turn them into 0 or 1.
func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case bool:
		return 0, fmt.Errorf("unable to cast %#v to float64", v)
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, fmt.Errorf("unable to cast empty string to float64")
		}
		n, err := cast.ToFloat64E(t)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("unable to cast %q to a finite number", t)
		}
		return n, nil
	}
	return cast.ToFloat64E(v)
}

// toString accepts strings and numbers.
func toString(v any) (string, error) {
	switch v.(type) {
	case bool, map[string]any, []any:
		return "", fmt.Errorf("unable to cast %#v to string", v)
	}
	return cast.ToStringE(v)
}
