package models

import (
	"sort"

	"github.com/lib/pq"

	"camino_routes/internal/trail"
)

// FromTrail builds the row tree for a validated route. Positions follow the
// order of every sequence.
func FromTrail(r trail.Route) Route {
	rec := Route{
		RouteID:   r.RouteID,
		RouteName: r.RouteName,
	}
	for i, b := range r.AvgDailyDistance {
		rec.DistanceBands = append(rec.DistanceBands, DistanceBand{
			Position:    i,
			Label:       b.Label,
			MinimumKm:   b.MinimumKm,
			MinimumMile: b.MinimumMile,
			MaximumKm:   b.MaximumKm,
			MaximumMile: b.MaximumMile,
			Days:        b.Days,
		})
	}
	for i, p := range r.StartingPoint {
		rec.StartingPoints = append(rec.StartingPoints, StartingPoint{
			Position:    i,
			Name:        p.Name,
			AvgDistance: p.AvgDistance,
			AvgDaily:    p.AvgDaily,
		})
	}
	for i, s := range r.Stages {
		rec.Stages = append(rec.Stages, stageFromTrail(s, i))
	}
	return rec
}

func stageFromTrail(s trail.Stage, pos int) Stage {
	st := Stage{
		Position:      pos,
		StageNumber:   s.StageNumber,
		StageName:     s.StageName,
		DistanceKm:    s.DistanceKm,
		DistanceMiles: s.DistanceMiles,
		GPX:           s.GPX,
	}
	if d := s.Details; d != nil {
		st.HasDetails = true
		st.Details = StageDetails{
			TotalDistance:      d.TotalDistance,
			TotalTime:          d.TotalTime,
			AccumulatedAscent:  d.AccumulatedAscent,
			AccumulatedDescent: d.AccumulatedDescent,
			ElevationProfile:   d.ElevationProfile,
			WalkingSurface:     pq.StringArray(nonNil(d.WalkingSurface)),
			Challenges:         pq.StringArray(nonNil(d.Challenges)),
			Highlights:         pq.StringArray(nonNil(d.Highlights)),
		}
	}
	for i, f := range s.Facilities {
		st.Facilities = append(st.Facilities, Facility{
			Position: i,
			Index:    f.Index,
			Name:     f.Name,
			Distance: f.Distance,
			Services: pq.StringArray(nonNil(f.Services)),
		})
	}
	for i, a := range s.Accommodations {
		st.Accommodations = append(st.Accommodations, Accommodation{
			Position:      i,
			Name:          a.Name,
			PriceCategory: a.PriceCategory,
			ContactURL:    a.ContactURL,
			ContactPhone:  a.ContactPhone,
			Lat:           a.Lat,
			Long:          a.Long,
		})
	}
	return st
}

// ToTrail converts a loaded row tree back to a route. Children are sorted by
// Position so the result does not depend on load order.
func (rec Route) ToTrail() trail.Route {
	r := trail.Route{
		RouteID:   rec.RouteID,
		RouteName: rec.RouteName,
	}

	bands := append([]DistanceBand(nil), rec.DistanceBands...)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Position < bands[j].Position })
	for _, b := range bands {
		r.AvgDailyDistance = append(r.AvgDailyDistance, trail.DistanceBand{
			Label:       b.Label,
			MinimumKm:   b.MinimumKm,
			MinimumMile: b.MinimumMile,
			MaximumKm:   b.MaximumKm,
			MaximumMile: b.MaximumMile,
			Days:        b.Days,
		})
	}

	points := append([]StartingPoint(nil), rec.StartingPoints...)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Position < points[j].Position })
	for _, p := range points {
		r.StartingPoint = append(r.StartingPoint, trail.StartingPoint{
			Name:        p.Name,
			AvgDistance: p.AvgDistance,
			AvgDaily:    p.AvgDaily,
		})
	}

	stages := append([]Stage(nil), rec.Stages...)
	sort.SliceStable(stages, func(i, j int) bool { return stages[i].Position < stages[j].Position })
	for _, s := range stages {
		r.Stages = append(r.Stages, s.toTrail())
	}

	r.Fill()
	return r
}

func (s Stage) toTrail() trail.Stage {
	st := trail.Stage{
		StageNumber:   s.StageNumber,
		StageName:     s.StageName,
		DistanceKm:    s.DistanceKm,
		DistanceMiles: s.DistanceMiles,
		GPX:           s.GPX,
	}
	if s.HasDetails {
		st.Details = &trail.StageDetails{
			TotalDistance:      s.Details.TotalDistance,
			TotalTime:          s.Details.TotalTime,
			AccumulatedAscent:  s.Details.AccumulatedAscent,
			AccumulatedDescent: s.Details.AccumulatedDescent,
			ElevationProfile:   s.Details.ElevationProfile,
			WalkingSurface:     nonNil(s.Details.WalkingSurface),
			Challenges:         nonNil(s.Details.Challenges),
			Highlights:         nonNil(s.Details.Highlights),
		}
	}

	facilities := append([]Facility(nil), s.Facilities...)
	sort.SliceStable(facilities, func(i, j int) bool { return facilities[i].Position < facilities[j].Position })
	for _, f := range facilities {
		st.Facilities = append(st.Facilities, trail.Facility{
			Index:    f.Index,
			Name:     f.Name,
			Distance: f.Distance,
			Services: nonNil(f.Services),
		})
	}

	accommodations := append([]Accommodation(nil), s.Accommodations...)
	sort.SliceStable(accommodations, func(i, j int) bool { return accommodations[i].Position < accommodations[j].Position })
	for _, a := range accommodations {
		st.Accommodations = append(st.Accommodations, trail.Accommodation{
			Name:          a.Name,
			PriceCategory: a.PriceCategory,
			ContactURL:    a.ContactURL,
			ContactPhone:  a.ContactPhone,
			Lat:           a.Lat,
			Long:          a.Long,
		})
	}
	return st
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
