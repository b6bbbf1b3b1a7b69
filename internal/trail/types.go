package trail

// Route is a complete multi-stage hiking itinerary.
//
// JSON tags carry the internal field names; `wire` tags carry the external
// snake_case names used in validation paths.
type Route struct {
	RouteID          string          `json:"routeId" wire:"route_id" validate:"required"`
	RouteName        string          `json:"routeName" wire:"route_name" validate:"required"`
	AvgDailyDistance []DistanceBand  `json:"avgDailyDistance" wire:"avg_daily_distance" validate:"dive"`
	StartingPoint    []StartingPoint `json:"startingPoint" wire:"starting_point"`
	Stages           []Stage         `json:"stages" wire:"stages" validate:"dive"`
}

// DistanceBand is one bracket of average daily walking distance.
type DistanceBand struct {
	Label       string   `json:"label" wire:"label"`
	MinimumKm   *float64 `json:"minimumKm,omitempty" wire:"minimum_km"`
	MinimumMile *float64 `json:"minimumMile,omitempty" wire:"minimum_mile"`
	MaximumKm   *float64 `json:"maximumKm,omitempty" wire:"maximum_km"`
	MaximumMile *float64 `json:"maximumMile,omitempty" wire:"maximum_mile"`
	Days        *float64 `json:"days,omitempty" wire:"days"`
}

type StartingPoint struct {
	Name        string `json:"name" wire:"name"`
	AvgDistance string `json:"avgDistance" wire:"avg_distance"`
	AvgDaily    string `json:"avgDaily" wire:"avg_daily"`
}

// Stage is one travel segment. StageNumber is not required to be unique or
// contiguous.
type Stage struct {
	StageNumber    int             `json:"stageNumber" wire:"stage_number" validate:"gte=1"`
	StageName      string          `json:"stageName" wire:"stage_name" validate:"required"`
	DistanceKm     float64         `json:"distanceKm" wire:"distance_km"`
	DistanceMiles  float64         `json:"distanceMiles" wire:"distance_miles"`
	GPX            string          `json:"gpx,omitempty" wire:"gpx"`
	Details        *StageDetails   `json:"details" wire:"details" validate:"required"`
	Facilities     []Facility      `json:"facilities" wire:"facilities" validate:"dive"`
	Accommodations []Accommodation `json:"accommodations" wire:"accommodations" validate:"dive"`
}

type StageDetails struct {
	TotalDistance      string   `json:"totalDistance" wire:"total_distance"`
	TotalTime          string   `json:"totalTime" wire:"total_time"`
	AccumulatedAscent  string   `json:"accumulatedAscent" wire:"accumulated_ascent"`
	AccumulatedDescent string   `json:"accumulatedDescent" wire:"accumulated_descent"`
	ElevationProfile   string   `json:"elevationProfile" wire:"elevation_profile"`
	WalkingSurface     []string `json:"walkingSurface" wire:"walking_surface"`
	Challenges         []string `json:"challenges" wire:"challenges"`
	Highlights         []string `json:"highlights" wire:"highlights"`
}

type Facility struct {
	Index    int      `json:"index" wire:"index"`
	Name     string   `json:"name" wire:"name"`
	Distance string   `json:"distance" wire:"distance"`
	Services []string `json:"services" wire:"services"`
}

type Accommodation struct {
	Name          string   `json:"name" wire:"name" validate:"required"`
	PriceCategory string   `json:"priceCategory" wire:"price_category" validate:"required"`
	ContactURL    string   `json:"contactUrl,omitempty" wire:"contact_url"`
	ContactPhone  string   `json:"contactPhone,omitempty" wire:"contact_phone"`
	Lat           *float64 `json:"lat,omitempty" wire:"lat"`
	Long          *float64 `json:"long,omitempty" wire:"long"`
}

// HasCoordinates reports whether both lat and long are set.
func (a Accommodation) HasCoordinates() bool {
	return a.Lat != nil && a.Long != nil
}

// NewStageDetails returns details with empty, non-nil lists.
func NewStageDetails() *StageDetails {
	return &StageDetails{
		WalkingSurface: []string{},
		Challenges:     []string{},
		Highlights:     []string{},
	}
}

// Fill replaces nil slices with empty ones so the route serializes lists as
// [] rather than null.
func (r *Route) Fill() {
	if r.AvgDailyDistance == nil {
		r.AvgDailyDistance = []DistanceBand{}
	}
	if r.StartingPoint == nil {
		r.StartingPoint = []StartingPoint{}
	}
	if r.Stages == nil {
		r.Stages = []Stage{}
	}
	for i := range r.Stages {
		s := &r.Stages[i]
		if s.Facilities == nil {
			s.Facilities = []Facility{}
		}
		if s.Accommodations == nil {
			s.Accommodations = []Accommodation{}
		}
		for j := range s.Facilities {
			if s.Facilities[j].Services == nil {
				s.Facilities[j].Services = []string{}
			}
		}
		if s.Details != nil {
			if s.Details.WalkingSurface == nil {
				s.Details.WalkingSurface = []string{}
			}
			if s.Details.Challenges == nil {
				s.Details.Challenges = []string{}
			}
			if s.Details.Highlights == nil {
				s.Details.Highlights = []string{}
			}
		}
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
