package trail

// Kind is the value shape a field carries.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindInteger
	KindStrings
	KindObject
	KindList
)

// Field pairs the external (wire) spelling of a field with its internal
// spelling. Elem is set for KindObject and KindList.
type Field struct {
	External string
	Internal string
	Kind     Kind
	Elem     *Shape
}

// Shape is the declared field set of one entity.
type Shape struct {
	Name   string
	Fields []Field

	byExternal map[string]int
	byInternal map[string]int
}

func newShape(name string, fields ...Field) *Shape {
	s := &Shape{
		Name:       name,
		Fields:     fields,
		byExternal: make(map[string]int, len(fields)),
		byInternal: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.byExternal[f.External] = i
		s.byInternal[f.Internal] = i
	}
	return s
}

// External looks up a field by its wire name.
func (s *Shape) External(name string) (Field, bool) {
	i, ok := s.byExternal[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Internal looks up a field by its internal name.
func (s *Shape) Internal(name string) (Field, bool) {
	i, ok := s.byInternal[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Distance band fields.
var (
	FieldLabel       = Field{External: "label", Internal: "label", Kind: KindString}
	FieldMinimumKm   = Field{External: "minimum_km", Internal: "minimumKm", Kind: KindNumber}
	FieldMinimumMile = Field{External: "minimum_mile", Internal: "minimumMile", Kind: KindNumber}
	FieldMaximumKm   = Field{External: "maximum_km", Internal: "maximumKm", Kind: KindNumber}
	FieldMaximumMile = Field{External: "maximum_mile", Internal: "maximumMile", Kind: KindNumber}
	FieldDays        = Field{External: "days", Internal: "days", Kind: KindNumber}
)

// Starting point fields.
var (
	FieldPointName   = Field{External: "name", Internal: "name", Kind: KindString}
	FieldAvgDistance = Field{External: "avg_distance", Internal: "avgDistance", Kind: KindString}
	FieldAvgDaily    = Field{External: "avg_daily", Internal: "avgDaily", Kind: KindString}
)

// Stage details fields.
var (
	FieldTotalDistance      = Field{External: "total_distance", Internal: "totalDistance", Kind: KindString}
	FieldTotalTime          = Field{External: "total_time", Internal: "totalTime", Kind: KindString}
	FieldAccumulatedAscent  = Field{External: "accumulated_ascent", Internal: "accumulatedAscent", Kind: KindString}
	FieldAccumulatedDescent = Field{External: "accumulated_descent", Internal: "accumulatedDescent", Kind: KindString}
	FieldElevationProfile   = Field{External: "elevation_profile", Internal: "elevationProfile", Kind: KindString}
	FieldWalkingSurface     = Field{External: "walking_surface", Internal: "walkingSurface", Kind: KindStrings}
	FieldChallenges         = Field{External: "challenges", Internal: "challenges", Kind: KindStrings}
	FieldHighlights         = Field{External: "highlights", Internal: "highlights", Kind: KindStrings}
)

// Facility fields.
var (
	FieldFacilityIndex    = Field{External: "index", Internal: "index", Kind: KindInteger}
	FieldFacilityName     = Field{External: "name", Internal: "name", Kind: KindString}
	FieldFacilityDistance = Field{External: "distance", Internal: "distance", Kind: KindString}
	FieldServices         = Field{External: "services", Internal: "services", Kind: KindStrings}
)

// Accommodation fields.
var (
	FieldAccommodationName = Field{External: "name", Internal: "name", Kind: KindString}
	FieldPriceCategory     = Field{External: "price_category", Internal: "priceCategory", Kind: KindString}
	FieldContactURL        = Field{External: "contact_url", Internal: "contactUrl", Kind: KindString}
	FieldContactPhone      = Field{External: "contact_phone", Internal: "contactPhone", Kind: KindString}
	FieldLat               = Field{External: "lat", Internal: "lat", Kind: KindNumber}
	FieldLong              = Field{External: "long", Internal: "long", Kind: KindNumber}
)

var (
	DistanceBandShape = newShape("DistanceBand",
		FieldLabel, FieldMinimumKm, FieldMinimumMile, FieldMaximumKm, FieldMaximumMile, FieldDays)

	StartingPointShape = newShape("StartingPoint",
		FieldPointName, FieldAvgDistance, FieldAvgDaily)

	StageDetailsShape = newShape("StageDetails",
		FieldTotalDistance, FieldTotalTime, FieldAccumulatedAscent, FieldAccumulatedDescent,
		FieldElevationProfile, FieldWalkingSurface, FieldChallenges, FieldHighlights)

	FacilityShape = newShape("Facility",
		FieldFacilityIndex, FieldFacilityName, FieldFacilityDistance, FieldServices)

	AccommodationShape = newShape("Accommodation",
		FieldAccommodationName, FieldPriceCategory, FieldContactURL, FieldContactPhone, FieldLat, FieldLong)
)

// Stage fields.
var (
	FieldStageNumber    = Field{External: "stage_number", Internal: "stageNumber", Kind: KindInteger}
	FieldStageName      = Field{External: "stage_name", Internal: "stageName", Kind: KindString}
	FieldDistanceKm     = Field{External: "distance_km", Internal: "distanceKm", Kind: KindNumber}
	FieldDistanceMiles  = Field{External: "distance_miles", Internal: "distanceMiles", Kind: KindNumber}
	FieldGPX            = Field{External: "gpx", Internal: "gpx", Kind: KindString}
	FieldDetails        = Field{External: "details", Internal: "details", Kind: KindObject, Elem: StageDetailsShape}
	FieldFacilities     = Field{External: "facilities", Internal: "facilities", Kind: KindList, Elem: FacilityShape}
	FieldAccommodations = Field{External: "accommodations", Internal: "accommodations", Kind: KindList, Elem: AccommodationShape}
)

var StageShape = newShape("Stage",
	FieldStageNumber, FieldStageName, FieldDistanceKm, FieldDistanceMiles, FieldGPX,
	FieldDetails, FieldFacilities, FieldAccommodations)

// Route fields.
var (
	FieldRouteID          = Field{External: "route_id", Internal: "routeId", Kind: KindString}
	FieldRouteName        = Field{External: "route_name", Internal: "routeName", Kind: KindString}
	FieldAvgDailyDistance = Field{External: "avg_daily_distance", Internal: "avgDailyDistance", Kind: KindList, Elem: DistanceBandShape}
	FieldStartingPoint    = Field{External: "starting_point", Internal: "startingPoint", Kind: KindList, Elem: StartingPointShape}
	FieldStages           = Field{External: "stages", Internal: "stages", Kind: KindList, Elem: StageShape}
)

// RouteShape is the root of the route tree.
var RouteShape = newShape("Route",
	FieldRouteID, FieldRouteName, FieldAvgDailyDistance, FieldStartingPoint, FieldStages)
