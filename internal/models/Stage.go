package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Stage is one travel segment of a route. Position keeps the order of
// travel; StageNumber is whatever the author entered.
type Stage struct {
	gorm.Model

	RouteRecordID uint `gorm:"index" json:"-"`
	Position      int  `json:"-"`

	StageNumber   int     `json:"stage_number"`
	StageName     string  `json:"stage_name"`
	DistanceKm    float64 `json:"distance_km"`
	DistanceMiles float64 `json:"distance_miles"`
	GPX           string  `json:"gpx"`

	// HasDetails is false only for rows written without details.
	HasDetails bool         `json:"-"`
	Details    StageDetails `gorm:"embedded;embeddedPrefix:details_" json:"details"`

	Facilities     []Facility      `gorm:"foreignKey:StageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"facilities"`
	Accommodations []Accommodation `gorm:"foreignKey:StageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"accommodations"`
}

// StageDetails is embedded in the stages table.
type StageDetails struct {
	TotalDistance      string         `json:"total_distance"`
	TotalTime          string         `json:"total_time"`
	AccumulatedAscent  string         `json:"accumulated_ascent"`
	AccumulatedDescent string         `json:"accumulated_descent"`
	ElevationProfile   string         `json:"elevation_profile"`
	WalkingSurface     pq.StringArray `gorm:"type:text[]" json:"walking_surface"`
	Challenges         pq.StringArray `gorm:"type:text[]" json:"challenges"`
	Highlights         pq.StringArray `gorm:"type:text[]" json:"highlights"`
}
