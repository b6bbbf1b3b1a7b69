package models

import "gorm.io/gorm"

// DistanceBand always stores the canonical label; legacy aliases never reach
// the table.
type DistanceBand struct {
	gorm.Model
	RouteRecordID uint     `gorm:"index" json:"-"`
	Position      int      `json:"-"`
	Label         string   `json:"label"`
	MinimumKm     *float64 `json:"minimum_km"`
	MinimumMile   *float64 `json:"minimum_mile"`
	MaximumKm     *float64 `json:"maximum_km"`
	MaximumMile   *float64 `json:"maximum_mile"`
	Days          *float64 `json:"days"`
}
