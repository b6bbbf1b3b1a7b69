package models

import (
	"gorm.io/gorm"
)

// Route is the stored root of a hiking route.
// RouteID is the public identifier; it is indexed but not unique.
type Route struct {
	gorm.Model

	RouteID   string `gorm:"index;not null" json:"route_id"`
	RouteName string `gorm:"not null" json:"route_name"`

	// Associations, ordered by Position
	DistanceBands  []DistanceBand  `gorm:"foreignKey:RouteRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"avg_daily_distance"`
	StartingPoints []StartingPoint `gorm:"foreignKey:RouteRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"starting_point"`
	Stages         []Stage         `gorm:"foreignKey:RouteRecordID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stages"`
}
