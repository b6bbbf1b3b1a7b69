package models

import "gorm.io/gorm"

type StartingPoint struct {
	gorm.Model
	RouteRecordID uint   `gorm:"index" json:"-"`
	Position      int    `json:"-"`
	Name          string `json:"name"`
	AvgDistance   string `json:"avg_distance"`
	AvgDaily      string `json:"avg_daily"`
}
