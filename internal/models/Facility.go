package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Facility is a service point along a stage.
type Facility struct {
	gorm.Model
	StageID  uint           `gorm:"index" json:"-"`
	Position int            `json:"-"`
	Index    int            `json:"index"`
	Name     string         `json:"name"`
	Distance string         `json:"distance"`
	Services pq.StringArray `gorm:"type:text[]" json:"services"`
}
