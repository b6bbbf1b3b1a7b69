package models

import "gorm.io/gorm"

type Accommodation struct {
	gorm.Model
	StageID       uint     `gorm:"index" json:"-"`
	Position      int      `json:"-"`
	Name          string   `json:"name"`
	PriceCategory string   `json:"price_category"`
	ContactURL    string   `json:"contact_url"`
	ContactPhone  string   `json:"contact_phone"`
	Lat           *float64 `json:"lat"`
	Long          *float64 `json:"long"`
}
