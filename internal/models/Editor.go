package models

import "gorm.io/gorm"

// Editor is an account allowed to write routes.
type Editor struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Role     string `json:"role"` // "editor", "admin"
}
