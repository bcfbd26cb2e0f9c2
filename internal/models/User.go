// internal/models/user.go
package models

import (
	"gorm.io/gorm"
)

// User is an account that can sign in. Role information lives on the
// linked Profile; a superuser is treated as an admin even without one.
type User struct {
	gorm.Model
	Username    string `json:"username" gorm:"uniqueIndex;not null"`
	Email       string `json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsSuperuser bool   `json:"is_superuser" gorm:"default:false"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"profile,omitempty"`
}
