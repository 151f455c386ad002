package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique" validate:"required,email"`
	Password string `json:"-" validate:"required,min=6"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}

// Merchant owns stock items. OwnerID is the user allowed to apply
// corrections and change settings for the merchant.
type Merchant struct {
	gorm.Model
	Name     string `json:"name"`
	OwnerID  uint   `json:"owner_id" gorm:"index"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active" gorm:"default:true"`
}
