package models

import "gorm.io/gorm"

// User represents a storefront account.
// Accounts are created inactive and become active once the activation
// link from the registration email is followed.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Active     bool   `json:"active"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Address is a shipping address owned by a user. At most one address
// per user carries the default flag; the first address a user adds is
// flagged automatically and later ones never are.
type Address struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID    string `json:"user_id" gorm:"index;type:varchar(36)"`
	Receiver  string `json:"receiver" gorm:"type:varchar(100)" validate:"required,max=100"`
	Addr      string `json:"addr" gorm:"type:varchar(255)" validate:"required,max=255"`
	ZipCode   string `json:"zip_code" gorm:"type:varchar(10)"`
	Phone     string `json:"phone" gorm:"type:varchar(20)" validate:"required"`
	IsDefault bool   `json:"is_default"`
	gorm.Model
}
