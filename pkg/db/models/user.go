package models

import (
	"time"
)

// User owns collections and can receive collection shares. Only the bcrypt
// hash of the password is ever persisted.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"type:text;not null;uniqueIndex:uq_user_username"`
	Email        string `gorm:"type:text;not null;uniqueIndex:uq_user_email"`
	PasswordHash string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Collections []Collection `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Shares      []Share      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
