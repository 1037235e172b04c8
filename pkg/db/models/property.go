package models

import (
	"time"
)

// Property is a node in the descriptive taxonomy. The parent reference is a
// self-join; deleting a parent detaches its children instead of removing them.
type Property struct {
	ID           uint   `gorm:"primaryKey"`
	ParentID     *uint  `gorm:"index:idx_property_parent"`
	Name         string `gorm:"type:text;not null;uniqueIndex:uq_property_name"`
	DisplayOrder int    `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Parent   *Property       `gorm:"foreignKey:ParentID;references:ID"`
	Children []Property      `gorm:"foreignKey:ParentID"`
	Values   []PropertyValue `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// PropertyValue is a concrete value of a Property, unique within it.
type PropertyValue struct {
	ID           uint   `gorm:"primaryKey"`
	PropertyID   uint   `gorm:"not null;index:idx_property_value_property;uniqueIndex:uq_property_value"`
	Value        string `gorm:"type:text;not null;uniqueIndex:uq_property_value"`
	DisplayOrder int    `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	Property Property `gorm:"foreignKey:PropertyID;references:ID"`
}
