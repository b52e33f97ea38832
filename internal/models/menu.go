package models

import "gorm.io/gorm"

// Variant is one priced option of a menu item, e.g. "Half" / "Full".
type Variant struct {
	Label string  `json:"label" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

// MenuItem represents a single dish on a restaurant's menu. An item either
// has a flat Price or a list of Variants, each with its own price.
type MenuItem struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RestaurantSlug string    `json:"restaurant_slug" gorm:"index;type:varchar(100)" validate:"required"`
	Category       string    `json:"category" validate:"required,max=100"`
	Name           string    `json:"name" validate:"required,min=1,max=100"`
	Description    string    `json:"description" validate:"omitempty,max=500"`
	IsVeg          bool      `json:"is_veg"`
	Price          float64   `json:"price" validate:"gte=0"`
	Variants       []Variant `json:"variants,omitempty" gorm:"serializer:json"`
	IsSoldOut      bool      `json:"is_sold_out"`
	gorm.Model               // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// MenuCategory groups menu items for display.
type MenuCategory struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}
