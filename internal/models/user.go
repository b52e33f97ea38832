package models

import "gorm.io/gorm"

// Subscription plans for restaurant owners. The free plan caps how many menu
// items an outlet can carry; the pro plan is unlimited.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User represents a restaurant owner account for the admin panel.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Plan       string `json:"plan" gorm:"type:varchar(20);default:free" validate:"omitempty,oneof=free pro"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
