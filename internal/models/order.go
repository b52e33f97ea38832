package models

import (
	"time"

	"gorm.io/gorm"
)

// Order types supported by a restaurant.
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

// Order is a placed order as persisted for the restaurant dashboard.
//
// Items holds one JSON-serialized CartItem per element (a string array, not a
// nested object array). The dashboard reader parses each element on its own
// and skips any that fail to parse, so a single bad element never hides the
// rest of the order.
type Order struct {
	ID              string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID    string   `json:"restaurant_id" gorm:"index;type:varchar(100)"`
	OrderType       string   `json:"order_type"`
	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone,omitempty"`
	DineInLocation  string   `json:"dine_in_location,omitempty"`
	DeliveryArea    string   `json:"delivery_area,omitempty"`
	DeliveryAddress string   `json:"delivery_address,omitempty"`
	Items           []string `json:"items" gorm:"serializer:json"`
	Total           float64  `json:"total"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
