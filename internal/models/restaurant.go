package models

import "gorm.io/gorm"

// WorkingHours is one day's opening window in "HH:MM" strings.
// Open and Close both "00:00" means closed for the whole day.
type WorkingHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Restaurant represents one outlet. The slug doubles as the tenant key for
// all cart state.
type Restaurant struct {
	ID             string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	OwnerID        string `json:"owner_id" gorm:"index;type:varchar(36)"`
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Slug           string `json:"slug" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	Description    string `json:"description" validate:"omitempty,max=500"`
	Address        string `json:"address" validate:"omitempty,max=500"`
	GoogleMapsLink string `json:"google_maps_link" validate:"omitempty,url"`

	// Digits only, country code included, no formatting.
	WhatsAppNumber string `json:"whatsapp_number" validate:"required,numeric"`

	SupportsDineIn        bool `json:"supports_dine_in"`
	SupportsTakeaway      bool `json:"supports_takeaway"`
	SupportsDelivery      bool `json:"supports_delivery"`
	OnlineOrderingEnabled bool `json:"online_ordering_enabled"`
	ManuallyClosed        bool `json:"manually_closed"`

	DeliveryAreas []string `json:"delivery_areas" gorm:"serializer:json"`
	UPIID         string   `json:"upi_id"`

	// Keyed by lowercase three-letter weekday ("mon".."sun").
	Timings    map[string]WorkingHours `json:"timings" gorm:"serializer:json"`
	gorm.Model                         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
