package models

import "time"

// Property is a real-estate listing managed from the admin module.
type Property struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"not null" validate:"notblank,propname"`
	Location     string    `json:"location" gorm:"not null" validate:"notblank,proptext"`
	Price        float64   `json:"price" gorm:"not null" validate:"gt=0,finite"`
	Description  string    `json:"description" gorm:"not null" validate:"notblank,proptext"`
	Availability bool      `json:"availability" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AvailabilityLabel is the human readable availability used in listings and reports.
func (p Property) AvailabilityLabel() string {
	if p.Availability {
		return "Available"
	}
	return "Not Available"
}

// ApplyChanges copies every mutable field from src. ID and CreatedAt are kept.
func (p *Property) ApplyChanges(src Property) {
	p.Name = src.Name
	p.Location = src.Location
	p.Price = src.Price
	p.Description = src.Description
	p.Availability = src.Availability
}

// PropertyChanges replaces the mutable fields of a stored property. A nil
// Availability leaves the stored value as it is.
type PropertyChanges struct {
	Name         string
	Location     string
	Price        float64
	Description  string
	Availability *bool
}

// Apply writes c onto p. ID and CreatedAt are kept.
func (p *Property) Apply(c PropertyChanges) {
	p.Name = c.Name
	p.Location = c.Location
	p.Price = c.Price
	p.Description = c.Description
	if c.Availability != nil {
		p.Availability = *c.Availability
	}
}
