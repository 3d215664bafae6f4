// Package admin is the console-side property manager: a reducer-driven store
// persisted to a local key/value file, with its own string-typed form model.
package admin

import (
	"fmt"
	"strconv"
	"strings"

	"landora/internal/models"
	"landora/internal/report"
	"landora/internal/validation"

	"github.com/spf13/cast"
)

// PropertyForm is the string-typed shape edited by the admin console. Price and
// availability stay strings until the form is converted.
type PropertyForm struct {
	Name         string `json:"name" validate:"notblank,propname"`
	Location     string `json:"location" validate:"notblank,proptext"`
	Price        string `json:"price" validate:"notblank,numeric,posnumber"`
	Description  string `json:"description" validate:"notblank,proptext"`
	Availability string `json:"availability" validate:"omitempty,oneof=true false"`
}

// Validate checks every field and returns validation.Errors listing all failures.
func (f PropertyForm) Validate(v *validation.Validator) error {
	return v.Struct(f)
}

// ToProperty converts a validated form into the canonical entity. An empty
// availability means available.
func (f PropertyForm) ToProperty(id string) (models.Property, error) {
	price, err := cast.ToFloat64E(strings.TrimSpace(f.Price))
	if err != nil {
		return models.Property{}, fmt.Errorf("price %q: %w", f.Price, err)
	}
	available := true
	if f.Availability != "" {
		available, err = cast.ToBoolE(f.Availability)
		if err != nil {
			return models.Property{}, fmt.Errorf("availability %q: %w", f.Availability, err)
		}
	}
	return models.Property{
		ID:           id,
		Name:         f.Name,
		Location:     f.Location,
		Price:        price,
		Description:  f.Description,
		Availability: available,
	}, nil
}

// FormFromProperty fills a form for editing an existing record.
func FormFromProperty(p models.Property) PropertyForm {
	return PropertyForm{
		Name:         p.Name,
		Location:     p.Location,
		Price:        report.FormatPrice(p.Price),
		Description:  p.Description,
		Availability: strconv.FormatBool(p.Availability),
	}
}

// Detail is one labelled line of the property detail view.
type Detail struct {
	Label string
	Value string
}

// Details lists a property for display. Buyer and vendor ids are placeholders
// and never stored.
func Details(p models.Property) []Detail {
	return []Detail{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Location", p.Location},
		{"Price", report.FormatPrice(p.Price)},
		{"Description", p.Description},
		{"Availability", p.AvailabilityLabel()},
		{"Buyer ID", "N/A"},
		{"Vendor ID", "N/A"},
	}
}
