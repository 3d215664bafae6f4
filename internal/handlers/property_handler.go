package handlers

import (
	"bytes"
	"encoding/json"
	"errors"

	"landora/internal/models"
	"landora/internal/report"
	"landora/internal/services"
	"landora/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// PropertyHandler handles HTTP requests for properties.
type PropertyHandler struct {
	service   *services.PropertyService
	schema    *validation.Schema
	validator *validation.Validator
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(service *services.PropertyService, schema *validation.Schema) *PropertyHandler {
	return &PropertyHandler{
		service:   service,
		schema:    schema,
		validator: validation.New(),
	}
}

// RegisterRoutes registers the property routes under /properties. Any guards
// given apply to that group only.
func (h *PropertyHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	propertyRoutes := router.Group("/properties", guards...)
	propertyRoutes.Post("/", h.HandleCreateProperty)
	propertyRoutes.Get("/", h.HandleGetProperties)
	propertyRoutes.Get("/report", h.HandleGetReport)
	propertyRoutes.Get("/:id", h.HandleGetPropertyByID)
	propertyRoutes.Put("/:id", h.HandleUpdateProperty)
	propertyRoutes.Delete("/:id", h.HandleDeleteProperty)
}

// decodeInput checks the body against the property schema, then decodes it.
// When the schema rejects some fields, the field rules still run on the rest
// so every failure is reported at once.
func (h *PropertyHandler) decodeInput(c *fiber.Ctx) (services.PropertyInput, error) {
	var in services.PropertyInput
	body := c.Body()

	err := h.schema.Validate(body)
	if err == nil {
		if err := json.Unmarshal(body, &in); err != nil {
			return in, validation.Errors{{Field: "body", Message: "Request body must be valid JSON"}}
		}
		return in, nil
	}

	var schemaErrs validation.Errors
	if !errors.As(err, &schemaErrs) || schemaErrs.Has("body") {
		return in, err
	}
	var fieldErrs validation.Errors
	if err := h.validator.Struct(wellTypedFields(body)); err != nil && !errors.As(err, &fieldErrs) {
		return in, err
	}
	return in, validation.Merge(schemaErrs, fieldErrs)
}

// wellTypedFields decodes each property field that has the expected JSON type.
// Fields that are missing or of the wrong type stay zero.
func wellTypedFields(body []byte) models.Property {
	var p models.Property
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return p
	}
	targets := map[string]any{
		"name":        &p.Name,
		"location":    &p.Location,
		"price":       &p.Price,
		"description": &p.Description,
	}
	for field, dst := range targets {
		if value, ok := raw[field]; ok {
			_ = json.Unmarshal(value, dst)
		}
	}
	return p
}

// propertyID copies the id route param out of fiber's reusable request buffer.
func propertyID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}

// HandleCreateProperty creates a new property.
func (h *PropertyHandler) HandleCreateProperty(c *fiber.Ctx) error {
	in, err := h.decodeInput(c)
	if err != nil {
		return respondError(c, "Error creating property", err)
	}
	created, err := h.service.CreateProperty(c.UserContext(), in)
	if err != nil {
		return respondError(c, "Error creating property", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetProperties returns every property.
func (h *PropertyHandler) HandleGetProperties(c *fiber.Ctx) error {
	properties, err := h.service.GetAllProperties(c.UserContext())
	if err != nil {
		return respondError(c, "Error retrieving properties", err)
	}
	return c.JSON(properties)
}

// HandleGetPropertyByID returns a single property.
func (h *PropertyHandler) HandleGetPropertyByID(c *fiber.Ctx) error {
	property, err := h.service.GetPropertyByID(c.UserContext(), propertyID(c))
	if err != nil {
		return respondError(c, "Error retrieving property", err)
	}
	return c.JSON(property)
}

// HandleUpdateProperty replaces every mutable field of a property.
func (h *PropertyHandler) HandleUpdateProperty(c *fiber.Ctx) error {
	in, err := h.decodeInput(c)
	if err != nil {
		return respondError(c, "Error updating property", err)
	}
	updated, err := h.service.UpdateProperty(c.UserContext(), propertyID(c), in)
	if err != nil {
		return respondError(c, "Error updating property", err)
	}
	return c.JSON(updated)
}

// HandleDeleteProperty permanently deletes a property.
func (h *PropertyHandler) HandleDeleteProperty(c *fiber.Ctx) error {
	if err := h.service.DeleteProperty(c.UserContext(), propertyID(c)); err != nil {
		return respondError(c, "Error deleting property", err)
	}
	return c.JSON(fiber.Map{
		"message": "Property deleted successfully",
	})
}

// HandleGetReport renders the current property list as a PDF attachment.
func (h *PropertyHandler) HandleGetReport(c *fiber.Ctx) error {
	properties, err := h.service.GetAllProperties(c.UserContext())
	if err != nil {
		return respondError(c, "Error generating report", err)
	}

	var buf bytes.Buffer
	if err := report.WritePDF(&buf, properties); err != nil {
		if errors.Is(err, report.ErrEmptyReport) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "No properties available to generate a report",
			})
		}
		return respondError(c, "Error generating report", err)
	}

	c.Attachment(report.DefaultFilename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(buf.Bytes())
}
