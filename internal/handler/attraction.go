package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/model"
	"github.com/iliyamo/attraction-reservation/internal/repository"
)

// AttractionHandler exposes the admin-facing catalog management
// endpoints.  Every operation is scoped to the authenticated admin:
// an attraction owned by another admin behaves as missing.
type AttractionHandler struct {
	Attractions *repository.AttractionRepo
}

func NewAttractionHandler(ar *repository.AttractionRepo) *AttractionHandler {
	return &AttractionHandler{Attractions: ar}
}

// attractionReq is the create/update payload.
type attractionReq struct {
	Name           string   `json:"name"`
	Description    *string  `json:"description"`
	Location       string   `json:"location"`
	DurationValue  uint32   `json:"duration_value"`
	DurationUnit   string   `json:"duration_unit"` // minutes | hours
	MaxCapacity    uint32   `json:"max_capacity"`
	BasePriceCents uint32   `json:"base_price_cents"`
	PricingMode    string   `json:"pricing_mode"`
	OpenMonday     bool     `json:"open_monday"`
	OpenTuesday    bool     `json:"open_tuesday"`
	OpenWednesday  bool     `json:"open_wednesday"`
	OpenThursday   bool     `json:"open_thursday"`
	OpenFriday     bool     `json:"open_friday"`
	OpenSaturday   bool     `json:"open_saturday"`
	OpenSunday     bool     `json:"open_sunday"`
	TimeSlots      []string `json:"time_slots"`
	Status         string   `json:"status"`
}

// attractionResp is the attraction shape returned to clients.
type attractionResp struct {
	ID             uint64   `json:"id"`
	Name           string   `json:"name"`
	Description    *string  `json:"description,omitempty"`
	Location       string   `json:"location"`
	DurationValue  uint32   `json:"duration_value"`
	DurationUnit   string   `json:"duration_unit"`
	DurationLabel  string   `json:"duration_label"`
	MaxCapacity    uint32   `json:"max_capacity"`
	BasePriceCents uint32   `json:"base_price_cents"`
	PricingMode    string   `json:"pricing_mode"`
	OpenDays       []string `json:"open_days"`
	TimeSlots      []string `json:"time_slots"`
	Status         string   `json:"status"`
}

func toAttractionResp(a *model.Attraction) attractionResp {
	days := make([]string, 0, 7)
	for _, d := range []struct {
		name string
		open bool
	}{
		{"monday", a.Availability.Monday},
		{"tuesday", a.Availability.Tuesday},
		{"wednesday", a.Availability.Wednesday},
		{"thursday", a.Availability.Thursday},
		{"friday", a.Availability.Friday},
		{"saturday", a.Availability.Saturday},
		{"sunday", a.Availability.Sunday},
	} {
		if d.open {
			days = append(days, d.name)
		}
	}
	return attractionResp{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		Location:       a.Location,
		DurationValue:  a.DurationValue,
		DurationUnit:   a.DurationUnit,
		DurationLabel:  a.DurationLabel(),
		MaxCapacity:    a.MaxCapacity,
		BasePriceCents: a.BasePriceCents,
		PricingMode:    a.PricingMode,
		OpenDays:       days,
		TimeSlots:      a.TimeSlots,
		Status:         a.Status,
	}
}

// validate normalizes the payload and reports the first invalid field.
func (req *attractionReq) validate() *echo.Map {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.DurationUnit = strings.ToLower(strings.TrimSpace(req.DurationUnit))
	req.PricingMode = strings.ToUpper(strings.TrimSpace(req.PricingMode))
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if req.Status == "" {
		req.Status = model.AttractionStatusActive
	}
	if req.TimeSlots == nil {
		req.TimeSlots = []string{}
	}

	if req.Name == "" {
		return &echo.Map{"error": "required", "field": "name"}
	}
	if req.Location == "" {
		return &echo.Map{"error": "required", "field": "location"}
	}
	if req.DurationValue == 0 {
		return &echo.Map{"error": "must be at least 1", "field": "duration_value"}
	}
	if req.DurationUnit != "minutes" && req.DurationUnit != "hours" {
		return &echo.Map{"error": "must be minutes or hours", "field": "duration_unit"}
	}
	if req.MaxCapacity == 0 {
		return &echo.Map{"error": "must be at least 1", "field": "max_capacity"}
	}
	switch req.PricingMode {
	case model.PricingModePerUnit, model.PricingModeFixed, model.PricingModeGroup:
	default:
		return &echo.Map{"error": "must be PER_UNIT, FIXED or GROUP", "field": "pricing_mode"}
	}
	if req.Status != model.AttractionStatusActive && req.Status != model.AttractionStatusInactive {
		return &echo.Map{"error": "must be ACTIVE or INACTIVE", "field": "status"}
	}
	for _, s := range req.TimeSlots {
		if _, err := time.Parse("15:04", s); err != nil {
			return &echo.Map{"error": "slots must be HH:MM labels", "field": "time_slots"}
		}
	}
	return nil
}

func (req *attractionReq) toModel(ownerID uint64) *model.Attraction {
	return &model.Attraction{
		OwnerID:        ownerID,
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		DurationValue:  req.DurationValue,
		DurationUnit:   req.DurationUnit,
		MaxCapacity:    req.MaxCapacity,
		BasePriceCents: req.BasePriceCents,
		PricingMode:    req.PricingMode,
		Availability: model.WeeklyAvailability{
			Monday:    req.OpenMonday,
			Tuesday:   req.OpenTuesday,
			Wednesday: req.OpenWednesday,
			Thursday:  req.OpenThursday,
			Friday:    req.OpenFriday,
			Saturday:  req.OpenSaturday,
			Sunday:    req.OpenSunday,
		},
		TimeSlots: req.TimeSlots,
		Status:    req.Status,
	}
}

// Create registers a new attraction owned by the caller.
func (h *AttractionHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req attractionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != nil {
		return c.JSON(http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := req.toModel(ownerID)
	if err := h.Attractions.Create(ctx, a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create attraction failed"})
	}
	return c.JSON(http.StatusCreated, toAttractionResp(a))
}

// List returns every attraction managed by the caller, active or not.
func (h *AttractionHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Attractions.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list attractions failed"})
	}
	out := make([]attractionResp, 0, len(items))
	for _, a := range items {
		out = append(out, toAttractionResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"attractions": out})
}

// Get returns one attraction owned by the caller.
func (h *AttractionHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}
	return c.JSON(http.StatusOK, toAttractionResp(a))
}

// Update rewrites an attraction owned by the caller.
func (h *AttractionHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req attractionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != nil {
		return c.JSON(http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := req.toModel(ownerID)
	a.ID = id
	if err := h.Attractions.Update(ctx, a, ownerID); err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update attraction failed"})
	}
	stored, err := h.Attractions.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}
	return c.JSON(http.StatusOK, toAttractionResp(stored))
}

// Delete removes an attraction that has no bookings.  Attractions with
// booking history must be deactivated instead.
func (h *AttractionHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Attractions.Delete(ctx, id, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAttractionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "attraction has bookings; deactivate it instead"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete attraction failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
