package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/availability"
	"github.com/iliyamo/attraction-reservation/internal/pricing"
	"github.com/iliyamo/attraction-reservation/internal/repository"
)

// CatalogHandler serves the public browse surface: active attractions,
// their bookable dates and times and price quotes.  No authentication
// is required; inactive attractions behave as missing.
type CatalogHandler struct {
	Attractions *repository.AttractionRepo
}

func NewCatalogHandler(ar *repository.AttractionRepo) *CatalogHandler {
	return &CatalogHandler{Attractions: ar}
}

// List returns all active attractions ordered by name.
func (h *CatalogHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Attractions.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list attractions failed"})
	}
	out := make([]attractionResp, 0, len(items))
	for _, a := range items {
		out = append(out, toAttractionResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"attractions": out})
}

// Get returns one active attraction.
func (h *CatalogHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}
	return c.JSON(http.StatusOK, toAttractionResp(a))
}

// Dates returns the bookable calendar dates for an attraction over the
// coming window.  The optional ?days= query widens or narrows the
// window; anything non-positive falls back to the default.
func (h *CatalogHandler) Dates(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	days := 0
	if q := c.QueryParam("days"); q != "" {
		if n, err := strconv.Atoi(q); err == nil {
			days = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}

	dates := availability.ResolveDates(a, time.Now().UTC(), days)
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format("2006-01-02"))
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": out})
}

// Times returns the offerable time slots for an attraction on the date
// given by ?date=YYYY-MM-DD.  A closed day yields an empty list.
func (h *CatalogHandler) Times(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD", "field": "date"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"times": availability.ResolveTimes(a, date)})
}

type quoteReq struct {
	Quantity      uint32 `json:"quantity"`
	DiscountCents uint32 `json:"discount_cents"`
}

// Quote prices a hypothetical sale of an attraction without persisting
// anything.  The discount is clamped so the total never goes negative.
func (h *CatalogHandler) Quote(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "must be at least 1", "field": "quantity"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}

	mode, ok := pricing.ParseMode(a.PricingMode)
	if !ok {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attraction has an unknown pricing mode"})
	}
	subtotal, err := pricing.Subtotal(a.BasePriceCents, mode, req.Quantity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total would exceed the maximum amount", "field": "quantity"})
	}
	total, err := pricing.ComputeTotal(a.BasePriceCents, mode, req.Quantity, req.DiscountCents)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total would exceed the maximum amount", "field": "quantity"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"attraction_id":  a.ID,
		"pricing_mode":   string(mode),
		"quantity":       req.Quantity,
		"subtotal_cents": subtotal,
		"discount_cents": req.DiscountCents,
		"total_cents":    total,
	})
}
