package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/giftcard"
	"github.com/iliyamo/attraction-reservation/internal/model"
	"github.com/iliyamo/attraction-reservation/internal/queue"
	"github.com/iliyamo/attraction-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/attraction-reservation/internal/service"
)

// GiftInstrumentHandler manages the gift instrument ledger: creation
// with generated codes, paginated listing, edits and the lifecycle
// transitions.  Every read applies the derived-expiry projection so an
// instrument past its expiry date reads as EXPIRED without the stored
// status ever being rewritten.
type GiftInstrumentHandler struct {
	Instruments *repository.GiftInstrumentRepo
}

func NewGiftInstrumentHandler(gr *repository.GiftInstrumentRepo) *GiftInstrumentHandler {
	return &GiftInstrumentHandler{Instruments: gr}
}

// rawNumber tolerates both `42` and `"42"` in request bodies.  Venue
// terminals send form text, API clients send numbers; validation of
// the content happens in the giftcard package either way.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = rawNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = rawNumber(num.String())
	return nil
}

type instrumentReq struct {
	ValueMode    string    `json:"value_mode"`
	InitialValue rawNumber `json:"initial_value"`
	Balance      rawNumber `json:"balance"`
	MaxUsage     rawNumber `json:"max_usage"`
	Description  string    `json:"description"`
	ExpiresAt    string    `json:"expires_at"` // YYYY-MM-DD, optional
}

type instrumentResp struct {
	ID           uint64  `json:"id"`
	Code         string  `json:"code"`
	ValueMode    string  `json:"value_mode"`
	InitialValue uint32  `json:"initial_value"`
	Balance      uint32  `json:"balance"`
	MaxUsage     uint32  `json:"max_usage"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// toInstrumentResp renders an instrument with its effective status as
// of now.
func toInstrumentResp(inst *model.GiftInstrument, now time.Time) instrumentResp {
	resp := instrumentResp{
		ID:           inst.ID,
		Code:         inst.Code,
		ValueMode:    inst.ValueMode,
		InitialValue: inst.InitialValue,
		Balance:      inst.Balance,
		MaxUsage:     inst.MaxUsage,
		Description:  inst.Description,
		Status:       giftcard.EffectiveStatus(inst, now),
		CreatedAt:    inst.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    inst.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if inst.ExpiresAt != nil {
		s := inst.ExpiresAt.UTC().Format("2006-01-02")
		resp.ExpiresAt = &s
	}
	return resp
}

// params converts the request into giftcard validation input.
func (req *instrumentReq) params() (giftcard.Params, error) {
	p := giftcard.Params{
		ValueMode:    req.ValueMode,
		InitialValue: string(req.InitialValue),
		Balance:      string(req.Balance),
		MaxUsage:     string(req.MaxUsage),
		Description:  req.Description,
	}
	if req.ExpiresAt != "" {
		t, err := parseDate(req.ExpiresAt)
		if err != nil {
			return giftcard.Params{}, &giftcard.FieldError{Field: "expires_at", Reason: "must be YYYY-MM-DD"}
		}
		// Expire at the end of the stated day.
		end := t.Add(24*time.Hour - time.Second)
		p.ExpiresAt = &end
	}
	return p, nil
}

// Create validates the input, generates a code and stores the
// instrument as ACTIVE.
func (h *GiftInstrumentHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req instrumentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	p, err := req.params()
	var draft giftcard.Draft
	if err == nil {
		draft, err = giftcard.Validate(p)
	}
	if err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inst := &model.GiftInstrument{
		ValueMode:    draft.ValueMode,
		InitialValue: draft.InitialValue,
		Balance:      draft.Balance,
		MaxUsage:     draft.MaxUsage,
		Status:       model.InstrumentStatusActive,
		ExpiresAt:    draft.ExpiresAt,
		CreatedBy:    userID,
	}
	if draft.Description != "" {
		d := draft.Description
		inst.Description = &d
	}
	if err := h.Instruments.Create(ctx, inst, giftcard.NewCode); err != nil {
		if errors.Is(err, repository.ErrCodeExhausted) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "could not allocate a unique code"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create instrument failed"})
	}
	now := time.Now().UTC()
	h.publishLifecycle(ctx, inst, "CREATED", now)
	return c.JSON(http.StatusCreated, toInstrumentResp(inst, now))
}

// List returns a page of instruments with pagination metadata.  Query
// parameters: ?page= (1-based) and ?per_page= (max 100, default 20).
func (h *GiftInstrumentHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.Instruments.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list instruments failed"})
	}
	now := time.Now().UTC()
	out := make([]instrumentResp, 0, len(items))
	for _, inst := range items {
		out = append(out, toInstrumentResp(inst, now))
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return c.JSON(http.StatusOK, echo.Map{
		"instruments": out,
		"page":        page,
		"per_page":    perPage,
		"total":       total,
	})
}

// Get returns one instrument.
func (h *GiftInstrumentHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inst, err := h.Instruments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load instrument failed"})
	}
	return c.JSON(http.StatusOK, toInstrumentResp(inst, time.Now().UTC()))
}

// instrumentUpdateReq carries a partial edit.  Absent fields keep
// their stored value; an explicit empty expires_at or description
// clears the stored one.
type instrumentUpdateReq struct {
	ValueMode    *string    `json:"value_mode"`
	InitialValue *rawNumber `json:"initial_value"`
	Balance      *rawNumber `json:"balance"`
	MaxUsage     *rawNumber `json:"max_usage"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	ExpiresAt    *string    `json:"expires_at"` // YYYY-MM-DD or "" to clear
}

// Update applies a partial edit to an instrument.  The fields present
// in the request are overlaid on the stored values and the merged
// result passes the same validation rules as on create, so an edit of
// a single field is still checked against the balance and usage
// invariants; a rejected edit changes nothing.
func (h *GiftInstrumentHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req instrumentUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inst, err := h.Instruments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load instrument failed"})
	}

	p := giftcard.ParamsFromInstrument(inst)
	if req.ValueMode != nil {
		p.ValueMode = *req.ValueMode
	}
	if req.InitialValue != nil {
		p.InitialValue = string(*req.InitialValue)
	}
	if req.Balance != nil {
		p.Balance = string(*req.Balance)
	}
	if req.MaxUsage != nil {
		p.MaxUsage = string(*req.MaxUsage)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ExpiresAt != nil {
		p.ExpiresAt = nil
		if *req.ExpiresAt != "" {
			t, err := parseDate(*req.ExpiresAt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "must be YYYY-MM-DD", "field": "expires_at"})
			}
			// Expire at the end of the stated day.
			end := t.Add(24*time.Hour - time.Second)
			p.ExpiresAt = &end
		}
	}
	status := inst.Status
	if req.Status != nil {
		s, ok := giftcard.ParseStatus(*req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "must be ACTIVE, INACTIVE, REDEEMED or CANCELLED", "field": "status"})
		}
		status = s
	}

	draft, err := giftcard.Validate(p)
	if err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	inst.ValueMode = draft.ValueMode
	inst.InitialValue = draft.InitialValue
	inst.Balance = draft.Balance
	inst.MaxUsage = draft.MaxUsage
	inst.ExpiresAt = draft.ExpiresAt
	inst.Status = status
	inst.Description = nil
	if draft.Description != "" {
		d := draft.Description
		inst.Description = &d
	}
	if err := h.Instruments.Update(ctx, inst); err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update instrument failed"})
	}
	now := time.Now().UTC()
	h.publishLifecycle(ctx, inst, "UPDATED", now)
	return c.JSON(http.StatusOK, toInstrumentResp(inst, now))
}

// Activate flips the stored status to ACTIVE.
func (h *GiftInstrumentHandler) Activate(c echo.Context) error {
	return h.setStatus(c, model.InstrumentStatusActive, "ACTIVATED")
}

// Deactivate flips the stored status to INACTIVE.  The instrument
// stays listed and can be re-activated later.
func (h *GiftInstrumentHandler) Deactivate(c echo.Context) error {
	return h.setStatus(c, model.InstrumentStatusInactive, "DEACTIVATED")
}

func (h *GiftInstrumentHandler) setStatus(c echo.Context, status, action string) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Instruments.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update status failed"})
	}
	inst, err := h.Instruments.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load instrument failed"})
	}
	now := time.Now().UTC()
	h.publishLifecycle(ctx, inst, action, now)
	return c.JSON(http.StatusOK, toInstrumentResp(inst, now))
}

// Delete soft-deletes an instrument.  The row is kept for audit but
// disappears from every read.
func (h *GiftInstrumentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	inst, err := h.Instruments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load instrument failed"})
	}
	if err := h.Instruments.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrInstrumentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gift instrument not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete instrument failed"})
	}
	inst.Status = model.InstrumentStatusDeleted
	h.publishLifecycle(ctx, inst, "DELETED", time.Now().UTC())
	return c.NoContent(http.StatusNoContent)
}

// publishLifecycle emits a lifecycle event; broker failures are
// ignored so ledger writes never roll back on messaging problems.
func (h *GiftInstrumentHandler) publishLifecycle(ctx context.Context, inst *model.GiftInstrument, action string, now time.Time) {
	_ = queue_publisher.PublishInstrumentLifecycle(ctx, queue.InstrumentLifecycleEvent{
		InstrumentID: inst.ID,
		Code:         inst.Code,
		Action:       action,
		Status:       giftcard.EffectiveStatus(inst, now),
		OccurredAt:   now.Format(time.RFC3339),
	})
}
