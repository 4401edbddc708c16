package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/model"
	"github.com/iliyamo/attraction-reservation/internal/queue"
	"github.com/iliyamo/attraction-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/attraction-reservation/internal/service"
	"github.com/iliyamo/attraction-reservation/internal/workflow"
)

// CounterSaleHandler records immediate on-site sales at the register.
// Each POST is one complete sale; the counter-sale flow validates the
// fields in the same order a cashier would enter them.
type CounterSaleHandler struct {
	Attractions *repository.AttractionRepo
	Purchases   *repository.PurchaseRepo
}

func NewCounterSaleHandler(ar *repository.AttractionRepo, pr *repository.PurchaseRepo) *CounterSaleHandler {
	return &CounterSaleHandler{Attractions: ar, Purchases: pr}
}

type counterSaleReq struct {
	AttractionID  uint64 `json:"attraction_id"`
	Quantity      uint32 `json:"quantity"`
	DiscountCents uint32 `json:"discount_cents"`
	CustomerName  string `json:"customer_name"`
	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`
}

type purchaseResp struct {
	ID               uint64 `json:"id"`
	AttractionID     uint64 `json:"attraction_id"`
	AttractionName   string `json:"attraction_name"`
	CustomerName     string `json:"customer_name"`
	Quantity         uint32 `json:"quantity"`
	Status           string `json:"status"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	DiscountCents    uint32 `json:"discount_cents"`
	PaymentMethod    string `json:"payment_method"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at"`
}

func toPurchaseResp(p *model.Purchase) purchaseResp {
	return purchaseResp{
		ID:               p.ID,
		AttractionID:     p.AttractionID,
		AttractionName:   p.AttractionName,
		CustomerName:     p.CustomerName,
		Quantity:         p.Quantity,
		Status:           p.Status,
		TotalAmountCents: p.TotalAmountCents,
		DiscountCents:    p.DiscountCents,
		PaymentMethod:    p.PaymentMethod,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create records one counter sale.
func (h *CounterSaleHandler) Create(c echo.Context) error {
	var req counterSaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AttractionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "required", "field": "attraction_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Attractions.GetActiveByID(ctx, req.AttractionID)
	if err != nil {
		if errors.Is(err, repository.ErrAttractionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "attraction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attraction failed"})
	}

	sale := workflow.NewCounterSale()
	sale.SelectItem(a)
	if req.Quantity > 0 {
		if err := sale.SetQuantity(req.Quantity); err != nil {
			if handled, resp := validationResponse(c, err); handled {
				return resp
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if err := sale.SetDiscount(req.DiscountCents); err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sale.SetCustomerName(req.CustomerName)
	sale.SetNotes(req.Notes)
	m, ok := workflow.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment method", "field": "payment_method"})
	}
	if err := sale.SelectPayment(m); err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	committed, err := sale.Complete(ctx, h.Purchases, time.Now().UTC())
	if err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		switch {
		case errors.Is(err, workflow.ErrNoItemSelected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no item selected"})
		case errors.Is(err, workflow.ErrCommitInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": "commit already in progress"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit purchase failed"})
		}
	}

	_ = queue_publisher.PublishPurchaseCompleted(ctx, queue.PurchaseCompletedEvent{
		PurchaseID:       committed.ID,
		AttractionID:     committed.AttractionID,
		AttractionName:   committed.AttractionName,
		CustomerName:     committed.CustomerName,
		Quantity:         committed.Quantity,
		TotalAmountCents: committed.TotalAmountCents,
		DiscountCents:    committed.DiscountCents,
		PaymentMethod:    committed.PaymentMethod,
		CompletedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toPurchaseResp(committed))
}

// List returns purchases newest first, optionally filtered with
// ?attraction_id=.
func (h *CounterSaleHandler) List(c echo.Context) error {
	var attractionID uint64
	if q := c.QueryParam("attraction_id"); q != "" {
		n, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid attraction_id"})
		}
		attractionID = n
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Purchases.List(ctx, attractionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list purchases failed"})
	}
	out := make([]purchaseResp, 0, len(items))
	for _, p := range items {
		out = append(out, toPurchaseResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"purchases": out})
}

// Get returns one purchase by id.
func (h *CounterSaleHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Purchases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "purchase not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load purchase failed"})
	}
	return c.JSON(http.StatusOK, toPurchaseResp(p))
}
