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

// BookingHandler drives the reservation wizard server-side.  The POST
// endpoint accepts one complete selection, walks it through every
// wizard guard and commits it atomically; any guard failure surfaces as
// a 400 naming the failing field and nothing is persisted.
type BookingHandler struct {
	Attractions *repository.AttractionRepo
	Bookings    *repository.BookingRepo
}

func NewBookingHandler(ar *repository.AttractionRepo, br *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Attractions: ar, Bookings: br}
}

type bookingReq struct {
	AttractionID  uint64 `json:"attraction_id"`
	Date          string `json:"date"` // YYYY-MM-DD
	Time          string `json:"time"` // HH:MM, must match an offered slot
	Participants  uint32 `json:"participants"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

type bookingResp struct {
	ID               uint64 `json:"id"`
	AttractionID     uint64 `json:"attraction_id"`
	AttractionName   string `json:"attraction_name"`
	CustomerFirst    string `json:"customer_first"`
	CustomerLast     string `json:"customer_last"`
	CustomerEmail    string `json:"customer_email"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	ReservedDate     string `json:"reserved_date"`
	ReservedTime     string `json:"reserved_time"`
	Participants     uint32 `json:"participants"`
	Status           string `json:"status"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	PaymentMethod    string `json:"payment_method"`
	DurationLabel    string `json:"duration_label"`
	Step             string `json:"step,omitempty"`
	CreatedAt        string `json:"created_at"`
}

func toBookingResp(b *model.Booking, step string) bookingResp {
	return bookingResp{
		ID:               b.ID,
		AttractionID:     b.AttractionID,
		AttractionName:   b.AttractionName,
		CustomerFirst:    b.CustomerFirst,
		CustomerLast:     b.CustomerLast,
		CustomerEmail:    b.CustomerEmail,
		CustomerPhone:    b.CustomerPhone,
		ReservedDate:     b.ReservedDate.Format("2006-01-02"),
		ReservedTime:     b.ReservedTime,
		Participants:     b.Participants,
		Status:           b.Status,
		TotalAmountCents: b.TotalAmountCents,
		PaymentMethod:    b.PaymentMethod,
		DurationLabel:    b.DurationLabel,
		Step:             step,
		CreatedAt:        b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create walks one reservation through the wizard and commits it.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.AttractionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "required", "field": "attraction_id"})
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD", "field": "date"})
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

	// Replay the selection through the wizard so every entry guard
	// applies exactly as in the interactive flow.
	wiz := workflow.NewReservation(a)
	steps := []func() error{
		func() error { return wiz.SelectDate(date) },
		func() error { return wiz.SelectTime(req.Time) },
		wiz.Advance,
		func() error {
			if req.Participants == 0 {
				return nil // keep the wizard default of one
			}
			return wiz.SetParticipants(req.Participants)
		},
		wiz.Advance,
		func() error { return wiz.SetCustomer(req.FirstName, req.LastName, req.Email, req.Phone) },
		wiz.Advance,
		func() error {
			m, ok := workflow.ParsePaymentMethod(req.PaymentMethod)
			if !ok {
				return &workflow.FieldError{Field: "payment_method", Reason: "unknown payment method"}
			}
			return wiz.SelectPayment(m)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if handled, resp := validationResponse(c, err); handled {
				return resp
			}
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	committed, err := wiz.Complete(ctx, h.Bookings, time.Now().UTC())
	if err != nil {
		if handled, resp := validationResponse(c, err); handled {
			return resp
		}
		if errors.Is(err, workflow.ErrCommitInFlight) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "commit already in progress"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit booking failed"})
	}

	// Broker failures must not undo a committed booking.
	_ = queue_publisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:        committed.ID,
		AttractionID:     committed.AttractionID,
		AttractionName:   committed.AttractionName,
		CustomerName:     committed.CustomerFirst + " " + committed.CustomerLast,
		CustomerEmail:    committed.CustomerEmail,
		ReservedDate:     committed.ReservedDate.Format("2006-01-02"),
		ReservedTime:     committed.ReservedTime,
		Participants:     committed.Participants,
		TotalAmountCents: committed.TotalAmountCents,
		PaymentMethod:    committed.PaymentMethod,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toBookingResp(committed, wiz.Step().String()))
}

// List returns bookings newest first, optionally filtered with
// ?attraction_id=.
func (h *BookingHandler) List(c echo.Context) error {
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

	items, err := h.Bookings.List(ctx, attractionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	out := make([]bookingResp, 0, len(items))
	for _, b := range items {
		out = append(out, toBookingResp(b, ""))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get returns one booking by id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return c.JSON(http.StatusOK, toBookingResp(b, ""))
}
