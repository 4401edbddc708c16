package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// ErrBookingNotFound is returned when a booking cannot be located.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo persists committed reservations.  Bookings are written
// once by the reservation workflow and never mutated here; the
// idempotency_key unique index makes the insert safe against repeated
// commits of the same workflow instance.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, attraction_id, attraction_name,
	customer_first, customer_last, customer_email, customer_phone,
	reserved_date, reserved_time, participants, status,
	total_amount_cents, payment_method, duration_label,
	idempotency_key, created_at`

func scanBooking(scan func(dest ...any) error) (*model.Booking, error) {
	var b model.Booking
	err := scan(
		&b.ID, &b.AttractionID, &b.AttractionName,
		&b.CustomerFirst, &b.CustomerLast, &b.CustomerEmail, &b.CustomerPhone,
		&b.ReservedDate, &b.ReservedTime, &b.Participants, &b.Status,
		&b.TotalAmountCents, &b.PaymentMethod, &b.DurationLabel,
		&b.IdempotencyKey, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBooking inserts a confirmed booking.  When the idempotency key
// has already been committed, the previously stored record is returned
// instead of creating a second row.  This satisfies the
// workflow.BookingStore contract.
func (r *BookingRepo) CreateBooking(ctx context.Context, b *model.Booking) (*model.Booking, error) {
	const q = `INSERT INTO bookings
		(attraction_id, attraction_name, customer_first, customer_last,
		 customer_email, customer_phone, reserved_date, reserved_time,
		 participants, status, total_amount_cents, payment_method,
		 duration_label, idempotency_key)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		b.AttractionID, b.AttractionName, b.CustomerFirst, b.CustomerLast,
		b.CustomerEmail, b.CustomerPhone, b.ReservedDate, b.ReservedTime,
		b.Participants, b.Status, b.TotalAmountCents, b.PaymentMethod,
		b.DurationLabel, b.IdempotencyKey,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return r.GetByIdempotencyKey(ctx, b.IdempotencyKey)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one booking, returning ErrBookingNotFound when the
// row does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE id = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// GetByIdempotencyKey fetches the booking committed under a workflow
// instance key.
func (r *BookingRepo) GetByIdempotencyKey(ctx context.Context, key string) (*model.Booking, error) {
	const q = "SELECT " + bookingColumns + " FROM bookings WHERE idempotency_key = ?"
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, key).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// List returns bookings newest first.  When attractionID is non-zero
// the result is limited to that attraction.
func (r *BookingRepo) List(ctx context.Context, attractionID uint64) ([]*model.Booking, error) {
	q := "SELECT " + bookingColumns + " FROM bookings"
	args := []any{}
	if attractionID != 0 {
		q += " WHERE attraction_id = ?"
		args = append(args, attractionID)
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
