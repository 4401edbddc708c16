package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// ErrAttractionNotFound is returned when an attraction cannot be
// located, or when it exists but belongs to a different owner.
var ErrAttractionNotFound = errors.New("attraction not found")

// AttractionRepo encapsulates all database queries for the attraction
// catalog.  The weekly availability pattern is stored as seven tinyint
// columns and the time-slot list as a JSON array in a TEXT column;
// both are folded into model.Attraction on scan.
type AttractionRepo struct {
	db *sql.DB
}

// NewAttractionRepo returns an AttractionRepo bound to the given database.
func NewAttractionRepo(db *sql.DB) *AttractionRepo { return &AttractionRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning several repositories.
func (r *AttractionRepo) DB() *sql.DB { return r.db }

const attractionColumns = `id, owner_id, name, description, location,
	duration_value, duration_unit, max_capacity, base_price_cents, pricing_mode,
	open_monday, open_tuesday, open_wednesday, open_thursday, open_friday,
	open_saturday, open_sunday, time_slots, status, created_at, updated_at`

// scanAttraction reads one attraction row from a *sql.Row or *sql.Rows.
func scanAttraction(scan func(dest ...any) error) (*model.Attraction, error) {
	var (
		a         model.Attraction
		desc      sql.NullString
		slotsJSON string
	)
	err := scan(
		&a.ID, &a.OwnerID, &a.Name, &desc, &a.Location,
		&a.DurationValue, &a.DurationUnit, &a.MaxCapacity, &a.BasePriceCents, &a.PricingMode,
		&a.Availability.Monday, &a.Availability.Tuesday, &a.Availability.Wednesday,
		&a.Availability.Thursday, &a.Availability.Friday,
		&a.Availability.Saturday, &a.Availability.Sunday,
		&slotsJSON, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		a.Description = &d
	}
	if slotsJSON != "" {
		if err := json.Unmarshal([]byte(slotsJSON), &a.TimeSlots); err != nil {
			return nil, err
		}
	}
	if a.TimeSlots == nil {
		a.TimeSlots = []string{}
	}
	return &a, nil
}

// Create inserts a new attraction.  On success the ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *AttractionRepo) Create(ctx context.Context, a *model.Attraction) error {
	slots, err := json.Marshal(a.TimeSlots)
	if err != nil {
		return err
	}
	const q = `INSERT INTO attractions
		(owner_id, name, description, location, duration_value, duration_unit,
		 max_capacity, base_price_cents, pricing_mode,
		 open_monday, open_tuesday, open_wednesday, open_thursday, open_friday,
		 open_saturday, open_sunday, time_slots, status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		a.OwnerID, a.Name, a.Description, a.Location, a.DurationValue, a.DurationUnit,
		a.MaxCapacity, a.BasePriceCents, a.PricingMode,
		a.Availability.Monday, a.Availability.Tuesday, a.Availability.Wednesday,
		a.Availability.Thursday, a.Availability.Friday,
		a.Availability.Saturday, a.Availability.Sunday,
		string(slots), a.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	// Query back for DB-populated timestamps.
	const sel = "SELECT created_at, updated_at FROM attractions WHERE id = ?"
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an attraction by ID regardless of owner.  It returns
// ErrAttractionNotFound when no row exists.
func (r *AttractionRepo) GetByID(ctx context.Context, id uint64) (*model.Attraction, error) {
	const q = "SELECT " + attractionColumns + " FROM attractions WHERE id = ?"
	a, err := scanAttraction(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttractionNotFound
	}
	return a, err
}

// GetActiveByID fetches an attraction that is offerable to customers.
// Inactive attractions behave as missing for booking purposes.
func (r *AttractionRepo) GetActiveByID(ctx context.Context, id uint64) (*model.Attraction, error) {
	const q = "SELECT " + attractionColumns + " FROM attractions WHERE id = ? AND status = ?"
	a, err := scanAttraction(r.db.QueryRowContext(ctx, q, id, model.AttractionStatusActive).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttractionNotFound
	}
	return a, err
}

// GetByIDAndOwner fetches an attraction only when it belongs to the
// given owner; otherwise ErrAttractionNotFound is returned.
func (r *AttractionRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Attraction, error) {
	const q = "SELECT " + attractionColumns + " FROM attractions WHERE id = ? AND owner_id = ?"
	a, err := scanAttraction(r.db.QueryRowContext(ctx, q, id, ownerID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttractionNotFound
	}
	return a, err
}

// ListActive returns all active attractions ordered by name, for the
// public catalog listing.
func (r *AttractionRepo) ListActive(ctx context.Context) ([]*model.Attraction, error) {
	const q = "SELECT " + attractionColumns + " FROM attractions WHERE status = ? ORDER BY name"
	return r.list(ctx, q, model.AttractionStatusActive)
}

// ListByOwner returns every attraction managed by an owner, active or
// not, ordered by id.
func (r *AttractionRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Attraction, error) {
	const q = "SELECT " + attractionColumns + " FROM attractions WHERE owner_id = ? ORDER BY id"
	return r.list(ctx, q, ownerID)
}

func (r *AttractionRepo) list(ctx context.Context, q string, args ...any) ([]*model.Attraction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Attraction, 0)
	for rows.Next() {
		a, err := scanAttraction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites every editable column of an attraction owned by the
// caller.  ErrAttractionNotFound is returned when the row does not
// exist or belongs to someone else.
func (r *AttractionRepo) Update(ctx context.Context, a *model.Attraction, ownerID uint64) error {
	slots, err := json.Marshal(a.TimeSlots)
	if err != nil {
		return err
	}
	const q = `UPDATE attractions SET
		name=?, description=?, location=?, duration_value=?, duration_unit=?,
		max_capacity=?, base_price_cents=?, pricing_mode=?,
		open_monday=?, open_tuesday=?, open_wednesday=?, open_thursday=?,
		open_friday=?, open_saturday=?, open_sunday=?, time_slots=?, status=?
		WHERE id=? AND owner_id=?`
	res, err := r.db.ExecContext(ctx, q,
		a.Name, a.Description, a.Location, a.DurationValue, a.DurationUnit,
		a.MaxCapacity, a.BasePriceCents, a.PricingMode,
		a.Availability.Monday, a.Availability.Tuesday, a.Availability.Wednesday,
		a.Availability.Thursday, a.Availability.Friday,
		a.Availability.Saturday, a.Availability.Sunday,
		string(slots), a.Status,
		a.ID, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or owned by another user; confirm which.
		if _, err := r.GetByIDAndOwner(ctx, a.ID, ownerID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an attraction owned by the caller.  Attractions with
// existing bookings cannot be removed; ErrConflict is returned so the
// caller can deactivate instead.
func (r *AttractionRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	var bookings uint64
	const qCount = "SELECT COUNT(*) FROM bookings WHERE attraction_id = ?"
	if err := r.db.QueryRowContext(ctx, qCount, id).Scan(&bookings); err != nil {
		return err
	}
	if bookings > 0 {
		return ErrConflict
	}
	const q = "DELETE FROM attractions WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAttractionNotFound
	}
	return nil
}
