package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// ErrInstrumentNotFound is returned when a gift instrument does not
// exist or has been soft-deleted.
var ErrInstrumentNotFound = errors.New("gift instrument not found")

// ErrCodeExhausted is returned when code generation keeps colliding
// with existing codes after several attempts.
var ErrCodeExhausted = errors.New("could not generate a unique gift code")

// codeAttempts bounds the regenerate-on-collision loop.
const codeAttempts = 5

// GiftInstrumentRepo persists gift instruments.  The code column
// carries a unique index; creation regenerates the code on collision
// rather than trusting the generator to be unique.  Soft-deleted rows
// are invisible to every read method.
type GiftInstrumentRepo struct {
	db *sql.DB
}

// NewGiftInstrumentRepo returns a GiftInstrumentRepo bound to the
// given database.
func NewGiftInstrumentRepo(db *sql.DB) *GiftInstrumentRepo { return &GiftInstrumentRepo{db: db} }

const instrumentColumns = `id, code, value_mode, initial_value, balance, max_usage,
	description, status, expires_at, created_by, deleted, created_at, updated_at`

func scanInstrument(scan func(dest ...any) error) (*model.GiftInstrument, error) {
	var (
		inst model.GiftInstrument
		desc sql.NullString
		exp  sql.NullTime
	)
	err := scan(
		&inst.ID, &inst.Code, &inst.ValueMode, &inst.InitialValue, &inst.Balance,
		&inst.MaxUsage, &desc, &inst.Status, &exp, &inst.CreatedBy,
		&inst.Deleted, &inst.CreatedAt, &inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		inst.Description = &d
	}
	if exp.Valid {
		t := exp.Time
		inst.ExpiresAt = &t
	}
	return &inst, nil
}

// Create inserts a new instrument.  The code is produced by genCode
// and re-generated when the unique index reports a collision; after
// codeAttempts collisions ErrCodeExhausted is returned and nothing is
// stored.  On success the ID, Code and timestamps are populated.
func (r *GiftInstrumentRepo) Create(ctx context.Context, inst *model.GiftInstrument, genCode func() (string, error)) error {
	const q = `INSERT INTO gift_instruments
		(code, value_mode, initial_value, balance, max_usage, description,
		 status, expires_at, created_by)
		VALUES (?,?,?,?,?,?,?,?,?)`
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := genCode()
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx, q,
			code, inst.ValueMode, inst.InitialValue, inst.Balance, inst.MaxUsage,
			inst.Description, inst.Status, inst.ExpiresAt, inst.CreatedBy,
		)
		if err != nil {
			if isDuplicateEntry(err) {
				continue
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		inst.ID = uint64(id)
		inst.Code = code
		const sel = "SELECT created_at, updated_at FROM gift_instruments WHERE id = ?"
		return r.db.QueryRowContext(ctx, sel, inst.ID).Scan(&inst.CreatedAt, &inst.UpdatedAt)
	}
	return ErrCodeExhausted
}

// GetByID fetches one instrument, treating soft-deleted rows as absent.
func (r *GiftInstrumentRepo) GetByID(ctx context.Context, id uint64) (*model.GiftInstrument, error) {
	const q = "SELECT " + instrumentColumns + " FROM gift_instruments WHERE id = ? AND deleted = FALSE"
	inst, err := scanInstrument(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstrumentNotFound
	}
	return inst, err
}

// List returns a page of non-deleted instruments, newest first, along
// with the total count for pagination.  Page numbers start at one.
func (r *GiftInstrumentRepo) List(ctx context.Context, page, perPage int) ([]*model.GiftInstrument, uint64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	var total uint64
	const qCount = "SELECT COUNT(*) FROM gift_instruments WHERE deleted = FALSE"
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, 0, err
	}
	const q = "SELECT " + instrumentColumns + ` FROM gift_instruments
		WHERE deleted = FALSE ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out := make([]*model.GiftInstrument, 0, perPage)
	for rows.Next() {
		inst, err := scanInstrument(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update rewrites the editable fields of an instrument.  The code and
// creator never change.  ErrInstrumentNotFound is returned for missing
// or soft-deleted rows.
func (r *GiftInstrumentRepo) Update(ctx context.Context, inst *model.GiftInstrument) error {
	const q = `UPDATE gift_instruments SET
		value_mode=?, initial_value=?, balance=?, max_usage=?, description=?,
		status=?, expires_at=?, updated_at=UTC_TIMESTAMP()
		WHERE id=? AND deleted=FALSE`
	res, err := r.db.ExecContext(ctx, q,
		inst.ValueMode, inst.InitialValue, inst.Balance, inst.MaxUsage, inst.Description,
		inst.Status, inst.ExpiresAt, inst.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SetStatus flips the persisted lifecycle status (activate/deactivate)
// and bumps the modification timestamp.
func (r *GiftInstrumentRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE gift_instruments SET status=?, updated_at=UTC_TIMESTAMP()
		WHERE id=? AND deleted=FALSE`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// SoftDelete flags an instrument as deleted.  The row is kept for
// audit but disappears from every listing regardless of its status.
func (r *GiftInstrumentRepo) SoftDelete(ctx context.Context, id uint64) error {
	const q = `UPDATE gift_instruments SET deleted=TRUE, status=?, updated_at=UTC_TIMESTAMP()
		WHERE id=? AND deleted=FALSE`
	res, err := r.db.ExecContext(ctx, q, model.InstrumentStatusDeleted, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow converts a zero-rows-affected update into
// ErrInstrumentNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInstrumentNotFound
	}
	return nil
}
