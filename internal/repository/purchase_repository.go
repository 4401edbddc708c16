package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/attraction-reservation/internal/model"
)

// ErrPurchaseNotFound is returned when a purchase cannot be located.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseRepo persists counter sales.  Like bookings, purchases are
// written once and deduplicated on their idempotency key.
type PurchaseRepo struct {
	db *sql.DB
}

// NewPurchaseRepo returns a PurchaseRepo bound to the given database.
func NewPurchaseRepo(db *sql.DB) *PurchaseRepo { return &PurchaseRepo{db: db} }

const purchaseColumns = `id, attraction_id, attraction_name, customer_name,
	quantity, status, total_amount_cents, discount_cents,
	payment_method, notes, idempotency_key, created_at`

func scanPurchase(scan func(dest ...any) error) (*model.Purchase, error) {
	var p model.Purchase
	err := scan(
		&p.ID, &p.AttractionID, &p.AttractionName, &p.CustomerName,
		&p.Quantity, &p.Status, &p.TotalAmountCents, &p.DiscountCents,
		&p.PaymentMethod, &p.Notes, &p.IdempotencyKey, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePurchase inserts a confirmed purchase, returning the earlier
// record when the idempotency key was already committed.  This
// satisfies the workflow.PurchaseStore contract.
func (r *PurchaseRepo) CreatePurchase(ctx context.Context, p *model.Purchase) (*model.Purchase, error) {
	const q = `INSERT INTO purchases
		(attraction_id, attraction_name, customer_name, quantity, status,
		 total_amount_cents, discount_cents, payment_method, notes, idempotency_key)
		VALUES (?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.AttractionID, p.AttractionName, p.CustomerName, p.Quantity, p.Status,
		p.TotalAmountCents, p.DiscountCents, p.PaymentMethod, p.Notes, p.IdempotencyKey,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return r.GetByIdempotencyKey(ctx, p.IdempotencyKey)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one purchase, returning ErrPurchaseNotFound when the
// row does not exist.
func (r *PurchaseRepo) GetByID(ctx context.Context, id uint64) (*model.Purchase, error) {
	const q = "SELECT " + purchaseColumns + " FROM purchases WHERE id = ?"
	p, err := scanPurchase(r.db.QueryRowContext(ctx, q, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	return p, err
}

// GetByIdempotencyKey fetches the purchase committed under a sale key.
func (r *PurchaseRepo) GetByIdempotencyKey(ctx context.Context, key string) (*model.Purchase, error) {
	const q = "SELECT " + purchaseColumns + " FROM purchases WHERE idempotency_key = ?"
	p, err := scanPurchase(r.db.QueryRowContext(ctx, q, key).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPurchaseNotFound
	}
	return p, err
}

// List returns purchases newest first, optionally limited to one
// attraction when attractionID is non-zero.
func (r *PurchaseRepo) List(ctx context.Context, attractionID uint64) ([]*model.Purchase, error) {
	q := "SELECT " + purchaseColumns + " FROM purchases"
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
	out := make([]*model.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
