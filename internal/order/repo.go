package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("no items in cart")
)

type Repository interface {
	// CommitCart turns every cart item of the user into one order row and
	// clears the cart, as a single transaction. An empty cart returns
	// ErrEmptyCart before anything is written.
	CommitCart(ctx context.Context, userID, paymentMethod string) ([]Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	// UpdateStatus flips the delivery status of one of the user's own
	// orders. An id that exists but belongs to someone else is ErrNotFound.
	UpdateStatus(ctx context.Context, userID, id string, status Status) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) CommitCart(ctx context.Context, userID, paymentMethod string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the cart rows so a concurrent commit or quantity update can't
	// interleave with this unit.
	rows, err := tx.Query(ctx, `
		SELECT c.id, c.product_id, c.quantity, p.price::text
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
		FOR UPDATE OF c
	`, userID)
	if err != nil {
		return nil, err
	}

	type line struct {
		itemID    string
		productID string
		quantity  int
		price     string
	}
	var lines []line
	for rows.Next() {
		var ln line
		if err := rows.Scan(&ln.itemID, &ln.productID, &ln.quantity, &ln.price); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, ln)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	out := make([]Order, 0, len(lines))
	itemIDs := make([]string, 0, len(lines))
	for _, ln := range lines {
		itemIDs = append(itemIDs, ln.itemID)
		price, err := decimal.NewFromString(ln.price)
		if err != nil {
			return nil, err
		}
		o := Order{
			ID:            uuid.NewString(),
			UserID:        userID,
			ProductID:     ln.productID,
			PaymentMethod: paymentMethod,
			Quantity:      ln.quantity,
			// price at commit time, not at add-to-cart time
			TotalAmount: price.Mul(decimal.NewFromInt(int64(ln.quantity))).StringFixed(2),
			Status:      StatusNotDelivered,
			CreatedAt:   now,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders (id, user_id, product_id, payment_method, quantity, total_amount, status, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, o.ID, o.UserID, o.ProductID, o.PaymentMethod, o.Quantity, o.TotalAmount, o.Status, o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}

	// Delete only the rows we locked and converted. A row added by a
	// concurrent request after the locking SELECT stays in the cart.
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, itemIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product_id, payment_method, quantity, total_amount::text, status, created_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.PaymentMethod, &o.Quantity, &o.TotalAmount, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, userID, id string, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $3 WHERE id = $1 AND user_id = $2
	`, id, userID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
