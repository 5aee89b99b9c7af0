package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the Postgres-backed Store.
type Repo struct {
	DB *pgxpool.Pool
}

var _ Store = (*Repo)(nil)

const uniqueViolation = "23505"

func (r *Repo) TenantByID(ctx context.Context, id string) (*Tenant, error) {
	var t Tenant
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, tenant_code, created_at
		FROM tenants WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.TenantCode, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ProductByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, tenant_id, title, price, stock, is_active, created_at, updated_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.TenantID, &p.Title, &p.Price, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) VoucherByID(ctx context.Context, id string) (*Voucher, error) {
	var v Voucher
	err := r.DB.QueryRow(ctx, `
		SELECT id, tenant_id, code, name, discount_type, discount_amount, is_active
		FROM vouchers WHERE id = $1`, id).
		Scan(&v.ID, &v.TenantID, &v.Code, &v.Name, &v.DiscountType, &v.DiscountAmount, &v.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) InsertTransaction(ctx context.Context, tx *Transaction) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO transactions
			(id, tenant_id, code, payment_method, subtotal, discount, total,
			 voucher_id, male_count, female_count, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		tx.ID, tx.TenantID, tx.Code, tx.PaymentMethod, tx.Subtotal, tx.Discount, tx.Total,
		tx.VoucherID, tx.MaleCount, tx.FemaleCount, tx.Description, tx.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateCode
	}
	return err
}

func (r *Repo) InsertItem(ctx context.Context, item *TransactionItem) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO transaction_items
			(id, transaction_id, product_id, product_title, product_price, quantity, subtotal)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		item.ID, item.TransactionID, item.ProductID, item.ProductTitle,
		item.ProductPrice, item.Quantity, item.Subtotal,
	)
	return err
}

func (r *Repo) CountByTenant(ctx context.Context, tenantID string) (int64, error) {
	var n int64
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE tenant_id = $1`, tenantID).Scan(&n)
	return n, err
}

// ListByTenant returns the tenant's transactions newest first, each
// with its items attached.
func (r *Repo) ListByTenant(ctx context.Context, tenantID string) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, tenant_id, code, payment_method, subtotal, discount, total,
		       voucher_id, male_count, female_count, description, created_at
		FROM transactions
		WHERE tenant_id = $1
		ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	ids := make([]string, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Code, &t.PaymentMethod,
			&t.Subtotal, &t.Discount, &t.Total,
			&t.VoucherID, &t.MaleCount, &t.FemaleCount, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return txs, nil
	}

	itemRows, err := r.DB.Query(ctx, `
		SELECT id, transaction_id, product_id, product_title, product_price, quantity, subtotal
		FROM transaction_items
		WHERE transaction_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list transaction items: %w", err)
	}
	defer itemRows.Close()

	byTx := make(map[string][]TransactionItem, len(txs))
	for itemRows.Next() {
		var it TransactionItem
		if err := itemRows.Scan(&it.ID, &it.TransactionID, &it.ProductID,
			&it.ProductTitle, &it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, err
		}
		byTx[it.TransactionID] = append(byTx[it.TransactionID], it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range txs {
		txs[i].Items = byTx[txs[i].ID]
	}
	return txs, nil
}
