package checkout

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock store ---

type mockStore struct {
	tenants  map[string]*Tenant
	products map[string]*Product
	vouchers map[string]*Voucher

	txs   []*Transaction
	items []*TransactionItem

	count         int64
	insertTxErr   error
	insertItemErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants:  make(map[string]*Tenant),
		products: make(map[string]*Product),
		vouchers: make(map[string]*Voucher),
	}
}

func (m *mockStore) TenantByID(_ context.Context, id string) (*Tenant, error) {
	if t, ok := m.tenants[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (m *mockStore) ProductByID(_ context.Context, id string) (*Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *mockStore) VoucherByID(_ context.Context, id string) (*Voucher, error) {
	if v, ok := m.vouchers[id]; ok {
		return v, nil
	}
	return nil, ErrNotFound
}

func (m *mockStore) InsertTransaction(_ context.Context, tx *Transaction) error {
	if m.insertTxErr != nil {
		return m.insertTxErr
	}
	m.txs = append(m.txs, tx)
	return nil
}

func (m *mockStore) InsertItem(_ context.Context, item *TransactionItem) error {
	if m.insertItemErr != nil {
		return m.insertItemErr
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockStore) CountByTenant(_ context.Context, _ string) (int64, error) {
	return m.count, nil
}

func (m *mockStore) ListByTenant(_ context.Context, tenantID string) ([]Transaction, error) {
	var out []Transaction
	for i := len(m.txs) - 1; i >= 0; i-- {
		if m.txs[i].TenantID == tenantID {
			out = append(out, *m.txs[i])
		}
	}
	return out, nil
}

func testProduct(id, title string, price string, stock int) *Product {
	return &Product{
		ID:       id,
		TenantID: "t1",
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
}

// --- Tests ---

func TestValidate_EmptyBasket(t *testing.T) {
	v := NewValidator(newMockStore())

	_, err := v.Validate(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestValidate_InvalidQuantity(t *testing.T) {
	store := newMockStore()
	store.products["p1"] = testProduct("p1", "Widget", "10", 5)
	v := NewValidator(store)

	_, err := v.Validate(context.Background(), []ItemInput{{ProductID: "p1", Quantity: 0}})

	var badQty *InvalidQuantityError
	require.ErrorAs(t, err, &badQty)
	assert.Equal(t, "p1", badQty.ProductID)
}

func TestValidate_UnknownProductWithBadQuantity(t *testing.T) {
	v := NewValidator(newMockStore())

	// Existence wins over quantity when both checks would fail.
	_, err := v.Validate(context.Background(), []ItemInput{{ProductID: "missing", Quantity: 0}})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)
}

func TestValidate_ProductNotFound(t *testing.T) {
	v := NewValidator(newMockStore())

	_, err := v.Validate(context.Background(), []ItemInput{{ProductID: "missing", Quantity: 1}})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)
}

func TestValidate_InsufficientStock(t *testing.T) {
	store := newMockStore()
	store.products["p1"] = testProduct("p1", "Widget", "10", 2)
	v := NewValidator(store)

	_, err := v.Validate(context.Background(), []ItemInput{{ProductID: "p1", Quantity: 3}})

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "Widget", noStock.ProductTitle)
	assert.Equal(t, 3, noStock.Requested)
	assert.Equal(t, 2, noStock.Available)
}

func TestValidate_StopsAtFirstFailure(t *testing.T) {
	store := newMockStore()
	store.products["p1"] = testProduct("p1", "Widget", "10", 0)
	// p2 would also fail, but p1 comes first in request order.
	v := NewValidator(store)

	_, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
	})

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "p1", noStock.ProductID)
}

func TestValidate_CapturesPriceSnapshot(t *testing.T) {
	store := newMockStore()
	store.products["p1"] = testProduct("p1", "Widget", "12.50", 10)
	v := NewValidator(store)

	priced, err := v.Validate(context.Background(), []ItemInput{{ProductID: "p1", Quantity: 4}})
	require.NoError(t, err)
	require.Len(t, priced, 1)

	assert.Equal(t, "Widget", priced[0].ProductTitle)
	assert.True(t, priced[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, priced[0].Subtotal.Equal(decimal.RequireFromString("50")))
}

func TestValidate_ReadOnly(t *testing.T) {
	store := newMockStore()
	store.products["p1"] = testProduct("p1", "Widget", "10", 5)
	v := NewValidator(store)

	_, err := v.Validate(context.Background(), []ItemInput{{ProductID: "p1", Quantity: 5}})
	require.NoError(t, err)

	// The pre-check must not reserve anything.
	assert.Equal(t, 5, store.products["p1"].Stock)
	assert.Empty(t, store.txs)
	assert.Empty(t, store.items)
}
