package inventory

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Gateway guarding a stock map with a mutex.
// Used in tests and anywhere a database-backed gateway is not wired.
type Memory struct {
	mu    sync.Mutex
	stock map[string]int
}

var _ Gateway = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{stock: make(map[string]int)}
}

// Set replaces the stock count for a product.
func (g *Memory) Set(productID string, stock int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stock[productID] = stock
}

// Stock returns the current stock count for a product.
func (g *Memory) Stock(productID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stock[productID]
}

func (g *Memory) TryReserve(_ context.Context, productID string, qty int) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("reserve %s: quantity must be positive, got %d", productID, qty)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	have, ok := g.stock[productID]
	if !ok || have < qty {
		return false, nil
	}
	g.stock[productID] = have - qty
	return true, nil
}
