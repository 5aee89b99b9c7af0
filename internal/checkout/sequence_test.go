package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "ROOMS - ABC0001", FormatCode("ABC", 1))
	assert.Equal(t, "ROOMS - XY0042", FormatCode("XY", 42))
	// Sequences past four digits widen instead of wrapping.
	assert.Equal(t, "ROOMS - ABC10001", FormatCode("ABC", 10001))
}

func TestSequenceAllocator_CountFallback(t *testing.T) {
	store := newMockStore()
	store.count = 7
	// No Redis wired: the allocator degrades to count+1.
	alloc := &SequenceAllocator{Counts: store}

	code, err := alloc.Next(context.Background(), &Tenant{ID: "t1", TenantCode: "ABC"})
	require.NoError(t, err)
	assert.Equal(t, "ROOMS - ABC0008", code)
}

func TestSequenceAllocator_FirstTransaction(t *testing.T) {
	store := newMockStore()
	alloc := &SequenceAllocator{Counts: store}

	code, err := alloc.Next(context.Background(), &Tenant{ID: "t1", TenantCode: "ABC"})
	require.NoError(t, err)
	assert.Equal(t, "ROOMS - ABC0001", code)
}
