package exchange

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRepliedMarker(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	replied, err := s.IsReplied(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, replied)

	require.NoError(t, s.MarkReplied(ctx, "n1"))

	replied, err = s.IsReplied(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, replied)

	// markers are per notification
	replied, err = s.IsReplied(ctx, "n2")
	require.NoError(t, err)
	assert.False(t, replied)
}

func TestMemoryStoreRetiredSlot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.MarkRetired(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, first)

	// second claim loses
	second, err := s.MarkRetired(ctx, "n1")
	require.NoError(t, err)
	assert.False(t, second)

	// releasing the slot makes it claimable again
	require.NoError(t, s.ClearRetired(ctx, "n1"))
	reclaimed, err := s.MarkRetired(ctx, "n1")
	require.NoError(t, err)
	assert.True(t, reclaimed)
}

func TestMemoryStoreConcurrentClaims(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const claimers = 16
	results := make(chan bool, claimers)
	for i := 0; i < claimers; i++ {
		go func() {
			ok, err := s.MarkRetired(ctx, "n1")
			assert.NoError(t, err)
			results <- ok
		}()
	}

	winners := 0
	for i := 0; i < claimers; i++ {
		if <-results {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
}
