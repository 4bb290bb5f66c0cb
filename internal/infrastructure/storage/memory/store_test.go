package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/product-cart/internal/domain/cart"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, cart.ErrNotFound)

	value := []byte(`{"1":2}`)
	require.NoError(t, s.Set(ctx, "cart", value))
	value[2] = 'X'

	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"1":2}`, string(got))

	require.NoError(t, s.Delete(ctx, "cart"))
	_, err = s.Get(ctx, "cart")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewStore().Set(ctx, "cart", []byte("{}")), context.Canceled)
}

func TestStoreBacksContainer(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	c := cart.NewContainer(s, "cart", nil)
	require.NoError(t, c.Add(ctx, "3"))
	require.NoError(t, c.Add(ctx, "3"))
	require.NoError(t, c.Add(ctx, "7"))

	reloaded := cart.NewContainer(s, "cart", nil)
	require.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, cart.Snapshot{"3": 2, "7": 1}, reloaded.Snapshot())
}
