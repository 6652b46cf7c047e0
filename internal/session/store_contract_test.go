package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every Store implementation shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		st := newStore(t)
		_, err := st.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = st.GetByShop(ctx, "nope.myshopify.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Create(ctx, "sid-1", Session{
			Shop: "a.myshopify.com", AccessToken: "tok-1", Scope: "read_products",
		}))

		got, err := st.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Equal(t, "sid-1", got.ID)
		assert.Equal(t, "a.myshopify.com", got.Shop)
		assert.Equal(t, "tok-1", got.AccessToken)
		assert.Equal(t, "read_products", got.Scope)
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("last write wins", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Create(ctx, "sid-1", Session{Shop: "a.myshopify.com", AccessToken: "old"}))
		require.NoError(t, st.Create(ctx, "sid-1", Session{Shop: "a.myshopify.com", AccessToken: "new", Scope: "write_orders"}))

		got, err := st.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Equal(t, "new", got.AccessToken)
		assert.Equal(t, "write_orders", got.Scope)
	})

	t.Run("latest session by shop", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Create(ctx, "sid-1", Session{Shop: "a.myshopify.com", AccessToken: "first"}))
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, st.Create(ctx, "sid-2", Session{Shop: "a.myshopify.com", AccessToken: "second"}))
		require.NoError(t, st.Create(ctx, "sid-3", Session{Shop: "b.myshopify.com", AccessToken: "other"}))

		got, err := st.GetByShop(ctx, "a.myshopify.com")
		require.NoError(t, err)
		assert.Equal(t, "sid-2", got.ID)
		assert.Equal(t, "second", got.AccessToken)
	})

	t.Run("delete shop", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Create(ctx, "sid-1", Session{Shop: "a.myshopify.com", AccessToken: "x"}))
		require.NoError(t, st.Create(ctx, "sid-2", Session{Shop: "a.myshopify.com", AccessToken: "y"}))
		require.NoError(t, st.Create(ctx, "sid-3", Session{Shop: "b.myshopify.com", AccessToken: "z"}))

		require.NoError(t, st.DeleteShop(ctx, "a.myshopify.com"))
		require.NoError(t, st.DeleteShop(ctx, "a.myshopify.com"))

		_, err := st.Get(ctx, "sid-1")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.Get(ctx, "sid-2")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = st.GetByShop(ctx, "a.myshopify.com")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := st.Get(ctx, "sid-3")
		require.NoError(t, err)
		assert.Equal(t, "b.myshopify.com", got.Shop)
	})
}
