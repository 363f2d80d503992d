package cart

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopease/internal/domain/product"
)

func newTestProduct(id, price string) product.Product {
	return product.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString(price),
		Category: product.CategoryHome,
		Stock:    100,
	}
}

// requireConsistent recomputes the totals from the line items and compares
// them with the store's derived values.
func requireConsistent(t *testing.T, s *Store) {
	t.Helper()

	wantItems := 0
	wantPrice := decimal.Zero
	for _, li := range s.Items() {
		require.GreaterOrEqual(t, li.Quantity, 1)
		wantItems += li.Quantity
		wantPrice = wantPrice.Add(li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
	}
	require.Equal(t, wantItems, s.TotalItems())
	require.True(t, wantPrice.Equal(s.TotalPrice()), "want %s, got %s", wantPrice, s.TotalPrice())
}

func TestAddToCart_MergesQuantity(t *testing.T) {
	s := NewStore()
	p := newTestProduct("p1", "10.00")

	require.NoError(t, s.AddToCart(p, 2))
	require.NoError(t, s.AddToCart(p, 3))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].Product.ID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, s.TotalItems())
	assert.True(t, decimal.RequireFromString("50").Equal(s.TotalPrice()))
}

func TestAddToCart_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("b", "1"), 1))
	require.NoError(t, s.AddToCart(newTestProduct("a", "1"), 1))
	require.NoError(t, s.AddToCart(newTestProduct("b", "1"), 1))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Product.ID)
	assert.Equal(t, "a", items[1].Product.ID)
}

func TestAddToCart_InvalidQuantity(t *testing.T) {
	s := NewStore()

	for _, q := range []int{0, -1} {
		err := s.AddToCart(newTestProduct("p1", "10"), q)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.True(t, s.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("p1", "2.50"), 1))
	require.NoError(t, s.AddToCart(newTestProduct("p2", "4.00"), 1))

	s.UpdateQuantity("p1", 4)
	assert.Equal(t, 4, s.Quantity("p1"))
	assert.Equal(t, 5, s.TotalItems())
	assert.True(t, decimal.RequireFromString("14").Equal(s.TotalPrice()))

	s.UpdateQuantity("p1", 0)
	assert.Equal(t, 0, s.Quantity("p1"))
	assert.Equal(t, 1, s.Len())

	s.UpdateQuantity("p2", -3)
	assert.True(t, s.IsEmpty())
}

func TestUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("p1", "3.00"), 2))
	before := s.Snapshot()

	s.UpdateQuantity("missing", 7)
	s.RemoveFromCart("missing")
	s.UpdateQuantity("missing", 0)

	after := s.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.TotalItems, after.TotalItems)
	assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
}

func TestRemoveFromCart_Idempotent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("p1", "3.00"), 2))
	require.NoError(t, s.AddToCart(newTestProduct("p2", "1.00"), 1))

	s.RemoveFromCart("p1")
	s.RemoveFromCart("p1")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.TotalItems())
}

func TestClearCart(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("p1", "3.00"), 2))

	s.ClearCart()

	assert.True(t, s.IsEmpty())
	assert.Zero(t, s.TotalItems())
	assert.True(t, decimal.Zero.Equal(s.TotalPrice()))
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(newTestProduct("p1", "3.00"), 2))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.Quantity("p1"))
}

func TestTotalsMatchLineItems_RandomOperations(t *testing.T) {
	products := []product.Product{
		newTestProduct("p1", "29.99"),
		newTestProduct("p2", "0.10"),
		newTestProduct("p3", "1299.99"),
		newTestProduct("p4", "19.99"),
	}
	rnd := rand.New(rand.NewPCG(1, 2))
	s := NewStore()

	for range 500 {
		p := products[rnd.IntN(len(products))]
		switch rnd.IntN(4) {
		case 0:
			require.NoError(t, s.AddToCart(p, 1+rnd.IntN(5)))
		case 1:
			s.UpdateQuantity(p.ID, rnd.IntN(6)-1)
		case 2:
			s.RemoveFromCart(p.ID)
		case 3:
			s.UpdateQuantity("unknown", rnd.IntN(3))
		}
		requireConsistent(t, s)
	}
}

func TestConcurrentMutations(t *testing.T) {
	s := NewStore()
	p := newTestProduct("p1", "0.01")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				_ = s.AddToCart(p, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, s.TotalItems())
	assert.True(t, decimal.RequireFromString("10").Equal(s.TotalPrice()))
	requireConsistent(t, s)
}
