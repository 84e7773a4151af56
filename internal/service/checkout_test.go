package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/events"
	"github.com/luminastore/lumina/internal/memory"
)

// mockCheckoutStore lets tests control Submit outcomes, e.g. to force
// order number collisions.
type mockCheckoutStore struct {
	submitFn func(ctx context.Context, userID uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error)
}

func (m *mockCheckoutStore) Submit(ctx context.Context, userID uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error) {
	return m.submitFn(ctx, userID, build)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderCreated
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(ctx context.Context, event events.OrderCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func seedProduct(t *testing.T, store *memory.Store, name string, priceCents int32) *domain.Product {
	t.Helper()
	product, err := store.Create(context.Background(), domain.CreateProductParams{
		Name:       name,
		PriceCents: priceCents,
		Category:   "lighting",
	})
	require.NoError(t, err)
	return product
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("creates order, computes total, clears cart", func(t *testing.T) {
		store := memory.New()
		userID := uuid.New()
		pendant := seedProduct(t, store, "Lumina Pendant Light", 12900)
		throw := seedProduct(t, store, "Nordic Wool Throw", 8400)

		require.NoError(t, store.Add(ctx, userID, pendant.ID, 2))
		require.NoError(t, store.Add(ctx, userID, throw.ID, 1))

		publisher := &recordingPublisher{}
		svc := NewCheckoutService(store, store, publisher, nil, nil)

		order, err := svc.Checkout(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, order.UserID)
		assert.Equal(t, int64(2*12900+8400), order.TotalCents)
		require.Len(t, order.Items, 2)
		assert.Equal(t, "Lumina Pendant Light", order.Items[0].ProductName)
		assert.Equal(t, int32(12900), order.Items[0].PriceCents)
		assert.Equal(t, int32(2), order.Items[0].Quantity)

		items, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, items, "cart must be cleared after checkout")

		require.Len(t, publisher.events, 1)
		assert.Equal(t, order.OrderNumber, publisher.events[0].OrderNumber)
		assert.Equal(t, order.TotalCents, publisher.events[0].TotalCents)
	})

	t.Run("empty cart fails and creates nothing", func(t *testing.T) {
		store := memory.New()
		svc := NewCheckoutService(store, store, nil, nil, nil)

		_, err := svc.Checkout(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.EEMPTYCART, domain.ErrorCode(err))
		assert.Empty(t, store.Orders())
	})

	t.Run("unresolvable product aborts checkout and keeps cart intact", func(t *testing.T) {
		store := memory.New()
		userID := uuid.New()
		lamp := seedProduct(t, store, "Geometric Table Lamp", 11500)
		vase := seedProduct(t, store, "Ceramic Void Vase", 4500)

		require.NoError(t, store.Add(ctx, userID, lamp.ID, 1))
		require.NoError(t, store.Add(ctx, userID, vase.ID, 1))
		store.DeleteProduct(ctx, vase.ID)

		svc := NewCheckoutService(store, store, nil, nil, nil)

		_, err := svc.Checkout(ctx, userID)
		require.Error(t, err)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
		assert.Empty(t, store.Orders())

		items, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, items, 2, "failed checkout must not modify the cart")
	})

	t.Run("retries on order number collision", func(t *testing.T) {
		userID := uuid.New()
		attempts := 0
		store := &mockCheckoutStore{
			submitFn: func(ctx context.Context, u uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error) {
				attempts++
				if attempts < 3 {
					return nil, domain.Conflict("test", "order number already in use")
				}
				return build([]domain.LineItem{{ProductID: uuid.New(), Quantity: 1}})
			},
		}
		catalog := &mockCatalog{
			resolveFn: func(ctx context.Context, p uuid.UUID) (*domain.Product, error) {
				return &domain.Product{ID: p, Name: "Minimalist Desk Organizer", PriceCents: 7500}, nil
			},
		}

		svc := NewCheckoutService(store, catalog, nil, nil, nil)

		order, err := svc.Checkout(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, int64(7500), order.TotalCents)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		store := &mockCheckoutStore{
			submitFn: func(ctx context.Context, u uuid.UUID, build func(items []domain.LineItem) (*domain.Order, error)) (*domain.Order, error) {
				return nil, domain.Conflict("test", "order number already in use")
			},
		}

		svc := NewCheckoutService(store, &mockCatalog{}, nil, nil, nil)

		_, err := svc.Checkout(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	})

	t.Run("publish failure does not fail the checkout", func(t *testing.T) {
		store := memory.New()
		userID := uuid.New()
		lamp := seedProduct(t, store, "Geometric Table Lamp", 11500)
		require.NoError(t, store.Add(ctx, userID, lamp.ID, 1))

		publisher := &recordingPublisher{err: context.DeadlineExceeded}
		svc := NewCheckoutService(store, store, publisher, nil, nil)

		order, err := svc.Checkout(ctx, userID)
		require.NoError(t, err)
		assert.NotEmpty(t, order.OrderNumber)
		assert.Len(t, store.Orders(), 1)
	})
}

func TestCheckout_DoubleSubmit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	userID := uuid.New()
	chair := seedProduct(t, store, "Aeon Lounge Chair", 89000)
	require.NoError(t, store.Add(ctx, userID, chair.ID, 1))

	svc := NewCheckoutService(store, store, nil, nil, nil)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Checkout(ctx, userID)
		}(i)
	}
	wg.Wait()

	// Exactly one submission wins; the loser observes the cleared cart.
	var successes, emptyCart int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case domain.ErrorCode(err) == domain.EEMPTYCART:
			emptyCart++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, emptyCart)
	assert.Len(t, store.Orders(), 1)
}

func TestConcurrentAdds_MergeQuantities(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	userID := uuid.New()
	vase := seedProduct(t, store, "Ceramic Void Vase", 4500)

	svc := NewCartService(store, store, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, svc.AddItem(ctx, userID, vase.ID))
		}()
	}
	wg.Wait()

	items, err := store.Get(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1, "concurrent adds must merge into one line item")
	assert.Equal(t, int32(2), items[0].Quantity)
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ELEVA-\d{8}-[A-HJ-NP-Z2-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	// 100 draws from a 32^6 space should never collide.
	assert.Len(t, seen, 100)
}
