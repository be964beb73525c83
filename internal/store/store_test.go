package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/models"
	"mahzskin_back_end/internal/storage"
)

// fakeStore implémente CartStore et WishlistStore en mémoire,
// avec un mode panne pour tester les mutations refusées.
type fakeStore struct {
	carts     map[string][]models.CartLine
	wishlists map[string][]models.WishlistItem
	failing   bool
}

var errBackend = errors.New("backend indisponible")

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:     make(map[string][]models.CartLine),
		wishlists: make(map[string][]models.WishlistItem),
	}
}

func (f *fakeStore) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	if f.failing {
		return nil, errBackend
	}
	return append([]models.CartLine{}, f.carts[userID]...), nil
}

func (f *fakeStore) AddItem(ctx context.Context, userID string, product models.Product, qty int) error {
	if f.failing {
		return errBackend
	}
	if qty < 1 {
		return storage.ErrInvalidQuantity
	}
	cart := f.carts[userID]
	for i := range cart {
		if cart[i].ProductID == product.ID.String() {
			cart[i].Quantity += qty
			f.carts[userID] = cart
			return nil
		}
	}
	f.carts[userID] = append(cart, models.CartLine{
		LineID:    gocql.TimeUUID().String(),
		ProductID: product.ID.String(),
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  qty,
	})
	return nil
}

func (f *fakeStore) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	if f.failing {
		return errBackend
	}
	if qty < 1 {
		return storage.ErrInvalidQuantity
	}
	cart := f.carts[userID]
	for i := range cart {
		if cart[i].ProductID == productID {
			cart[i].Quantity = qty
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) RemoveItem(ctx context.Context, userID, productID string) error {
	if f.failing {
		return errBackend
	}
	cart := f.carts[userID]
	filtered := cart[:0]
	for _, line := range cart {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	f.carts[userID] = filtered
	return nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID string) error {
	if f.failing {
		return errBackend
	}
	delete(f.carts, userID)
	return nil
}

func (f *fakeStore) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	if f.failing {
		return nil, errBackend
	}
	return append([]models.WishlistItem{}, f.wishlists[userID]...), nil
}

func (f *fakeStore) ToggleWishlist(ctx context.Context, userID string, product models.Product) (bool, error) {
	if f.failing {
		return false, errBackend
	}
	wl := f.wishlists[userID]
	for i, item := range wl {
		if item.Product.ID == product.ID {
			f.wishlists[userID] = append(wl[:i], wl[i+1:]...)
			return false, nil
		}
	}
	f.wishlists[userID] = append(wl, models.WishlistItem{
		EntryID: gocql.TimeUUID().String(),
		AddedAt: time.Now(),
		Product: product,
	})
	return true, nil
}

func (f *fakeStore) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if f.failing {
		return false, errBackend
	}
	for _, item := range f.wishlists[userID] {
		if item.Product.ID.String() == productID {
			return true, nil
		}
	}
	return false, nil
}

func testRates() *currency.Service {
	svc := currency.NewService(nil, func(ctx context.Context) (map[string]float64, error) {
		return map[string]float64{"NGN": 1, "USD": 0.0007}, nil
	}, nil)
	svc.LoadRates(context.Background())
	return svc
}

func newTestStore() (*Store, *fakeStore) {
	fake := newFakeStore()
	return New(fake, fake, testRates(), nil), fake
}

func testProduct(name string, price float64) models.Product {
	return models.Product{
		ID:    gocql.TimeUUID(),
		Name:  name,
		Price: price,
	}
}

func TestAddItemAccumulatesQuantity(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()
	p1 := testProduct("Savon Noir", 1000)

	require.NoError(t, st.AddItem(ctx, "u1", p1, 2))
	require.NoError(t, st.AddItem(ctx, "u1", p1, 3))

	summary, err := st.Summary(ctx, "u1", "NGN")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count, "une seule ligne distincte")
	assert.Equal(t, 5, summary.QuantitySum, "2+3 accumulés, pas écrasés")

	cart, err := st.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
}

func TestAddItemDefaultsToOne(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.AddItem(ctx, "u1", testProduct("Crème", 500), 0))

	cart, _ := st.Cart(ctx, "u1")
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestUpdateQuantityBelowOneIsANoOp(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()
	p := testProduct("Sérum", 2000)

	require.NoError(t, st.AddItem(ctx, "u1", p, 4))

	// Quantité nulle : aucune écriture, aucune ligne à zéro
	require.NoError(t, st.UpdateQuantity(ctx, "u1", p.ID.String(), 0))

	cart, _ := st.Cart(ctx, "u1")
	require.Len(t, cart, 1)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestRemoveItemDeletesLine(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()
	p := testProduct("Gommage", 1500)

	require.NoError(t, st.AddItem(ctx, "u1", p, 2))
	require.NoError(t, st.RemoveItem(ctx, "u1", p.ID.String()))

	cart, _ := st.Cart(ctx, "u1")
	assert.Empty(t, cart)
}

func TestToggleWishlistPairIsIdempotent(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()
	p := testProduct("Beurre de Karité", 6000)

	added, err := st.ToggleWishlist(ctx, "u1", p)
	require.NoError(t, err)
	assert.True(t, added)

	in, _ := st.IsInWishlist(ctx, "u1", p.ID.String())
	assert.True(t, in)

	added, err = st.ToggleWishlist(ctx, "u1", p)
	require.NoError(t, err)
	assert.False(t, added)

	in, _ = st.IsInWishlist(ctx, "u1", p.ID.String())
	assert.False(t, in, "deux toggles reviennent à l'état initial")

	count, _ := st.WishlistCount(ctx, "u1")
	assert.Zero(t, count)
}

func TestSummaryConvertsSubtotal(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.AddItem(ctx, "u1", testProduct("Savon", 1000), 2))
	require.NoError(t, st.AddItem(ctx, "u1", testProduct("Crème", 500), 1))

	ngn, err := st.Summary(ctx, "u1", "NGN")
	require.NoError(t, err)
	assert.InDelta(t, 2500, ngn.Subtotal, 1e-9)
	assert.Equal(t, 2, ngn.Count)
	assert.Equal(t, 3, ngn.QuantitySum)

	usd, err := st.Summary(ctx, "u1", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 2500*0.0007, usd.Subtotal, 1e-9)
	assert.Equal(t, "USD", usd.Currency)
}

func TestSubscribersReceiveTypedEvents(t *testing.T) {
	st, _ := newTestStore()
	ctx := context.Background()
	p := testProduct("Savon", 1000)

	var events []Event
	unsubscribe := st.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	require.NoError(t, st.AddItem(ctx, "u1", p, 1))
	require.NoError(t, st.UpdateQuantity(ctx, "u1", p.ID.String(), 3))
	_, err := st.ToggleWishlist(ctx, "u1", p)
	require.NoError(t, err)
	require.NoError(t, st.ClearCart(ctx, "u1"))

	require.Len(t, events, 4)
	assert.Equal(t, EventCartUpdated, events[0].Type)
	assert.Equal(t, EventCartUpdated, events[1].Type)
	assert.Equal(t, EventWishlistUpdated, events[2].Type)
	assert.Equal(t, EventCartCleared, events[3].Type)
	assert.Equal(t, "u1", events[0].UserID)

	// Après désinscription, plus aucune notification
	unsubscribe()
	require.NoError(t, st.AddItem(ctx, "u1", p, 1))
	assert.Len(t, events, 4)
}

func TestFailedMutationDoesNotBroadcast(t *testing.T) {
	st, fake := newTestStore()
	ctx := context.Background()
	p := testProduct("Savon", 1000)

	require.NoError(t, st.AddItem(ctx, "u1", p, 1))

	notified := 0
	defer st.Subscribe(func(Event) { notified++ })()

	fake.failing = true
	assert.Error(t, st.AddItem(ctx, "u1", p, 1))
	assert.Error(t, st.RemoveItem(ctx, "u1", p.ID.String()))
	_, err := st.ToggleWishlist(ctx, "u1", p)
	assert.Error(t, err)

	assert.Zero(t, notified, "échec persistance : la vue reste inchangée, rien n'est diffusé")

	// L'état antérieur est intact une fois le backend revenu
	fake.failing = false
	cart, err := st.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}
