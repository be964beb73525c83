// Package store est le magasin observable du panier et de la wishlist :
// il expose des actions typées, recalcule les valeurs dérivées à chaque
// lecture et notifie tous les abonnés après chaque mutation réussie.
// C'est l'unique mécanisme de cohérence entre composants indépendants
// (badge du header, tiroir panier, pages).
package store

import (
	"context"
	"sync"

	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/models"
	"mahzskin_back_end/internal/storage"
)

// EventType est l'ensemble fermé des variantes d'action diffusées,
// en remplacement des noms d'événements en chaînes libres.
type EventType int

const (
	EventCartUpdated EventType = iota + 1
	EventCartCleared
	EventWishlistUpdated
)

type Event struct {
	Type   EventType
	UserID string
}

// Publisher relaie les événements hors process (canal Redis consommé
// par la synchronisation WebSocket). Optionnel : nil en test.
type Publisher interface {
	Publish(ctx context.Context, channel, payload string)
}

type Store struct {
	cart     storage.CartStore
	wishlist storage.WishlistStore
	rates    *currency.Service
	pub      Publisher

	mu     sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

func New(cart storage.CartStore, wishlist storage.WishlistStore, rates *currency.Service, pub Publisher) *Store {
	return &Store{
		cart:     cart,
		wishlist: wishlist,
		rates:    rates,
		pub:      pub,
		subs:     make(map[int]func(Event)),
	}
}

// Subscribe enregistre un abonné et retourne sa fonction de désinscription.
// L'enregistrement et le retrait sont déterministes — pas de cycle de vie
// global de listeners.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// broadcast notifie les abonnés locaux puis publie sur Redis pour les
// clients connectés ailleurs. Appelé uniquement après persistance réussie.
func (s *Store) broadcast(ctx context.Context, ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}

	if s.pub == nil {
		return
	}
	switch ev.Type {
	case EventCartUpdated:
		s.pub.Publish(ctx, "cart:"+ev.UserID, "updated")
	case EventCartCleared:
		s.pub.Publish(ctx, "cart:"+ev.UserID, "cleared")
	case EventWishlistUpdated:
		s.pub.Publish(ctx, "wishlist:"+ev.UserID, "updated")
	}
}

// --- Actions panier ---

// AddItem crée la ligne ou accumule la quantité. En cas d'échec de la
// persistance, rien n'est diffusé : la vue reste inchangée.
func (s *Store) AddItem(ctx context.Context, userID string, product models.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if err := s.cart.AddItem(ctx, userID, product, qty); err != nil {
		return err
	}
	s.broadcast(ctx, Event{Type: EventCartUpdated, UserID: userID})
	return nil
}

// UpdateQuantity écrase la quantité d'une ligne. Une quantité < 1 est
// ignorée : c'est RemoveItem qui supprime, jamais une quantité nulle.
func (s *Store) UpdateQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty < 1 {
		return nil
	}
	if err := s.cart.UpdateQuantity(ctx, userID, productID, qty); err != nil {
		return err
	}
	s.broadcast(ctx, Event{Type: EventCartUpdated, UserID: userID})
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := s.cart.RemoveItem(ctx, userID, productID); err != nil {
		return err
	}
	s.broadcast(ctx, Event{Type: EventCartUpdated, UserID: userID})
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := s.cart.ClearCart(ctx, userID); err != nil {
		return err
	}
	s.broadcast(ctx, Event{Type: EventCartCleared, UserID: userID})
	return nil
}

func (s *Store) Cart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return s.cart.GetCart(ctx, userID)
}

// --- Actions wishlist ---

func (s *Store) ToggleWishlist(ctx context.Context, userID string, product models.Product) (bool, error) {
	added, err := s.wishlist.ToggleWishlist(ctx, userID, product)
	if err != nil {
		return false, err
	}
	s.broadcast(ctx, Event{Type: EventWishlistUpdated, UserID: userID})
	return added, nil
}

func (s *Store) Wishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	return s.wishlist.GetWishlist(ctx, userID)
}

func (s *Store) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	return s.wishlist.IsInWishlist(ctx, userID, productID)
}

// --- Valeurs dérivées (recalculées à chaque lecture, jamais mises en cache) ---

// CartSummary regroupe les compteurs affichés par le header et le tiroir.
type CartSummary struct {
	Count       int     `json:"count"`    // lignes distinctes
	QuantitySum int     `json:"quantity"` // somme des quantités
	Subtotal    float64 `json:"subtotal"` // dans la devise d'affichage
	Currency    string  `json:"currency"`
}

func (s *Store) Summary(ctx context.Context, userID, displayCurrency string) (CartSummary, error) {
	cart, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}

	summary := CartSummary{Currency: displayCurrency}
	for _, line := range cart {
		summary.Count++
		summary.QuantitySum += line.Quantity
		summary.Subtotal += s.rates.Convert(line.Price, currency.BaseCurrency, displayCurrency) * float64(line.Quantity)
	}
	return summary, nil
}

func (s *Store) WishlistCount(ctx context.Context, userID string) (int, error) {
	wishlist, err := s.wishlist.GetWishlist(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(wishlist), nil
}
