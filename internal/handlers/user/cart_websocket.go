package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mahzskin_back_end/internal/database"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse l'état panier/wishlist aux clients connectés à
// chaque mutation. C'est le relais des événements du magasin observable
// vers les composants montés indépendamment (header, tiroir, pages).
// Pas de résolution de conflit : le dernier re-fetch observé gagne.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner aux canaux Redis de ce user
	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID, "wishlist:"+userID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg := <-ch:
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}
			if err := sendSnapshot(ctx, conn, userID); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendSnapshot renvoie l'état complet : les vues se resynchronisent en
// re-lisant, jamais en appliquant des deltas.
func sendSnapshot(ctx context.Context, conn *websocket.Conn, userID string) error {
	items, err := Store.Cart(ctx, userID)
	if err != nil {
		items = nil
	}

	pref := getCurrencyPreference(ctx, userID)
	if pref == "" {
		pref = "NGN"
	}
	summary, err := Store.Summary(ctx, userID, pref)
	if err != nil {
		summary.Currency = pref
	}

	wishlistCount, _ := Store.WishlistCount(ctx, userID)

	return conn.WriteJSON(map[string]interface{}{
		"type":           "cart_updated",
		"items":          items,
		"count":          summary.Count,
		"quantity":       summary.QuantitySum,
		"subtotal":       summary.Subtotal,
		"currency":       summary.Currency,
		"wishlist_count": wishlistCount,
	})
}
