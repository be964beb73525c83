package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"mahzskin_back_end/internal/config"
	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/database"
	"mahzskin_back_end/internal/routes"
	"mahzskin_back_end/internal/storage"
	"mahzskin_back_end/internal/store"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY manquante — checkout désactivé")
	} else {
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()

	// ✅ Charger la table de taux (cache 24h, repli silencieux)
	rates := currency.NewService(currency.NewRedisRateCache(database.Redis), nil, nil)
	rates.LoadRates(context.Background())

	// ✅ Sélection de l'adaptateur de persistance à la composition :
	// jamais les deux variantes en même temps
	var (
		cartStore     storage.CartStore
		wishlistStore storage.WishlistStore
	)
	if strings.ToLower(config.Getenv("CART_BACKEND", "remote")) == "local" {
		local := storage.NewLocalStore(database.Redis)
		cartStore, wishlistStore = local, local
		log.Println("🗄️ Persistance panier/wishlist: Redis (variante locale)")
	} else {
		remote := storage.NewScyllaStore()
		cartStore, wishlistStore = remote, remote
		log.Println("🗄️ Persistance panier/wishlist: ScyllaDB (variante distante)")
	}

	st := store.New(cartStore, wishlistStore, rates, store.NewRedisPublisher(database.Redis))

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(config.Getenv("CORS_ORIGINS", "http://localhost:3000"), ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	routes.RegisterRoutes(r, st, rates)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur MahzSkin lancé sur le port", port)
	r.Run(":" + port)
}
