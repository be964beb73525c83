package user

import (
	"mahzskin_back_end/internal/currency"
	"mahzskin_back_end/internal/store"
)

// Injecté au démarrage par routes.RegisterRoutes.
var (
	Store *store.Store
	Rates *currency.Service
)

func Init(s *store.Store, rates *currency.Service) {
	Store = s
	Rates = rates
}
