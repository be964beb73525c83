package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseCurrency est la devise dans laquelle les prix produits sont stockés.
const BaseCurrency = "NGN"

// CacheDuration est la fenêtre de fraîcheur de la table de taux.
const CacheDuration = 24 * time.Hour

// FallbackRates est installée silencieusement si l'API de taux échoue.
var FallbackRates = map[string]float64{
	"NGN": 1,
	"USD": 0.000747, // 1 USD = 1 338,55 NGN
	"EUR": 0.00058,  // 1 EUR = 1 723 NGN
	"GBP": 0.000487, // 1 GBP = 2 054 NGN
	"CHF": 0.000545, // 1 CHF = 1 835 NGN
}

var Symbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CHF": "CHF",
}

// RateCache persiste la table de taux et son horodatage entre deux démarrages.
// L'implémentation Redis vit dans redis_cache.go ; les tests utilisent une
// implémentation mémoire.
type RateCache interface {
	Load(ctx context.Context) (rates map[string]float64, fetchedAt time.Time, ok bool)
	Save(ctx context.Context, rates map[string]float64, fetchedAt time.Time) error
}

// FetchFunc récupère une table de taux fraîche depuis la source externe.
type FetchFunc func(ctx context.Context) (map[string]float64, error)

// Service détient la table de taux courante. L'horloge et le fetch sont
// injectés pour que la logique de péremption soit testable sans réseau.
type Service struct {
	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time

	now   func() time.Time
	fetch FetchFunc
	cache RateCache

	printer *message.Printer
}

// NewService construit le service avec la table de secours installée
// d'office : Convert ne peut jamais échouer, même avant LoadRates.
func NewService(cache RateCache, fetch FetchFunc, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if fetch == nil {
		fetch = FetchRates
	}
	return &Service{
		rates:   copyRates(FallbackRates),
		now:     now,
		fetch:   fetch,
		cache:   cache,
		printer: message.NewPrinter(language.English),
	}
}

// LoadRates charge la table de taux : cache si frais (< 24h), sinon fetch.
// En cas d'échec du fetch, la table de secours est installée sans erreur
// visible et l'horodatage n'est pas écrit — le prochain appel retentera.
func (s *Service) LoadRates(ctx context.Context) {
	if s.cache != nil {
		if rates, fetchedAt, ok := s.cache.Load(ctx); ok {
			if s.now().Sub(fetchedAt) < CacheDuration {
				s.install(rates, fetchedAt)
				log.Println("✅ Taux de change chargés depuis le cache")
				return
			}
		}
	}

	log.Println("🔄 Récupération des taux de change...")
	fresh, err := s.fetch(ctx)
	if err != nil || len(fresh) == 0 {
		// Repli silencieux : la table précédente ou la table de secours
		// reste valable, et on retentera au prochain LoadRates.
		log.Println("⚠️ Échec récupération des taux — table de secours conservée")
		s.install(copyRates(FallbackRates), time.Time{})
		return
	}

	fetchedAt := s.now()
	s.install(fresh, fetchedAt)
	if s.cache != nil {
		if err := s.cache.Save(ctx, fresh, fetchedAt); err != nil {
			log.Println("⚠️ Impossible de persister les taux:", err)
		}
	}
	log.Println("✅ Taux de change mis à jour")
}

// install remplace la table entière — jamais de mise à jour partielle.
func (s *Service) install(rates map[string]float64, fetchedAt time.Time) {
	s.mu.Lock()
	s.rates = rates
	s.fetchedAt = fetchedAt
	s.mu.Unlock()
}

// Rates retourne une copie de la table courante.
func (s *Service) Rates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRates(s.rates)
}

// Convert convertit un montant entre deux devises via la devise de base.
// Pure et synchrone : une devise inconnue est traitée au taux 1 (NGN)
// plutôt que de provoquer une erreur.
func (s *Service) Convert(amount float64, from, to string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inBase := amount / s.rate(from)
	return inBase * s.rate(to)
}

func (s *Service) rate(code string) float64 {
	if r, ok := s.rates[code]; ok && r > 0 {
		return r
	}
	if r, ok := FallbackRates[code]; ok && r > 0 {
		return r
	}
	return 1
}

// Format rend un montant avec le symbole de la devise, deux décimales
// fixes et les séparateurs de milliers du locale en-US.
func (s *Service) Format(amount float64, code string) string {
	sym, ok := Symbols[code]
	if !ok {
		sym = code
	}
	return sym + s.printer.Sprintf("%.2f", amount)
}

// copyRates évite de partager la map interne avec les appelants.
func copyRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// =============================================
// SOURCE EXTERNE (open.er-api.com, sans clé)
// =============================================

type erAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// FetchRates interroge ExchangeRate-API avec NGN comme base et ne retient
// que les devises servies par la boutique.
func FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://open.er-api.com/v6/latest/"+BaseCurrency, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("statut inattendu: %s", resp.Status)
	}

	var body erAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Result != "success" || body.Rates == nil {
		return nil, errors.New("réponse ExchangeRate-API invalide")
	}

	rates := map[string]float64{BaseCurrency: 1}
	for code := range FallbackRates {
		if code == BaseCurrency {
			continue
		}
		if r, ok := body.Rates[code]; ok && r > 0 {
			rates[code] = r
		} else {
			rates[code] = FallbackRates[code]
		}
	}
	return rates, nil
}
