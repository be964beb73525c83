package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache est un RateCache en mémoire pour tester la péremption sans Redis.
type memCache struct {
	rates     map[string]float64
	fetchedAt time.Time
	saved     int
}

func (c *memCache) Load(ctx context.Context) (map[string]float64, time.Time, bool) {
	if c.rates == nil {
		return nil, time.Time{}, false
	}
	return c.rates, c.fetchedAt, true
}

func (c *memCache) Save(ctx context.Context, rates map[string]float64, fetchedAt time.Time) error {
	c.rates = rates
	c.fetchedAt = fetchedAt
	c.saved++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestLoadRatesUsesFreshCacheWithoutFetch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cached := map[string]float64{"NGN": 1, "USD": 0.0007}

	cache := &memCache{rates: cached, fetchedAt: now.Add(-23 * time.Hour)}
	fetchCalls := 0
	svc := NewService(cache, func(ctx context.Context) (map[string]float64, error) {
		fetchCalls++
		return nil, errors.New("ne doit pas être appelé")
	}, fixedClock(now))

	svc.LoadRates(context.Background())

	assert.Zero(t, fetchCalls, "un cache de moins de 24h doit être réutilisé sans réseau")
	assert.InDelta(t, 0.0007, svc.Rates()["USD"], 1e-12)
}

func TestLoadRatesRefreshesStaleCache(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := &memCache{
		rates:     map[string]float64{"NGN": 1, "USD": 0.0005},
		fetchedAt: now.Add(-25 * time.Hour),
	}

	fresh := map[string]float64{"NGN": 1, "USD": 0.0008, "EUR": 0.0006}
	svc := NewService(cache, func(ctx context.Context) (map[string]float64, error) {
		return fresh, nil
	}, fixedClock(now))

	svc.LoadRates(context.Background())

	assert.InDelta(t, 0.0008, svc.Rates()["USD"], 1e-12)
	assert.Equal(t, 1, cache.saved, "la table fraîche doit être persistée")
	assert.Equal(t, now, cache.fetchedAt)
}

func TestLoadRatesFallsBackSilentlyOnFetchFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := &memCache{
		rates:     map[string]float64{"NGN": 1, "USD": 0.0005},
		fetchedAt: now.Add(-48 * time.Hour), // périmé
	}

	fetchCalls := 0
	svc := NewService(cache, func(ctx context.Context) (map[string]float64, error) {
		fetchCalls++
		return nil, errors.New("réseau indisponible")
	}, fixedClock(now))

	svc.LoadRates(context.Background())

	// Table de secours installée, Convert reste numérique
	assert.Equal(t, 1, fetchCalls)
	result := svc.Convert(1000, "NGN", "USD")
	assert.False(t, result != result, "Convert ne doit jamais renvoyer NaN")
	assert.InDelta(t, 1000*FallbackRates["USD"], result, 1e-9)

	// L'échec n'est pas daté : le prochain LoadRates retente le fetch
	assert.Zero(t, cache.saved)
	svc.LoadRates(context.Background())
	assert.Equal(t, 2, fetchCalls, "pas de fenêtre de 24h après un échec")
}

func TestConvertRoundTrip(t *testing.T) {
	svc := NewService(nil, nil, fixedClock(time.Now()))
	svc.install(map[string]float64{
		"NGN": 1,
		"USD": 0.000747,
		"EUR": 0.00058,
		"GBP": 0.000487,
	}, time.Now())

	prices := []float64{1, 19.99, 1000, 45250.75}
	currencies := []string{"NGN", "USD", "EUR", "GBP"}

	for _, p := range prices {
		for _, from := range currencies {
			for _, to := range currencies {
				back := svc.Convert(svc.Convert(p, from, to), to, from)
				assert.InDelta(t, p, back, 1e-9, "aller-retour %s→%s→%s", from, to, from)
			}
		}
	}
}

func TestConvertNairaToDollar(t *testing.T) {
	svc := NewService(nil, nil, fixedClock(time.Now()))
	svc.install(map[string]float64{"NGN": 1, "USD": 0.0007}, time.Now())

	assert.InDelta(t, 0.7, svc.Convert(1000, "NGN", "USD"), 1e-9)
}

func TestConvertUnknownCurrencyDoesNotPanic(t *testing.T) {
	svc := NewService(nil, nil, fixedClock(time.Now()))

	result := svc.Convert(500, "NGN", "XYZ")
	assert.False(t, result != result)
	assert.Greater(t, result, 0.0)
}

func TestFormat(t *testing.T) {
	svc := NewService(nil, nil, fixedClock(time.Now()))

	assert.Equal(t, "$0.70", svc.Format(0.7, "USD"))
	assert.Equal(t, "₦1,234,567.89", svc.Format(1234567.891, "NGN"))
	assert.Equal(t, "€19.99", svc.Format(19.99, "EUR"))
	assert.Equal(t, "CHF5.00", svc.Format(5, "CHF"))
}

func TestConvertWorksBeforeLoadRates(t *testing.T) {
	// La table de secours est installée dès la construction
	svc := NewService(nil, nil, nil)

	require.Equal(t, float64(1), FallbackRates[BaseCurrency])
	assert.InDelta(t, 1000*FallbackRates["USD"], svc.Convert(1000, "NGN", "USD"), 1e-9)
}
