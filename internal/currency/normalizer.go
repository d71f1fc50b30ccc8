// Package currency converts tax amounts to USD using live exchange rates,
// a process-wide rate cache and a static fallback table.
package currency

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/beetlebot/award-finder/internal/cache"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

const USD = "USD"

const defaultFetchTimeout = 5 * time.Second

//go:generate mockgen -source=normalizer.go -destination=mocks/mock_source.go -package=mocks

// RateSource looks up how many USD one unit of code is worth.
type RateSource interface {
	FetchRate(ctx context.Context, code string) (float64, error)
}

// Origin records where the rate behind a conversion came from.
type Origin string

const (
	OriginIdentity Origin = "identity"
	OriginCache    Origin = "cache"
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Conversion is the result of converting one amount. Warning is set only when
// the live source failed and a fallback rate was used.
type Conversion struct {
	USD      float64
	Rate     float64
	Currency string
	Origin   Origin
	Warning  error
}

func (c Conversion) Degraded() bool { return c.Origin == OriginFallback }

// Normalizer is safe for concurrent use. At most one live fetch per currency
// is in flight at a time.
type Normalizer struct {
	source   RateSource
	cache    cache.RateCache
	logger   *slog.Logger
	timeout  time.Duration
	fallback map[string]float64
	group    singleflight.Group
}

type Option func(*Normalizer)

func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// WithTimeout bounds each live rate fetch.
func WithTimeout(d time.Duration) Option {
	return func(n *Normalizer) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// WithFallbackRates replaces the static fallback table.
func WithFallbackRates(rates map[string]float64) Option {
	return func(n *Normalizer) {
		n.fallback = make(map[string]float64, len(rates))
		for code, rate := range rates {
			n.fallback[strings.ToUpper(code)] = rate
		}
	}
}

func NewNormalizer(source RateSource, rates cache.RateCache, options ...Option) *Normalizer {
	n := &Normalizer{
		source:   source,
		cache:    rates,
		logger:   slog.Default(),
		timeout:  defaultFetchTimeout,
		fallback: FallbackRates(),
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// ToUSD converts amount to USD. It never fails; see Convert for how the rate
// was obtained.
func (n *Normalizer) ToUSD(ctx context.Context, amount float64, code string) float64 {
	return n.Convert(ctx, amount, code).USD
}

func (n *Normalizer) Convert(ctx context.Context, amount float64, code string) Conversion {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || code == USD {
		return Conversion{USD: amount, Rate: 1, Currency: USD, Origin: OriginIdentity}
	}

	if rate, ok := n.cache.Get(ctx, code); ok {
		return Conversion{USD: amount * rate, Rate: rate, Currency: code, Origin: OriginCache}
	}

	rate, err := n.fetch(ctx, code)
	if err != nil {
		rate = n.fallbackRate(code)
		warning := errors.Wrapf(err, "live rate for %s unavailable, using fallback %.4f", code, rate)
		n.logger.Warn("could not fetch live conversion rate",
			"currency", code,
			"fallback_rate", rate,
			"error", err,
		)
		return Conversion{USD: amount * rate, Rate: rate, Currency: code, Origin: OriginFallback, Warning: warning}
	}
	return Conversion{USD: amount * rate, Rate: rate, Currency: code, Origin: OriginLive}
}

func (n *Normalizer) fetch(ctx context.Context, code string) (float64, error) {
	v, err, _ := n.group.Do(code, func() (interface{}, error) {
		if rate, ok := n.cache.Get(ctx, code); ok {
			return rate, nil
		}

		fetchCtx, cancel := context.WithTimeout(ctx, n.timeout)
		defer cancel()

		rate, err := n.source.FetchRate(fetchCtx, code)
		if err != nil {
			return 0.0, err
		}
		if rate <= 0 {
			return 0.0, errors.Newf("non-positive rate %v for %s", rate, code)
		}
		if err := n.cache.Set(ctx, code, rate); err != nil {
			n.logger.Warn("could not cache conversion rate", "currency", code, "error", err)
		}
		return rate, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (n *Normalizer) fallbackRate(code string) float64 {
	if rate, ok := n.fallback[code]; ok {
		return rate
	}
	return 1.0
}
