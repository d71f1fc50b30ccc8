package currency_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beetlebot/award-finder/internal/cache"
	"github.com/beetlebot/award-finder/internal/currency"
	"github.com/beetlebot/award-finder/internal/currency/mocks"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingCache records every access so tests can assert the USD path never
// touches the cache.
type countingCache struct {
	*cache.Memory
	gets atomic.Int64
	sets atomic.Int64
}

func (c *countingCache) Get(ctx context.Context, code string) (float64, bool) {
	c.gets.Add(1)
	return c.Memory.Get(ctx, code)
}

func (c *countingCache) Set(ctx context.Context, code string, rate float64) error {
	c.sets.Add(1)
	return c.Memory.Set(ctx, code, rate)
}

func TestToUSD_USDIsIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	rates := &countingCache{Memory: cache.NewMemory()}
	n := currency.NewNormalizer(source, rates, currency.WithLogger(quietLogger()))

	for _, amount := range []float64{0, 5.6, 123456.789, -3} {
		conv := n.Convert(context.Background(), amount, "USD")
		assert.Equal(t, amount, conv.USD)
		assert.Equal(t, currency.OriginIdentity, conv.Origin)
	}
	assert.Equal(t, 42.5, n.ToUSD(context.Background(), 42.5, ""))
	assert.Zero(t, rates.gets.Load())
	assert.Zero(t, rates.sets.Load())
}

func TestToUSD_LiveRateIsCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	source.EXPECT().FetchRate(gomock.Any(), "EUR").Return(1.1, nil).Times(1)

	rates := cache.NewMemory()
	n := currency.NewNormalizer(source, rates, currency.WithLogger(quietLogger()))

	first := n.Convert(context.Background(), 100, "eur")
	assert.Equal(t, currency.OriginLive, first.Origin)
	assert.InDelta(t, 110.0, first.USD, 1e-9)

	second := n.Convert(context.Background(), 10, "EUR")
	assert.Equal(t, currency.OriginCache, second.Origin)
	assert.InDelta(t, 11.0, second.USD, 1e-9)

	cached, ok := rates.Get(context.Background(), "EUR")
	require.True(t, ok)
	assert.Equal(t, 1.1, cached)
}

func TestToUSD_FallbackIsNotCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	gomock.InOrder(
		source.EXPECT().FetchRate(gomock.Any(), "CAD").Return(0.0, errors.New("connection refused")),
		source.EXPECT().FetchRate(gomock.Any(), "CAD").Return(0.74, nil),
	)

	rates := cache.NewMemory()
	n := currency.NewNormalizer(source, rates, currency.WithLogger(quietLogger()))

	degraded := n.Convert(context.Background(), 100, "CAD")
	assert.True(t, degraded.Degraded())
	assert.Error(t, degraded.Warning)
	assert.InDelta(t, 72.0, degraded.USD, 1e-9)
	assert.Equal(t, 0, rates.Len())

	recovered := n.Convert(context.Background(), 100, "CAD")
	assert.Equal(t, currency.OriginLive, recovered.Origin)
	assert.NoError(t, recovered.Warning)
	assert.InDelta(t, 74.0, recovered.USD, 1e-9)
	assert.Equal(t, 1, rates.Len())
}

func TestToUSD_UnknownCurrencyFallsBackToOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	source.EXPECT().FetchRate(gomock.Any(), "XYZ").Return(0.0, errors.New("boom"))

	n := currency.NewNormalizer(source, cache.NewMemory(), currency.WithLogger(quietLogger()))
	conv := n.Convert(context.Background(), 250, "XYZ")
	assert.Equal(t, currency.OriginFallback, conv.Origin)
	assert.Equal(t, 250.0, conv.USD)
	assert.Equal(t, 1.0, conv.Rate)
}

func TestToUSD_NonPositiveRateIsAFailure(t *testing.T) {
	for _, bad := range []float64{0, -1.2} {
		ctrl := gomock.NewController(t)
		source := mocks.NewMockRateSource(ctrl)
		source.EXPECT().FetchRate(gomock.Any(), "GBP").Return(bad, nil)

		rates := cache.NewMemory()
		n := currency.NewNormalizer(source, rates, currency.WithLogger(quietLogger()))
		conv := n.Convert(context.Background(), 10, "GBP")

		assert.True(t, conv.Degraded(), "rate %v", bad)
		assert.InDelta(t, 12.7, conv.USD, 1e-9)
		assert.Equal(t, 0, rates.Len())
	}
}

func TestToUSD_CustomFallbackTable(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockRateSource(ctrl)
	source.EXPECT().FetchRate(gomock.Any(), "MXN").Return(0.0, errors.New("down"))

	n := currency.NewNormalizer(source, cache.NewMemory(),
		currency.WithLogger(quietLogger()),
		currency.WithFallbackRates(map[string]float64{"mxn": 0.05}),
	)
	assert.InDelta(t, 5.0, n.ToUSD(context.Background(), 100, "MXN"), 1e-9)
}

// slowSource blocks until released so concurrent callers pile up on the same
// currency.
type slowSource struct {
	calls   atomic.Int64
	release chan struct{}
}

func (s *slowSource) FetchRate(ctx context.Context, code string) (float64, error) {
	s.calls.Add(1)
	select {
	case <-s.release:
		return 0.66, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestToUSD_OneFetchInFlightPerCurrency(t *testing.T) {
	source := &slowSource{release: make(chan struct{})}
	n := currency.NewNormalizer(source, cache.NewMemory(),
		currency.WithLogger(quietLogger()),
		currency.WithTimeout(time.Second),
	)

	var wg sync.WaitGroup
	results := make([]float64, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = n.ToUSD(context.Background(), 100, "AUD")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	assert.Equal(t, int64(1), source.calls.Load())
	for _, r := range results {
		assert.InDelta(t, 66.0, r, 1e-9)
	}
}

func TestToUSD_FetchIsBoundedByTimeout(t *testing.T) {
	source := &slowSource{release: make(chan struct{})}
	n := currency.NewNormalizer(source, cache.NewMemory(),
		currency.WithLogger(quietLogger()),
		currency.WithTimeout(20*time.Millisecond),
	)

	start := time.Now()
	conv := n.Convert(context.Background(), 100, "NZD")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, currency.OriginFallback, conv.Origin)
	assert.True(t, errors.Is(conv.Warning, context.DeadlineExceeded))
	assert.InDelta(t, 60.0, conv.USD, 1e-9)
}
