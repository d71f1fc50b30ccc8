package core_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/beetlebot/award-finder/internal/cache"
	"github.com/beetlebot/award-finder/internal/catalog"
	"github.com/beetlebot/award-finder/internal/config"
	"github.com/beetlebot/award-finder/internal/core"
	"github.com/beetlebot/award-finder/internal/core/mocks"
	"github.com/beetlebot/award-finder/internal/currency"
	currencymocks "github.com/beetlebot/award-finder/internal/currency/mocks"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func searchConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeMock
	cfg.Search = config.SearchConfig{
		Origin:      " jfk",
		Destination: "lhr",
		Cabin:       "business",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-07",
		CreditCard:  "chase",
		MaxResults:  2,
	}
	cfg.Output.SortBy = "miles"
	return cfg
}

type harness struct {
	searcher *mocks.MockAwardSearcher
	rates    *currencymocks.MockRateSource
	orch     *core.Orchestrator
}

func newHarness(t *testing.T, cfg *config.Config) harness {
	ctrl := gomock.NewController(t)
	searcher := mocks.NewMockAwardSearcher(ctrl)
	searcher.EXPECT().Name().Return("mock_awards").AnyTimes()
	searcher.EXPECT().Available().Return(true, "").AnyTimes()

	rates := currencymocks.NewMockRateSource(ctrl)
	usd := currency.NewNormalizer(rates, cache.NewMemory(), currency.WithLogger(quietLogger()))

	router := core.NewRouter(cfg)
	router.Register(searcher)

	return harness{
		searcher: searcher,
		rates:    rates,
		orch:     core.NewOrchestrator(router, core.NewOfferNormalizer(usd, quietLogger()), quietLogger()),
	}
}

func records() []json.RawMessage {
	return []json.RawMessage{
		json.RawMessage(`{"ID": "a", "Route": {"Source": "united"}, "JMileageCostRaw": 88000, "JTotalTaxesRaw": 5600, "JDirectRaw": true}`),
		json.RawMessage(`{"ID": "b", "Route": {"Source": "aeroplan"}, "JMileageCostRaw": 60000, "JTotalTaxesRaw": 10000, "TaxesCurrency": "CAD", "JDirectRaw": false}`),
		json.RawMessage(`not json`),
		json.RawMessage(`{"ID": "c", "Route": {"Source": "flyingblue"}, "JMileageCostRaw": 72000, "JTotalTaxesRaw": 19000, "JDirectRaw": true}`),
	}
}

func TestOrchestrator_SearchRanksAndLimits(t *testing.T) {
	cfg := searchConfig()
	h := newHarness(t, cfg)

	h.rates.EXPECT().FetchRate(gomock.Any(), "CAD").Return(0.72, nil)
	h.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req core.AwardSearchRequest) ([]json.RawMessage, error) {
			partners, err := catalog.PartnersFor("chase")
			require.NoError(t, err)
			assert.Equal(t, partners, req.Sources)
			assert.Equal(t, "JFK", req.Origin)
			assert.Equal(t, "LHR", req.Destination)
			assert.Equal(t, core.CabinBusiness, req.Cabin)
			assert.Equal(t, "lowest_mileage", req.OrderBy)
			assert.Equal(t, 500, req.Take)
			return records(), nil
		})

	result, err := h.orch.Search(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFound)
	assert.Equal(t, 3, result.Matched)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, core.SortMiles, result.Sort)
	assert.Equal(t, "mock_awards", result.Provider)
	require.Len(t, result.Offers, 2)
	assert.Equal(t, "b", result.Offers[0].ID)
	assert.InDelta(t, 72.0, result.Offers[0].TaxesUSD, 1e-9)
	assert.Equal(t, "c", result.Offers[1].ID)
	assert.Nil(t, result.CPP)
}

func TestOrchestrator_CPPAndNonstopFilter(t *testing.T) {
	cfg := searchConfig()
	cfg.Output.SortBy = "cpp"
	cfg.Output.NonstopOnly = true
	cash := 1200.0
	cfg.Valuation.BaselineCashPrice = &cash
	h := newHarness(t, cfg)

	h.rates.EXPECT().FetchRate(gomock.Any(), "CAD").Return(0.72, nil)
	h.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(records(), nil)

	result, err := h.orch.Search(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFound)
	assert.Equal(t, 2, result.Matched)
	require.Len(t, result.Offers, 2)
	// a: (1200-56)/88000 = 1.30; c: (1200-190)/72000 = 1.40
	assert.Equal(t, "c", result.Offers[0].ID)
	assert.Equal(t, "a", result.Offers[1].ID)
	require.Len(t, result.CPP, 2)
	require.NotNil(t, result.CPP[0])
	assert.InDelta(t, 1.40, *result.CPP[0], 1e-9)
	assert.InDelta(t, 1.30, *result.CPP[1], 1e-9)
}

func TestOrchestrator_CPPWithoutCashWarns(t *testing.T) {
	cfg := searchConfig()
	cfg.Output.SortBy = "cpp"
	h := newHarness(t, cfg)

	h.rates.EXPECT().FetchRate(gomock.Any(), "CAD").Return(0.0, errors.New("rates offline"))
	h.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(records(), nil)

	result, err := h.orch.Search(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, core.SortTotalCost, result.Sort)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "CAD")
	assert.Contains(t, result.Warnings[1], "total_cost")
}

func TestOrchestrator_UnknownCardIsFatal(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.CreditCard = "discover"
	h := newHarness(t, cfg)

	_, err := h.orch.Search(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownCreditCard))
	assert.Contains(t, err.Error(), "chase")
}

func TestOrchestrator_ExplicitSources(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.CreditCard = ""
	cfg.Search.Sources = []string{" United", "", "aeroplan"}
	h := newHarness(t, cfg)

	h.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req core.AwardSearchRequest) ([]json.RawMessage, error) {
			assert.Equal(t, []string{"united", "aeroplan"}, req.Sources)
			return nil, nil
		})

	result, err := h.orch.Search(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Offers)
	assert.Zero(t, result.TotalFound)
}

func TestOrchestrator_InvalidCabin(t *testing.T) {
	cfg := searchConfig()
	cfg.Search.Cabin = "steerage"
	h := newHarness(t, cfg)

	_, err := h.orch.Search(context.Background(), cfg)
	assert.True(t, errors.Is(err, core.ErrInvalidCabin))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestOrchestrator_SearcherErrorIsFatal(t *testing.T) {
	cfg := searchConfig()
	h := newHarness(t, cfg)

	upstream := errors.New("upstream unavailable")
	h.searcher.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, upstream)

	result, err := h.orch.Search(context.Background(), cfg)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, upstream))
	assert.Contains(t, err.Error(), "search mock_awards")
}
