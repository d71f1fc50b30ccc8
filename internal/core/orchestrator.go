package core

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/beetlebot/award-finder/internal/catalog"
	"github.com/beetlebot/award-finder/internal/config"
	"github.com/cockroachdb/errors"
)

const (
	defaultTimeout = 30 * time.Second
	defaultTake    = 500
	defaultOrderBy = "lowest_mileage"
)

// ErrNoSources is returned when a search has no loyalty programs to query.
var ErrNoSources = errors.New("no mileage programs specified")

type Orchestrator struct {
	router     *Router
	normalizer *OfferNormalizer
	logger     *slog.Logger
	timeout    time.Duration
}

func NewOrchestrator(router *Router, normalizer *OfferNormalizer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		router:     router,
		normalizer: normalizer,
		logger:     logger,
		timeout:    defaultTimeout,
	}
}

// BuildRequest turns the search section of cfg into an upstream query. An
// unknown credit card is an error here, unlike on display paths.
func BuildRequest(cfg *config.Config) (AwardSearchRequest, error) {
	if err := cfg.Validate(); err != nil {
		return AwardSearchRequest{}, err
	}
	cabin, err := ParseCabin(cfg.Search.Cabin)
	if err != nil {
		return AwardSearchRequest{}, errors.Mark(err, config.ErrInvalidConfig)
	}
	sources, err := resolveSources(cfg.Search)
	if err != nil {
		return AwardSearchRequest{}, err
	}
	return AwardSearchRequest{
		Origin:      strings.ToUpper(strings.TrimSpace(cfg.Search.Origin)),
		Destination: strings.ToUpper(strings.TrimSpace(cfg.Search.Destination)),
		Cabin:       cabin,
		StartDate:   cfg.Search.StartDate,
		EndDate:     cfg.Search.EndDate,
		Sources:     sources,
		OrderBy:     defaultOrderBy,
		Take:        defaultTake,
	}, nil
}

func resolveSources(s config.SearchConfig) ([]string, error) {
	if s.CreditCard != "" {
		return catalog.PartnersFor(s.CreditCard)
	}
	var sources []string
	for _, src := range s.Sources {
		if src = strings.ToLower(strings.TrimSpace(src)); src != "" {
			sources = append(sources, src)
		}
	}
	if len(sources) == 0 {
		return nil, errors.WithHint(ErrNoSources, "set search.credit_card or search.sources")
	}
	return sources, nil
}

// Search runs one query end to end: build the request, fetch raw records,
// normalize, rank, and cut the ranked list to max_results. Any error is fatal
// and no partial result is returned.
func (o *Orchestrator) Search(ctx context.Context, cfg *config.Config) (*SearchResult, error) {
	req, err := BuildRequest(cfg)
	if err != nil {
		return nil, err
	}

	searcher, err := o.router.Active()
	if err != nil {
		return nil, err
	}

	o.logger.Info("searching award availability",
		"provider", searcher.Name(),
		"route", req.Origin+"-"+req.Destination,
		"cabin", req.Cabin,
		"dates", req.StartDate+".."+req.EndDate,
		"programs", len(req.Sources),
	)

	searchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	raws, err := searcher.Search(searchCtx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "search %s", searcher.Name())
	}

	batch := o.normalizer.NormalizeAll(ctx, raws, req.Cabin)

	strategy, known := ParseSortStrategy(cfg.Output.SortBy)
	if !known {
		o.logger.Warn("unknown sort strategy, keeping upstream order", "sort_by", cfg.Output.SortBy)
	}
	cash := cfg.CashPrice()
	ranking := Rank(batch.Offers, Filters{NonstopOnly: cfg.Output.NonstopOnly}, strategy, cash)
	for _, w := range ranking.Warnings {
		o.logger.Warn(w)
	}

	shown := ranking.Offers
	if limit := cfg.Search.MaxResults; limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	result := &SearchResult{
		Query:       req,
		Mode:        cfg.Mode,
		Provider:    searcher.Name(),
		CreditCard:  cfg.Search.CreditCard,
		Offers:      shown,
		TotalFound:  len(batch.Offers),
		Matched:     len(ranking.Offers),
		Sort:        ranking.Applied,
		Warnings:    append(batch.Warnings, ranking.Warnings...),
		Skipped:     len(batch.Skipped),
		FetchedAt:   time.Now().UTC(),
		CashPrice:   cash,
		ShowDetails: cfg.Output.ShowSegments,
	}
	if cash != nil {
		result.CPP = make([]*float64, len(shown))
		for i, offer := range shown {
			if v, ok := CPP(offer, cash); ok {
				result.CPP[i] = &v
			}
		}
	}
	return result, nil
}
