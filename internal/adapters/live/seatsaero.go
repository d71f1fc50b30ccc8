package live

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beetlebot/award-finder/internal/core"
	"github.com/cockroachdb/errors"
)

const (
	DefaultSeatsAeroURL  = "https://seats.aero/partnerapi"
	defaultSearchTimeout = 30 * time.Second
	maxResponseBytes     = 32 << 20
)

// ErrMalformedResponse marks search responses without a data array.
var ErrMalformedResponse = errors.New("malformed seats.aero response")

// HTTPError is a non-200 reply from the search endpoint.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("seats.aero returned status %d: %s", e.Status, e.Body)
}

// SeatsAeroSearcher queries the seats.aero partner API for cached award
// availability. Set SEATS_AERO_API_KEY to enable.
type SeatsAeroSearcher struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*SeatsAeroSearcher)

func WithHTTPClient(c *http.Client) Option {
	return func(s *SeatsAeroSearcher) {
		s.http = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *SeatsAeroSearcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSeatsAeroSearcher(apiKey, baseURL string, options ...Option) *SeatsAeroSearcher {
	if baseURL == "" {
		baseURL = DefaultSeatsAeroURL
	}
	s := &SeatsAeroSearcher{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultSearchTimeout},
		logger:  slog.Default(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *SeatsAeroSearcher) Name() string            { return "seats_aero" }
func (s *SeatsAeroSearcher) Tier() core.ProviderTier { return core.TierPartnerRequired }
func (s *SeatsAeroSearcher) Capabilities() []core.Capability {
	return []core.Capability{core.CapAwardSearch, core.CapSegments}
}

func (s *SeatsAeroSearcher) Available() (bool, string) {
	if s.apiKey == "" {
		return false, "set SEATS_AERO_API_KEY (seats.aero Pro, Settings > API)"
	}
	return true, ""
}

type searchResponse struct {
	Data    []json.RawMessage `json:"data"`
	Count   int               `json:"count"`
	HasMore bool              `json:"hasMore"`
}

func searchQuery(req core.AwardSearchRequest) url.Values {
	q := url.Values{}
	q.Set("origin_airport", req.Origin)
	q.Set("destination_airport", req.Destination)
	q.Set("cabins", string(req.Cabin))
	q.Set("start_date", req.StartDate)
	q.Set("end_date", req.EndDate)
	q.Set("sources", strings.Join(req.Sources, ","))
	if req.OrderBy != "" {
		q.Set("order_by", req.OrderBy)
	}
	if req.Take > 0 {
		q.Set("take", strconv.Itoa(req.Take))
	}
	return q
}

// Search returns the raw availability records of one search call. Records
// are passed through undecoded; the normalizer owns their layout.
func (s *SeatsAeroSearcher) Search(ctx context.Context, req core.AwardSearchRequest) ([]json.RawMessage, error) {
	if ok, reason := s.Available(); !ok {
		return nil, errors.WithHint(errors.New("seats.aero API key is not configured"), reason)
	}

	endpoint := s.baseURL + "/search?" + searchQuery(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build search request")
	}
	httpReq.Header.Set("Partner-Authorization", s.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.http.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "call seats.aero search")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read search response")
	}
	if resp.StatusCode != http.StatusOK {
		var herr error = &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			herr = errors.WithHint(herr, "check SEATS_AERO_API_KEY")
		}
		return nil, herr
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode search response"), ErrMalformedResponse)
	}
	if payload.Data == nil {
		return nil, errors.Mark(errors.New("search response has no data array"), ErrMalformedResponse)
	}

	s.logger.Debug("seats.aero search complete",
		"records", len(payload.Data),
		"has_more", payload.HasMore,
		"elapsed", time.Since(start),
	)
	return payload.Data, nil
}
