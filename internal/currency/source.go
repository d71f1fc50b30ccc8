package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest"

// LiveSource reads rates from an exchangerate-api style endpoint:
// GET {baseURL}/{CODE} -> {"rates": {"USD": 0.72, ...}}.
type LiveSource struct {
	baseURL string
	http    *http.Client
}

func NewLiveSource(baseURL string, timeout time.Duration) *LiveSource {
	if baseURL == "" {
		baseURL = DefaultRatesURL
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &LiveSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type latestRatesResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func (s *LiveSource) FetchRate(ctx context.Context, code string) (float64, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, strings.ToUpper(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "build rate request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "fetch rate for %s", code)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, errors.Wrap(err, "read rate response")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Newf("rate endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload latestRatesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, errors.Wrap(err, "decode rate response")
	}
	rate, ok := payload.Rates[USD]
	if !ok {
		return 0, errors.Newf("rate response for %s has no USD rate", code)
	}
	return rate, nil
}
