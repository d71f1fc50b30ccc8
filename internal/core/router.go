package core

import (
	"strings"

	"github.com/beetlebot/award-finder/internal/config"
	"github.com/cockroachdb/errors"
)

// ErrNoProvider is returned when no registered searcher can serve the mode.
var ErrNoProvider = errors.New("no award search provider available")

type Router struct {
	cfg       *config.Config
	searchers []AwardSearcher
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{cfg: cfg}
}

func (r *Router) Register(a AwardSearcher) {
	r.searchers = append(r.searchers, a)
}

// Active picks the searcher for the configured mode. Hybrid prefers a live
// searcher with credentials and falls back to mock data.
func (r *Router) Active() (AwardSearcher, error) {
	for _, a := range r.searchers {
		if r.shouldUse(a) {
			return a, nil
		}
	}

	hint := "use --mode mock to run against generated data"
	for _, a := range r.searchers {
		if isMockProvider(a.Name()) {
			continue
		}
		if ok, reason := a.Available(); !ok {
			hint = reason
			break
		}
	}
	return nil, errors.WithHint(errors.Wrapf(ErrNoProvider, "mode %s", r.cfg.Mode), hint)
}

func (r *Router) shouldUse(a AwardSearcher) bool {
	mock := isMockProvider(a.Name())
	switch r.cfg.Mode {
	case config.ModeMock:
		return mock
	case config.ModeLive:
		if mock {
			return false
		}
		ok, _ := a.Available()
		return ok
	case config.ModeHybrid:
		if !mock {
			ok, _ := a.Available()
			return ok
		}
		return r.noLiveAlternative()
	}
	return false
}

func (r *Router) noLiveAlternative() bool {
	for _, a := range r.searchers {
		if isMockProvider(a.Name()) {
			continue
		}
		if ok, _ := a.Available(); ok {
			return false
		}
	}
	return true
}

func isMockProvider(name string) bool {
	return strings.HasPrefix(name, "mock_")
}

func (r *Router) ProviderInfos() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(r.searchers))
	for _, a := range r.searchers {
		info := ProviderInfo{
			Name:         a.Name(),
			Capabilities: a.Capabilities(),
			Tier:         a.Tier(),
		}
		if avail, reason := a.Available(); avail {
			info.Status = "active"
		} else {
			info.Status = "no_credentials"
			info.Reason = reason
		}
		if info.Status == "active" && !r.shouldUse(a) {
			info.Status = "inactive"
			info.Reason = "mode is " + string(r.cfg.Mode)
		}
		infos = append(infos, info)
	}
	return infos
}
