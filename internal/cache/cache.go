// Package cache stores currency exchange rates (to USD) for the lifetime of a
// run. The in-memory store is the default; Redis lets several runs share the
// rates they have already looked up.
package cache

import (
	"context"
	"strings"
	"sync"
)

// RateCache holds rates keyed by upper-case ISO currency code. Implementations
// must be safe for concurrent use, and a reader sees either no entry or a
// complete one.
type RateCache interface {
	Get(ctx context.Context, code string) (float64, bool)
	Set(ctx context.Context, code string, rate float64) error
	Len() int
	Close() error
}

// Memory is a process-wide rate cache with no expiry.
type Memory struct {
	mu    sync.RWMutex
	rates map[string]float64
}

func NewMemory() *Memory {
	return &Memory{rates: make(map[string]float64)}
}

func (m *Memory) Get(_ context.Context, code string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rate, ok := m.rates[normalizeCode(code)]
	return rate, ok
}

func (m *Memory) Set(_ context.Context, code string, rate float64) error {
	m.mu.Lock()
	m.rates[normalizeCode(code)] = rate
	m.mu.Unlock()
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rates)
}

// Snapshot returns a copy of every cached rate.
func (m *Memory) Snapshot() map[string]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]float64, len(m.rates))
	for k, v := range m.rates {
		out[k] = v
	}
	return out
}

func (m *Memory) Close() error { return nil }

// Key builds a namespaced cache key, e.g. Key("rates", "CAD") -> "awards:rates:CAD".
func Key(parts ...string) string {
	return keyPrefix + strings.Join(parts, ":")
}

const keyPrefix = "awards:"

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
