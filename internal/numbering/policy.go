// Package numbering generates default invoice numbers from a persisted counter
// and keeps the last-used biller profile. State is read and written only
// through a Store; there is no locking, so two writers on the same profile
// can race on the counter.
package numbering

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"invoicegen/internal/invoice"
)

const (
	CounterKey = "invoice-generator-counter"
	BillerKey  = "invoice-generator-biller-details"
)

// Store is the key-value capability the policy persists through.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Next advances lastCounter and formats the display number.
func Next(prefix string, lastCounter, year int) (string, int) {
	n := lastCounter + 1
	return Format(prefix, year, n), n
}

// Format renders "{prefix}-{year}-{counter:04d}", or "{year}-{counter:04d}"
// when prefix is empty.
func Format(prefix string, year, counter int) string {
	if prefix == "" {
		return fmt.Sprintf("%d-%04d", year, counter)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, counter)
}

// Policy reads and writes numbering state for one profile.
type Policy struct {
	store  Store
	prefix string
}

func NewPolicy(store Store, prefix string) *Policy {
	return &Policy{store: store, prefix: prefix}
}

// Current is the app-load path. The first ever call persists counter 1 and
// shows it without incrementing; later calls show the stored counter as is.
func (p *Policy) Current(ctx context.Context, year int) (string, int, error) {
	n, ok, err := p.counter(ctx)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		n = 1
		if err := p.store.Set(ctx, CounterKey, strconv.Itoa(n)); err != nil {
			return "", 0, fmt.Errorf("numbering: init counter: %w", err)
		}
	}
	return Format(p.prefix, year, n), n, nil
}

// Advance is the "new invoice" path: counter+1 is persisted and returned.
// An absent counter counts as 1, so the first advance yields 2.
func (p *Policy) Advance(ctx context.Context, year int) (string, int, error) {
	last, ok, err := p.counter(ctx)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		last = 1
	}
	display, n := Next(p.prefix, last, year)
	if err := p.store.Set(ctx, CounterKey, strconv.Itoa(n)); err != nil {
		return "", 0, fmt.Errorf("numbering: store counter: %w", err)
	}
	return display, n, nil
}

// counter returns ok=false when nothing usable is stored. A value that does
// not parse as an integer is treated like a missing one.
func (p *Policy) counter(ctx context.Context) (int, bool, error) {
	raw, ok, err := p.store.Get(ctx, CounterKey)
	if err != nil {
		return 0, false, fmt.Errorf("numbering: read counter: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// ── Biller profile ───────────────────────────────────────────────────────────

type billerJSON struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// LoadBiller returns the saved issuing company, or a blank one.
func (p *Policy) LoadBiller(ctx context.Context) (invoice.Company, error) {
	raw, ok, err := p.store.Get(ctx, BillerKey)
	if err != nil {
		return invoice.Company{}, fmt.Errorf("numbering: read biller: %w", err)
	}
	if !ok || raw == "" {
		return invoice.Company{}, nil
	}
	var b billerJSON
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return invoice.Company{}, nil
	}
	return invoice.Company(b), nil
}

// SaveBiller persists c when it has a name and reports whether it did.
func (p *Policy) SaveBiller(ctx context.Context, c invoice.Company) (bool, error) {
	if strings.TrimSpace(c.Name) == "" {
		return false, nil
	}
	data, err := json.Marshal(billerJSON(c))
	if err != nil {
		return false, err
	}
	if err := p.store.Set(ctx, BillerKey, string(data)); err != nil {
		return false, fmt.Errorf("numbering: store biller: %w", err)
	}
	return true, nil
}
