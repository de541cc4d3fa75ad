package numbering_test

import (
	"context"
	"errors"
	"testing"

	"invoicegen/internal/invoice"
	"invoicegen/internal/numbering"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("boom")
}
func (failingStore) Set(context.Context, string, string) error { return errors.New("boom") }

func TestNext(t *testing.T) {
	s, n := numbering.Next("INV", 41, 2026)
	assert.Equal(t, "INV-2026-0042", s)
	assert.Equal(t, 42, n)

	s, _ = numbering.Next("", 0, 2026)
	assert.Equal(t, "2026-0001", s)

	s, _ = numbering.Next("INV", 12344, 2026)
	assert.Equal(t, "INV-2026-12345", s)
}

func TestPolicy_FirstUseThenNewInvoice(t *testing.T) {
	ctx := context.Background()
	store := numbering.NewMemoryStore()
	p := numbering.NewPolicy(store, "INV")

	display, n, err := p.Current(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "INV-2026-0001", display)

	raw, ok, _ := store.Get(ctx, numbering.CounterKey)
	assert.True(t, ok)
	assert.Equal(t, "1", raw)

	// reload does not advance
	_, n, err = p.Current(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	display, n, err = p.Advance(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "INV-2026-0002", display)

	raw, _, _ = store.Get(ctx, numbering.CounterKey)
	assert.Equal(t, "2", raw)
}

func TestPolicy_AdvanceWithoutCounterStartsAtTwo(t *testing.T) {
	p := numbering.NewPolicy(numbering.NewMemoryStore(), "")
	display, n, err := p.Advance(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "2025-0002", display)
}

func TestPolicy_CorruptCounterTreatedAsMissing(t *testing.T) {
	ctx := context.Background()
	store := numbering.NewMemoryStore()
	require.NoError(t, store.Set(ctx, numbering.CounterKey, "not-a-number"))

	_, n, err := numbering.NewPolicy(store, "INV").Current(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPolicy_StoreErrorsPropagate(t *testing.T) {
	p := numbering.NewPolicy(failingStore{}, "INV")
	_, _, err := p.Current(context.Background(), 2026)
	assert.Error(t, err)
	_, _, err = p.Advance(context.Background(), 2026)
	assert.Error(t, err)
}

func TestPolicy_BillerRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := numbering.NewPolicy(numbering.NewMemoryStore(), "INV")

	empty, err := p.LoadBiller(ctx)
	require.NoError(t, err)
	assert.Equal(t, invoice.Company{}, empty)

	saved, err := p.SaveBiller(ctx, invoice.Company{Address: "no name"})
	require.NoError(t, err)
	assert.False(t, saved)

	biller := invoice.Company{Name: "Acme Traders", Address: "12 MG Road", GSTIN: "29ABCDE1234F1Z5", Phone: "98450"}
	saved, err = p.SaveBiller(ctx, biller)
	require.NoError(t, err)
	assert.True(t, saved)

	got, err := p.LoadBiller(ctx)
	require.NoError(t, err)
	assert.Equal(t, biller, got)
}

func TestScoped_IsolatesProfiles(t *testing.T) {
	ctx := context.Background()
	shared := numbering.NewMemoryStore()
	a := numbering.NewPolicy(numbering.Scoped(shared, "a"), "INV")
	b := numbering.NewPolicy(numbering.Scoped(shared, "b"), "INV")

	_, _, err := a.Advance(ctx, 2026)
	require.NoError(t, err)
	_, _, err = a.Advance(ctx, 2026)
	require.NoError(t, err)

	_, n, err := b.Current(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	raw, ok, _ := shared.Get(ctx, "profile:a:"+numbering.CounterKey)
	assert.True(t, ok)
	assert.Equal(t, "3", raw)
}
