package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/cache"
	"spendwise/internal/core"
)

type fakeSource struct {
	items []core.Transaction
	rev   uint64
	calls int
}

func (f *fakeSource) GetAll() []core.Transaction {
	f.calls++
	return append([]core.Transaction(nil), f.items...)
}

func (f *fakeSource) Revision() uint64 { return f.rev }

func TestEngineCachesPerRevision(t *testing.T) {
	src := &fakeSource{items: []core.Transaction{tx(1, core.Expense, "5", "Transport", "2026-02-01")}}
	e := NewEngine(src, WithCache(cache.NewLRUCache[any](16, time.Minute)))

	first := e.ByCategory(core.Expense)
	second := e.ByCategory(core.Expense)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, src.calls)

	src.items = append(src.items, tx(2, core.Expense, "5", "Transport", "2026-02-02"))
	src.rev++
	third := e.ByCategory(core.Expense)
	assert.Equal(t, 2, src.calls)
	assert.True(t, third.Total().Equal(dec("10")))

	stats, ok := e.CacheStats()
	require.True(t, ok)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)

	_, ok = NewEngine(src).CacheStats()
	assert.False(t, ok)
}

func TestEngineReturnsIndependentCopies(t *testing.T) {
	src := &fakeSource{items: []core.Transaction{tx(1, core.Expense, "5", "Transport", "2026-02-01")}}
	e := NewEngine(src, WithCache(cache.NewLRUCache[any](16, time.Minute)))

	got := e.ByCategory(core.Expense)
	got[0].Category = "mutated"

	assert.Equal(t, "Transport", e.ByCategory(core.Expense)[0].Category)
}

func TestEngineUsesClock(t *testing.T) {
	now := time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{items: []core.Transaction{tx(1, core.Expense, "5", "Transport", "2026-02-03")}}
	e := NewEngine(src, WithEngineClock(func() time.Time { return now }))

	daily := e.DailyTotals(7, core.Expense)
	require.Len(t, daily, 7)
	assert.Equal(t, "2026-02-03", daily[6].Date)
	assert.True(t, daily[6].Amount.Equal(dec("5")))

	hm := e.Heatmap(2026, time.February)
	assert.True(t, hm.Days[2].IsToday)
	assert.Equal(t, 3, hm.Days[2].Level)
}
