package analytics

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/cache"
	"spendwise/internal/core"
)

// Source provides snapshots and a revision that changes on every write.
type Source interface {
	GetAll() []core.Transaction
	Revision() uint64
}

// Engine evaluates aggregations against the current snapshot of a Source.
// Results are memoized per revision when a cache is configured.
type Engine struct {
	src   Source
	now   func() time.Time
	cache cache.Cache[any]
}

type EngineOption func(*Engine)

func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithCache(c cache.Cache[any]) EngineOption {
	return func(e *Engine) { e.cache = c }
}

func NewEngine(src Source, opts ...EngineOption) *Engine {
	e := &Engine{src: src, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time { return e.now() }

// CacheStats reports the memo cache counters, or false when caching is off.
func (e *Engine) CacheStats() (cache.Stats, bool) {
	if e.cache == nil {
		return cache.Stats{}, false
	}
	return e.cache.Stats(), true
}

func (e *Engine) ByCategory(typ core.Type) CategoryTotals {
	return memo(e, "categories:"+string(typ), slices.Clone[CategoryTotals], func(s []core.Transaction) CategoryTotals {
		return ByCategory(s, typ)
	})
}

func (e *Engine) Breakdown(typ core.Type) Breakdown {
	return memo(e, "breakdown:"+string(typ), cloneBreakdown, func(s []core.Transaction) Breakdown {
		return BreakdownFor(s, typ)
	})
}

func (e *Engine) DailyTotals(days int, typ core.Type) DailySeries {
	today := e.now()
	key := fmt.Sprintf("daily:%s:%d:%s", typ, days, core.Today(today))
	return memo(e, key, slices.Clone[DailySeries], func(s []core.Transaction) DailySeries {
		return DailyTotals(s, days, typ, today)
	})
}

func (e *Engine) CalendarData() map[string]decimal.Decimal {
	return memo(e, "calendar", maps.Clone[map[string]decimal.Decimal], CalendarData)
}

// Heatmap builds the month calendar for year/month, marking today.
func (e *Engine) Heatmap(year int, month time.Month) Heatmap {
	return MonthHeatmap(e.CalendarData(), year, month, core.Today(e.now()))
}

func (e *Engine) MonthlyTotals(months int) []MonthTotal {
	now := e.now()
	key := fmt.Sprintf("monthly:%d:%s", months, now.Format("2006-01"))
	return memo(e, key, slices.Clone[[]MonthTotal], func(s []core.Transaction) []MonthTotal {
		return MonthlyTotals(s, months, now)
	})
}

func (e *Engine) Dashboard(recent int) DashboardSummary {
	now := e.now()
	key := fmt.Sprintf("dashboard:%d:%s", recent, core.Today(now))
	return memo(e, key, cloneDashboard, func(s []core.Transaction) DashboardSummary {
		return Dashboard(s, now, recent)
	})
}

// memo computes fn over the current snapshot, reusing a cached result of the
// same revision. A result is only stored if no write happened meanwhile.
func memo[T any](e *Engine, key string, clone func(T) T, fn func([]core.Transaction) T) T {
	if e.cache == nil {
		return fn(e.src.GetAll())
	}
	rev := e.src.Revision()
	full := fmt.Sprintf("%d:%s", rev, key)
	if v, ok := e.cache.Get(full); ok {
		if t, ok := v.(T); ok {
			return clone(t)
		}
	}
	out := fn(e.src.GetAll())
	if e.src.Revision() == rev {
		e.cache.Set(full, clone(out))
	}
	return out
}

func cloneBreakdown(b Breakdown) Breakdown {
	b.Rows = slices.Clone(b.Rows)
	return b
}

func cloneDashboard(d DashboardSummary) DashboardSummary {
	d.Recent = slices.Clone(d.Recent)
	return d
}
