package aggregate

import (
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/shopspring/decimal"
)

// Totals carries the four running sums tracked at every level of an
// accumulator: top-level and inside each day/country/content bucket.
type Totals struct {
	Views        int64
	PremiumViews int64
	Gross        decimal.Decimal
	Net          decimal.Decimal
}

func (t *Totals) add(views, premium int64, gross, net decimal.Decimal) {
	t.Views += views
	t.PremiumViews += premium
	t.Gross = t.Gross.Add(gross)
	t.Net = t.Net.Add(net)
}

// BucketEntry is one bucket's key and sums, yielded in insertion order.
type BucketEntry struct {
	Key    string
	Totals Totals
}

// Accumulator is the batch-local running aggregate for one channel or one
// owner. It is created on the first row touching its key and discarded once
// the batch is converted to a snapshot; it is never persisted directly.
type Accumulator struct {
	Totals Totals

	byDay     map[string]*Totals
	byCountry map[string]*Totals
	byContent map[string]*Totals

	dayKeys     []string
	countryKeys []string
	contentKeys []string
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		byDay:     map[string]*Totals{},
		byCountry: map[string]*Totals{},
		byContent: map[string]*Totals{},
	}
}

// Merge folds one resolved row into the accumulator: the top-level sums plus
// the row's day, country and content buckets. The net figure is computed by
// the caller at the row's resolved share before merging.
func (a *Accumulator) Merge(row ingest.UsageRow, net decimal.Decimal) {
	a.Totals.add(row.Views, row.PremiumViews, row.GrossRevenue, net)
	bucket(a.byDay, &a.dayKeys, row.Date).add(row.Views, row.PremiumViews, row.GrossRevenue, net)
	bucket(a.byCountry, &a.countryKeys, row.CountryCode).add(row.Views, row.PremiumViews, row.GrossRevenue, net)
	bucket(a.byContent, &a.contentKeys, row.ContentLabel).add(row.Views, row.PremiumViews, row.GrossRevenue, net)
}

func bucket(m map[string]*Totals, order *[]string, key string) *Totals {
	if t, ok := m[key]; ok {
		return t
	}
	t := &Totals{}
	m[key] = t
	*order = append(*order, key)
	return t
}

// Days returns the day buckets in insertion order.
func (a *Accumulator) Days() []BucketEntry {
	return entries(a.byDay, a.dayKeys)
}

// Countries returns the country buckets in insertion order.
func (a *Accumulator) Countries() []BucketEntry {
	return entries(a.byCountry, a.countryKeys)
}

// Content returns the content buckets in insertion order.
func (a *Accumulator) Content() []BucketEntry {
	return entries(a.byContent, a.contentKeys)
}

// Empty reports whether no row has touched this accumulator.
func (a *Accumulator) Empty() bool {
	return a == nil || len(a.dayKeys) == 0
}

func entries(m map[string]*Totals, order []string) []BucketEntry {
	out := make([]BucketEntry, 0, len(order))
	for _, key := range order {
		out = append(out, BucketEntry{Key: key, Totals: *m[key]})
	}
	return out
}
