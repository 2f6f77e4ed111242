package report

import (
	"sort"
	"time"

	"github.com/dmarroquin/creatorstats-backend/internal/aggregate"
	"github.com/shopspring/decimal"
)

// DefaultTopContentLimit caps the content breakdown when no limit is
// configured.
const DefaultTopContentLimit = 20

// Policy controls presentation of built snapshots. Channel-level gross
// exposure is presentation only and never affects net figures.
type Policy struct {
	// ExposeChannelGross keeps gross figures on channel snapshots. When
	// false the gross column is zeroed so a channel view cannot reveal
	// economics outside the owner's dashboard.
	ExposeChannelGross bool
	TopContentLimit    int
}

// DailyEntry is one day of a snapshot's time series.
type DailyEntry struct {
	Date         string          `json:"date"`
	Views        int64           `json:"views"`
	PremiumViews int64           `json:"premiumViews"`
	GrossRevenue decimal.Decimal `json:"grossRevenue"`
	NetRevenue   decimal.Decimal `json:"netRevenue"`
}

// CountryEntry is one country of a snapshot's geographic breakdown.
type CountryEntry struct {
	CountryCode string          `json:"countryCode"`
	Views       int64           `json:"views"`
	NetRevenue  decimal.Decimal `json:"netRevenue"`
}

// ContentEntry is one content item of a snapshot's top-content breakdown.
type ContentEntry struct {
	Label      string          `json:"label"`
	Views      int64           `json:"views"`
	NetRevenue decimal.Decimal `json:"netRevenue"`
}

// Snapshot is the full-replacement report for one owner or one channel.
type Snapshot struct {
	TotalViews        int64           `json:"totalViews"`
	TotalPremiumViews int64           `json:"totalPremiumViews"`
	TotalNetRevenue   decimal.Decimal `json:"totalNetRevenue"`
	DailySeries       []DailyEntry    `json:"dailySeries"`
	TopCountries      []CountryEntry  `json:"topCountries"`
	TopContent        []ContentEntry  `json:"topContent"`
	LastSyncedAt      time.Time       `json:"lastSyncedAt"`
}

// Builder converts running aggregates into snapshots under one policy.
type Builder struct {
	policy Policy
}

// NewBuilder returns a builder; a non-positive content limit falls back to
// the default cap.
func NewBuilder(policy Policy) *Builder {
	if policy.TopContentLimit <= 0 {
		policy.TopContentLimit = DefaultTopContentLimit
	}
	return &Builder{policy: policy}
}

// Owner builds the owner-facing snapshot. Gross stays on the daily series.
func (b *Builder) Owner(acc *aggregate.Accumulator, syncedAt time.Time) *Snapshot {
	return b.build(acc, syncedAt, true)
}

// Channel builds the channel-facing snapshot; gross is zeroed unless the
// policy exposes it.
func (b *Builder) Channel(acc *aggregate.Accumulator, syncedAt time.Time) *Snapshot {
	return b.build(acc, syncedAt, b.policy.ExposeChannelGross)
}

func (b *Builder) build(acc *aggregate.Accumulator, syncedAt time.Time, exposeGross bool) *Snapshot {
	if acc.Empty() {
		return nil
	}

	snap := &Snapshot{
		TotalViews:        acc.Totals.Views,
		TotalPremiumViews: acc.Totals.PremiumViews,
		TotalNetRevenue:   acc.Totals.Net,
		DailySeries:       dailySeries(acc.Days(), exposeGross),
		TopCountries:      topCountries(acc.Countries()),
		TopContent:        topContent(acc.Content(), b.policy.TopContentLimit),
		LastSyncedAt:      syncedAt.UTC(),
	}
	return snap
}

func dailySeries(days []aggregate.BucketEntry, exposeGross bool) []DailyEntry {
	series := make([]DailyEntry, 0, len(days))
	for _, day := range days {
		entry := DailyEntry{
			Date:         day.Key,
			Views:        day.Totals.Views,
			PremiumViews: day.Totals.PremiumViews,
			GrossRevenue: decimal.Zero,
			NetRevenue:   day.Totals.Net,
		}
		if exposeGross {
			entry.GrossRevenue = day.Totals.Gross
		}
		series = append(series, entry)
	}
	// ISO dates sort lexicographically; date is the bucket key so ties
	// cannot occur.
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

func topCountries(countries []aggregate.BucketEntry) []CountryEntry {
	out := make([]CountryEntry, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryEntry{
			CountryCode: c.Key,
			Views:       c.Totals.Views,
			NetRevenue:  c.Totals.Net,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Views > out[j].Views
	})
	return out
}

func topContent(content []aggregate.BucketEntry, limit int) []ContentEntry {
	out := make([]ContentEntry, 0, len(content))
	for _, c := range content {
		out = append(out, ContentEntry{
			Label:      c.Key,
			Views:      c.Totals.Views,
			NetRevenue: c.Totals.Net,
		})
	}
	// stable keeps bucket-insertion order on equal net revenue
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetRevenue.GreaterThan(out[j].NetRevenue)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
