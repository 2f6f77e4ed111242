package aggregate

import (
	"github.com/dmarroquin/creatorstats-backend/internal/ingest"
	"github.com/dmarroquin/creatorstats-backend/internal/ownership"
	"github.com/google/uuid"
)

// Result holds the outcome of folding one batch: the per-channel and
// per-owner accumulators plus the matched/orphaned tallies for the
// completion report.
type Result struct {
	Channels map[string]*Accumulator
	Owners   map[uuid.UUID]*Accumulator

	MatchedRows  int
	OrphanedRows int
	// Orphaned lists distinct channel identifiers with no current binding,
	// in first-seen order.
	Orphaned []string
}

// Fold aggregates normalized rows against the batch resolver. Rows whose
// channel does not resolve contribute to no aggregate and are tallied as
// orphaned. The fold is commutative and associative over addition: any row
// order produces the same result.
func Fold(rows []ingest.UsageRow, resolver *ownership.Resolver) *Result {
	res := &Result{
		Channels: map[string]*Accumulator{},
		Owners:   map[uuid.UUID]*Accumulator{},
	}
	orphanSeen := map[string]struct{}{}

	for _, row := range rows {
		resolution, ok := resolver.Resolve(row.ChannelID)
		if !ok {
			res.OrphanedRows++
			if _, seen := orphanSeen[row.ChannelID]; !seen {
				orphanSeen[row.ChannelID] = struct{}{}
				res.Orphaned = append(res.Orphaned, row.ChannelID)
			}
			continue
		}

		net := NetRevenue(row.GrossRevenue, resolution.SharePercent)

		channelAcc, ok := res.Channels[row.ChannelID]
		if !ok {
			channelAcc = NewAccumulator()
			res.Channels[row.ChannelID] = channelAcc
		}
		channelAcc.Merge(row, net)

		ownerAcc, ok := res.Owners[resolution.OwnerID]
		if !ok {
			ownerAcc = NewAccumulator()
			res.Owners[resolution.OwnerID] = ownerAcc
		}
		ownerAcc.Merge(row, net)

		res.MatchedRows++
	}

	return res
}
