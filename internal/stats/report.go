package stats

import (
	"fmt"

	"github.com/dmarroquin/creatorstats-backend/pkg/enums"
	"go.uber.org/multierr"
)

// KeyRef identifies one persisted snapshot: owner scope keyed by owner id,
// channel scope keyed by the external channel id.
type KeyRef struct {
	Scope enums.SnapshotScope `json:"scope"`
	Key   string              `json:"key"`
}

func (k KeyRef) String() string {
	return fmt.Sprintf("%s:%s", k.Scope, k.Key)
}

// KeyFailure records why one snapshot write failed.
type KeyFailure struct {
	KeyRef
	Reason string `json:"reason"`
}

// PersistReport is the per-key outcome of one batch write. Batch persistence
// is all-or-nothing: when any key fails the transaction rolls back, Committed
// is false, and Applied lists writes that were reverted along with it.
type PersistReport struct {
	Applied   []KeyRef     `json:"applied"`
	Failed    []KeyFailure `json:"failed"`
	Committed bool         `json:"committed"`
	errs      []error
}

func (r *PersistReport) recordApplied(key KeyRef) {
	r.Applied = append(r.Applied, key)
}

func (r *PersistReport) recordFailure(key KeyRef, err error) {
	r.Failed = append(r.Failed, KeyFailure{KeyRef: key, Reason: err.Error()})
	r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
}

// Err combines every per-key failure, or nil when all keys succeeded.
func (r *PersistReport) Err() error {
	return multierr.Combine(r.errs...)
}
