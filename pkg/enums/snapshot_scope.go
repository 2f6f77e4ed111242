package enums

import "fmt"

// SnapshotScope describes which entity a persisted stat snapshot belongs to.
type SnapshotScope string

const (
	SnapshotScopeOwner   SnapshotScope = "owner"
	SnapshotScopeChannel SnapshotScope = "channel"
)

var validSnapshotScopes = []SnapshotScope{
	SnapshotScopeOwner,
	SnapshotScopeChannel,
}

// IsValid reports whether the value matches the canonical snapshot scope enum.
func (s SnapshotScope) IsValid() bool {
	for _, candidate := range validSnapshotScopes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSnapshotScope converts the raw string to SnapshotScope.
func ParseSnapshotScope(value string) (SnapshotScope, error) {
	for _, candidate := range validSnapshotScopes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid snapshot scope %q", value)
}
