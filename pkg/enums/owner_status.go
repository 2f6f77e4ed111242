package enums

import "fmt"

// OwnerStatus describes the allowed values for the owners.status column.
type OwnerStatus string

const (
	OwnerStatusActive    OwnerStatus = "active"
	OwnerStatusSuspended OwnerStatus = "suspended"
)

var validOwnerStatuses = []OwnerStatus{
	OwnerStatusActive,
	OwnerStatusSuspended,
}

// IsValid reports whether the value matches the canonical owner status enum.
func (o OwnerStatus) IsValid() bool {
	for _, candidate := range validOwnerStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOwnerStatus converts the raw string to OwnerStatus.
func ParseOwnerStatus(value string) (OwnerStatus, error) {
	for _, candidate := range validOwnerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid owner status %q", value)
}
