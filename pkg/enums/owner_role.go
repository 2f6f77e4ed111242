package enums

import "fmt"

// OwnerRole describes the allowed values for the owners.role column.
type OwnerRole string

const (
	OwnerRoleAdmin   OwnerRole = "admin"
	OwnerRoleCreator OwnerRole = "creator"
)

var validOwnerRoles = []OwnerRole{
	OwnerRoleAdmin,
	OwnerRoleCreator,
}

// IsValid reports whether the value matches the canonical owner role enum.
func (o OwnerRole) IsValid() bool {
	for _, candidate := range validOwnerRoles {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOwnerRole converts the raw string to OwnerRole.
func ParseOwnerRole(value string) (OwnerRole, error) {
	for _, candidate := range validOwnerRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid owner role %q", value)
}
