package types

import "time"

// ResidentRole is a resident's role within a property.
type ResidentRole string

const (
	ResidentRoleOwner    ResidentRole = "owner"
	ResidentRoleResident ResidentRole = "resident"
)

// Property is the coliving unit that owns expenses and settlements.
type Property struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Resident is a property membership row.
type Resident struct {
	PropertyID string       `json:"propertyId"`
	UserID     string       `json:"userId"`
	FullName   string       `json:"fullName"`
	Role       ResidentRole `json:"role"`
	JoinedAt   time.Time    `json:"joinedAt"`
}
