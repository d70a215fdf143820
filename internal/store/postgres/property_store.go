package postgres

import (
	"context"
	"errors"

	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/types"
	"github.com/jackc/pgx/v5"
)

// Ensure PropertyStore implements store.PropertyStore.
var _ store.PropertyStore = (*PropertyStore)(nil)

// PropertyStore implements the store.PropertyStore interface for PostgreSQL.
type PropertyStore struct {
	db DB
}

// NewPropertyStore creates a new PropertyStore instance.
func NewPropertyStore(db DB) *PropertyStore {
	return &PropertyStore{db: db}
}

// GetProperty retrieves a property by its ID.
func (s *PropertyStore) GetProperty(ctx context.Context, id string) (*types.Property, error) {
	query := `
		SELECT id, name, COALESCE(address, ''), owner_id, created_at
		FROM properties
		WHERE id = $1 AND deleted_at IS NULL`

	property := &types.Property{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.Name,
		&property.Address,
		&property.OwnerID,
		&property.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	return property, nil
}

// ListResidents retrieves the active residents of a property.
func (s *PropertyStore) ListResidents(ctx context.Context, propertyID string) ([]types.Resident, error) {
	query := `
		SELECT pr.property_id, pr.user_id, COALESCE(up.full_name, ''), pr.role, pr.joined_at
		FROM property_residents pr
		LEFT JOIN user_profiles up ON up.id = pr.user_id
		WHERE pr.property_id = $1 AND pr.left_at IS NULL
		ORDER BY pr.joined_at`

	rows, err := s.db.Query(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []types.Resident
	for rows.Next() {
		var resident types.Resident
		err := rows.Scan(
			&resident.PropertyID,
			&resident.UserID,
			&resident.FullName,
			&resident.Role,
			&resident.JoinedAt,
		)
		if err != nil {
			return nil, err
		}
		residents = append(residents, resident)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return residents, nil
}

// IsResident reports whether the user is an active resident of the property.
func (s *PropertyStore) IsResident(ctx context.Context, propertyID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM property_residents
			WHERE property_id = $1 AND user_id = $2 AND left_at IS NULL
		)`

	var exists bool
	if err := s.db.QueryRow(ctx, query, propertyID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
