package postgres

import (
	"context"
	"errors"

	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/types"
	"github.com/jackc/pgx/v5"
)

// Ensure UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// UserStore implements the store.UserStore interface for PostgreSQL.
type UserStore struct {
	db DB
}

// NewUserStore creates a new UserStore instance.
func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

// GetUser retrieves a user profile by ID.
func (s *UserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	query := `
		SELECT id, email, COALESCE(full_name, ''), COALESCE(avatar_url, ''), created_at
		FROM user_profiles
		WHERE id = $1`

	user := &types.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.AvatarURL,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetUsersByIDs retrieves profiles for the given IDs, keyed by user ID.
// Missing IDs are simply absent from the result.
func (s *UserStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]types.User, error) {
	result := make(map[string]types.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, email, COALESCE(full_name, ''), COALESCE(avatar_url, ''), created_at
		FROM user_profiles
		WHERE id = ANY($1)`

	rows, err := s.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user types.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.FullName,
			&user.AvatarURL,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
