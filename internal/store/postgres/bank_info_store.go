package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/types"
	"github.com/jackc/pgx/v5"
)

// Ensure BankInfoStore implements store.BankInfoStore.
var _ store.BankInfoStore = (*BankInfoStore)(nil)

// BankInfoStore implements the store.BankInfoStore interface for PostgreSQL.
type BankInfoStore struct {
	db DB
}

// NewBankInfoStore creates a new BankInfoStore instance.
func NewBankInfoStore(db DB) *BankInfoStore {
	return &BankInfoStore{db: db}
}

// GetBankInfo retrieves a user's payout configuration.
func (s *BankInfoStore) GetBankInfo(ctx context.Context, userID string) (*types.BankInfo, error) {
	query := `
		SELECT user_id, COALESCE(iban, ''), COALESCE(bank_name, ''),
			COALESCE(account_holder_name, ''), COALESCE(revtag, ''),
			payconiq_enabled, verified, verified_at, updated_at
		FROM user_bank_info
		WHERE user_id = $1`

	info := &types.BankInfo{}
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&info.UserID,
		&info.IBAN,
		&info.BankName,
		&info.AccountHolderName,
		&info.Revtag,
		&info.PayconiqEnabled,
		&info.Verified,
		&info.VerifiedAt,
		&info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	return info, nil
}

// UpsertBankInfo writes the user's payout configuration. Any change to the
// IBAN clears the verified flag; re-verification is a separate step.
func (s *BankInfoStore) UpsertBankInfo(ctx context.Context, info *types.BankInfo) error {
	query := `
		INSERT INTO user_bank_info (user_id, iban, bank_name, account_holder_name,
			revtag, payconiq_enabled, verified, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			iban = EXCLUDED.iban,
			bank_name = EXCLUDED.bank_name,
			account_holder_name = EXCLUDED.account_holder_name,
			revtag = EXCLUDED.revtag,
			payconiq_enabled = EXCLUDED.payconiq_enabled,
			verified = CASE
				WHEN user_bank_info.iban IS DISTINCT FROM EXCLUDED.iban THEN FALSE
				ELSE user_bank_info.verified
			END,
			verified_at = CASE
				WHEN user_bank_info.iban IS DISTINCT FROM EXCLUDED.iban THEN NULL
				ELSE user_bank_info.verified_at
			END,
			updated_at = NOW()`

	_, err := s.db.Exec(ctx, query,
		info.UserID,
		info.IBAN,
		info.BankName,
		info.AccountHolderName,
		info.Revtag,
		info.PayconiqEnabled,
	)
	return err
}

// MarkVerified sets the verified flag on a user's bank info.
func (s *BankInfoStore) MarkVerified(ctx context.Context, userID string, at time.Time) error {
	query := `
		UPDATE user_bank_info
		SET verified = TRUE, verified_at = $2, updated_at = NOW()
		WHERE user_id = $1`

	tag, err := s.db.Exec(ctx, query, userID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// RecordIBANReveal appends an audit row for a payment info read.
func (s *BankInfoStore) RecordIBANReveal(ctx context.Context, viewerID, targetID string, fullReveal bool) error {
	query := `
		INSERT INTO iban_reveal_audit (viewer_id, target_id, full_reveal)
		VALUES ($1, $2, $3)`

	_, err := s.db.Exec(ctx, query, viewerID, targetID, fullReveal)
	return err
}
