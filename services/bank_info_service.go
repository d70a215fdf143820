package services

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/pkg/iban"
	"github.com/izzico/izzico-backend/types"
)

// bankInfoCooldown is how long after a bank info change settlement payouts to
// the new account stay flagged. Verification clears it early.
const bankInfoCooldown = 48 * time.Hour

// BankInfoServiceInterface is the payout configuration contract the handlers use.
type BankInfoServiceInterface interface {
	GetBankInfo(ctx context.Context, userID string) (*types.BankInfo, error)
	UpdateBankInfo(ctx context.Context, userID string, req types.UpdateBankInfoRequest) (*types.BankInfo, error)
	MarkVerified(ctx context.Context, userID string) error
	ModificationAllowed(ctx context.Context, userID string) (bool, time.Duration, error)
}

// BankInfoService manages a resident's payout configuration.
type BankInfoService struct {
	bankInfoStore store.BankInfoStore
}

func NewBankInfoService(bankInfoStore store.BankInfoStore) *BankInfoService {
	return &BankInfoService{bankInfoStore: bankInfoStore}
}

// GetBankInfo returns the caller's own payout configuration with the IBAN
// masked. The full number is never echoed back, not even to its owner.
func (s *BankInfoService) GetBankInfo(ctx context.Context, userID string) (*types.BankInfo, error) {
	info, err := s.bankInfoStore.GetBankInfo(ctx, userID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("Bank info", userID)
		}
		return nil, errors.NewDatabaseError(err)
	}

	if info.IBAN != "" {
		info.IBANMasked = logger.MaskIBAN(info.IBAN)
	}
	info.IBAN = ""
	return info, nil
}

// UpdateBankInfo validates and stores the caller's payout configuration.
// Changing the IBAN clears the verified flag and starts the cool-down.
func (s *BankInfoService) UpdateBankInfo(ctx context.Context, userID string, req types.UpdateBankInfoRequest) (*types.BankInfo, error) {
	log := logger.GetLogger()

	normalized := ""
	if req.IBAN != "" {
		normalized = iban.Normalize(req.IBAN)
		if !iban.IsValid(normalized) {
			return nil, errors.ValidationFailed("invalid IBAN", "checksum validation failed")
		}
	}
	if normalized == "" && req.Revtag == "" {
		return nil, errors.ValidationFailed(
			"no payment channel provided",
			"set an IBAN or a Revolut tag",
		)
	}
	if req.PayconiqEnabled && normalized == "" {
		return nil, errors.ValidationFailed("Payconiq requires an IBAN", "")
	}

	allowed, remaining, err := s.ModificationAllowed(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, errors.RateLimited(
			"bank info was changed recently, wait for the cool-down to expire",
			int(remaining.Seconds()),
		)
	}

	info := &types.BankInfo{
		UserID:            userID,
		IBAN:              normalized,
		BankName:          req.BankName,
		AccountHolderName: req.AccountHolderName,
		Revtag:            req.Revtag,
		PayconiqEnabled:   req.PayconiqEnabled,
	}
	if err := s.bankInfoStore.UpsertBankInfo(ctx, info); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	log.Infow("Bank info updated",
		"user_id", userID,
		"iban", logger.MaskIBAN(normalized),
		"payconiq_enabled", req.PayconiqEnabled,
	)
	return s.GetBankInfo(ctx, userID)
}

// MarkVerified sets the verified flag, clearing the cool-down. Called after
// the owner confirms a micro-deposit or an equivalent out-of-band check.
func (s *BankInfoService) MarkVerified(ctx context.Context, userID string) error {
	err := s.bankInfoStore.MarkVerified(ctx, userID, time.Now().UTC())
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return errors.NotFound("Bank info", userID)
		}
		return errors.NewDatabaseError(err)
	}
	logger.GetLogger().Infow("Bank info verified", "user_id", userID)
	return nil
}

// ModificationAllowed reports whether the cool-down from the last change has
// expired. Verified accounts are never blocked; a user with no bank info yet
// is always allowed.
func (s *BankInfoService) ModificationAllowed(ctx context.Context, userID string) (bool, time.Duration, error) {
	info, err := s.bankInfoStore.GetBankInfo(ctx, userID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return true, 0, nil
		}
		return false, 0, errors.NewDatabaseError(err)
	}

	if info.Verified {
		return true, 0, nil
	}
	elapsed := time.Since(info.UpdatedAt)
	if elapsed >= bankInfoCooldown {
		return true, 0, nil
	}
	return false, bankInfoCooldown - elapsed, nil
}
