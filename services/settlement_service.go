package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"github.com/izzico/izzico-backend/config"
	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/internal/paymentlink"
	"github.com/izzico/izzico-backend/internal/store"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/pkg/iban"
	"github.com/izzico/izzico-backend/pkg/valueobjects"
	"github.com/izzico/izzico-backend/types"
	"github.com/prometheus/client_golang/prometheus"
)

// SettlementServiceInterface is the settlement contract the handlers use.
type SettlementServiceInterface interface {
	GetPayeeInfo(ctx context.Context, viewerID, payeeID string, fullReveal bool) (*types.PayeeInfo, error)
	PreparePayment(ctx context.Context, payerID, payeeID string, amount valueobjects.Money, method types.PaymentMethod, reference string) (*types.PaymentInstruction, error)
	ReportPayment(ctx context.Context, propertyID, payerID string, req types.ReportPaymentRequest) (*types.PaymentSettlement, error)
}

type SettlementMetrics struct {
	settlementsReported prometheus.Counter
	ibanReveals         prometheus.Counter
	revealsDenied       prometheus.Counter
}

// SettlementService resolves payee payment channels and records reported
// out-of-band payments. Full IBAN reveals are rate limited and audited.
type SettlementService struct {
	settlementStore store.SettlementStore
	bankInfoStore   store.BankInfoStore
	propertyStore   store.PropertyStore
	userStore       store.UserStore
	rateLimiter     RateLimiterInterface
	emailSender     EmailSender
	rateLimitCfg    config.RateLimitConfig
	metrics         *SettlementMetrics
}

func NewSettlementService(
	settlementStore store.SettlementStore,
	bankInfoStore store.BankInfoStore,
	propertyStore store.PropertyStore,
	userStore store.UserStore,
	rateLimiter RateLimiterInterface,
	emailSender EmailSender,
	rateLimitCfg config.RateLimitConfig,
) *SettlementService {
	return NewSettlementServiceWithRegistry(settlementStore, bankInfoStore, propertyStore,
		userStore, rateLimiter, emailSender, rateLimitCfg, prometheus.DefaultRegisterer)
}

func NewSettlementServiceWithRegistry(
	settlementStore store.SettlementStore,
	bankInfoStore store.BankInfoStore,
	propertyStore store.PropertyStore,
	userStore store.UserStore,
	rateLimiter RateLimiterInterface,
	emailSender EmailSender,
	rateLimitCfg config.RateLimitConfig,
	reg prometheus.Registerer,
) *SettlementService {
	metrics := &SettlementMetrics{
		settlementsReported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_settlements_reported_total",
			Help: "Total number of settlements reported",
		}),
		ibanReveals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_iban_reveals_total",
			Help: "Total number of full IBAN reveals granted",
		}),
		revealsDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "izzico_iban_reveals_denied_total",
			Help: "Total number of full IBAN reveals denied by the rate limit",
		}),
	}
	reg.MustRegister(metrics.settlementsReported)
	reg.MustRegister(metrics.ibanReveals)
	reg.MustRegister(metrics.revealsDenied)

	return &SettlementService{
		settlementStore: settlementStore,
		bankInfoStore:   bankInfoStore,
		propertyStore:   propertyStore,
		userStore:       userStore,
		rateLimiter:     rateLimiter,
		emailSender:     emailSender,
		rateLimitCfg:    rateLimitCfg,
		metrics:         metrics,
	}
}

// GetPayeeInfo returns a roommate's payment channels. The IBAN comes back
// masked unless fullReveal is requested; full reveals are counted against a
// per-viewer rate limit and every read is audited.
func (s *SettlementService) GetPayeeInfo(ctx context.Context, viewerID, payeeID string, fullReveal bool) (*types.PayeeInfo, error) {
	log := logger.GetLogger()

	info, err := s.bankInfoStore.GetBankInfo(ctx, payeeID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NoPaymentMethod(payeeID, "payee has not configured any payment details")
		}
		return nil, errors.NewDatabaseError(err)
	}

	payee := &types.PayeeInfo{
		UserID:            payeeID,
		BankName:          info.BankName,
		AccountHolderName: info.AccountHolderName,
		Revtag:            info.Revtag,
		PayconiqEnabled:   info.PayconiqEnabled,
	}
	if info.IBAN != "" {
		payee.IBANMasked = logger.MaskIBAN(info.IBAN)
	}

	if fullReveal && info.IBAN != "" {
		if err := s.revealFullIBAN(ctx, viewerID, payeeID); err != nil {
			return nil, err
		}
		payee.IBAN = iban.Format(info.IBAN)
	} else if err := s.bankInfoStore.RecordIBANReveal(ctx, viewerID, payeeID, false); err != nil {
		// Audit failures must not leak payment details without a trace.
		log.Errorw("Failed to record IBAN reveal audit", "error", err)
		return nil, errors.NewDatabaseError(err)
	}

	if !payee.HasAnyChannel() {
		return nil, errors.NoPaymentMethod(payeeID, "payee has not configured any payment details")
	}
	return payee, nil
}

// revealFullIBAN charges a full IBAN disclosure against the viewer's reveal
// budget and writes the audit row. Every path that puts the full number in a
// response goes through here; a denied budget means no disclosure.
func (s *SettlementService) revealFullIBAN(ctx context.Context, viewerID, payeeID string) error {
	log := logger.GetLogger()

	window := time.Duration(s.rateLimitCfg.WindowSeconds) * time.Second
	allowed, retryIn, err := s.rateLimiter.CheckLimit(ctx,
		"iban_reveal:"+viewerID, s.rateLimitCfg.IBANRevealsPerWindow, window)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	if !allowed {
		s.metrics.revealsDenied.Inc()
		log.Warnw("IBAN reveal denied by rate limit",
			"viewer_id", viewerID, "payee_id", payeeID)
		return errors.RateLimited("too many IBAN reveals, try again later",
			int(retryIn.Seconds()))
	}

	if err := s.bankInfoStore.RecordIBANReveal(ctx, viewerID, payeeID, true); err != nil {
		// Audit failures must not leak payment details without a trace.
		log.Errorw("Failed to record IBAN reveal audit", "error", err)
		return errors.NewDatabaseError(err)
	}
	s.metrics.ibanReveals.Inc()
	return nil
}

// PreparePayment resolves the requested channel into an actionable
// instruction: a Payconiq deep link, a Revolut profile link, or copyable
// bank transfer details. Payconiq and bank transfer carry the payee's full
// IBAN, so both charge the payer's reveal budget like an explicit reveal.
func (s *SettlementService) PreparePayment(ctx context.Context, payerID, payeeID string, amount valueobjects.Money, method types.PaymentMethod, reference string) (*types.PaymentInstruction, error) {
	if !types.ValidPaymentMethods[method] {
		return nil, errors.ValidationFailed("invalid payment method", string(method))
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationFailed("settlement amount must be positive", amount.String())
	}

	info, err := s.bankInfoStore.GetBankInfo(ctx, payeeID)
	if err != nil {
		if goerrors.Is(err, store.ErrNotFound) {
			return nil, errors.NoPaymentMethod(payeeID, "payee has not configured any payment details")
		}
		return nil, errors.NewDatabaseError(err)
	}

	instruction := &types.PaymentInstruction{
		Method:          method,
		AmountFormatted: amount.String(),
		Reference:       reference,
	}

	switch method {
	case types.PaymentMethodPayconiq:
		if !info.PayconiqEnabled || info.IBAN == "" {
			return nil, errors.NoPaymentMethod(payeeID, "payee does not accept Payconiq")
		}
		// The deep link embeds the full IBAN.
		if err := s.revealFullIBAN(ctx, payerID, payeeID); err != nil {
			return nil, err
		}
		instruction.DeepLink = paymentlink.Payconiq(info.IBAN, amount.Cents(), reference)

	case types.PaymentMethodRevolut:
		if info.Revtag == "" {
			return nil, errors.NoPaymentMethod(payeeID, "payee has no Revolut tag")
		}
		instruction.DeepLink = paymentlink.Revolut(info.Revtag)

	case types.PaymentMethodBankTransfer:
		if info.IBAN == "" {
			return nil, errors.NoPaymentMethod(payeeID, "payee has no IBAN on file")
		}
		// The payer copies these into their banking app.
		if err := s.revealFullIBAN(ctx, payerID, payeeID); err != nil {
			return nil, err
		}
		instruction.IBAN = iban.Format(info.IBAN)
		instruction.IBANMasked = logger.MaskIBAN(info.IBAN)
		instruction.AccountHolderName = info.AccountHolderName
		instruction.BankName = info.BankName
	}

	return instruction, nil
}

// ReportPayment records a payer's attestation that money was sent outside the
// platform. The store flips covered splits in the same transaction; only the
// residual keeps adjusting balances afterwards. The payee is notified by
// email on a best effort basis.
func (s *SettlementService) ReportPayment(ctx context.Context, propertyID, payerID string, req types.ReportPaymentRequest) (*types.PaymentSettlement, error) {
	log := logger.GetLogger()

	if payerID == req.PayeeID {
		return nil, errors.ValidationFailed("cannot settle with yourself", "")
	}
	if !types.ValidPaymentMethods[req.Method] {
		return nil, errors.ValidationFailed("invalid payment method", string(req.Method))
	}
	amount, err := valueobjects.NewMoney(req.Amount, valueobjects.EUR)
	if err != nil {
		return nil, errors.ValidationFailed("invalid settlement amount", err.Error())
	}
	if !amount.IsPositive() {
		return nil, errors.ValidationFailed("settlement amount must be positive", amount.String())
	}

	for _, userID := range []string{payerID, req.PayeeID} {
		ok, err := s.propertyStore.IsResident(ctx, propertyID, userID)
		if err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		if !ok {
			return nil, errors.Forbidden("both parties must be residents of the property", userID)
		}
	}

	settlement := &types.PaymentSettlement{
		PropertyID:  propertyID,
		PayerID:     payerID,
		PayeeID:     req.PayeeID,
		Amount:      amount.Amount(),
		Method:      req.Method,
		Description: req.Description,
	}

	id, applied, err := s.settlementStore.CreateSettlement(ctx, settlement)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	settlement.ID = id
	settlement.AppliedAmount = applied
	settlement.CreatedAt = time.Now().UTC()

	s.metrics.settlementsReported.Inc()
	log.Infow("Settlement reported",
		"settlement_id", id,
		"property_id", propertyID,
		"amount", amount.String(),
		"applied", applied.StringFixed(2),
		"method", req.Method,
	)

	s.notifyPayee(ctx, propertyID, payerID, settlement)
	return settlement, nil
}

// notifyPayee sends the settlement email. Failures are logged, never surfaced;
// the settlement is already committed.
func (s *SettlementService) notifyPayee(ctx context.Context, propertyID, payerID string, settlement *types.PaymentSettlement) {
	log := logger.GetLogger()

	users, err := s.userStore.GetUsersByIDs(ctx, []string{payerID, settlement.PayeeID})
	if err != nil {
		log.Errorw("Failed to load users for settlement notification", "error", err)
		return
	}
	payee, ok := users[settlement.PayeeID]
	if !ok || payee.Email == "" {
		return
	}
	payer := users[payerID]

	propertyName := ""
	if property, err := s.propertyStore.GetProperty(ctx, propertyID); err == nil {
		propertyName = property.Name
	}

	data := SettlementEmailData{
		To:              payee.Email,
		PayeeName:       payee.FullName,
		PayerName:       payer.FullName,
		PropertyName:    propertyName,
		AmountFormatted: fmt.Sprintf("%s EUR", settlement.Amount.StringFixed(2)),
		Method:          string(settlement.Method),
	}
	if err := s.emailSender.SendSettlementReportedEmail(ctx, data); err != nil {
		log.Errorw("Failed to send settlement notification",
			"error", err, "settlement_id", settlement.ID)
	}
}
