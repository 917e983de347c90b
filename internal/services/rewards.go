package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Points awarded by the background worker for activity.
const (
	PointsPerTransaction     = 1
	PointsPerStatementImport = 10
	ReasonStatementImported  = "statement_imported"
)

// RewardsStore is the repository subset the rewards service needs.
type RewardsStore interface {
	CreateVoucher(ctx context.Context, v core.Voucher) error
	GetVoucherByCode(ctx context.Context, code string) (core.Voucher, error)
	ListVouchers(ctx context.Context, activeOnly bool) ([]core.Voucher, error)
	RedeemVoucher(ctx context.Context, userID, code string, now time.Time) (core.Redemption, error)
	ListRedemptions(ctx context.Context, userID string) ([]core.Redemption, error)
	ListPointsLedger(ctx context.Context, userID string, limit int) ([]core.PointsEntry, error)
	AwardPoints(ctx context.Context, userID string, delta int64, reason, refID string) error
}

// VoucherInput is the admin payload for creating a voucher.
type VoucherInput struct {
	Code        string
	Title       string
	Description string
	Amount      string
	PointsCost  int64
	ValidFrom   time.Time
	ValidUntil  time.Time
	UsageLimit  int64
}

// RewardsService manages vouchers, redemptions and the points ledger.
type RewardsService struct {
	store  RewardsStore
	logger *log.Logger
}

func NewRewardsService(store RewardsStore, logger *log.Logger) *RewardsService {
	return &RewardsService{
		store:  store,
		logger: logger.WithComponent(log.ComponentRewards),
	}
}

func (s *RewardsService) CreateVoucher(ctx context.Context, in VoucherInput) (core.Voucher, error) {
	cents, err := core.ParseSignedCents(in.Amount)
	if err != nil {
		return core.Voucher{}, err
	}

	v := core.Voucher{
		ID:          uuid.NewString(),
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Amount:      core.Money{Cents: cents},
		PointsCost:  in.PointsCost,
		Active:      true,
		ValidFrom:   in.ValidFrom.UTC(),
		ValidUntil:  in.ValidUntil.UTC(),
		UsageLimit:  in.UsageLimit,
		CreatedAt:   time.Now().UTC(),
	}
	if err := v.Validate(); err != nil {
		return core.Voucher{}, err
	}

	if err := s.store.CreateVoucher(ctx, v); err != nil {
		return core.Voucher{}, fmt.Errorf("create voucher: %w", err)
	}

	s.logger.InfoContext(ctx, "voucher created", log.FieldVoucherCode, v.Code)
	return v, nil
}

func (s *RewardsService) ListVouchers(ctx context.Context, activeOnly bool) ([]core.Voucher, error) {
	return s.store.ListVouchers(ctx, activeOnly)
}

// Redeem spends the user's points on a voucher. The storage layer holds
// the atomicity guarantees; this wrapper normalizes the code and logs.
func (s *RewardsService) Redeem(ctx context.Context, userID, code string, now time.Time) (core.Redemption, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return core.Redemption{}, core.ErrInvalidVoucher
	}

	red, err := s.store.RedeemVoucher(ctx, userID, code, now)
	if err != nil {
		return core.Redemption{}, err
	}

	s.logger.InfoContext(ctx, "voucher redeemed",
		log.FieldOperation, log.OpRedeem,
		log.FieldUserID, userID,
		log.FieldVoucherCode, code,
		"points_spent", red.PointsSpent)
	return red, nil
}

func (s *RewardsService) Redemptions(ctx context.Context, userID string) ([]core.Redemption, error) {
	return s.store.ListRedemptions(ctx, userID)
}

func (s *RewardsService) Ledger(ctx context.Context, userID string, limit int) ([]core.PointsEntry, error) {
	return s.store.ListPointsLedger(ctx, userID, limit)
}

// AwardImportPoints credits a user for an imported statement: a flat
// bonus for the statement plus one point per imported transaction.
func (s *RewardsService) AwardImportPoints(ctx context.Context, userID, statementID string, importedRows int) error {
	delta := int64(PointsPerStatementImport + importedRows*PointsPerTransaction)
	if err := s.store.AwardPoints(ctx, userID, delta, ReasonStatementImported, statementID); err != nil {
		return fmt.Errorf("award import points: %w", err)
	}
	return nil
}
