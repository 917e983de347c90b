package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeRewardsStore struct {
	vouchers map[string]core.Voucher
	awards   []core.PointsEntry
	redeemed []string
}

func newFakeRewardsStore() *fakeRewardsStore {
	return &fakeRewardsStore{vouchers: make(map[string]core.Voucher)}
}

func (f *fakeRewardsStore) CreateVoucher(_ context.Context, v core.Voucher) error {
	f.vouchers[v.Code] = v
	return nil
}

func (f *fakeRewardsStore) GetVoucherByCode(_ context.Context, code string) (core.Voucher, error) {
	v, ok := f.vouchers[code]
	if !ok {
		return core.Voucher{}, core.ErrInvalidVoucher
	}
	return v, nil
}

func (f *fakeRewardsStore) ListVouchers(_ context.Context, activeOnly bool) ([]core.Voucher, error) {
	var out []core.Voucher
	for _, v := range f.vouchers {
		if !activeOnly || v.Active {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeRewardsStore) RedeemVoucher(_ context.Context, userID, code string, _ time.Time) (core.Redemption, error) {
	v, ok := f.vouchers[code]
	if !ok {
		return core.Redemption{}, core.ErrInvalidVoucher
	}
	f.redeemed = append(f.redeemed, code)
	return core.Redemption{ID: "r1", VoucherID: v.ID, UserID: userID, PointsSpent: v.PointsCost}, nil
}

func (f *fakeRewardsStore) ListRedemptions(_ context.Context, _ string) ([]core.Redemption, error) {
	return nil, nil
}

func (f *fakeRewardsStore) ListPointsLedger(_ context.Context, _ string, _ int) ([]core.PointsEntry, error) {
	return f.awards, nil
}

func (f *fakeRewardsStore) AwardPoints(_ context.Context, userID string, delta int64, reason, refID string) error {
	f.awards = append(f.awards, core.PointsEntry{UserID: userID, Delta: delta, Reason: reason, RefID: refID})
	return nil
}

func newRewardsService(store RewardsStore) *RewardsService {
	return NewRewardsService(store, log.New(log.DefaultConfig()))
}

func TestCreateVoucher(t *testing.T) {
	store := newFakeRewardsStore()
	svc := newRewardsService(store)
	ctx := context.Background()

	now := time.Now().UTC()
	v, err := svc.CreateVoucher(ctx, VoucherInput{
		Code:       " save5 ",
		Title:      "Five off",
		Amount:     "5.00",
		PointsCost: 50,
		ValidFrom:  now,
		ValidUntil: now.Add(24 * time.Hour),
		UsageLimit: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "SAVE5", v.Code, "codes are normalized to upper case")
	assert.Equal(t, int64(500), v.Amount.Cents)
	assert.True(t, v.Active)

	_, err = svc.CreateVoucher(ctx, VoucherInput{
		Code:       "BAD",
		Title:      "Bad",
		Amount:     "-5.00",
		UsageLimit: 1,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestRedeemNormalizesCode(t *testing.T) {
	store := newFakeRewardsStore()
	svc := newRewardsService(store)
	ctx := context.Background()

	store.vouchers["SAVE5"] = core.Voucher{ID: "v1", Code: "SAVE5", PointsCost: 50}

	red, err := svc.Redeem(ctx, "u1", "  save5 ", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(50), red.PointsSpent)

	_, err = svc.Redeem(ctx, "u1", "   ", time.Now())
	assert.ErrorIs(t, err, core.ErrInvalidVoucher)
}

func TestAwardImportPoints(t *testing.T) {
	store := newFakeRewardsStore()
	svc := newRewardsService(store)

	require.NoError(t, svc.AwardImportPoints(context.Background(), "u1", "st1", 42))
	require.Len(t, store.awards, 1)
	// 10 for the statement plus 1 per imported row.
	assert.Equal(t, int64(52), store.awards[0].Delta)
	assert.Equal(t, ReasonStatementImported, store.awards[0].Reason)
	assert.Equal(t, "st1", store.awards[0].RefID)
}
