package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeTxStore struct {
	txns      map[string]core.Transaction
	listCalls int
}

func newFakeTxStore() *fakeTxStore {
	return &fakeTxStore{txns: make(map[string]core.Transaction)}
}

func (f *fakeTxStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	f.txns[t.ID] = t
	return nil
}

func (f *fakeTxStore) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	t, ok := f.txns[id]
	if !ok || t.UserID != userID {
		return core.Transaction{}, errNotFoundForTest
	}
	return t, nil
}

func (f *fakeTxStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	old, ok := f.txns[t.ID]
	if !ok || old.UserID != t.UserID {
		return errNotFoundForTest
	}
	f.txns[t.ID] = t
	return nil
}

func (f *fakeTxStore) DeleteTransaction(_ context.Context, userID, id string) error {
	t, ok := f.txns[id]
	if !ok || t.UserID != userID {
		return errNotFoundForTest
	}
	delete(f.txns, id)
	return nil
}

func (f *fakeTxStore) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	f.listCalls++
	var out []core.Transaction
	for _, t := range f.txns {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

var errNotFoundForTest = assert.AnError

func newTxService(store *fakeTxStore) *TransactionService {
	c := cache.NewLRUCache[[]core.Transaction](16, time.Minute)
	return NewTransactionService(store, c, log.New(log.DefaultConfig()))
}

func TestTransactionServiceCreate(t *testing.T) {
	store := newFakeTxStore()
	svc := newTxService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TransactionInput{
		Date:          time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount:        "-49.99",
		Category:      " Food ",
		PaymentMethod: "Card",
		Description:   "groceries",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-4999), created.Amount.Cents)
	assert.Equal(t, "Food", created.Category)
	assert.NotEmpty(t, created.ID)

	_, err = svc.Create(ctx, "u1", TransactionInput{
		Date:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount: "not-a-number",
	})
	assert.Error(t, err)

	_, err = svc.Create(ctx, "u1", TransactionInput{Amount: "1.00"})
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestTransactionServiceListCaches(t *testing.T) {
	store := newFakeTxStore()
	svc := newTxService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", TransactionInput{
		Date:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount: "-10.00",
	})
	require.NoError(t, err)

	_, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls, "second list must be served from cache")
}

func TestTransactionServiceWriteInvalidatesCache(t *testing.T) {
	store := newFakeTxStore()
	svc := newTxService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TransactionInput{
		Date:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount: "-10.00",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Update(ctx, "u1", created.ID, TransactionInput{
		Date:   created.Date,
		Amount: "-20.00",
	})
	require.NoError(t, err)

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(-2000), list[0].Amount.Cents, "stale cache must not survive an update")

	require.NoError(t, svc.Delete(ctx, "u1", created.ID))
	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionServiceUpdateKeepsCreatedAt(t *testing.T) {
	store := newFakeTxStore()
	svc := newTxService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", TransactionInput{
		Date:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Amount: "-10.00",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u1", created.ID, TransactionInput{
		Date:   created.Date,
		Amount: "-15.00",
	})
	require.NoError(t, err)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}
