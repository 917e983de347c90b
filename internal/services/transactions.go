// Package services holds the application services between the HTTP layer
// and storage.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// TransactionStore is the repository subset the transaction service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
}

// TransactionInput is the write payload for creating or updating a
// transaction. Amount is the raw decimal string from the client.
type TransactionInput struct {
	Date          time.Time
	Amount        string
	Category      string
	PaymentMethod string
	Description   string
}

// TransactionService owns transaction writes and the per-user list cache
// that feeds every derived analytics view.
type TransactionService struct {
	store  TransactionStore
	cache  cache.Cache[[]core.Transaction]
	logger *log.Logger
}

func NewTransactionService(store TransactionStore, c cache.Cache[[]core.Transaction], logger *log.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		cache:  c,
		logger: logger.WithComponent(log.ComponentApp),
	}
}

func (s *TransactionService) buildTransaction(userID, id string, in TransactionInput, createdAt time.Time) (core.Transaction, error) {
	cents, err := core.ParseSignedCents(in.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		ID:            id,
		UserID:        userID,
		Date:          in.Date.UTC(),
		Amount:        core.Money{Cents: cents},
		Category:      strings.TrimSpace(in.Category),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Description:   strings.TrimSpace(in.Description),
		CreatedAt:     createdAt.UTC(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	t, err := s.buildTransaction(userID, uuid.NewString(), in, time.Now())
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.invalidate(userID)

	s.logger.InfoContext(ctx, "transaction created",
		log.NewFields().
			WithOperation(log.OpCreate).
			WithUser(userID).
			WithTransaction(t.ID, t.Amount.Cents, t.Category).
			ToSlice()...)
	return t, nil
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionInput) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}

	t, err := s.buildTransaction(userID, id, in, existing.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.invalidate(userID)

	s.logger.InfoContext(ctx, "transaction updated",
		log.NewFields().
			WithOperation(log.OpUpdate).
			WithUser(userID).
			WithTransaction(id, t.Amount.Cents, t.Category).
			ToSlice()...)
	return t, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(userID)

	s.logger.InfoContext(ctx, "transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldUserID, userID,
		log.FieldTransactionID, id)
	return nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// List returns all of the user's transactions, served from the cache when
// warm. Every analytics endpoint derives from this list.
func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	if cached, ok := s.cache.Get(cacheKey(userID)); ok {
		return cached, nil
	}

	txns, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(cacheKey(userID), txns)
	return txns, nil
}

// Invalidate drops the user's cached list. The worker calls this after a
// statement import lands new rows outside the service's own writes.
func (s *TransactionService) Invalidate(userID string) {
	s.invalidate(userID)
}

func (s *TransactionService) invalidate(userID string) {
	s.cache.Delete(cacheKey(userID))
}

func cacheKey(userID string) string {
	return "txns:" + userID
}
