package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	// CategoryFallback is used when a transaction carries no category.
	CategoryFallback = "Uncategorized"
	// PaymentMethodFallback is used when a transaction carries no payment method.
	PaymentMethodFallback = "Unknown"
)

type (
	Role string

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. Negative amounts are expenses,
	// non-negative amounts are income.
	Transaction struct {
		ID            string
		UserID        string
		Date          time.Time
		Amount        Money
		Category      string
		PaymentMethod string
		Description   string
		CreatedAt     time.Time
	}

	User struct {
		ID           string
		Email        string
		PasswordHash string
		Name         string
		Role         Role
		Points       int64
		Active       bool
		CreatedAt    time.Time
	}

	Voucher struct {
		ID            string
		Code          string
		Title         string
		Description   string
		Amount        Money
		PointsCost    int64
		Active        bool
		ValidFrom     time.Time
		ValidUntil    time.Time
		UsageLimit    int64
		RedeemedCount int64
		CreatedAt     time.Time
	}

	Redemption struct {
		ID          string
		VoucherID   string
		UserID      string
		PointsSpent int64
		CreatedAt   time.Time
	}

	// Statement is an uploaded bank statement file waiting to be imported.
	Statement struct {
		ID          string
		UserID      string
		Filename    string
		StoredPath  string
		Status      StatementStatus
		RowCount    int64
		SkippedRows int64
		Error       string
		CreatedAt   time.Time
		ProcessedAt time.Time
	}

	StatementStatus string

	// Session is a bearer token issued at login.
	Session struct {
		Token     string
		UserID    string
		ExpiresAt time.Time
		CreatedAt time.Time
	}

	// PointsEntry is one row of a user's points ledger.
	PointsEntry struct {
		ID        string
		UserID    string
		Delta     int64
		Reason    string
		RefID     string
		CreatedAt time.Time
	}
)

const (
	StatementPending   StatementStatus = "pending"
	StatementProcessed StatementStatus = "processed"
	StatementFailed    StatementStatus = "failed"
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidVoucher     = errors.New("invalid voucher")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// ErrInvalidInput is the umbrella for field-level validation failures.
var ErrInvalidInput = errors.New("invalid input")

// CategoryLabel returns the transaction's category, or the fallback when blank.
func (t Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return CategoryFallback
	}
	return t.Category
}

// PaymentMethodLabel returns the payment method, or the fallback when blank.
func (t Transaction) PaymentMethodLabel() string {
	if strings.TrimSpace(t.PaymentMethod) == "" {
		return PaymentMethodFallback
	}
	return t.PaymentMethod
}

// IsExpense reports whether the transaction is an expense. The boundary is
// strict: an amount of exactly zero counts as income.
func (t Transaction) IsExpense() bool {
	return t.Amount.Cents < 0
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Description) > 200 {
		return fmt.Errorf("%w: description too long (max 200 characters)", ErrInvalidInput)
	}
	return nil
}

func (u User) Validate() error {
	email := strings.TrimSpace(u.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	switch u.Role {
	case RoleUser, RoleAdmin:
	default:
		return fmt.Errorf("%w: invalid role", ErrInvalidInput)
	}
	return nil
}

func (v Voucher) Validate() error {
	if strings.TrimSpace(v.Code) == "" {
		return fmt.Errorf("%w: empty voucher code", ErrInvalidInput)
	}
	if strings.TrimSpace(v.Title) == "" {
		return fmt.Errorf("%w: empty voucher title", ErrInvalidInput)
	}
	if v.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if v.PointsCost < 0 {
		return fmt.Errorf("%w: negative points cost", ErrInvalidInput)
	}
	if v.UsageLimit < 1 {
		return fmt.Errorf("%w: usage limit must be at least 1", ErrInvalidInput)
	}
	if !v.ValidFrom.IsZero() && !v.ValidUntil.IsZero() && v.ValidUntil.Before(v.ValidFrom) {
		return fmt.Errorf("%w: valid_until must be after valid_from", ErrInvalidInput)
	}
	return nil
}

// RedeemableAt reports whether the voucher can be redeemed at the given instant.
func (v Voucher) RedeemableAt(now time.Time) bool {
	if !v.Active {
		return false
	}
	if !v.ValidFrom.IsZero() && now.Before(v.ValidFrom) {
		return false
	}
	if !v.ValidUntil.IsZero() && now.After(v.ValidUntil) {
		return false
	}
	return v.RedeemedCount < v.UsageLimit
}
