package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// SQLiteRepository persists all application entities in a single SQLite
// database. Dates are stored as unix seconds in UTC.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Counts holds the row totals behind the admin stats endpoint.
type Counts struct {
	Users        int64
	Transactions int64
	Statements   int64
	Vouchers     int64
	Redemptions  int64
}

// CountAll tallies every entity table in one pass.
func (r *SQLiteRepository) CountAll(ctx context.Context) (Counts, error) {
	var c Counts
	row := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM transactions),
		        (SELECT COUNT(*) FROM statements),
		        (SELECT COUNT(*) FROM vouchers),
		        (SELECT COUNT(*) FROM redemptions)`)
	if err := row.Scan(&c.Users, &c.Transactions, &c.Statements, &c.Vouchers, &c.Redemptions); err != nil {
		return Counts{}, fmt.Errorf("count entities: %w", err)
	}
	return c, nil
}

// Ping backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ----- users -----

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, points, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Name, string(u.Role), u.Points, boolToInt(u.Active), u.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, role, points, active, created_at
		 FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, role, points, active, created_at
		 FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, password_hash, name, role, points, active, created_at
		 FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLiteRepository) SetUserActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	return requireRow(res)
}

// AwardPoints adjusts a user's balance and records a ledger entry in one
// transaction. Negative deltas must not drive the balance below zero.
func (r *SQLiteRepository) AwardPoints(ctx context.Context, userID string, delta int64, reason, refID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin points tx: %w", err)
	}
	defer tx.Rollback()

	var points int64
	if err := tx.QueryRowContext(ctx, `SELECT points FROM users WHERE id = ?`, userID).Scan(&points); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("read points: %w", err)
	}
	if points+delta < 0 {
		return core.ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET points = points + ? WHERE id = ?`, delta, userID); err != nil {
		return fmt.Errorf("update points: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO points_ledger (id, user_id, delta, reason, ref_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		newID(), userID, delta, reason, refID, time.Now().Unix()); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	return tx.Commit()
}

func (r *SQLiteRepository) ListPointsLedger(ctx context.Context, userID string, limit int) ([]core.PointsEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, delta, reason, ref_id, created_at
		 FROM points_ledger WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list points ledger: %w", err)
	}
	defer rows.Close()

	var entries []core.PointsEntry
	for rows.Next() {
		var e core.PointsEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Delta, &e.Reason, &e.RefID, &created); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ----- sessions -----

func (r *SQLiteRepository) CreateSession(ctx context.Context, s core.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		s.Token, s.UserID, s.ExpiresAt.Unix(), s.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSession(ctx context.Context, token string) (core.Session, error) {
	var s core.Session
	var expires, created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`, token).
		Scan(&s.Token, &s.UserID, &expires, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Session{}, ErrNotFound
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("get session: %w", err)
	}
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	s.CreatedAt = time.Unix(created, 0).UTC()
	return s, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ----- transactions -----

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, date, amount_cents, category, payment_method, description, exported, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		t.ID, t.UserID, t.Date.Unix(), t.Amount.Cents, t.Category, t.PaymentMethod, t.Description, t.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, amount_cents, category, payment_method, description, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET date = ?, amount_cents = ?, category = ?, payment_method = ?, description = ?, exported = 0
		 WHERE id = ? AND user_id = ?`,
		t.Date.Unix(), t.Amount.Cents, t.Category, t.PaymentMethod, t.Description, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

// ListTransactions returns all of a user's transactions ordered by date
// ascending, creation time as tiebreak.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, amount_cents, category, payment_method, description, created_at
		 FROM transactions WHERE user_id = ? ORDER BY date, created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// ListUnexportedTransactions returns transactions not yet pushed to the
// export target, oldest first.
func (r *SQLiteRepository) ListUnexportedTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, amount_cents, category, payment_method, description, created_at
		 FROM transactions WHERE exported = 0 ORDER BY created_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list unexported transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// CreateTransactions inserts a batch inside a single transaction. The
// import worker uses it to keep statement imports atomic per batch.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, txns []core.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transactions (id, user_id, date, amount_cents, category, payment_method, description, exported, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert transaction: %w", err)
	}
	defer stmt.Close()

	for _, t := range txns {
		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, t.Date.UTC().Unix(), t.Amount.Cents,
			t.Category, t.PaymentMethod, t.Description, t.CreatedAt.UTC().Unix()); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// GetTransactionsByIDs fetches transactions regardless of owner. Only the
// export worker uses it; the API always scopes by user.
func (r *SQLiteRepository) GetTransactionsByIDs(ctx context.Context, ids []string) ([]core.Transaction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, amount_cents, category, payment_method, description, created_at
		 FROM transactions WHERE id IN (`+placeholders+`) ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("get transactions by ids: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func (r *SQLiteRepository) MarkTransactionsExported(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET exported = 1 WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare mark exported: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("mark exported %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// ----- statements -----

func (r *SQLiteRepository) CreateStatement(ctx context.Context, s core.Statement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statements (id, user_id, filename, stored_path, status, row_count, skipped_rows, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Filename, s.StoredPath, string(s.Status), s.RowCount, s.SkippedRows, s.Error, s.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create statement: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetStatement(ctx context.Context, userID, id string) (core.Statement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, filename, stored_path, status, row_count, skipped_rows, error, created_at, processed_at
		 FROM statements WHERE id = ? AND user_id = ?`, id, userID)
	return scanStatement(row)
}

func (r *SQLiteRepository) ListStatements(ctx context.Context, userID string) ([]core.Statement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, filename, stored_path, status, row_count, skipped_rows, error, created_at, processed_at
		 FROM statements WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list statements: %w", err)
	}
	defer rows.Close()

	var stmts []core.Statement
	for rows.Next() {
		s, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, rows.Err()
}

func (r *SQLiteRepository) MarkStatementProcessed(ctx context.Context, id string, rowCount, skippedRows int, processedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE statements SET status = ?, row_count = ?, skipped_rows = ?, error = '', processed_at = ?
		 WHERE id = ?`,
		string(core.StatementProcessed), rowCount, skippedRows, processedAt.Unix(), id)
	if err != nil {
		return fmt.Errorf("mark statement processed: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) MarkStatementFailed(ctx context.Context, id, errMsg string, failedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE statements SET status = ?, error = ?, processed_at = ? WHERE id = ?`,
		string(core.StatementFailed), errMsg, failedAt.Unix(), id)
	if err != nil {
		return fmt.Errorf("mark statement failed: %w", err)
	}
	return requireRow(res)
}

// ----- vouchers -----

func (r *SQLiteRepository) CreateVoucher(ctx context.Context, v core.Voucher) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vouchers (id, code, title, description, amount_cents, points_cost, active,
		                       valid_from, valid_until, usage_limit, redeemed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Code, v.Title, v.Description, v.Amount.Cents, v.PointsCost, boolToInt(v.Active),
		v.ValidFrom.Unix(), v.ValidUntil.Unix(), v.UsageLimit, v.RedeemedCount, v.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("create voucher: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetVoucherByCode(ctx context.Context, code string) (core.Voucher, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, code, title, description, amount_cents, points_cost, active,
		        valid_from, valid_until, usage_limit, redeemed_count, created_at
		 FROM vouchers WHERE code = ?`, code)
	return scanVoucher(row)
}

func (r *SQLiteRepository) ListVouchers(ctx context.Context, activeOnly bool) ([]core.Voucher, error) {
	query := `SELECT id, code, title, description, amount_cents, points_cost, active,
	                 valid_from, valid_until, usage_limit, redeemed_count, created_at
	          FROM vouchers`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []core.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}

// DeactivateExpiredVouchers flips active off for every voucher whose
// validity window has passed. Vouchers without an expiry store the zero
// time as a negative Unix value and are left alone. Returns the count of
// deactivated rows.
func (r *SQLiteRepository) DeactivateExpiredVouchers(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vouchers SET active = 0 WHERE active = 1 AND valid_until > 0 AND valid_until < ?`, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("deactivate expired vouchers: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// RedeemVoucher atomically spends the user's points, bumps the voucher's
// redemption count and records the redemption plus a ledger entry. The
// voucher's redeemability and the user's balance are re-checked inside
// the transaction.
func (r *SQLiteRepository) RedeemVoucher(ctx context.Context, userID, code string, now time.Time) (core.Redemption, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Redemption{}, fmt.Errorf("begin redeem tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, code, title, description, amount_cents, points_cost, active,
		        valid_from, valid_until, usage_limit, redeemed_count, created_at
		 FROM vouchers WHERE code = ?`, code)
	v, err := scanVoucher(row)
	if err != nil {
		return core.Redemption{}, err
	}
	if !v.RedeemableAt(now) {
		return core.Redemption{}, core.ErrInvalidVoucher
	}

	var points int64
	if err := tx.QueryRowContext(ctx, `SELECT points FROM users WHERE id = ?`, userID).Scan(&points); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Redemption{}, ErrNotFound
		}
		return core.Redemption{}, fmt.Errorf("read points: %w", err)
	}
	if points < v.PointsCost {
		return core.Redemption{}, core.ErrInsufficientPoints
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET points = points - ? WHERE id = ?`, v.PointsCost, userID); err != nil {
		return core.Redemption{}, fmt.Errorf("spend points: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE vouchers SET redeemed_count = redeemed_count + 1 WHERE id = ?`, v.ID); err != nil {
		return core.Redemption{}, fmt.Errorf("bump redemption count: %w", err)
	}

	red := core.Redemption{
		ID:          newID(),
		VoucherID:   v.ID,
		UserID:      userID,
		PointsSpent: v.PointsCost,
		CreatedAt:   now.UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO redemptions (id, voucher_id, user_id, points_spent, created_at) VALUES (?, ?, ?, ?, ?)`,
		red.ID, red.VoucherID, red.UserID, red.PointsSpent, red.CreatedAt.Unix()); err != nil {
		return core.Redemption{}, fmt.Errorf("record redemption: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO points_ledger (id, user_id, delta, reason, ref_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		newID(), userID, -v.PointsCost, "voucher_redeemed", red.ID, now.Unix()); err != nil {
		return core.Redemption{}, fmt.Errorf("write ledger: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Redemption{}, fmt.Errorf("commit redeem tx: %w", err)
	}
	return red, nil
}

func (r *SQLiteRepository) ListRedemptions(ctx context.Context, userID string) ([]core.Redemption, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, voucher_id, user_id, points_spent, created_at
		 FROM redemptions WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var reds []core.Redemption
	for rows.Next() {
		var red core.Redemption
		var created int64
		if err := rows.Scan(&red.ID, &red.VoucherID, &red.UserID, &red.PointsSpent, &created); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		red.CreatedAt = time.Unix(created, 0).UTC()
		reds = append(reds, red)
	}
	return reds, rows.Err()
}

// ----- scan helpers -----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (core.User, error) {
	var u core.User
	var role string
	var active int
	var created int64
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.Points, &active, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Role = core.Role(role)
	u.Active = active != 0
	u.CreatedAt = time.Unix(created, 0).UTC()
	return u, nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, created int64
	err := row.Scan(&t.ID, &t.UserID, &date, &t.Amount.Cents, &t.Category, &t.PaymentMethod, &t.Description, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date = time.Unix(date, 0).UTC()
	t.CreatedAt = time.Unix(created, 0).UTC()
	return t, nil
}

func scanStatement(row rowScanner) (core.Statement, error) {
	var s core.Statement
	var status string
	var created int64
	var processed sql.NullInt64
	err := row.Scan(&s.ID, &s.UserID, &s.Filename, &s.StoredPath, &status, &s.RowCount, &s.SkippedRows, &s.Error, &created, &processed)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Statement{}, ErrNotFound
	}
	if err != nil {
		return core.Statement{}, fmt.Errorf("scan statement: %w", err)
	}
	s.Status = core.StatementStatus(status)
	s.CreatedAt = time.Unix(created, 0).UTC()
	if processed.Valid {
		s.ProcessedAt = time.Unix(processed.Int64, 0).UTC()
	}
	return s, nil
}

func scanVoucher(row rowScanner) (core.Voucher, error) {
	var v core.Voucher
	var active int
	var from, until, created int64
	err := row.Scan(&v.ID, &v.Code, &v.Title, &v.Description, &v.Amount.Cents, &v.PointsCost, &active,
		&from, &until, &v.UsageLimit, &v.RedeemedCount, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Voucher{}, ErrNotFound
	}
	if err != nil {
		return core.Voucher{}, fmt.Errorf("scan voucher: %w", err)
	}
	v.Active = active != 0
	v.ValidFrom = time.Unix(from, 0).UTC()
	v.ValidUntil = time.Unix(until, 0).UTC()
	v.CreatedAt = time.Unix(created, 0).UTC()
	return v, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
