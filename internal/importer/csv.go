// Package importer parses uploaded bank statement files into transactions.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// ErrEmptyStatement is returned when a statement holds no data rows at all.
var ErrEmptyStatement = errors.New("statement has no data rows")

// Expected column order. A header row matching these names (any case) is
// skipped automatically.
var columns = []string{"date", "amount", "category", "payment_method", "description"}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
}

// Result is the outcome of parsing one statement file.
type Result struct {
	Transactions []core.Transaction
	SkippedRows  int
}

// Parse reads a CSV statement and converts every well-formed row into a
// transaction owned by the given user. Malformed rows are skipped and
// counted, never fatal; only an unreadable file or a statement without a
// single data row is an error.
func Parse(r io.Reader, userID string, now time.Time) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var res Result
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A broken quote or similar only ruins one row.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.SkippedRows++
				continue
			}
			return Result{}, fmt.Errorf("read statement: %w", err)
		}

		rows++
		if rows == 1 && isHeader(record) {
			continue
		}

		txn, ok := parseRow(record, userID, now)
		if !ok {
			res.SkippedRows++
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}

	if rows == 0 {
		return Result{}, ErrEmptyStatement
	}
	return res, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), columns[0])
}

func parseRow(record []string, userID string, now time.Time) (core.Transaction, bool) {
	if len(record) < 2 {
		return core.Transaction{}, false
	}

	date, ok := parseDate(strings.TrimSpace(record[0]))
	if !ok {
		return core.Transaction{}, false
	}

	cents, err := core.ParseSignedCents(record[1])
	if err != nil {
		return core.Transaction{}, false
	}

	txn := core.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Amount:    core.Money{Cents: cents},
		CreatedAt: now.UTC(),
	}
	if len(record) > 2 {
		txn.Category = strings.TrimSpace(record[2])
	}
	if len(record) > 3 {
		txn.PaymentMethod = strings.TrimSpace(record[3])
	}
	if len(record) > 4 {
		txn.Description = strings.TrimSpace(record[4])
	}

	if err := txn.Validate(); err != nil {
		return core.Transaction{}, false
	}
	return txn, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
