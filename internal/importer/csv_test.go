package importer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,category,payment_method,description",
		"2024-03-01,-49.99,Food,Card,groceries",
		"2024-03-02,1500.00,Salary,,march pay",
		"2024-03-03,-12.50,,,coffee",
	}, "\n")

	res, err := Parse(strings.NewReader(input), "u1", time.Now())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(res.Transactions))
	}
	if res.SkippedRows != 0 {
		t.Errorf("skipped = %d, want 0", res.SkippedRows)
	}

	first := res.Transactions[0]
	if first.Amount.Cents != -4999 || first.Category != "Food" || first.PaymentMethod != "Card" {
		t.Errorf("first = %+v", first)
	}
	if first.UserID != "u1" || first.ID == "" {
		t.Errorf("ownership fields: %+v", first)
	}
	if first.Date.Year() != 2024 || first.Date.Month() != time.March || first.Date.Day() != 1 {
		t.Errorf("date = %v", first.Date)
	}

	second := res.Transactions[1]
	if second.Amount.Cents != 150000 {
		t.Errorf("second amount = %d", second.Amount.Cents)
	}

	// Blank category stays blank at rest; the fallback label is applied
	// only at read time.
	if res.Transactions[2].Category != "" {
		t.Errorf("third category = %q, want empty", res.Transactions[2].Category)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	input := strings.Join([]string{
		"date,amount,category",
		"2024-03-01,-10.00,Food",
		"not-a-date,-10.00,Food",
		"2024-03-02,not-a-number,Food",
		"2024-03-03",
		"2024-03-04,-20.00,Transport",
	}, "\n")

	res, err := Parse(strings.NewReader(input), "u1", time.Now())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(res.Transactions))
	}
	if res.SkippedRows != 3 {
		t.Errorf("skipped = %d, want 3", res.SkippedRows)
	}
}

func TestParseWithoutHeader(t *testing.T) {
	input := "2024-03-01,-10.00,Food,Card,lunch\n"

	res, err := Parse(strings.NewReader(input), "u1", time.Now())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(res.Transactions))
	}
}

func TestParseAlternateDateFormats(t *testing.T) {
	input := strings.Join([]string{
		"01/03/2024,-10.00,Food",
		"2024-03-02T15:04:05Z,-20.00,Food",
	}, "\n")

	res, err := Parse(strings.NewReader(input), "u1", time.Now())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2, skipped %d", len(res.Transactions), res.SkippedRows)
	}
	if res.Transactions[0].Date.Day() != 1 || res.Transactions[0].Date.Month() != time.March {
		t.Errorf("day-first date parsed as %v", res.Transactions[0].Date)
	}
	if res.Transactions[1].Date.Hour() != 15 {
		t.Errorf("timestamped date parsed as %v", res.Transactions[1].Date)
	}
}

func TestParseEmptyStatement(t *testing.T) {
	if _, err := Parse(strings.NewReader(""), "u1", time.Now()); !errors.Is(err, ErrEmptyStatement) {
		t.Errorf("empty file error = %v, want ErrEmptyStatement", err)
	}
}

func TestParseHeaderOnlyStatement(t *testing.T) {
	res, err := Parse(strings.NewReader("date,amount,category\n"), "u1", time.Now())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 0 || res.SkippedRows != 0 {
		t.Errorf("header-only statement: %+v", res)
	}
}
