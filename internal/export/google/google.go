// Package google pushes transaction batches to a Google Sheets spreadsheet.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Config identifies the target spreadsheet and the OAuth credentials.
// Credentials may come inline as JSON or from files; inline wins.
type Config struct {
	SpreadsheetID string
	SheetName     string
	ClientFile    string
	ClientJSON    string
	TokenFile     string
	TokenJSON     string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// NewClient builds a Sheets client from OAuth client credentials and a
// previously issued refresh token.
func NewClient(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(cfg.SheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	clientJSON, err := loadCredential(cfg.ClientJSON, cfg.ClientFile, "OAuth client")
	if err != nil {
		return nil, err
	}
	tokenJSON, err := loadCredential(cfg.TokenJSON, cfg.TokenFile, "OAuth token")
	if err != nil {
		return nil, err
	}

	oauthCfg, err := goauth.ConfigFromJSON(clientJSON, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse OAuth client: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse OAuth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauthCfg.Client(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

func loadCredential(inline, file, what string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if strings.TrimSpace(file) != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", what, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("missing %s credentials", what)
}

// AppendTransactions appends one row per transaction to the sheet.
func (c *Client) AppendTransactions(ctx context.Context, txns []core.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	vr := &gsheet.ValueRange{Values: transactionRows(txns)}
	rng := fmt.Sprintf("%s!A:F", c.sheetName)

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append rows: %w", err)
	}

	c.logger.InfoContext(ctx, "exported transactions to sheet",
		"rows", len(txns),
		"sheet", c.sheetName)
	return nil
}

// transactionRows converts transactions into sheet rows: id, date, amount
// in whole currency units, category, payment method, description.
func transactionRows(txns []core.Transaction) [][]any {
	rows := make([][]any, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []any{
			t.ID,
			t.Date.Format("2006-01-02"),
			float64(t.Amount.Cents) / 100.0,
			t.CategoryLabel(),
			t.PaymentMethodLabel(),
			t.Description,
		})
	}
	return rows
}
