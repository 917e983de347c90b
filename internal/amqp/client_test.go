package amqp

import (
	"errors"
	"testing"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			expected: true,
		},
		{
			name:     "connection closed",
			err:      errors.New("connection closed"),
			expected: true,
		},
		{
			name:     "EOF",
			err:      errors.New("unexpected EOF"),
			expected: true,
		},
		{
			name:     "broken pipe",
			err:      errors.New("write: broken pipe"),
			expected: true,
		},
		{
			name:     "closed network connection",
			err:      errors.New("use of closed network connection"),
			expected: true,
		},
		{
			name:     "io timeout",
			err:      errors.New("read tcp: i/o timeout"),
			expected: true,
		},
		{
			name:     "validation error",
			err:      errors.New("invalid input"),
			expected: false,
		},
		{
			name:     "handler error",
			err:      errors.New("statement not found"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestStatementImportMessageRoundTrip(t *testing.T) {
	msg := NewStatementImportMessage("st-123", "u-456")
	if msg.Timestamp.IsZero() {
		t.Error("timestamp must be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := StatementImportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.StatementID != "st-123" || decoded.UserID != "u-456" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp lost in round trip")
	}
}

func TestTransactionExportMessageRoundTrip(t *testing.T) {
	msg := NewTransactionExportMessage([]string{"t1", "t2"})

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := TransactionExportMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if len(decoded.TransactionIDs) != 2 || decoded.TransactionIDs[0] != "t1" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := StatementImportMessageFromJSON([]byte("not json")); err == nil {
		t.Error("garbage import payload must fail to decode")
	}
	if _, err := TransactionExportMessageFromJSON([]byte("{broken")); err == nil {
		t.Error("garbage export payload must fail to decode")
	}
}
