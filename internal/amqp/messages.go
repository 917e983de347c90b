package amqp

import (
	"encoding/json"
	"time"
)

// StatementImportMessage asks the worker to import an uploaded statement.
// It carries only identifiers; the worker fetches the statement row and
// reads the stored file itself.
type StatementImportMessage struct {
	StatementID string    `json:"statement_id"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewStatementImportMessage creates an import message for a statement.
func NewStatementImportMessage(statementID, userID string) *StatementImportMessage {
	return &StatementImportMessage{
		StatementID: statementID,
		UserID:      userID,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StatementImportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StatementImportMessageFromJSON creates a message from JSON bytes
func StatementImportMessageFromJSON(data []byte) (*StatementImportMessage, error) {
	var msg StatementImportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TransactionExportMessage asks the worker to push a batch of transactions
// to the configured export target.
type TransactionExportMessage struct {
	TransactionIDs []string  `json:"transaction_ids"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewTransactionExportMessage creates an export message for a batch.
func NewTransactionExportMessage(ids []string) *TransactionExportMessage {
	return &TransactionExportMessage{
		TransactionIDs: ids,
		Timestamp:      time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionExportMessageFromJSON creates a message from JSON bytes
func TransactionExportMessageFromJSON(data []byte) (*TransactionExportMessage, error) {
	var msg TransactionExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
