package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// StatementStore is the repository subset the statement service needs.
type StatementStore interface {
	CreateStatement(ctx context.Context, s core.Statement) error
	GetStatement(ctx context.Context, userID, id string) (core.Statement, error)
	ListStatements(ctx context.Context, userID string) ([]core.Statement, error)
}

// ImportPublisher hands uploaded statements to the background worker.
type ImportPublisher interface {
	PublishStatementImport(ctx context.Context, statementID, userID string) error
}

// StatementService stores uploaded statement files and queues them for
// asynchronous import.
type StatementService struct {
	store     StatementStore
	publisher ImportPublisher
	uploadDir string
	maxSize   int64
	logger    *log.Logger
}

func NewStatementService(store StatementStore, publisher ImportPublisher, uploadDir string, maxSize int64, logger *log.Logger) *StatementService {
	return &StatementService{
		store:     store,
		publisher: publisher,
		uploadDir: uploadDir,
		maxSize:   maxSize,
		logger:    logger.WithComponent(log.ComponentApp),
	}
}

// ErrUploadTooLarge is returned when the uploaded file exceeds the limit.
var ErrUploadTooLarge = fmt.Errorf("upload exceeds size limit")

// Upload persists the file under the upload directory, records a pending
// statement and publishes an import job.
func (s *StatementService) Upload(ctx context.Context, userID, filename string, r io.Reader) (core.Statement, error) {
	id := uuid.NewString()
	storedPath := filepath.Join(s.uploadDir, id+".csv")

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return core.Statement{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(storedPath)
	if err != nil {
		return core.Statement{}, fmt.Errorf("create upload file: %w", err)
	}

	// Read one byte past the limit so oversized uploads are detected
	// instead of silently truncated.
	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	closeErr := f.Close()
	if err != nil {
		os.Remove(storedPath)
		return core.Statement{}, fmt.Errorf("store upload: %w", err)
	}
	if closeErr != nil {
		os.Remove(storedPath)
		return core.Statement{}, fmt.Errorf("store upload: %w", closeErr)
	}
	if n > s.maxSize {
		os.Remove(storedPath)
		return core.Statement{}, ErrUploadTooLarge
	}

	st := core.Statement{
		ID:         id,
		UserID:     userID,
		Filename:   sanitizeFilename(filename),
		StoredPath: storedPath,
		Status:     core.StatementPending,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.CreateStatement(ctx, st); err != nil {
		os.Remove(storedPath)
		return core.Statement{}, fmt.Errorf("record statement: %w", err)
	}

	if err := s.publisher.PublishStatementImport(ctx, st.ID, userID); err != nil {
		return core.Statement{}, fmt.Errorf("queue statement import: %w", err)
	}

	s.logger.InfoContext(ctx, "statement uploaded",
		log.FieldUserID, userID,
		log.FieldStatementID, st.ID,
		"filename", st.Filename,
		"bytes", n)
	return st, nil
}

func (s *StatementService) Get(ctx context.Context, userID, id string) (core.Statement, error) {
	return s.store.GetStatement(ctx, userID, id)
}

func (s *StatementService) List(ctx context.Context, userID string) ([]core.Statement, error) {
	return s.store.ListStatements(ctx, userID)
}

// sanitizeFilename strips path components from a client-supplied name.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "statement.csv"
	}
	return name
}
