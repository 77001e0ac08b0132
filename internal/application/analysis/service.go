package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iterativai/empathic-venture-forge/internal/application"
	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

// maxContentChars bounds the text forwarded to the enrichment worker.
const maxContentChars = 50000

// Dispatcher port: fire-and-forget hand-off of one enrichment task.
// "Accepted" is not "done"; completion is observed via the notifier.
type Dispatcher interface {
	Dispatch(id domain.AnalysisID, fileContent string)
}

// Service implements the upload use-cases.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo       domain.Repository
	Files      domain.FileStore
	Dispatcher Dispatcher
	Clock      application.Clock
	Log        *zap.Logger
}

// UploadFile is one staged file from a batch. Ephemeral; never
// persisted as such.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmitResult is the per-file outcome of a batch submission.
type SubmitResult struct {
	ID       domain.AnalysisID `json:"id,omitempty"`
	FileName string            `json:"file_name"`
	Status   domain.Status     `json:"status,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// SubmitBatch processes files strictly sequentially: store bytes,
// insert one processing record per file, dispatch enrichment. A
// failure aborts that file only; there is no atomicity across the
// batch.
func (s *Service) SubmitBatch(ctx context.Context, userID string, files []UploadFile) []SubmitResult {
	results := make([]SubmitResult, 0, len(files))
	for _, f := range files {
		rec, err := s.submitOne(ctx, userID, f)
		if err != nil {
			s.Log.Error("upload failed",
				zap.String("user_id", userID),
				zap.String("file_name", f.Name),
				zap.Error(err),
			)
			results = append(results, SubmitResult{FileName: f.Name, Error: err.Error()})
			continue
		}
		results = append(results, SubmitResult{ID: rec.ID, FileName: rec.FileName, Status: rec.Status})
	}
	return results
}

func (s *Service) submitOne(ctx context.Context, userID string, f UploadFile) (*domain.Record, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("empty file: %s", f.Name)
	}

	// Decode before any writes. A record dispatched with no text would
	// never leave processing: the worker rejects empty content up front.
	content := truncate(decodeText(f.Data), maxContentChars)
	if content == "" {
		return nil, fmt.Errorf("no readable text: %s", f.Name)
	}
	now := s.Clock.Now()

	// Owner-scoped key with a nanosecond prefix so re-uploads of the
	// same file name never collide.
	key := fmt.Sprintf("%s/%d_%s", userID, now.UnixNano(), f.Name)
	path, err := s.Files.Put(ctx, key, f.Data, f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("storing file: %w", err)
	}

	rec := &domain.Record{
		ID:        domain.AnalysisID(uuid.New().String()),
		UserID:    userID,
		FileName:  f.Name,
		FilePath:  path,
		FileSize:  int64(len(f.Data)),
		FileType:  f.ContentType,
		Status:    domain.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}

	s.Dispatcher.Dispatch(rec.ID, content)

	s.Log.Info("analysis started",
		zap.String("id", string(rec.ID)),
		zap.String("file_name", rec.FileName),
		zap.Int64("file_size", rec.FileSize),
	)
	return rec, nil
}

// Get ambil 1 record by id, scoped to its owner
func (s *Service) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Record, error) {
	return s.Repo.Get(ctx, userID, id)
}

// Latest ambil N record terakhir
func (s *Service) Latest(ctx context.Context, userID string, limit int) ([]*domain.Record, error) {
	return s.Repo.Latest(ctx, userID, limit)
}

// Paginate returns one page of records ordered by creation time
func (s *Service) Paginate(ctx context.Context, userID string, page, pageSize int) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, userID, page, pageSize)
}

// decodeText interprets raw bytes as text. No format-specific
// extraction for PDF/PPTX; invalid UTF-8 sequences are dropped.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
