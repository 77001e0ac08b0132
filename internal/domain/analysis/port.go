package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, userID string, id AnalysisID) (*Record, error)
	GetByID(ctx context.Context, id AnalysisID) (*Record, error)
	Latest(ctx context.Context, userID string, limit int) ([]*Record, error)
	Paginate(ctx context.Context, userID string, page, pageSize int) (PaginatedResult, error)

	// UpdateReport persists the worker's commit: all report columns,
	// status and updated_at for one record.
	UpdateReport(ctx context.Context, rec *Record) error
	UpdateStatus(ctx context.Context, id AnalysisID, status Status) error
}

// FileStore port (interface untuk penyimpanan dokumen)
type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Notifier port: pushes the full new row image to subscribed viewers.
// Best-effort freshness layer; no buffering or replay.
type Notifier interface {
	Publish(rec *Record)
}
