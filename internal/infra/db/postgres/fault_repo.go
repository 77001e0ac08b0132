package postgres

import (
	"context"
	"database/sql"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/faults"
)

type FaultRepository struct {
	db *sql.DB
}

func NewFaultRepository(db *sql.DB) *FaultRepository {
	return &FaultRepository{db: db}
}

// Save inserts a fault entry; lib/pq needs RETURNING for the serial id
func (r *FaultRepository) Save(ctx context.Context, f *domain.Fault) error {
	const q = `
INSERT INTO analysis_faults (analysis_id, stage, message, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id;`
	return r.db.QueryRowContext(ctx, q, f.AnalysisID, f.Stage, f.Message, f.CreatedAt).Scan(&f.ID)
}

// LatestByAnalysis returns the newest fault for one record
func (r *FaultRepository) LatestByAnalysis(ctx context.Context, analysisID string) (*domain.Fault, error) {
	const q = `
SELECT id, analysis_id, stage, message, created_at
FROM analysis_faults
WHERE analysis_id=$1
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	var f domain.Fault
	if err := r.db.QueryRowContext(ctx, q, analysisID).Scan(
		&f.ID, &f.AnalysisID, &f.Stage, &f.Message, &f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
