package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

const recordColumns = `id, user_id, file_name, file_path, file_size, file_type, status,
       overall_score, dimensional_scores, strengths, gaps, recommendations,
       financial_analysis, market_analysis, full_report, created_at, updated_at`

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts the freshly created record. Report columns stay NULL
// until the worker commits.
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO business_plan_analyses
  (id, user_id, file_name, file_path, file_size, file_type, status, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  status=VALUES(status), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(rec.UserID), rec.FileName, rec.FilePath, rec.FileSize, rec.FileType,
		rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// UpdateReport is the worker's single commit: all report columns plus
// status and updated_at, one statement.
func (r *AnalysisRepository) UpdateReport(ctx context.Context, rec *domain.Record) error {
	const q = `
UPDATE business_plan_analyses
SET status = ?,
    overall_score = ?,
    dimensional_scores = ?,
    strengths = ?,
    gaps = ?,
    recommendations = ?,
    financial_analysis = ?,
    market_analysis = ?,
    full_report = ?,
    updated_at = ?
WHERE id = ?;`

	cols, err := reportColumnValues(rec)
	if err != nil {
		return err
	}
	args := append([]any{rec.Status}, cols...)
	args = append(args, rec.UpdatedAt, rec.ID)
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

// UpdateStatus hanya update kolom status
func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id domain.AnalysisID, status domain.Status) error {
	const q = `
UPDATE business_plan_analyses
SET status = ?, updated_at = NOW()
WHERE id = ?;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

// Get by ID + owner
func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Record, error) {
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE user_id=? AND id=? LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, userID, id))
}

// GetByID looks the record up without owner scoping; used by the
// worker, which only holds the identifier.
func (r *AnalysisRepository) GetByID(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE id=? LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, id))
}

// Latest records per owner
func (r *AnalysisRepository) Latest(ctx context.Context, userID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Paginate with offset + limit (classic pagination)
func (r *AnalysisRepository) Paginate(ctx context.Context, userID string, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE user_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	rows, err := r.db.QueryContext(ctx, q, userID, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var recs []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM business_plan_analyses WHERE user_id = ?", userID,
	).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       recs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// reportColumnValues marshals the nullable report columns in statement
// order: overall_score .. full_report.
func reportColumnValues(rec *domain.Record) ([]any, error) {
	var overall any
	if rec.OverallScore != nil {
		overall = *rec.OverallScore
	}
	out := []any{overall}
	for _, v := range []any{
		anyOrNil(rec.DimensionalScores != nil, rec.DimensionalScores),
		anyOrNil(rec.Strengths != nil, rec.Strengths),
		anyOrNil(rec.Gaps != nil, rec.Gaps),
		anyOrNil(rec.Recommendations != nil, rec.Recommendations),
		anyOrNil(rec.FinancialAnalysis != nil, rec.FinancialAnalysis),
		anyOrNil(rec.MarketAnalysis != nil, rec.MarketAnalysis),
	} {
		col, err := jsonOrNull(v)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	if rec.FullReport != nil {
		out = append(out, string(rec.FullReport))
	} else {
		out = append(out, nil)
	}
	return out, nil
}

func anyOrNil(present bool, v any) any {
	if !present {
		return nil
	}
	return v
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		rec                     domain.Record
		overall                 sql.NullInt64
		dims, strengths, gaps   sql.NullString
		recs, fin, market, full sql.NullString
	)
	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.FileName, &rec.FilePath, &rec.FileSize, &rec.FileType, &rec.Status,
		&overall, &dims, &strengths, &gaps, &recs, &fin, &market, &full,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if overall.Valid {
		v := int(overall.Int64)
		rec.OverallScore = &v
	}
	if err := unmarshalNull(dims, &rec.DimensionalScores); err != nil {
		return nil, err
	}
	if err := unmarshalNull(strengths, &rec.Strengths); err != nil {
		return nil, err
	}
	if err := unmarshalNull(gaps, &rec.Gaps); err != nil {
		return nil, err
	}
	if err := unmarshalNull(recs, &rec.Recommendations); err != nil {
		return nil, err
	}
	if err := unmarshalNull(fin, &rec.FinancialAnalysis); err != nil {
		return nil, err
	}
	if err := unmarshalNull(market, &rec.MarketAnalysis); err != nil {
		return nil, err
	}
	if full.Valid {
		rec.FullReport = []byte(full.String)
	}
	return &rec, nil
}
