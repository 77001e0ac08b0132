package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	domain "github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

const recordColumns = `id, user_id, file_name, file_path, file_size, file_type, status,
       overall_score, dimensional_scores, strengths, gaps, recommendations,
       financial_analysis, market_analysis, full_report, created_at, updated_at`

// AnalysisRepository is the Postgres variant of the record store,
// selected by database.driver in config.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts the freshly created record; report columns stay NULL.
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO business_plan_analyses
  (id, user_id, file_name, file_path, file_size, file_type, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  status=EXCLUDED.status, updated_at=EXCLUDED.updated_at;
`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.FileName, rec.FilePath, rec.FileSize, rec.FileType,
		rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

// UpdateReport commits all report columns in one statement.
func (r *AnalysisRepository) UpdateReport(ctx context.Context, rec *domain.Record) error {
	const q = `
UPDATE business_plan_analyses
SET status = $1,
    overall_score = $2,
    dimensional_scores = $3,
    strengths = $4,
    gaps = $5,
    recommendations = $6,
    financial_analysis = $7,
    market_analysis = $8,
    full_report = $9,
    updated_at = $10
WHERE id = $11;`

	var overall any
	if rec.OverallScore != nil {
		overall = *rec.OverallScore
	}
	args := []any{rec.Status, overall}
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
			return err
		}
		args = append(args, col)
	}
	if rec.FullReport != nil {
		args = append(args, string(rec.FullReport))
	} else {
		args = append(args, nil)
	}
	args = append(args, rec.UpdatedAt, rec.ID)
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id domain.AnalysisID, status domain.Status) error {
	const q = `
UPDATE business_plan_analyses
SET status = $1, updated_at = NOW()
WHERE id = $2;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

func (r *AnalysisRepository) Get(ctx context.Context, userID string, id domain.AnalysisID) (*domain.Record, error) {
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE user_id=$1 AND id=$2 LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, userID, id))
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id domain.AnalysisID) (*domain.Record, error) {
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE id=$1 LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, id))
}

func (r *AnalysisRepository) Latest(ctx context.Context, userID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + recordColumns + `
FROM business_plan_analyses
WHERE user_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2;`
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
WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;`
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
		"SELECT COUNT(*) FROM business_plan_analyses WHERE user_id = $1", userID,
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

func anyOrNil(present bool, v any) any {
	if !present {
		return nil
	}
	return v
}

func jsonOrNull(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
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
	for _, pair := range []struct {
		src sql.NullString
		dst any
	}{
		{dims, &rec.DimensionalScores},
		{strengths, &rec.Strengths},
		{gaps, &rec.Gaps},
		{recs, &rec.Recommendations},
		{fin, &rec.FinancialAnalysis},
		{market, &rec.MarketAnalysis},
	} {
		if !pair.src.Valid || strings.TrimSpace(pair.src.String) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(pair.src.String), pair.dst); err != nil {
			return nil, err
		}
	}
	if full.Valid {
		rec.FullReport = []byte(full.String)
	}
	return &rec, nil
}
