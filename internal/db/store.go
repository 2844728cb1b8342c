package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ListParams struct {
	Query         string
	Source        string
	Country       string
	MinAlpha      float64
	MaxAlpha      float64
	MinOil        float64
	MaxOil        float64
	MinCohumulone float64
	MaxCohumulone float64
	Limit         int
	Offset        int
	SortBy        string // "name" (default), "alpha_desc", "oil_desc", "newest"
}

type ListResult struct {
	Hops   []models.HopProfile `json:"hops"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

const selectCols = `name, source, country, href,
	alpha_from, alpha_to, beta_from, beta_to,
	oil_from, oil_to, coh_from, coh_to,
	notes, aromas`

// avgExpr mirrors the range-averaging rule used in Go: a zero bound means
// "missing", so a one-sided range collapses to the known bound.
func avgExpr(prefix string) string {
	from := prefix + "_from"
	to := prefix + "_to"
	return fmt.Sprintf("(CASE WHEN %s = 0 THEN %s WHEN %s = 0 THEN %s ELSE (%s + %s) / 2 END)", from, to, to, from, from, to)
}

func scanHop(scan func(dest ...interface{}) error) (models.HopProfile, error) {
	var h models.HopProfile
	var country, href *string
	var aromasRaw []byte

	err := scan(
		&h.Name, &h.Source, &country, &href,
		&h.AlphaFrom, &h.AlphaTo, &h.BetaFrom, &h.BetaTo,
		&h.OilFrom, &h.OilTo, &h.CohumuloneFrom, &h.CohumuloneTo,
		&h.Notes, &aromasRaw,
	)
	if err != nil {
		return h, err
	}

	if country != nil {
		h.Country = *country
	}
	if href != nil {
		h.Href = *href
	}

	h.Aromas = make(map[models.AromaCategory]float64, len(models.AromaCategories))
	for _, cat := range models.AromaCategories {
		h.Aromas[cat] = 0
	}
	if len(aromasRaw) > 0 {
		var stored map[models.AromaCategory]float64
		if err := json.Unmarshal(aromasRaw, &stored); err == nil {
			for cat, v := range stored {
				if models.ValidAromaCategory(cat) {
					h.Aromas[cat] = v
				}
			}
		}
	}

	h.AvgAlpha = hops.AverageValue(h.AlphaFrom, h.AlphaTo)
	h.AvgBeta = hops.AverageValue(h.BetaFrom, h.BetaTo)
	h.AvgOil = hops.AverageValue(h.OilFrom, h.OilTo)
	h.AvgCohumulone = hops.AverageValue(h.CohumuloneFrom, h.CohumuloneTo)
	if h.AvgAlpha > 0 {
		h.BetaAlphaRatio = h.AvgBeta / h.AvgAlpha
	}

	return h, nil
}

// UpsertHop inserts or updates a hop keyed by (name, source). The aroma
// intensity vector is stored alongside the JSONB map so similarity queries
// can run inside Postgres.
func (s *Store) UpsertHop(ctx context.Context, h models.HopProfile) error {
	aromasJSON, err := json.Marshal(h.Aromas)
	if err != nil {
		return fmt.Errorf("failed to encode aromas: %w", err)
	}

	notes := h.Notes
	if notes == nil {
		notes = []string{}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO hops (
			name, source, country, href,
			alpha_from, alpha_to, beta_from, beta_to,
			oil_from, oil_to, coh_from, coh_to,
			notes, aromas, aroma_vector, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (name, source) DO UPDATE SET
			country = EXCLUDED.country,
			href = EXCLUDED.href,
			alpha_from = EXCLUDED.alpha_from,
			alpha_to = EXCLUDED.alpha_to,
			beta_from = EXCLUDED.beta_from,
			beta_to = EXCLUDED.beta_to,
			oil_from = EXCLUDED.oil_from,
			oil_to = EXCLUDED.oil_to,
			coh_from = EXCLUDED.coh_from,
			coh_to = EXCLUDED.coh_to,
			notes = EXCLUDED.notes,
			aromas = EXCLUDED.aromas,
			aroma_vector = EXCLUDED.aroma_vector,
			updated_at = NOW()
	`,
		h.Name, h.Source, nullIfEmpty(h.Country), nullIfEmpty(h.Href),
		h.AlphaFrom, h.AlphaTo, h.BetaFrom, h.BetaTo,
		h.OilFrom, h.OilTo, h.CohumuloneFrom, h.CohumuloneTo,
		notes, aromasJSON, pgvector.NewVector(h.AromaVector()),
	)
	if err != nil {
		return fmt.Errorf("upsert failed for %s: %w", h.UniqueID(), err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Store) ListHops(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Query != "" {
		where += fmt.Sprintf(" AND name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, params.Query)
		argIdx++
	}
	if params.Source != "" {
		where += fmt.Sprintf(" AND source = $%d", argIdx)
		args = append(args, params.Source)
		argIdx++
	}
	if params.Country != "" {
		where += fmt.Sprintf(" AND country = $%d", argIdx)
		args = append(args, params.Country)
		argIdx++
	}
	if params.MinAlpha > 0 {
		where += fmt.Sprintf(" AND %s >= $%d", avgExpr("alpha"), argIdx)
		args = append(args, params.MinAlpha)
		argIdx++
	}
	if params.MaxAlpha > 0 {
		where += fmt.Sprintf(" AND %s <= $%d", avgExpr("alpha"), argIdx)
		args = append(args, params.MaxAlpha)
		argIdx++
	}
	if params.MinOil > 0 {
		where += fmt.Sprintf(" AND %s >= $%d", avgExpr("oil"), argIdx)
		args = append(args, params.MinOil)
		argIdx++
	}
	if params.MaxOil > 0 {
		where += fmt.Sprintf(" AND %s <= $%d", avgExpr("oil"), argIdx)
		args = append(args, params.MaxOil)
		argIdx++
	}
	if params.MinCohumulone > 0 {
		where += fmt.Sprintf(" AND %s >= $%d", avgExpr("coh"), argIdx)
		args = append(args, params.MinCohumulone)
		argIdx++
	}
	if params.MaxCohumulone > 0 {
		where += fmt.Sprintf(" AND %s <= $%d", avgExpr("coh"), argIdx)
		args = append(args, params.MaxCohumulone)
		argIdx++
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM hops " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	selectSQL := fmt.Sprintf("SELECT %s FROM hops %s", selectCols, where)

	switch params.SortBy {
	case "alpha_desc":
		selectSQL += fmt.Sprintf(" ORDER BY %s DESC, name ASC", avgExpr("alpha"))
	case "oil_desc":
		selectSQL += fmt.Sprintf(" ORDER BY %s DESC, name ASC", avgExpr("oil"))
	case "newest":
		selectSQL += " ORDER BY created_at DESC, name ASC"
	default:
		selectSQL += " ORDER BY name ASC, source ASC"
	}

	selectSQL += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var result []models.HopProfile
	for rows.Next() {
		h, err := scanHop(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if result == nil {
		result = []models.HopProfile{}
	}

	return &ListResult{
		Hops:   result,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

func (s *Store) GetHop(ctx context.Context, name, source string) (*models.HopProfile, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM hops
		WHERE name = $1 AND source = $2
	`, selectCols)
	row := s.pool.QueryRow(ctx, sql, name, source)

	h, err := scanHop(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("not found: %w", err)
	}
	return &h, nil
}

// SimilarHops returns the hops closest to the given one in aroma space,
// ordered by L2 distance over the 9-dimensional intensity vector. The hop
// itself is excluded, as are hops with no aroma data.
func (s *Store) SimilarHops(ctx context.Context, name, source string, limit int) ([]models.HopProfile, error) {
	if limit <= 0 {
		limit = 5
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM hops
		WHERE aroma_vector IS NOT NULL
		  AND NOT (name = $1 AND source = $2)
		ORDER BY aroma_vector <-> (SELECT aroma_vector FROM hops WHERE name = $1 AND source = $2)
		LIMIT $3
	`, selectCols)

	rows, err := s.pool.Query(ctx, sql, name, source, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	var result []models.HopProfile
	for rows.Next() {
		h, err := scanHop(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return result, nil
}

func (s *Store) GetSources(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT source FROM hops ORDER BY source")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err == nil {
			sources = append(sources, src)
		}
	}
	return sources, nil
}

func (s *Store) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var total int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM hops").Scan(&total)
	stats["total"] = total

	var sources int
	s.pool.QueryRow(ctx, "SELECT COUNT(DISTINCT source) FROM hops").Scan(&sources)
	stats["sources"] = sources

	var withAromas int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM hops WHERE aromas != '{}'::jsonb").Scan(&withAromas)
	stats["with_aromas"] = withAromas

	var withCohumulone int
	s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM hops WHERE coh_from > 0 OR coh_to > 0").Scan(&withCohumulone)
	stats["with_cohumulone"] = withCohumulone

	sourceCounts := map[string]int{}
	rows, err := s.pool.Query(ctx, "SELECT source, COUNT(*) FROM hops GROUP BY source")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var src string
			var count int
			if scanErr := rows.Scan(&src, &count); scanErr == nil {
				sourceCounts[src] = count
			}
		}
	}
	stats["source_counts"] = sourceCounts

	return stats, nil
}

// IngestRun records one scrape of one vendor source.
type IngestRun struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Status       string     `json:"status"`
	HopsFound    int        `json:"hops_found"`
	HopsUpserted int        `json:"hops_upserted"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

func (s *Store) StartIngestRun(ctx context.Context, source string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		"INSERT INTO ingest_runs (source, status) VALUES ($1, 'running') RETURNING id",
		source,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to start ingest run: %w", err)
	}
	return id, nil
}

func (s *Store) FinishIngestRun(ctx context.Context, id, status string, found, upserted int, runErr error) error {
	var errText *string
	if runErr != nil {
		msg := runErr.Error()
		errText = &msg
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE ingest_runs
		SET status = $2, hops_found = $3, hops_upserted = $4, error = $5, finished_at = NOW()
		WHERE id = $1
	`, id, status, found, upserted, errText)
	if err != nil {
		return fmt.Errorf("failed to finish ingest run: %w", err)
	}
	return nil
}

func (s *Store) ListIngestRuns(ctx context.Context, limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, source, status, hops_found, hops_upserted, COALESCE(error, ''), started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		var r IngestRun
		if err := rows.Scan(&r.ID, &r.Source, &r.Status, &r.HopsFound, &r.HopsUpserted, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
