package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, satisfied by pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id           TEXT PRIMARY KEY,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	rows         INTEGER NOT NULL,
	depth_levels JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS summary_rows (
	build_id       TEXT NOT NULL REFERENCES builds(id),
	kind           TEXT NOT NULL,
	review_id      TEXT NOT NULL,
	group_level1   TEXT NOT NULL,
	group_level2   TEXT NOT NULL,
	group_level3   TEXT NOT NULL,
	sample_depth   TEXT NOT NULL,
	sample_year    TEXT NOT NULL,
	trt_compare    TEXT NOT NULL,
	trt1           TEXT NOT NULL,
	trt2           TEXT NOT NULL,
	trt1_name      TEXT NOT NULL,
	trt2_name      TEXT NOT NULL,
	trt1_specific  TEXT NOT NULL,
	trt2_specific  TEXT NOT NULL,
	nutrient_group TEXT NOT NULL,
	cc_group       TEXT NOT NULL,
	tillage_group  TEXT NOT NULL,
	pm_group       TEXT NOT NULL,
	pct_mean       DOUBLE PRECISION,
	pct_se         DOUBLE PRECISION,
	abs_mean       DOUBLE PRECISION,
	abs_se         DOUBLE PRECISION,
	paper_count    INTEGER NOT NULL,
	comparisons    INTEGER NOT NULL,
	paper_ids      TEXT NOT NULL,
	group_facet    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summary_build_kind ON summary_rows(build_id, kind);
CREATE INDEX IF NOT EXISTS idx_summary_facet ON summary_rows(group_facet);
CREATE INDEX IF NOT EXISTS idx_summary_depth ON summary_rows(sample_depth);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveDataset persists one pipeline run as a new build. Summary rows go in
// via the COPY protocol, which is the fast path for bulk inserts.
func (s *PostgresStore) SaveDataset(ctx context.Context, ds *aggregate.Dataset) (string, error) {
	levels, err := json.Marshal(ds.Depths.Levels())
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal depth levels")
	}

	buildID := uuid.NewString()
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO builds (id, created_at, rows, depth_levels) VALUES ($1, $2, $3, $4)`,
		buildID, time.Now().UTC(), len(ds.Base), levels,
	); err != nil {
		return "", eris.Wrap(err, "postgres: insert build")
	}

	rows := make([][]any, 0, len(ds.Base)+len(ds.Cumulative))
	for _, r := range ds.Base {
		rows = append(rows, summaryArgs(buildID, KindBase, r))
	}
	for _, r := range ds.Cumulative {
		rows = append(rows, summaryArgs(buildID, KindCumulative, r))
	}

	if _, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"summary_rows"}, summaryColumns, pgx.CopyFromRows(rows),
	); err != nil {
		return "", eris.Wrap(err, "postgres: copy summary rows")
	}
	return buildID, nil
}

func (s *PostgresStore) LatestBuild(ctx context.Context) (*Build, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, rows, depth_levels FROM builds ORDER BY created_at DESC LIMIT 1`)
	b, err := scanPGBuild(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest build")
	}
	return b, nil
}

func (s *PostgresStore) ListBuilds(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, rows, depth_levels FROM builds ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list builds")
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanPGBuild(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan build")
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

func (s *PostgresStore) LoadSummary(ctx context.Context, buildID string, kind Kind, filter SummaryFilter) ([]model.SummaryRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM summary_rows WHERE build_id = $1 AND kind = $2`, selectColumns)
	args := []any{buildID, string(kind)}

	cols, vals := filterPairs(filter)
	for i, col := range cols {
		args = append(args, vals[i])
		query += fmt.Sprintf(" AND %s = $%d", col, len(args))
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load summary")
	}
	defer rows.Close()

	var out []model.SummaryRow
	for rows.Next() {
		var r model.SummaryRow
		if err := rows.Scan(scanTargets(&r)...); err != nil {
			return nil, eris.Wrap(err, "postgres: scan summary row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanPGBuild(r pgx.Row) (*Build, error) {
	var b Build
	var levels []byte
	if err := r.Scan(&b.ID, &b.CreatedAt, &b.Rows, &levels); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(levels, &b.DepthLevels); err != nil {
		return nil, eris.Wrap(err, "postgres: decode depth levels")
	}
	return &b, nil
}
