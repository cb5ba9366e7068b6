package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/agdataworks/soilsum-cli/internal/aggregate"
	"github.com/agdataworks/soilsum-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS builds (
	id           TEXT PRIMARY KEY,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	rows         INTEGER NOT NULL,
	depth_levels TEXT NOT NULL
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
	pct_mean       REAL,
	pct_se         REAL,
	abs_mean       REAL,
	abs_se         REAL,
	paper_count    INTEGER NOT NULL,
	comparisons    INTEGER NOT NULL,
	paper_ids      TEXT NOT NULL,
	group_facet    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_summary_build_kind ON summary_rows(build_id, kind);
CREATE INDEX IF NOT EXISTS idx_summary_facet ON summary_rows(group_facet);
CREATE INDEX IF NOT EXISTS idx_summary_depth ON summary_rows(sample_depth);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDataset persists one pipeline run as a new build, both summaries
// included, in a single transaction.
func (s *SQLiteStore) SaveDataset(ctx context.Context, ds *aggregate.Dataset) (string, error) {
	levels, err := json.Marshal(ds.Depths.Levels())
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal depth levels")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	buildID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO builds (id, created_at, rows, depth_levels) VALUES (?, ?, ?, ?)`,
		buildID, time.Now().UTC(), len(ds.Base), string(levels),
	); err != nil {
		return "", eris.Wrap(err, "sqlite: insert build")
	}

	insert := fmt.Sprintf(`INSERT INTO summary_rows (%s) VALUES (%s)`,
		strings.Join(summaryColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(summaryColumns)), ", "),
	)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for kind, rows := range map[Kind][]model.SummaryRow{
		KindBase:       ds.Base,
		KindCumulative: ds.Cumulative,
	} {
		for _, row := range rows {
			if _, err := stmt.ExecContext(ctx, summaryArgs(buildID, kind, row)...); err != nil {
				return "", eris.Wrapf(err, "sqlite: insert %s row", kind)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return buildID, nil
}

func (s *SQLiteStore) LatestBuild(ctx context.Context) (*Build, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, rows, depth_levels FROM builds ORDER BY created_at DESC LIMIT 1`)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: latest build")
	}
	return b, nil
}

func (s *SQLiteStore) ListBuilds(ctx context.Context, limit int) ([]Build, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, rows, depth_levels FROM builds ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list builds")
	}
	defer rows.Close()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan build")
		}
		builds = append(builds, *b)
	}
	return builds, rows.Err()
}

func (s *SQLiteStore) LoadSummary(ctx context.Context, buildID string, kind Kind, filter SummaryFilter) ([]model.SummaryRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM summary_rows WHERE build_id = ? AND kind = ?`, selectColumns)
	args := []any{buildID, string(kind)}

	cols, vals := filterPairs(filter)
	for i, col := range cols {
		query += fmt.Sprintf(" AND %s = ?", col)
		args = append(args, vals[i])
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load summary")
	}
	defer rows.Close()

	var out []model.SummaryRow
	for rows.Next() {
		var r model.SummaryRow
		if err := rows.Scan(scanTargets(&r)...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan summary row")
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuild(r rowScanner) (*Build, error) {
	var b Build
	var levels string
	if err := r.Scan(&b.ID, &b.CreatedAt, &b.Rows, &levels); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(levels), &b.DepthLevels); err != nil {
		return nil, eris.Wrap(err, "sqlite: decode depth levels")
	}
	return &b, nil
}
