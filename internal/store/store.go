package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"tvschema/internal/config"
	"tvschema/internal/tabular"
)

// ErrDisabled reports that the run history store is turned off.
var ErrDisabled = errors.New("run history store is disabled")

// ErrRunNotFound reports an unknown run id.
var ErrRunNotFound = errors.New("run not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

var runColumns = []string{
	"id", "started_at", "finished_at", "specs_path", "spectral_path", "output_csv", "output_json",
	"total_products", "reclassified", "unresolved_ksf", "unrecognized_backlights",
}

// Store persists build snapshots in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the configured history database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil || !cfg.Store.Enabled {
		return nil, ErrDisabled
	}
	return OpenPath(cfg.Store.Path)
}

// OpenPath connects to the database at path, creating it when missing.
func OpenPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun writes a snapshot in one transaction. Saving the same run id twice
// fails.
func (s *Store) SaveRun(ctx context.Context, snap Snapshot) error {
	if snap.Run.ID == "" {
		return errors.New("run id is required")
	}
	var columns []string
	var rows []tabular.Row
	if snap.Table != nil {
		columns = snap.Table.Columns
		rows = snap.Table.Rows
	}
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := snap.Run
	insertRun := psql.Insert("runs").
		Columns(slices.Concat(runColumns, []string{"columns_json"})...).
		Values(
			run.ID,
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
			nullableString(run.SpecsPath),
			nullableString(run.SpectralPath),
			nullableString(run.OutputCSV),
			nullableString(run.OutputJSON),
			run.TotalProducts,
			run.Reclassified,
			run.UnresolvedKSF,
			run.UnrecognizedBacklights,
			string(columnsJSON),
		)
	if err := execBuilder(ctx, tx, insertRun); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, row := range rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row %d: %w", i, err)
		}
		insert := psql.Insert("records").
			Columns("run_id", "position", "product_id", "fullname", "brand", "display_type",
				"color_architecture", "qd_present", "qd_material", "marketing_label", "row_json").
			Values(
				run.ID, i,
				cell(row, "product_id"),
				cell(row, "fullname"),
				cell(row, "brand"),
				cell(row, "display_type"),
				cell(row, "color_architecture"),
				cell(row, "qd_present"),
				cell(row, "qd_material"),
				cell(row, "marketing_label"),
				string(rowJSON),
			)
		if err := execBuilder(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	for _, item := range snap.Reclassification {
		insert := psql.Insert("reclassifications").
			Columns("run_id", "product_id", "fullname", "brand", "marketing_label").
			Values(run.ID, item.ProductID, item.Name, item.Brand, item.MarketingLabel)
		if err := execBuilder(ctx, tx, insert); err != nil {
			return fmt.Errorf("insert reclassification: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := psql.Select(runColumns...).From("runs").OrderBy("finished_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LatestRun returns the most recent run, or nil when the store is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.ListRuns(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// GetRun fetches one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	stmt, args, err := psql.Select(runColumns...).From("runs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run query: %w", err)
	}
	run, err := scanRun(s.db.QueryRowContext(ctx, stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LoadRecords rebuilds the published table saved for a run.
func (s *Store) LoadRecords(ctx context.Context, runID string) (*tabular.Table, error) {
	var columnsJSON string
	stmt, args, err := psql.Select("columns_json").From("runs").Where(sq.Eq{"id": runID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build columns query: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&columnsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("load columns: %w", err)
	}
	var columns []string
	if err := json.Unmarshal([]byte(columnsJSON), &columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}

	stmt, args, err = psql.Select("row_json").From("records").Where(sq.Eq{"run_id": runID}).OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build records query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	table := tabular.New("tv_database", columns...)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		row := tabular.Row{}
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return table, nil
}

// LoadReclassifications returns the corrections saved for a run.
func (s *Store) LoadReclassifications(ctx context.Context, runID string) ([]Reclassification, error) {
	stmt, args, err := psql.Select("product_id", "fullname", "brand", "marketing_label").
		From("reclassifications").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reclassification query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("load reclassifications: %w", err)
	}
	defer rows.Close()

	var out []Reclassification
	for rows.Next() {
		var item Reclassification
		var productID, name, brand, label sql.NullString
		if err := rows.Scan(&productID, &name, &brand, &label); err != nil {
			return nil, fmt.Errorf("scan reclassification: %w", err)
		}
		item.ProductID = productID.String
		item.Name = name.String
		item.Brand = brand.String
		item.MarketingLabel = label.String
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reclassifications: %w", err)
	}
	return out, nil
}

// Prune deletes all but the newest keep runs and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	keepQuery := psql.Select("id").From("runs").OrderBy("finished_at DESC", "id DESC").Limit(uint64(keep))
	keepSQL, keepArgs, err := keepQuery.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build keep query: %w", err)
	}
	stmt, args, err := psql.Delete("runs").Where("id NOT IN ("+keepSQL+")", keepArgs...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build prune query: %w", err)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

type sqlizer interface {
	ToSql() (string, []any, error)
}

func execBuilder(ctx context.Context, tx *sql.Tx, b sqlizer) error {
	stmt, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, stmt, args...)
	return err
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run                                    Run
		started, finished                      string
		specs, spectral, outputCSV, outputJSON sql.NullString
	)
	if err := scanner.Scan(
		&run.ID, &started, &finished, &specs, &spectral, &outputCSV, &outputJSON,
		&run.TotalProducts, &run.Reclassified, &run.UnresolvedKSF, &run.UnrecognizedBacklights,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	run.SpecsPath = specs.String
	run.SpectralPath = spectral.String
	run.OutputCSV = outputCSV.String
	run.OutputJSON = outputJSON.String
	return run, nil
}

func cell(row tabular.Row, column string) any {
	if value, ok := row.Get(column); ok {
		return value
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout is fixed width so that text ordering in SQL matches time
// ordering. RFC3339Nano trims trailing zeros and does not sort.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return time.Time{}
		}
	}
	return t
}
