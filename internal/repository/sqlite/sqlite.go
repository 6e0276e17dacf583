package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skysight/internal/domain"
	"skysight/internal/repository"

	_ "modernc.org/sqlite"
)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cameras (
		name TEXT PRIMARY KEY,
		source TEXT,
		data JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		camera_name TEXT NOT NULL,
		slews JSON NOT NULL,
		source TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (camera_name) REFERENCES cameras(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		strategy_id TEXT,
		camera_name TEXT NOT NULL,
		exposures INTEGER NOT NULL,
		coverage JSON NOT NULL,
		total_area REAL NOT NULL,
		mean_depth REAL NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (strategy_id) REFERENCES strategies(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_strategies_camera ON strategies(camera_name);
	CREATE INDEX IF NOT EXISTS idx_reports_strategy ON reports(strategy_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

// ListCameras returns all persisted cameras ordered by name
func (r *Repository) ListCameras(ctx context.Context) ([]*repository.CameraRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cameraColumns+` FROM cameras ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	var cameras []*repository.CameraRecord
	for rows.Next() {
		var row cameraRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		rec, err := row.toRecord()
		if err != nil {
			return nil, err
		}
		cameras = append(cameras, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cameras: %w", err)
	}
	return cameras, nil
}

// GetCamera retrieves a single camera by name
func (r *Repository) GetCamera(ctx context.Context, name string) (*repository.CameraRecord, error) {
	var row cameraRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+cameraColumns+` FROM cameras WHERE name = ?
	`, name).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query camera: %w", err)
	}
	return row.toRecord()
}

// SaveCamera inserts or updates a camera definition
func (r *Repository) SaveCamera(ctx context.Context, rec *repository.CameraRecord) error {
	data, err := marshalJSON(rec.Footprint)
	if err != nil {
		return fmt.Errorf("failed to marshal footprint: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cameras (name, source, data, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, rec.Name, stringToNull(rec.Source), data)

	if err != nil {
		return fmt.Errorf("failed to upsert camera: %w", err)
	}
	return nil
}

// DeleteCamera removes a camera and, via cascade, its strategies
func (r *Repository) DeleteCamera(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cameras WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete camera: %w", err)
	}
	return nil
}

// ListStrategies returns all strategies ordered by name
func (r *Repository) ListStrategies(ctx context.Context) ([]*domain.Strategy, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+strategyColumns+` FROM strategies ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var strategies []*domain.Strategy
	for rows.Next() {
		var row strategyRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strat, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategies: %w", err)
	}
	return strategies, nil
}

// GetStrategy retrieves a single strategy by ID
func (r *Repository) GetStrategy(ctx context.Context, id string) (*domain.Strategy, error) {
	var row strategyRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+strategyColumns+` FROM strategies WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy: %w", err)
	}
	return row.toDomain()
}

// SaveStrategy inserts or updates a strategy
func (r *Repository) SaveStrategy(ctx context.Context, strat *domain.Strategy) error {
	if err := strat.Validate(); err != nil {
		return err
	}
	slews, err := marshalJSON(strat.Slews)
	if err != nil {
		return fmt.Errorf("failed to marshal slews: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO strategies (id, name, camera_name, slews, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			camera_name = excluded.camera_name,
			slews = excluded.slews,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`, strat.ID, strat.Name, strat.CameraName, slews, stringToNull(strat.Source), timeOrNow(strat.CreatedAt))

	if err != nil {
		return fmt.Errorf("failed to upsert strategy: %w", err)
	}
	return nil
}

// DeleteStrategy removes a strategy and, via cascade, its reports
func (r *Repository) DeleteStrategy(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM strategies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy: %w", err)
	}
	return nil
}

// SaveReport persists an evaluation report
func (r *Repository) SaveReport(ctx context.Context, report *domain.Report) error {
	coverage, err := marshalJSON(report.Coverage)
	if err != nil {
		return fmt.Errorf("failed to marshal coverage: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO reports (id, strategy_id, camera_name, exposures, coverage,
			total_area, mean_depth, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, stringToNull(report.StrategyID), report.CameraName, report.Exposures,
		coverage, report.TotalArea, report.MeanDepth,
		report.Duration.Milliseconds(), timeOrNow(report.CreatedAt))

	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// GetReport retrieves a single report by ID
func (r *Repository) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var row reportRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+` FROM reports WHERE id = ?
	`, id).Scan(row.scanArgs()...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return row.toDomain()
}

// ListReports returns reports, newest first, optionally filtered by
// strategy ID
func (r *Repository) ListReports(ctx context.Context, strategyID string) ([]*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []interface{}
	if strategyID != "" {
		query += ` WHERE strategy_id = ?`
		args = append(args, strategyID)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		var row reportRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
