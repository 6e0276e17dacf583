package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"skysight/internal/domain"
	"skysight/internal/repository"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// marshalJSON marshals a value for a JSON column
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// cameraRow holds all columns from a camera query for scanning
type cameraRow struct {
	Name      string
	Source    sql.NullString
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// cameraColumns is the SELECT column list for camera queries. Must
// match cameraRow.scanArgs order.
const cameraColumns = `name, source, data, created_at, updated_at`

func (r *cameraRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Name,
		&r.Source,
		&r.Data,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func (r *cameraRow) toRecord() (*repository.CameraRecord, error) {
	rec := &repository.CameraRecord{
		Name:      r.Name,
		Source:    nullToString(r.Source),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Data, &rec.Footprint); err != nil {
		return nil, fmt.Errorf("unmarshal footprint for %q: %w", r.Name, err)
	}
	return rec, nil
}

// strategyRow holds all columns from a strategy query for scanning
type strategyRow struct {
	ID         string
	Name       string
	CameraName string
	Slews      []byte
	Source     sql.NullString
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// strategyColumns is the SELECT column list for strategy queries. Must
// match strategyRow.scanArgs order.
const strategyColumns = `id, name, camera_name, slews, source, created_at, updated_at`

func (r *strategyRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.Name,
		&r.CameraName,
		&r.Slews,
		&r.Source,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

func (r *strategyRow) toDomain() (*domain.Strategy, error) {
	strat := &domain.Strategy{
		ID:         r.ID,
		Name:       r.Name,
		CameraName: r.CameraName,
		Source:     nullToString(r.Source),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if err := json.Unmarshal(r.Slews, &strat.Slews); err != nil {
		return nil, fmt.Errorf("unmarshal slews for %q: %w", r.ID, err)
	}
	return strat, nil
}

// reportRow holds all columns from a report query for scanning
type reportRow struct {
	ID         string
	StrategyID sql.NullString
	CameraName string
	Exposures  int
	Coverage   []byte
	TotalArea  float64
	MeanDepth  float64
	DurationMS int64
	CreatedAt  time.Time
}

// reportColumns is the SELECT column list for report queries. Must
// match reportRow.scanArgs order.
const reportColumns = `id, strategy_id, camera_name, exposures, coverage,
	total_area, mean_depth, duration_ms, created_at`

func (r *reportRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,
		&r.StrategyID,
		&r.CameraName,
		&r.Exposures,
		&r.Coverage,
		&r.TotalArea,
		&r.MeanDepth,
		&r.DurationMS,
		&r.CreatedAt,
	}
}

func (r *reportRow) toDomain() (*domain.Report, error) {
	report := &domain.Report{
		ID:         r.ID,
		StrategyID: nullToString(r.StrategyID),
		CameraName: r.CameraName,
		Exposures:  r.Exposures,
		TotalArea:  r.TotalArea,
		MeanDepth:  r.MeanDepth,
		Duration:   time.Duration(r.DurationMS) * time.Millisecond,
		CreatedAt:  r.CreatedAt,
	}
	if err := json.Unmarshal(r.Coverage, &report.Coverage); err != nil {
		return nil, fmt.Errorf("unmarshal coverage for %q: %w", r.ID, err)
	}
	return report, nil
}
