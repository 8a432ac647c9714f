package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/vmarins/oohplanner/internal/observability"
)

// AnalyticsService defines the interface for analytics operations.
// Implementations should handle cases where underlying storage is unavailable
// by returning ErrUnavailable.
type AnalyticsService interface {
	// RecordPlanEvent records a planning event (allocation, plan build,
	// efficiency check) with its business dimensions.
	RecordPlanEvent(ctx context.Context, eventType, requestID, planID, taxonomy, market string, budget, allocatedBudget float64, facesCount int) error
}

// ErrUnavailable is returned when the analytics DB is not configured.
var ErrUnavailable = fmt.Errorf("analytics unavailable")

// Analytics wraps a ClickHouse DB connection.
type Analytics struct {
	DB      *sql.DB
	Metrics observability.MetricsRegistry
}

// PlanEventRecord mirrors a row in the plan_events table.
type PlanEventRecord struct {
	Timestamp       time.Time `json:"timestamp"`
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id"`
	PlanID          *string   `json:"plan_id"`
	Taxonomy        *string   `json:"taxonomy"`
	Market          *string   `json:"market"`
	Budget          float64   `json:"budget"`
	AllocatedBudget float64   `json:"allocated_budget"`
	FacesCount      int32     `json:"faces_count"`
}

// InitClickHouse connects to ClickHouse and ensures the plan_events table exists.
func InitClickHouse(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration, metrics observability.MetricsRegistry) (*Analytics, error) {
	db, err := sql.Open("clickhouse", dsn)
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	create := `CREATE TABLE IF NOT EXISTS plan_events (
       timestamp        DateTime,
       event_type       String,
       request_id       String,
       plan_id          Nullable(String),
       taxonomy         Nullable(String),
       market           Nullable(String),
       budget           Float64,
       allocated_budget Float64,
       faces_count      Int32
   ) ENGINE=MergeTree() ORDER BY (event_type, timestamp)`
	if _, err := db.ExecContext(context.Background(), create); err != nil {
		return nil, fmt.Errorf("clickhouse create table: %w", err)
	}

	zap.L().Info("Connected to ClickHouse")
	return &Analytics{DB: db, Metrics: metrics}, nil
}

// RecordPlanEvent inserts a single planning event row.
func (a *Analytics) RecordPlanEvent(ctx context.Context, eventType, requestID, planID, taxonomy, market string, budget, allocatedBudget float64, facesCount int) error {
	if a == nil || a.DB == nil {
		return ErrUnavailable
	}
	var pid, tax, mkt sql.NullString
	if planID != "" {
		pid.String = planID
		pid.Valid = true
	}
	if taxonomy != "" {
		tax.String = taxonomy
		tax.Valid = true
	}
	if market != "" {
		mkt.String = market
		mkt.Valid = true
	}

	stmt := `INSERT INTO plan_events (timestamp, event_type, request_id, plan_id, taxonomy, market, budget, allocated_budget, faces_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := a.DB.ExecContext(ctx, stmt, time.Now(), eventType, requestID, pid, tax, mkt, budget, allocatedBudget, int32(facesCount)); err != nil {
		zap.L().Error("clickhouse insert failed", zap.Error(err), zap.String("event_type", eventType))
		if a.Metrics != nil {
			a.Metrics.IncrementAnalyticsErrors()
		}
		return fmt.Errorf("insert %s event: %w", eventType, err)
	}
	return nil
}

// Close terminates the ClickHouse connection.
func (a *Analytics) Close() {
	if a != nil && a.DB != nil {
		if err := a.DB.Close(); err != nil {
			zap.L().Error("clickhouse close", zap.Error(err))
		}
	}
}

// GetEventsByRequestID returns all events for a given request ID ordered by timestamp.
func (a *Analytics) GetEventsByRequestID(id string) ([]PlanEventRecord, error) {
	if a == nil || a.DB == nil {
		return nil, ErrUnavailable
	}
	query := `SELECT timestamp, event_type, request_id, plan_id, taxonomy, market, budget, allocated_budget, faces_count FROM plan_events WHERE request_id=? ORDER BY timestamp`
	rows, err := a.DB.QueryContext(context.Background(), query, id)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			zap.L().Warn("rows close", zap.Error(err))
		}
	}()

	var events []PlanEventRecord
	for rows.Next() {
		var ev PlanEventRecord
		if err := rows.Scan(&ev.Timestamp, &ev.EventType, &ev.RequestID, &ev.PlanID, &ev.Taxonomy, &ev.Market, &ev.Budget, &ev.AllocatedBudget, &ev.FacesCount); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return events, nil
}
