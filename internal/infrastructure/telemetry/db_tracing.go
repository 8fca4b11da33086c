package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing adds otelgorm spans plus slow query marking to a *gorm.DB
type DBTracing struct {
	enabled   bool
	fullSQL   bool
	slowQuery time.Duration
	dbSystem  string
	logger    *zap.Logger
}

// NewDBTracing configures database tracing for the given driver name
func NewDBTracing(cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger) *DBTracing {
	slow := cfg.DBSlowQueryThresh
	if slow <= 0 {
		slow = defaultSlowQueryThreshold
	}
	return &DBTracing{
		enabled:   cfg.Enabled && cfg.DBTraceEnabled,
		fullSQL:   cfg.DBLogFullSQL,
		slowQuery: slow,
		dbSystem:  dbSystem,
		logger:    logger,
	}
}

// Register installs the otelgorm plugin and the timing callbacks
func (t *DBTracing) Register(db *gorm.DB) error {
	if !t.enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(t.dbSystem)}
	if !t.fullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := t.registerCallbacks(db); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.String("db_system", t.dbSystem),
		zap.Bool("log_full_sql", t.fullSQL),
		zap.Duration("slow_query_threshold", t.slowQuery),
	)
	return nil
}

// registerCallbacks runs the annotation before otelgorm ends its span
func (t *DBTracing) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	for _, p := range []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Before("otel:after:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Before("otel:after:select").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Before("otel:after:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Before("otel:after:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Before("otel:after:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Before("otel:after:raw").Register},
	} {
		if err := p.before("otel_timing:before_"+p.op, markQueryStart); err != nil {
			return err
		}
		if err := p.after("otel_timing:after_"+p.op, t.annotateSpan); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotateSpan adds table, row count, error and slow query details to the
// span otelgorm opened for the statement
func (t *DBTracing) annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > t.slowQuery {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", t.slowQuery.Milliseconds()),
		))
	}
}
