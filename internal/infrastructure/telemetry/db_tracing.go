package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// DBTracing is a gorm.Plugin that adds otelgorm spans plus row counts and a
// slow-query flag. Query variables are never recorded.
type DBTracing struct {
	dbName         string
	slowThreshold  time.Duration
	tracerProvider trace.TracerProvider
}

// DBTracingOption configures DBTracing
type DBTracingOption func(*DBTracing)

// WithTracerProvider sets the provider spans are recorded on, used by tests
func WithTracerProvider(tp trace.TracerProvider) DBTracingOption {
	return func(d *DBTracing) {
		d.tracerProvider = tp
	}
}

// WithSlowThreshold overrides the slow-query threshold
func WithSlowThreshold(threshold time.Duration) DBTracingOption {
	return func(d *DBTracing) {
		d.slowThreshold = threshold
	}
}

// NewDBTracing creates the plugin; pass it to persistence.OpenDBPool
func NewDBTracing(dbName string, opts ...DBTracingOption) *DBTracing {
	d := &DBTracing{dbName: dbName, slowThreshold: slowQueryThreshold}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements gorm.Plugin
func (d *DBTracing) Name() string {
	return "menswear:db_tracing"
}

// Initialize implements gorm.Plugin
func (d *DBTracing) Initialize(db *gorm.DB) error {
	opts := []otelgorm.Option{
		otelgorm.WithDBName(d.dbName),
		otelgorm.WithoutQueryVariables(),
	}
	if d.tracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(d.tracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// annotate must run before otelgorm ends its span
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("db_tracing:before_create", markStart),
		cb.Query().Before("gorm:query").Register("db_tracing:before_query", markStart),
		cb.Update().Before("gorm:update").Register("db_tracing:before_update", markStart),
		cb.Delete().Before("gorm:delete").Register("db_tracing:before_delete", markStart),
		cb.Row().Before("gorm:row").Register("db_tracing:before_row", markStart),
		cb.Raw().Before("gorm:raw").Register("db_tracing:before_raw", markStart),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("db_tracing:after_create", d.annotate),
		cb.Query().After("gorm:query").Before("otel:after:select").Register("db_tracing:after_query", d.annotate),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("db_tracing:after_update", d.annotate),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("db_tracing:after_delete", d.annotate),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("db_tracing:after_row", d.annotate),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("db_tracing:after_raw", d.annotate),
	)
}

func markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

// annotate runs after the statement, while the otelgorm span is still open
func (d *DBTracing) annotate(db *gorm.DB) {
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
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > d.slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
