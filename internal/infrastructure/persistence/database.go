package persistence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/menswear/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool roles
const (
	RoleWriter = "writer"
	RoleReader = "reader"
)

// Health statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

const defaultPingTimeout = 2 * time.Second

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int           `json:"max_open_connections"`
	OpenConnections    int           `json:"open_connections"`
	InUse              int           `json:"in_use"`
	Idle               int           `json:"idle"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
	MaxIdleClosed      int64         `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64         `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64         `json:"max_lifetime_closed"`
}

// RoleCheck is the outcome of pinging one pool role
type RoleCheck struct {
	Status    string  `json:"status"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// HealthReport aggregates the checks of every configured role
type HealthReport struct {
	Status string               `json:"status"`
	Checks map[string]RoleCheck `json:"checks"`
}

// DBPool routes writes to the primary and reads to an optional replica.
// Reads fall back to the primary while the replica is unhealthy.
type DBPool struct {
	writer         *gorm.DB
	reader         *gorm.DB
	replicaHealthy atomic.Bool
	pingTimeout    time.Duration
	logger         *zap.Logger
	closeOnce      sync.Once
}

// DBPoolOption configures a DBPool
type DBPoolOption func(*DBPool)

// WithPingTimeout sets the per-role health check timeout
func WithPingTimeout(d time.Duration) DBPoolOption {
	return func(p *DBPool) {
		if d > 0 {
			p.pingTimeout = d
		}
	}
}

// WithPoolLogger sets the logger used for health transitions
func WithPoolLogger(l *zap.Logger) DBPoolOption {
	return func(p *DBPool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewDBPool wraps already opened connections. reader may be nil.
func NewDBPool(writer, reader *gorm.DB, opts ...DBPoolOption) *DBPool {
	p := &DBPool{
		writer:      writer,
		reader:      reader,
		pingTimeout: defaultPingTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.replicaHealthy.Store(reader != nil)
	return p
}

// OpenDBPool connects to the primary and, when enabled, the replica.
// The primary is required. The replica is opened without connecting and
// joins the read path once a health check reaches it.
func OpenDBPool(cfg *config.DatabaseConfig, gormLogger gormlogger.Interface, log *zap.Logger, plugins ...gorm.Plugin) (*DBPool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	writer, err := openDB(cfg.DSN(), cfg, gormLogger, plugins, true)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to primary database: %w", err)
	}

	var reader *gorm.DB
	if cfg.Replica.Enabled {
		reader, err = openDB(cfg.ReplicaDSN(), cfg, gormLogger, plugins, false)
		if err != nil {
			log.Warn("Read replica misconfigured, reads will use the primary",
				zap.String("host", cfg.Replica.Host),
				zap.Error(err),
			)
			reader = nil
		}
	}

	return startPool(context.Background(), writer, reader, log), nil
}

// startPool builds the pool and checks the replica once. A replica that does
// not answer stays attached but out of the read path until Monitor or
// HealthCheck reaches it.
func startPool(ctx context.Context, writer, reader *gorm.DB, log *zap.Logger) *DBPool {
	pool := NewDBPool(writer, reader, WithPoolLogger(log))
	if reader == nil {
		return pool
	}
	if check := pool.ping(ctx, reader); check.Status != StatusHealthy {
		pool.replicaHealthy.Store(false)
		log.Warn("Read replica unavailable, reads will use the primary until it answers",
			zap.String("error", check.Error),
		)
	}
	return pool
}

// openDB opens a connection pool. With connect unset the driver connects on
// first use instead of at open time.
func openDB(dsn string, cfg *config.DatabaseConfig, gormLogger gormlogger.Interface, plugins []gorm.Plugin, connect bool) (*gorm.DB, error) {
	if gormLogger == nil {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		DisableAutomaticPing:   !connect,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}
	for _, plugin := range plugins {
		if err := db.Use(plugin); err != nil {
			return nil, fmt.Errorf("failed to register gorm plugin %s: %w", plugin.Name(), err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if !connect {
		return db, nil
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Writer returns the primary connection
func (p *DBPool) Writer() *gorm.DB {
	return p.writer
}

// Reader returns the replica when it is configured and healthy, otherwise the primary
func (p *DBPool) Reader() *gorm.DB {
	if p.reader != nil && p.replicaHealthy.Load() {
		return p.reader
	}
	return p.writer
}

// HasReplica reports whether a replica is configured
func (p *DBPool) HasReplica() bool {
	return p.reader != nil
}

// HealthCheck pings every role. A failing writer makes the pool unhealthy,
// a failing replica makes it degraded and routes reads to the writer.
func (p *DBPool) HealthCheck(ctx context.Context) HealthReport {
	report := HealthReport{Status: StatusHealthy, Checks: make(map[string]RoleCheck, 2)}

	writerCheck := p.ping(ctx, p.writer)
	report.Checks[RoleWriter] = writerCheck
	if writerCheck.Status != StatusHealthy {
		report.Status = StatusUnhealthy
	}

	if p.reader != nil {
		readerCheck := p.ping(ctx, p.reader)
		report.Checks[RoleReader] = readerCheck
		healthy := readerCheck.Status == StatusHealthy
		if was := p.replicaHealthy.Swap(healthy); was != healthy {
			if healthy {
				p.logger.Info("Read replica recovered")
			} else {
				p.logger.Warn("Read replica unhealthy, routing reads to primary", zap.String("error", readerCheck.Error))
			}
		}
		if !healthy && report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}
	return report
}

func (p *DBPool) ping(ctx context.Context, db *gorm.DB) RoleCheck {
	ctx, cancel := context.WithTimeout(ctx, p.pingTimeout)
	defer cancel()

	start := time.Now()
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	check := RoleCheck{
		Status:    StatusHealthy,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Error = err.Error()
	}
	return check
}

// Monitor runs HealthCheck every interval until ctx is done
func (p *DBPool) Monitor(ctx context.Context, interval time.Duration) {
	if p.reader == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.HealthCheck(ctx)
		}
	}
}

// Stats returns connection pool statistics per role
func (p *DBPool) Stats() map[string]ConnectionStats {
	stats := make(map[string]ConnectionStats, 2)
	if s, err := connectionStats(p.writer); err == nil {
		stats[RoleWriter] = s
	}
	if p.reader != nil {
		if s, err := connectionStats(p.reader); err == nil {
			stats[RoleReader] = s
		}
	}
	return stats
}

func connectionStats(db *gorm.DB) (ConnectionStats, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}, nil
}

// Transaction executes fn within a transaction on the primary
func (p *DBPool) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.writer.WithContext(ctx).Transaction(fn)
}

// Close closes both roles
func (p *DBPool) Close() error {
	var firstErr error
	p.closeOnce.Do(func() {
		for _, db := range []*gorm.DB{p.writer, p.reader} {
			if db == nil {
				continue
			}
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.Close()
			}
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to close database: %w", err)
			}
		}
	})
	return firstErr
}
