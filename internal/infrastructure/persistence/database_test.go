package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func TestDBPool_Reader(t *testing.T) {
	t.Run("falls back to writer without replica", func(t *testing.T) {
		writer, _, mockDB := newMockGormDB(t)
		defer mockDB.Close()

		pool := NewDBPool(writer, nil)
		assert.Same(t, writer, pool.Reader())
		assert.Same(t, writer, pool.Writer())
		assert.False(t, pool.HasReplica())
	})

	t.Run("uses healthy replica", func(t *testing.T) {
		writer, _, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, _, rDB := newMockGormDB(t)
		defer rDB.Close()

		pool := NewDBPool(writer, reader)
		assert.Same(t, reader, pool.Reader())
		assert.True(t, pool.HasReplica())
	})
}

func TestDBPool_HealthCheck(t *testing.T) {
	t.Run("healthy when all roles respond", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		wMock.ExpectPing()
		rMock.ExpectPing()

		report := NewDBPool(writer, reader).HealthCheck(context.Background())

		assert.Equal(t, StatusHealthy, report.Status)
		assert.Equal(t, StatusHealthy, report.Checks[RoleWriter].Status)
		assert.Equal(t, StatusHealthy, report.Checks[RoleReader].Status)
		assert.NoError(t, wMock.ExpectationsWereMet())
		assert.NoError(t, rMock.ExpectationsWereMet())
	})

	t.Run("degraded when replica is down and reads fall back", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		wMock.ExpectPing()
		rMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		core, logs := observer.New(zapcore.WarnLevel)
		pool := NewDBPool(writer, reader, WithPoolLogger(zap.New(core)))
		report := pool.HealthCheck(context.Background())

		assert.Equal(t, StatusDegraded, report.Status)
		assert.Equal(t, StatusUnhealthy, report.Checks[RoleReader].Status)
		assert.Equal(t, "connection refused", report.Checks[RoleReader].Error)
		assert.Same(t, writer, pool.Reader())
		assert.Equal(t, 1, logs.FilterMessage("Read replica unhealthy, routing reads to primary").Len())
	})

	t.Run("replica recovers on next successful check", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		wMock.ExpectPing()
		rMock.ExpectPing().WillReturnError(errors.New("timeout"))
		wMock.ExpectPing()
		rMock.ExpectPing()

		pool := NewDBPool(writer, reader)
		pool.HealthCheck(context.Background())
		require.Same(t, writer, pool.Reader())

		report := pool.HealthCheck(context.Background())
		assert.Equal(t, StatusHealthy, report.Status)
		assert.Same(t, reader, pool.Reader())
	})

	t.Run("unhealthy when writer is down", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		wMock.ExpectPing().WillReturnError(errors.New("no route to host"))

		report := NewDBPool(writer, nil).HealthCheck(context.Background())

		assert.Equal(t, StatusUnhealthy, report.Status)
		assert.NotContains(t, report.Checks, RoleReader)
	})
}

func TestDBPool_Stats(t *testing.T) {
	writer, _, wDB := newMockGormDB(t)
	defer wDB.Close()
	reader, _, rDB := newMockGormDB(t)
	defer rDB.Close()

	stats := NewDBPool(writer, reader).Stats()

	assert.Contains(t, stats, RoleWriter)
	assert.Contains(t, stats, RoleReader)
	assert.GreaterOrEqual(t, stats[RoleWriter].OpenConnections, 0)
}

func TestDBPool_Transaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		writer, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := NewDBPool(writer, nil).Transaction(context.Background(), func(tx *gorm.DB) error {
			return nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		writer, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := NewDBPool(writer, nil).Transaction(context.Background(), func(tx *gorm.DB) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBPool_Monitor(t *testing.T) {
	writer, _, wDB := newMockGormDB(t)
	defer wDB.Close()

	pool := NewDBPool(writer, nil)
	done := make(chan struct{})
	go func() {
		pool.Monitor(context.Background(), 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Monitor without a replica should return immediately")
	}
}

func TestStartPool_ReplicaDownAtStartup(t *testing.T) {
	t.Run("replica stays attached and is promoted once it answers", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		rMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		core, logs := observer.New(zapcore.InfoLevel)
		pool := startPool(context.Background(), writer, reader, zap.New(core))

		assert.True(t, pool.HasReplica())
		assert.Same(t, writer, pool.Reader())
		assert.Equal(t, 1, logs.FilterMessage("Read replica unavailable, reads will use the primary until it answers").Len())

		wMock.ExpectPing()
		rMock.ExpectPing().WillReturnError(errors.New("connection refused"))
		report := pool.HealthCheck(context.Background())
		assert.Equal(t, StatusDegraded, report.Status)
		assert.Same(t, writer, pool.Reader())

		wMock.ExpectPing()
		rMock.ExpectPing()
		report = pool.HealthCheck(context.Background())
		assert.Equal(t, StatusHealthy, report.Status)
		assert.Same(t, reader, pool.Reader())
		assert.Equal(t, 1, logs.FilterMessage("Read replica recovered").Len())
		assert.NoError(t, rMock.ExpectationsWereMet())
	})

	t.Run("monitor promotes a replica that was down at startup", func(t *testing.T) {
		writer, wMock, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		rMock.ExpectPing().WillReturnError(errors.New("connection refused"))
		wMock.ExpectPing()
		rMock.ExpectPing()

		core, logs := observer.New(zapcore.InfoLevel)
		pool := startPool(context.Background(), writer, reader, zap.New(core))
		require.Same(t, writer, pool.Reader())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			pool.Monitor(ctx, 10*time.Millisecond)
			close(done)
		}()

		assert.Eventually(t, func() bool {
			return logs.FilterMessage("Read replica recovered").Len() > 0
		}, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	})

	t.Run("healthy replica joins the read path immediately", func(t *testing.T) {
		writer, _, wDB := newMockGormDB(t)
		defer wDB.Close()
		reader, rMock, rDB := newMockGormDB(t)
		defer rDB.Close()
		rMock.ExpectPing()

		pool := startPool(context.Background(), writer, reader, zap.NewNop())

		assert.Same(t, reader, pool.Reader())
		assert.NoError(t, rMock.ExpectationsWereMet())
	})
}

func TestOpenDB_ReplicaDoesNotConnectAtOpen(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host: "127.0.0.1", Port: 1, User: "shop", Password: "shop", DBName: "shop", SSLMode: "disable",
		MaxOpenConns: 2, MaxIdleConns: 1,
	}

	db, err := openDB(cfg.DSN(), cfg, nil, nil, false)
	require.NoError(t, err)
	require.NotNil(t, db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	pool := NewDBPool(db, nil, WithPingTimeout(200*time.Millisecond))
	check := pool.ping(context.Background(), db)
	assert.Equal(t, StatusUnhealthy, check.Status)
}

func TestDBPool_Close(t *testing.T) {
	writer, mock, mockDB := newMockGormDB(t)
	mock.ExpectClose()

	pool := NewDBPool(writer, nil)
	assert.NoError(t, pool.Close())
	assert.NoError(t, pool.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
	_ = mockDB
}
