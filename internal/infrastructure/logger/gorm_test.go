package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var _ gormlogger.Interface = (*GormLogger)(nil)
var _ gorm.ParamsFilter = (*GormLogger)(nil)

func newObservedGormLogger(level gormlogger.LogLevel, slow time.Duration) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, slow, false), recorded
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, 0)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 0), errors.New("syntax"))
		entries := recorded.FilterMessage("SQL error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, 0)
		l.Trace(ctx, time.Now(), sqlFn("SELECT * FROM products", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, time.Millisecond)
		l.Trace(ctx, time.Now().Add(-50*time.Millisecond), sqlFn("UPDATE products", 1), nil)
		entries := recorded.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(1), entries[0].ContextMap()["rows"])
	})

	t.Run("normal query only at info", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Warn, time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
		assert.Zero(t, recorded.Len())

		l, recorded = newObservedGormLogger(gormlogger.Info, time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 1), nil)
		assert.Equal(t, 1, recorded.FilterMessage("SQL").Len())
	})

	t.Run("silent", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Silent, 0)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1", 0), errors.New("x"))
		assert.Zero(t, recorded.Len())
	})

	t.Run("request id", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info, 0)
		reqCtx, _ := WithRequestID(ctx, zap.NewNop(), "req-5")
		l.Trace(reqCtx, time.Now(), sqlFn("SELECT 1", 1), nil)
		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-5", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Warn, 0)
	changed := l.LogMode(gormlogger.Info).(*GormLogger)
	assert.Equal(t, gormlogger.Info, changed.level)
	assert.Equal(t, gormlogger.Warn, l.level)
}

func TestGormLogger_Printf(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Warn, 0)
	ctx := context.Background()
	l.Info(ctx, "migrated %d", 3)
	l.Warn(ctx, "slow %s", "x")
	l.Error(ctx, "failed %s", "y")

	assert.Zero(t, recorded.FilterMessage("migrated 3").Len())
	assert.Equal(t, 1, recorded.FilterMessage("slow x").Len())
	assert.Equal(t, 1, recorded.FilterMessage("failed y").Len())
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	ctx := context.Background()
	hidden := NewGormLogger(zap.NewNop(), gormlogger.Info, 0, false)
	_, params := hidden.ParamsFilter(ctx, "SELECT ?", "secret")
	assert.Nil(t, params)

	full := NewGormLogger(zap.NewNop(), gormlogger.Info, 0, true)
	_, params = full.ParamsFilter(ctx, "SELECT ?", "secret")
	assert.Equal(t, []any{"secret"}, params)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Warn, GormLevel("info"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
