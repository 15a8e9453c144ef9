package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// maxSQLLength caps the logged statement. Batched snapshot inserts exceed it.
const maxSQLLength = 1000

// SQLLogger writes GORM statements of the SQL user store through zap
type SQLLogger struct {
	log   *zap.Logger
	slow  time.Duration
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*SQLLogger)(nil)

// NewSQLLogger returns a GORM logger named "sql". Statements slower than slow
// are logged at warn; a zero slow disables the check.
func NewSQLLogger(l *zap.Logger, slow time.Duration, logLevel string) *SQLLogger {
	return &SQLLogger{
		log:   l.Named("sql"),
		slow:  slow,
		level: sqlLogLevel(logLevel),
	}
}

// sqlLogLevel follows LOG_LEVEL: statements are only traced at debug.
func sqlLogLevel(logLevel string) gormlogger.LogLevel {
	if logLevel == "silent" {
		return gormlogger.Silent
	}
	switch parseLogLevel(logLevel) {
	case zap.DebugLevel:
		return gormlogger.Info
	case zap.ErrorLevel:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SQLLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		WithContext(ctx, l.log).Sugar().Infof(msg, data...)
	}
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		WithContext(ctx, l.log).Sugar().Warnf(msg, data...)
	}
}

func (l *SQLLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		WithContext(ctx, l.log).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement. Failures win over slowness; a missing
// record is not a failure.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	switch {
	case failed:
		WithContext(ctx, l.log).Error("sql statement failed", append(statementFields(fc, elapsed), zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		WithContext(ctx, l.log).Warn("slow sql statement", append(statementFields(fc, elapsed), zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		WithContext(ctx, l.log).Debug("sql statement", statementFields(fc, elapsed)...)
	}
}

func statementFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if len(sql) > maxSQLLength {
		return append(fields, zap.String("sql", sql[:maxSQLLength]+"..."), zap.Int("sql_length", len(sql)))
	}
	return append(fields, zap.String("sql", sql))
}
