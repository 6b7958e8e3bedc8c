package zap

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	TraceIDKey contextKey = "x-request-id"
	UserIDKey  contextKey = "user_id"
	OrderIDKey contextKey = "order_id"
	ActorKey   contextKey = "actor"
)

// scopeKeys are copied from the context onto every entry, in this order.
var scopeKeys = []contextKey{TraceIDKey, UserIDKey, OrderIDKey, ActorKey}

var (
	globalLogger *logger
	initOnce     sync.Once
	dynamicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

type logger struct {
	zapLogger *zap.Logger
}

// Init installs the process logger once. Unknown levels fall back to info.
func Init(levelStr string, asJSON bool) error {
	initOnce.Do(func() {
		dynamicLevel.SetLevel(parseLevel(levelStr))

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.MessageKey = "message"
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		encoder := zapcore.NewConsoleEncoder(encoderCfg)
		if asJSON {
			encoder = zapcore.NewJSONEncoder(encoderCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), dynamicLevel)
		Replace(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)))
	})

	return nil
}

func SetLevel(levelStr string) {
	dynamicLevel.SetLevel(parseLevel(levelStr))
}

// Replace swaps the process logger, e.g. for an observer core in tests.
func Replace(zapLogger *zap.Logger) {
	globalLogger = &logger{zapLogger: zapLogger}
}

func SetNopLogger() {
	Replace(zap.NewNop())
}

// Logger hands the process logger to components that take it as a dependency.
func Logger() *logger {
	if globalLogger == nil {
		return &logger{zapLogger: zap.NewNop()}
	}
	return globalLogger
}

func Sync() error {
	if globalLogger != nil {
		return globalLogger.zapLogger.Sync()
	}
	return nil
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	value, _ := ctx.Value(TraceIDKey).(string)
	return value
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func ContextWithOrderID(ctx context.Context, orderID string) context.Context {
	return context.WithValue(ctx, OrderIDKey, orderID)
}

func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

func Debug(ctx context.Context, message string, fields ...zap.Field) {
	Logger().log(ctx, zapcore.DebugLevel, message, fields)
}

func Info(ctx context.Context, message string, fields ...zap.Field) {
	Logger().log(ctx, zapcore.InfoLevel, message, fields)
}

func Warn(ctx context.Context, message string, fields ...zap.Field) {
	Logger().log(ctx, zapcore.WarnLevel, message, fields)
}

func Error(ctx context.Context, message string, fields ...zap.Field) {
	Logger().log(ctx, zapcore.ErrorLevel, message, fields)
}

func Fatal(ctx context.Context, message string, fields ...zap.Field) {
	Logger().log(ctx, zapcore.FatalLevel, message, fields)
}

func (l *logger) Debug(ctx context.Context, message string, fields ...zap.Field) {
	l.log(ctx, zapcore.DebugLevel, message, fields)
}

func (l *logger) Info(ctx context.Context, message string, fields ...zap.Field) {
	l.log(ctx, zapcore.InfoLevel, message, fields)
}

func (l *logger) Warn(ctx context.Context, message string, fields ...zap.Field) {
	l.log(ctx, zapcore.WarnLevel, message, fields)
}

func (l *logger) Error(ctx context.Context, message string, fields ...zap.Field) {
	l.log(ctx, zapcore.ErrorLevel, message, fields)
}

func (l *logger) Fatal(ctx context.Context, message string, fields ...zap.Field) {
	l.log(ctx, zapcore.FatalLevel, message, fields)
}

// log keeps the same call depth for every public helper, so AddCallerSkip(2)
// points at the caller of Info/Warn/... in both the package and method forms.
func (l *logger) log(ctx context.Context, level zapcore.Level, message string, fields []zap.Field) {
	entry := l.zapLogger.Check(level, message)
	if entry == nil {
		return
	}

	entry.Write(append(scopeFields(ctx), fields...)...)
}

func scopeFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, len(scopeKeys))
	for _, key := range scopeKeys {
		if value, found := ctx.Value(key).(string); found && value != "" {
			fields = append(fields, zap.String(string(key), value))
		}
	}

	return fields
}

func parseLevel(levelStr string) zapcore.Level {
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
