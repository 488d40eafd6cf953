package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig configures a ZapLogger.
type LoggerConfig struct {
	// OutputPath is the log file. Empty means stderr.
	OutputPath string

	// Level is the minimum level written.
	Level LogLevel

	// Fields are attached to every entry.
	Fields map[string]any
}

// ZapLogger writes JSON lines through zap.
type ZapLogger struct {
	logger *zap.Logger
	file   *os.File
}

// NewZapLogger creates a JSON logger. The log directory is
// created if needed and the file is opened for appending.
func NewZapLogger(config LoggerConfig) (*ZapLogger, error) {
	if config.OutputPath == "" {
		zl := NewZapLoggerTo(os.Stderr, config.Level)
		zl.logger = zl.logger.With(zapFields(config.Fields)...)
		return zl, nil
	}

	dir := filepath.Dir(config.OutputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf(
			"failed to create log directory: %w", err,
		)
	}
	file, err := os.OpenFile(
		config.OutputPath,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to open log file: %w", err,
		)
	}

	zl := NewZapLoggerTo(file, config.Level)
	zl.logger = zl.logger.With(zapFields(config.Fields)...)
	zl.file = file
	return zl, nil
}

// NewZapLoggerTo creates a JSON logger writing to w.
func NewZapLoggerTo(w io.Writer, level LogLevel) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(zapLevel(level)),
	)
	return &ZapLogger{logger: zap.New(core)}
}

func zapLevel(l LogLevel) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

// Info logs an informational message.
func (z *ZapLogger) Info(msg string, fields ...Field) {
	z.logger.Info(msg, toZap(fields)...)
}

// Warn logs a warning message.
func (z *ZapLogger) Warn(msg string, fields ...Field) {
	z.logger.Warn(msg, toZap(fields)...)
}

// Error logs an error message.
func (z *ZapLogger) Error(msg string, fields ...Field) {
	z.logger.Error(msg, toZap(fields)...)
}

// Debug logs a debug-level message.
func (z *ZapLogger) Debug(msg string, fields ...Field) {
	z.logger.Debug(msg, toZap(fields)...)
}

// WithFields returns a child logger. Closing the child does not
// close the underlying file.
func (z *ZapLogger) WithFields(fields ...Field) Logger {
	return &ZapLogger{logger: z.logger.With(toZap(fields)...)}
}

// Close flushes buffered entries and closes the log file.
func (z *ZapLogger) Close() error {
	_ = z.logger.Sync()
	if z.file == nil {
		return nil
	}
	f := z.file
	z.file = nil
	return f.Close()
}

// New builds the logger used by the CLI: a console logger for
// the learner plus, when logFile is set, a zap JSON log file.
func New(level, logFile string, verbose bool) (Logger, error) {
	return NewTo(os.Stderr, level, logFile, verbose)
}

// NewTo is New with the console output going to w.
func NewTo(
	w io.Writer,
	level, logFile string,
	verbose bool,
) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	console := NewConsoleLoggerTo(w, verbose || lvl == LevelDebug)
	if logFile == "" {
		return console, nil
	}
	file, err := NewZapLogger(LoggerConfig{
		OutputPath: logFile,
		Level:      lvl,
	})
	if err != nil {
		return nil, err
	}
	return NewMultiLogger(console, file), nil
}
