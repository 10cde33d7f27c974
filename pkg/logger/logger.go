package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported output encodings.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	// FormatCloud emits JSON using the field names Cloud Logging parses
	// (severity, message, timestamp) so function logs keep their level.
	FormatCloud = "cloud"
)

var (
	globalLogger *zap.Logger
	mu           sync.RWMutex
)

func init() { // ensure we always have a usable logger even before Init is called
	globalLogger = zap.NewNop()
}

// Init configures the global logger using the provided level string and JSON output.
func Init(level string) error {
	return InitWithFormat(level, FormatJSON)
}

// InitWithFormat configures the global logger with an explicit output format.
// Unknown levels fall back to info, unknown formats to json.
func InitWithFormat(level, format string) error {
	cfg := zap.NewProductionConfig()

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole:
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case FormatCloud:
		cfg.EncoderConfig = cloudEncoderConfig()
		// stack traces are attached by Cloud Error Reporting from the message itself
		cfg.DisableStacktrace = true
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Replace(logger)
	return nil
}

func cloudEncoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.LevelKey = "severity"
	enc.MessageKey = "message"
	enc.TimeKey = "timestamp"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	enc.EncodeLevel = func(l zapcore.Level, pae zapcore.PrimitiveArrayEncoder) {
		switch l {
		case zapcore.DebugLevel:
			pae.AppendString("DEBUG")
		case zapcore.InfoLevel:
			pae.AppendString("INFO")
		case zapcore.WarnLevel:
			pae.AppendString("WARNING")
		case zapcore.ErrorLevel:
			pae.AppendString("ERROR")
		case zapcore.DPanicLevel, zapcore.PanicLevel:
			pae.AppendString("CRITICAL")
		case zapcore.FatalLevel:
			pae.AppendString("EMERGENCY")
		default:
			pae.AppendString("DEFAULT")
		}
	}
	return enc
}

// Replace swaps the global logger. A nil logger installs a no-op logger.
func Replace(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}

	mu.Lock()
	defer mu.Unlock()

	globalLogger = l
}

// Logger returns the configured global logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return globalLogger
}

// Sync flushes buffered log entries.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child logger annotated with the module name.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}

// Info logs an informational message using the global logger.
func Info(msg string, fields ...zap.Field) {
	Logger().Info(msg, fields...)
}

// Error logs an error message using the global logger.
func Error(msg string, fields ...zap.Field) {
	Logger().Error(msg, fields...)
}

// Warn logs a warning message using the global logger.
func Warn(msg string, fields ...zap.Field) {
	Logger().Warn(msg, fields...)
}

// Debug logs a debug message using the global logger.
func Debug(msg string, fields ...zap.Field) {
	Logger().Debug(msg, fields...)
}
