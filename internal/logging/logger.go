package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much to log
type Config struct {
	Level      string
	Format     string // "json" or "console"
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxDays    int
}

// New builds a logger that writes to a rotating file. The terminal belongs
// to the UI, so an empty Filename yields a no-op logger.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Filename == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(levelOrDefault(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
	})

	core := zapcore.NewCore(newEncoder(cfg.Format), writer, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
