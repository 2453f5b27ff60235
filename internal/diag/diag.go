// Package diag builds the SDK's own diagnostic logger. Pipeline outcomes
// (delivered, rejected, ignored, disabled) are logged here, never sent to
// the collector, so a broken collector can still be diagnosed locally.
package diag

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls diagnostic output.
type Config struct {
	// Level is the minimum diagnostic level: debug, info, warn, error.
	Level string

	// Console enables JSON output on stderr.
	Console bool

	// Pretty switches console output to a human-readable encoder.
	Pretty bool

	// File enables rotating-file output when Path is set.
	File FileConfig
}

// FileConfig configures rotating-file diagnostic output.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

// New builds a zap logger from cfg. With no outputs enabled the returned
// logger is a no-op.
func New(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)
	cores := make([]zapcore.Core, 0, 2)

	if cfg.Console {
		cores = append(cores, zapcore.NewCore(
			consoleEncoder(cfg.Pretty),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	if cfg.File.Path != "" {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(newFileWriter(cfg.File)),
			level,
		))
	}

	var core zapcore.Core
	switch len(cores) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = cores[0]
	default:
		core = zapcore.NewTee(cores...)
	}

	return zap.New(core)
}

func consoleEncoder(pretty bool) zapcore.Encoder {
	if pretty {
		encoderCfg := zap.NewDevelopmentEncoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		return zapcore.NewConsoleEncoder(encoderCfg)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.MessageKey = "msg"
	encoderCfg.LevelKey = "level"
	return zapcore.NewJSONEncoder(encoderCfg)
}

// newFileWriter creates a rotating file writer using lumberjack.
func newFileWriter(cfg FileConfig) io.Writer {
	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}

	maxAge := cfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}

	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info", "notice":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
