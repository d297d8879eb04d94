package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger. The terminal UI owns stdout, so console output is off by
// default and logs go to a file.
var (
	globalLogger *zap.Logger = zap.NewNop()
)

// L returns the global logger.
func L() *zap.Logger { return globalLogger }

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := globalLogger
	if l == nil {
		l = zap.NewNop()
	}
	globalLogger = l
	return func() { globalLogger = prev }
}

type Options struct {
	Level      string
	Format     string // legacy | json | console
	ToConsole  bool
	ToFile     bool
	FilePath   string
	ShowCaller bool
}

// OptionsFromEnv reads LOG_* variables.
func OptionsFromEnv() Options {
	return Options{
		Level:      getenvDefault("LOG_LEVEL", "info"),
		Format:     getenvDefault("LOG_FORMAT", "legacy"),
		ToConsole:  strings.EqualFold(getenvDefault("LOG_TO_CONSOLE", "false"), "true"),
		ToFile:     strings.EqualFold(getenvDefault("LOG_TO_FILE", "true"), "true"),
		FilePath:   strings.TrimSpace(getenvDefault("LOG_FILE", filepath.Join("logs", "console.log"))),
		ShowCaller: strings.EqualFold(getenvDefault("LOG_CALLER", "false"), "true"),
	}
}

// InitFromEnv initialises the global logger from the environment.
func InitFromEnv() error {
	logger, err := Build(OptionsFromEnv())
	if err != nil {
		return err
	}
	globalLogger = logger
	return nil
}

// Build constructs a zap logger from opts without touching the global one.
func Build(opts Options) (*zap.Logger, error) {
	level := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format != "legacy" && format != "json" && format != "console" {
		format = "legacy"
	}

	var cores []zapcore.Core
	if opts.ToConsole {
		cores = append(cores, zapcore.NewCore(encoderFor(format), zapcore.AddSync(os.Stderr), level))
	}

	if opts.ToFile {
		filePath := opts.FilePath
		if filePath == "" {
			filePath = filepath.Join("logs", "console.log")
		}
		if err := ensureDir(filepath.Dir(filePath)); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoderFor(format), zapcore.AddSync(f), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.ShowCaller || format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, nil
}

func encoderFor(format string) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig())
	default:
		return zapcore.NewConsoleEncoder(legacyEncoderConfig())
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
