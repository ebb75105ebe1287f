// File: preset/logging.go

// Package preset holds thin configuration surfaces for common
// application shapes: a web app, a task-queue worker, and structured
// logging. Each preset declares its own property bindings against a
// shared *config.Config and stays out of the way otherwise.
package preset

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/confweave/config"
)

// LoggingSettings is the shape of the [logging] table.
type LoggingSettings struct {
	Level            string         `toml:"level"`
	Encoding         string         `toml:"encoding"`
	Development      bool           `toml:"development"`
	DisableCaller    bool           `toml:"disable_caller"`
	OutputPaths      []string       `toml:"output_paths"`
	ErrorOutputPaths []string       `toml:"error_output_paths"`
	InitialFields    map[string]any `toml:"initial_fields"`
}

// loggingTable walks the whole [logging] table with the environment
// overlay so LOGGING_LEVEL=debug works at any depth.
var loggingTable = config.MustObjectProperty("logging",
	config.StructFactory[LoggingSettings](),
	config.Recurse(), config.Cached())

// Logging builds zap loggers from the [logging] table.
type Logging struct {
	Conf *config.Config
}

// NewLogging wraps c in the logging preset.
func NewLogging(c *config.Config) Logging {
	return Logging{Conf: c}
}

// Settings returns the decoded [logging] table. A missing table yields
// the zero settings and no error.
func (l Logging) Settings() (LoggingSettings, error) {
	v, err := loggingTable.Value(l.Conf)
	if err != nil {
		if config.IsKeyNotFound(err) {
			return LoggingSettings{}, nil
		}
		return LoggingSettings{}, err
	}
	return *v.(*LoggingSettings), nil
}

// Logger builds a zap logger from the [logging] table. Without a table
// the production defaults apply, so callers always get a usable logger.
func (l Logging) Logger() (*zap.Logger, error) {
	s, err := l.Settings()
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if s.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if s.Level != "" {
		lvl, err := zapcore.ParseLevel(s.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	if s.Encoding != "" {
		zc.Encoding = s.Encoding
	}
	if s.DisableCaller {
		zc.DisableCaller = true
	}
	if len(s.OutputPaths) > 0 {
		zc.OutputPaths = s.OutputPaths
	}
	if len(s.ErrorOutputPaths) > 0 {
		zc.ErrorOutputPaths = s.ErrorOutputPaths
	}
	if len(s.InitialFields) > 0 {
		zc.InitialFields = s.InitialFields
	}

	return zc.Build()
}
