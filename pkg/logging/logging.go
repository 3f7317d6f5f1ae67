// Package logging builds the diagnostic logger. The terminal belongs to the
// UI, so diagnostics go to a rotating JSON file.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log destination and level.
type Options struct {
	File  string
	Level string
}

// New returns a sugared logger writing to opts.File. An empty File discards
// everything.
func New(opts Options) (*zap.SugaredLogger, error) {
	if strings.TrimSpace(opts.File) == "" {
		return zap.NewNop().Sugar(), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     30, // days
		}),
		level,
	)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}
