// Package logging builds the zap logger used by every command.
package logging

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirrors the logging section of the config file.
type Options struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// New returns a logger writing human readable lines to stderr and, when
// File is set, JSON lines to a rotating file.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
	}

	cores := []zapcore.Core{newConsoleCore(level)}
	if opts.File != "" {
		core, err := newFileCore(opts, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func newFileCore(opts Options, level zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, errors.Wrap(err, "could not create log directory")
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize, // megabytes
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge, // days
		Compress:   opts.Compress,
	})

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level), nil
}

func newConsoleCore(level zapcore.Level) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stderr),
		level,
	)
}
