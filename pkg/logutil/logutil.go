// Package logutil builds the zap loggers used by gitcat.
package logutil

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	textEncoderConfig      = newConsoleEncoderConfig(zapcore.CapitalLevelEncoder)
	colortextEncoderConfig = newConsoleEncoderConfig(zapcore.CapitalColorLevelEncoder)
	jsonEncoderConfig      = zap.NewProductionEncoderConfig()
)

func newConsoleEncoderConfig(levelEncoder zapcore.LevelEncoder) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = levelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.CallerKey = ""
	return cfg
}

// NewLogger returns a new Logger writing to stderr.
//
// Level is one of debug, info, warn, error; format is one of text, color, json.
// Empty values select info and text.
func NewLogger(stderr io.Writer, level string, format string) (*zap.Logger, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	format = strings.TrimSpace(strings.ToLower(format))
	var encoder zapcore.Encoder
	switch format {
	case "text", "":
		encoder = zapcore.NewConsoleEncoder(textEncoderConfig)
	case "color":
		encoder = zapcore.NewConsoleEncoder(colortextEncoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(jsonEncoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format [text,color,json]: %q", format)
	}

	return zap.New(
		zapcore.NewCore(
			encoder,
			zapcore.Lock(zapcore.AddSync(stderr)),
			zap.NewAtomicLevelAt(zapLevel),
		),
	), nil
}

// ParseLevel maps a level name to a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level [debug,info,warn,error]: %q", level)
}

// Defer returns a function to defer that logs at the debug level.
//
//	defer logutil.Defer(logger, "foo")()
func Defer(logger *zap.Logger, name string, fields ...zap.Field) func() {
	start := time.Now()
	return func() {
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		logger.Debug(name, fields...)
	}
}

// DeferWithError is Defer that also records the error pointed to by retErrPtr.
//
//	defer logutil.DeferWithError(logger, "foo", &retErr)()
func DeferWithError(logger *zap.Logger, name string, retErrPtr *error, fields ...zap.Field) func() {
	start := time.Now()
	return func() {
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		if retErrPtr != nil && *retErrPtr != nil {
			fields = append(fields, zap.Error(*retErrPtr))
		}
		logger.Debug(name, fields...)
	}
}
