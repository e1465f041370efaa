// Package logger wraps zap with a small structured-logging API used
// across the application.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

func init() {
	config := zap.NewProductionConfig()

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.StacktraceKey = ""
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"

	config.EncoderConfig = encoderConfig
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	var err error
	Log, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

type Fields map[string]interface{}

func Info(msg string, fields ...Fields) {
	Log.Info(msg, zapFields(fields)...)
}

func Warn(msg string, fields ...Fields) {
	Log.Warn(msg, zapFields(fields)...)
}

func Error(msg string, fields ...Fields) {
	Log.Error(msg, zapFields(fields)...)
}

func Fatal(msg string, fields ...Fields) {
	Log.Fatal(msg, zapFields(fields)...)
}

// WithError builds a field set holding the error message.
func WithError(err error) Fields {
	return Fields{"error": err.Error()}
}

func zapFields(fields []Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	var out []zap.Field
	for _, set := range fields {
		for k, v := range set {
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}
