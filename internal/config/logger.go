package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the application logger: JSON to a rotating file plus a
// console core for local runs.
func NewLogger(environment string) (*zap.SugaredLogger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   "logs/recontracker.log",
			MaxSize:    50, // MB
			MaxBackups: 10,
			MaxAge:     60, // days
		}),
		zap.InfoLevel,
	)

	consoleLevel := zap.DebugLevel
	if environment == "production" {
		consoleLevel = zap.InfoLevel
	}
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		consoleLevel,
	)

	logger := zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return logger.Sugar(), nil
}
