package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New debug 模式输出彩色 console 日志，否则为生产环境 JSON 日志
func New(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewProduction()
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	config.Encoding = "console"
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.Sampling = nil

	return config.Build()
}

// Must 初始化失败时退回 Nop，避免日志问题阻塞启动
func Must(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
