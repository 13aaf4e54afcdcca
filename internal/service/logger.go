package service

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 是全局日志接口
// 在其他模块中使用：service.Logger.Info("New signal", zap.String("symbol", s))
var Logger = zap.NewNop()

// InitLogger 按配置初始化 Zap 日志
func InitLogger(cfg LogConfig) error {
	config := zap.NewProductionConfig()
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
	}

	// 格式化时间
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "time"

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	config.Level = zap.NewAtomicLevelAt(level)

	// 如果需要写入文件，可以修改 OutputPaths:
	// config.OutputPaths = []string{"stdout", "log/scanner.log"}

	logger, err := config.Build()
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}
