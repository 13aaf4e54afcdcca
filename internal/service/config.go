// internal/service/config.go
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"regime-scanner/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 是一次扫描运行的全部配置，由入口显式传入
type Config struct {
	Exchange ExchangeConfig `mapstructure:"Exchange"`
	Scan     ScanConfig     `mapstructure:"Scan"`
	Strategy StrategyConfig `mapstructure:"Strategy"`
	Report   ReportConfig   `mapstructure:"Report"`
	Metrics  MetricsConfig  `mapstructure:"Metrics"`
	Log      LogConfig      `mapstructure:"Log"`
}

// ExchangeConfig 定义了行情接口的连接和重试参数
type ExchangeConfig struct {
	Name              string
	RESTURL           string        `validate:"required,url"`
	RequestTimeout    time.Duration `validate:"gt=0"`
	RetryAttempts     int           `validate:"min=1"`
	RetryDelay        time.Duration `validate:"min=0"` // 第 n 次失败后等待 RetryDelay*n
	ChunkLimit        int           `validate:"min=1,max=1000"`
	RequestsPerSecond float64       `validate:"gt=0"`
}

// ScanConfig 定义扫描范围
type ScanConfig struct {
	Symbols            []string // 非空时直接使用，不再按成交额挑选
	TopSymbols         int      `validate:"min=1"`
	QuoteAsset         string   `validate:"required"`
	ExcludeSuffixes    []string // 杠杆代币等
	Timeframes         []string `validate:"required,min=1"`
	CandleCounts       map[string]int
	DefaultCandleCount int `validate:"min=2"`
}

// CandleCount 返回某周期要扫描的 K 线数量
func (s ScanConfig) CandleCount(timeframe string) int {
	if n, ok := s.CandleCounts[strings.ToLower(timeframe)]; ok && n > 1 {
		return n
	}
	return s.DefaultCandleCount
}

// StrategyConfig 定义均线周期
type StrategyConfig struct {
	EMAShort int `validate:"min=1"`
	EMALong  int `validate:"min=1,gtfield=EMAShort"`
	SMAShort int `validate:"min=1"`
	SMALong  int `validate:"min=1,gtfield=SMAShort"`
}

// WarmupCandles 是计算全部均线所需的最少 K 线数
func (s StrategyConfig) WarmupCandles() int {
	return max(s.EMAShort, s.EMALong, s.SMAShort, s.SMALong)
}

// ReportConfig 定义报告文件位置
type ReportConfig struct {
	Dir        string `validate:"required"`
	FilePrefix string `validate:"required"`
}

// MetricsConfig 为空时不导出指标文件
type MetricsConfig struct {
	TextfilePath string
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `validate:"oneof=debug info warn error"`
	Development bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Exchange.Name", "binance")
	v.SetDefault("Exchange.RESTURL", "https://api.binance.com")
	v.SetDefault("Exchange.RequestTimeout", 20*time.Second)
	v.SetDefault("Exchange.RetryAttempts", 3)
	v.SetDefault("Exchange.RetryDelay", 5*time.Second)
	v.SetDefault("Exchange.ChunkLimit", 1000)
	v.SetDefault("Exchange.RequestsPerSecond", 3.0)

	v.SetDefault("Scan.Symbols", []string{})
	v.SetDefault("Scan.TopSymbols", 50)
	v.SetDefault("Scan.QuoteAsset", "USDT")
	v.SetDefault("Scan.ExcludeSuffixes", []string{"UPUSDT", "DOWNUSDT", "BEARUSDT", "BULLUSDT"})
	v.SetDefault("Scan.Timeframes", []string{"5m", "15m", "30m", "1h", "2h", "4h", "1d"})
	v.SetDefault("Scan.CandleCounts", map[string]int{
		"5m": 500, "15m": 500, "30m": 500, "1h": 500, "2h": 500, "4h": 500, "1d": 100,
	})
	v.SetDefault("Scan.DefaultCandleCount", 2000)

	v.SetDefault("Strategy.EMAShort", 13)
	v.SetDefault("Strategy.EMALong", 49)
	v.SetDefault("Strategy.SMAShort", 13)
	v.SetDefault("Strategy.SMALong", 49)

	v.SetDefault("Report.Dir", ".")
	v.SetDefault("Report.FilePrefix", "signals_report")

	v.SetDefault("Metrics.TextfilePath", "")

	v.SetDefault("Log.Level", "info")
	v.SetDefault("Log.Development", false)
}

// LoadConfig 读取并校验配置。
// configFile 为空时在 config/ 和当前目录查找 config.yaml，找不到则使用默认值。
// 环境变量 SCANNER_<SECTION>_<KEY> 覆盖文件中的值。
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验字段约束以及周期是否在映射表中
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, tf := range c.Scan.Timeframes {
		if !model.IsKnownTimeframe(tf) {
			return fmt.Errorf("invalid config: unsupported timeframe %q", tf)
		}
	}
	return nil
}
