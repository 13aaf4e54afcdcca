package model

import "time"

// KLine 代表一根已收盘的 K 线
type KLine struct {
	Symbol    string // 所属交易对
	Interval  string // 周期，例如 "5m", "1h"
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	StartTime time.Time // 开盘时间 (UTC)，同一序列内严格递增
}

// Valid 检查 OHLC 是否全部为正
func (k KLine) Valid() bool {
	return k.Open > 0 && k.High > 0 && k.Low > 0 && k.Close > 0
}

// Ticker24h 是 24 小时行情统计，用于挑选成交额最大的交易对
type Ticker24h struct {
	Symbol      string
	QuoteVolume float64 // 计价币成交额
}
