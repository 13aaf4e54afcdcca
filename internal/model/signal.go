package model

import (
	"fmt"
	"time"
)

// AlertTimeLayout 是报告 entry_date 及信号身份键使用的时间格式 (UTC，精确到分钟)
const AlertTimeLayout = "2006-01-02 15:04"

// ReasonTriggered 是突破确认后写入信号的原因
const ReasonTriggered = "Triggered"

// SignalType 信号类型，对应触发它的趋势状态
type SignalType string

const (
	SignalGreen SignalType = "Green"
	SignalRed   SignalType = "Red"
)

// Direction 报告中展示的方向
type Direction string

const (
	DirLong  Direction = "Long"
	DirShort Direction = "Short"
)

func (d Direction) String() string {
	return string(d)
}

// Direction 返回报告方向：Green 回踩跌破 -> Short，Red 回踩突破 -> Long
func (t SignalType) Direction() Direction {
	if t == SignalGreen {
		return DirShort
	}
	return DirLong
}

// SignalTypeFromDirection 是 Direction 的逆映射
func SignalTypeFromDirection(d Direction) SignalType {
	if d == DirShort {
		return SignalGreen
	}
	return SignalRed
}

// Signal 是一次已触发的回踩信号，生成后不可变
type Signal struct {
	Symbol         string
	Timeframe      string // 内部周期，例如 "4h"
	Type           SignalType
	Reason         string
	TransitionTime time.Time // 建立 setup 的状态切换 K 线，从报告加载的历史信号为零值
	AlertTime      time.Time // 触发 K 线的开盘时间
	AlertClose     float64   // 触发 K 线收盘价
	Resistance     float64   // setup 建立时的关键位 (不是棘轮后的 running level)
	StopLoss       float64
}

// SignalKey 是跨运行去重使用的信号身份
type SignalKey struct {
	Symbol    string
	Timeframe string
	AlertTime string
}

// Key 返回信号身份，告警时间归一化为 AlertTimeLayout
func (s Signal) Key() SignalKey {
	return SignalKey{
		Symbol:    s.Symbol,
		Timeframe: s.Timeframe,
		AlertTime: s.AlertTime.UTC().Format(AlertTimeLayout),
	}
}

// Complete 判断身份键的三个字段是否都非空
func (k SignalKey) Complete() bool {
	return k.Symbol != "" && k.Timeframe != "" && k.AlertTime != ""
}

func (s Signal) String() string {
	return fmt.Sprintf("SIGNAL [%s | %s | %s] @ %s | Close: %.4f | Resistance: %.4f | SL: %.4f | %s",
		s.Symbol, s.Timeframe, s.Type, s.AlertTime.UTC().Format(AlertTimeLayout), s.AlertClose, s.Resistance, s.StopLoss, s.Reason)
}
