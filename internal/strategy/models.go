package strategy

import (
	"time"

	"regime-scanner/internal/model"
)

// Levels 是状态切换时计算出的关键位
type Levels struct {
	Resistance float64
	StopLoss   float64
}

// Setup 是一个方向性的回踩机会，在状态切换时建立，触发后失效。
// 值类型：Advance 返回新的 Setup，不修改接收者。
type Setup struct {
	Type           model.SignalType
	Active         bool
	TransitionTime time.Time
	OriginalLevel  float64 // 建立时的关键位，不随行情移动
	RunningLevel   float64 // 棘轮关键位：Green 只降不升，Red 只升不降
	Resistance     float64 // 报告用，建立时冻结
	StopLoss       float64
}

// NewSetup 在 transitionTime 建立一个激活的 setup
func NewSetup(t model.SignalType, transitionTime time.Time, lv Levels) Setup {
	return Setup{
		Type:           t,
		Active:         true,
		TransitionTime: transitionTime,
		OriginalLevel:  lv.Resistance,
		RunningLevel:   lv.Resistance,
		Resistance:     lv.Resistance,
		StopLoss:       lv.StopLoss,
	}
}

// Advance 用一根 K 线推进 setup，返回新状态以及本根 K 线是否触发。
// 未激活的 setup 和建立它的那根 K 线本身都不做检查。
func (s Setup) Advance(k model.KLine) (Setup, bool) {
	if !s.Active || k.StartTime.Equal(s.TransitionTime) {
		return s, false
	}

	switch s.Type {
	case model.SignalGreen:
		if k.Open < s.OriginalLevel && k.Close < s.RunningLevel {
			s.Active = false
			return s, true
		}
		if k.Low < s.RunningLevel {
			s.RunningLevel = k.Low
		}
	case model.SignalRed:
		if k.Open > s.OriginalLevel && k.Close > s.RunningLevel {
			s.Active = false
			return s, true
		}
		if k.High > s.RunningLevel {
			s.RunningLevel = k.High
		}
	}
	return s, false
}

// signalFor 用触发 K 线和 setup 冻结的关键位生成信号
func (s Setup) signalFor(symbol, timeframe string, k model.KLine) model.Signal {
	return model.Signal{
		Symbol:         symbol,
		Timeframe:      timeframe,
		Type:           s.Type,
		Reason:         model.ReasonTriggered,
		TransitionTime: s.TransitionTime,
		AlertTime:      k.StartTime,
		AlertClose:     k.Close,
		Resistance:     s.Resistance,
		StopLoss:       s.StopLoss,
	}
}
