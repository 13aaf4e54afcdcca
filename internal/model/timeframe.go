package model

// 内部周期 <-> 展示层周期名称，加载和保存报告时共用同一张表
var timeframeLabels = map[string]string{
	"1m": "1min", "3m": "3min", "5m": "5min", "15m": "15min", "30m": "30min",
	"1h": "1hour", "2h": "2hour", "4h": "4hour", "6h": "6hour", "8h": "8hour",
	"12h": "12hour", "1d": "1day", "3d": "3day", "1w": "1week", "1M": "1month",
}

var labelTimeframes = func() map[string]string {
	m := make(map[string]string, len(timeframeLabels))
	for tf, label := range timeframeLabels {
		m[label] = tf
	}
	return m
}()

// TimeframeLabel 返回周期的展示名称，未知周期原样返回
func TimeframeLabel(tf string) string {
	if label, ok := timeframeLabels[tf]; ok {
		return label
	}
	return tf
}

// TimeframeFromLabel 是 TimeframeLabel 的逆映射，未知名称原样返回
func TimeframeFromLabel(label string) string {
	if tf, ok := labelTimeframes[label]; ok {
		return tf
	}
	return label
}

// IsKnownTimeframe 判断周期是否在映射表中
func IsKnownTimeframe(tf string) bool {
	_, ok := timeframeLabels[tf]
	return ok
}
