package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"regime-scanner/internal/model"

	"github.com/shopspring/decimal"
)

const (
	sectionType     = "section"
	colorStateIndex = 3
	pricePrecision  = 4
)

// Record 是报告中的一条信号，字段与展示层约定一致，不能随意改名
type Record struct {
	Type            string `json:"type"`
	TimeframeName   string `json:"timeframe_name"`
	ColorStateIndex int    `json:"color_state_index"`
	IsClosed        bool   `json:"is_closed"`
	Direction       string `json:"direction"`
	Entry           string `json:"entry"`
	Resistance      string `json:"resistance"`
	StopLoss        string `json:"stoploss"`
	Target          string `json:"target"`
	CandleNum       string `json:"candle_num"`
	EntryDate       string `json:"entry_date"`
	Symbol          string `json:"symbol"`
}

// Document 是报告文件数组中的唯一元素
type Document struct {
	Sections           []Record `json:"sections"`
	MasterSectionIndex int      `json:"master_section_index"`
}

// FromSignal 把内部信号转换为报告记录
func FromSignal(s model.Signal) Record {
	return Record{
		Type:            sectionType,
		TimeframeName:   model.TimeframeLabel(s.Timeframe),
		ColorStateIndex: colorStateIndex,
		IsClosed:        false,
		Direction:       s.Type.Direction().String(),
		Entry:           FormatPrice(s.AlertClose),
		Resistance:      FormatPrice(s.Resistance),
		StopLoss:        FormatPrice(s.StopLoss),
		Target:          "",
		CandleNum:       "",
		EntryDate:       s.AlertTime.UTC().Format(model.AlertTimeLayout),
		Symbol:          s.Symbol,
	}
}

// ToSignal 把报告记录还原为内部信号。
// 价格字段为空或无法解析时记为 NaN，重新保存时仍输出空字符串。
func ToSignal(r Record) (model.Signal, error) {
	alertTime, err := ParseEntryDate(r.EntryDate)
	if err != nil {
		return model.Signal{}, err
	}
	return model.Signal{
		Symbol:     r.Symbol,
		Timeframe:  model.TimeframeFromLabel(r.TimeframeName),
		Type:       model.SignalTypeFromDirection(model.Direction(r.Direction)),
		AlertTime:  alertTime,
		AlertClose: parsePrice(r.Entry),
		Resistance: parsePrice(r.Resistance),
		StopLoss:   parsePrice(r.StopLoss),
	}, nil
}

// FormatPrice 保留 4 位小数；NaN 与 Inf 输出空字符串
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(pricePrecision)
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

var entryDateLayouts = []string{
	model.AlertTimeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseEntryDate 解析 entry_date，统一为 UTC
func ParseEntryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range entryDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid entry_date %q", s)
}
