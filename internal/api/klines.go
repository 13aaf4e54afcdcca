package api

import (
	"fmt"
	"sort"
	"time"

	"regime-scanner/internal/model"
	"regime-scanner/internal/service"
)

func openTimeOf(row []any) (int64, error) {
	if len(row) == 0 {
		return 0, fmt.Errorf("empty kline row")
	}
	switch ts := row[0].(type) {
	case float64:
		return int64(ts), nil
	case int64:
		return ts, nil
	case int:
		return int64(ts), nil
	default:
		return 0, fmt.Errorf("unexpected open time type %T", row[0])
	}
}

// parseKlines 解析 Binance 数组格式的 K 线，字段不完整或无法解析的行直接丢弃
func parseKlines(raw [][]any, symbol, interval string) []model.KLine {
	klines := make([]model.KLine, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			continue
		}
		openTime, err := openTimeOf(row)
		if err != nil {
			continue
		}
		var vals [5]float64
		ok := true
		for i := range vals {
			v, err := service.AnyToFloat(row[i+1])
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		klines = append(klines, model.KLine{
			Symbol:    symbol,
			Interval:  interval,
			Open:      vals[0],
			High:      vals[1],
			Low:       vals[2],
			Close:     vals[3],
			Volume:    vals[4],
			StartTime: time.UnixMilli(openTime).UTC(),
		})
	}
	return klines
}

// cleanKlines 丢弃非正价格的行，同一开盘时间只保留第一条，再按时间升序排列
func cleanKlines(klines []model.KLine) []model.KLine {
	seen := make(map[int64]struct{}, len(klines))
	out := make([]model.KLine, 0, len(klines))
	for _, k := range klines {
		if !k.Valid() {
			continue
		}
		ts := k.StartTime.UnixMilli()
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, k)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
