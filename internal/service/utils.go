package service

import (
	"fmt"
	"strconv"
)

func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func StringToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// AnyToFloat 解析交易所返回的数字字段，可能是字符串也可能是 JSON 数字
func AnyToFloat(v any) (float64, error) {
	switch x := v.(type) {
	case string:
		return StringToFloat(x)
	case float64:
		return x, nil
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}
