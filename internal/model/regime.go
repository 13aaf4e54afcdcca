package model

// MarketState 单根 K 线的趋势状态
type MarketState string

const (
	StateGreen MarketState = "Green"
	StateRed   MarketState = "Red"
	StateGrey  MarketState = "Grey"

	// 均线尚未就绪 (预热期) 的 K 线没有状态
	StateUnknown MarketState = ""
)

// Known 判断状态是否已定义
func (s MarketState) Known() bool {
	return s != StateUnknown
}
