package memory

import (
	"errors"

	"regime-scanner/internal/model"
	"regime-scanner/internal/report"

	"go.uber.org/zap"
)

// Loader 读取某个周期已持久化的信号
type Loader interface {
	Load(timeframe string) ([]model.Signal, error)
}

// Memory 记录历史运行已经报告过的信号。
// 运行开始时从报告加载，运行中接收新信号，运行结束时与新信号合并写回。
type Memory struct {
	seen     map[model.SignalKey]struct{}
	existing map[string][]model.Signal
	logger   *zap.Logger
}

// New 创建空的 Memory
func New(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{
		seen:     make(map[model.SignalKey]struct{}),
		existing: make(map[string][]model.Signal),
		logger:   logger,
	}
}

// Load 读取所有周期的历史报告。
// 无法读取或解析的报告按空处理并记录警告，该周期的报告会在本次运行结束时重新生成。
func Load(loader Loader, timeframes []string, logger *zap.Logger) *Memory {
	m := New(logger)
	m.logger.Info("Loading existing signals from previous runs...")

	for _, tf := range timeframes {
		signals, err := loader.Load(tf)
		if err != nil {
			fields := []zap.Field{zap.String("timeframe", tf), zap.Error(err)}
			if errors.Is(err, report.ErrCorruptReport) {
				m.logger.Warn("Could not parse existing report, it will be overwritten", fields...)
			} else {
				m.logger.Warn("Could not read existing report, it will be overwritten", fields...)
			}
			continue
		}
		m.existing[tf] = signals
		for _, s := range signals {
			if key := s.Key(); key.Complete() {
				m.seen[key] = struct{}{}
			}
		}
	}

	m.logger.Info("Loaded unique signals from previous runs", zap.Int("count", len(m.seen)))
	return m
}

// Seen 判断信号身份是否已经报告过
func (m *Memory) Seen(key model.SignalKey) bool {
	_, ok := m.seen[key]
	return ok
}

// Accept 若信号是新的则记住它并返回 true；重复信号返回 false
func (m *Memory) Accept(s model.Signal) bool {
	key := s.Key()
	if m.Seen(key) {
		return false
	}
	m.seen[key] = struct{}{}
	return true
}

// Existing 返回某个周期从报告加载的历史信号
func (m *Memory) Existing(timeframe string) []model.Signal {
	return m.existing[timeframe]
}

// Len 返回已知信号身份的数量
func (m *Memory) Len() int {
	return len(m.seen)
}
