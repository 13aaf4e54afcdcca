package app

import (
	"context"
	"errors"
	"fmt"

	"regime-scanner/internal/memory"
	"regime-scanner/internal/metrics"
	"regime-scanner/internal/model"
	"regime-scanner/internal/report"
	"regime-scanner/internal/service"
	"regime-scanner/internal/strategy"
	"regime-scanner/pkg/ta"

	"go.uber.org/zap"
)

// ErrCrashed 包装 Guard 捕获到的 panic
var ErrCrashed = errors.New("analysis crashed")

// KlineProvider 返回升序、无重复的 K 线；数量少于 count 表示交易所历史不足
type KlineProvider interface {
	FetchKlines(ctx context.Context, symbol, interval string, count int) ([]model.KLine, error)
}

// SymbolLister 挑选扫描的交易对
type SymbolLister interface {
	TopVolumeSymbols(ctx context.Context, quote string, exclude []string, limit int) ([]string, error)
}

// ReportStore 按周期读取和整体替换报告
type ReportStore interface {
	memory.Loader
	Save(timeframe string, signals []model.Signal) error
}

// Summary 是一次运行的统计
type Summary struct {
	Scanned      int
	Skipped      int
	NewSignals   int
	Duplicates   int
	ReportErrors int
}

// Scanner 执行一次完整扫描：加载历史信号 -> 逐个 symbol/timeframe 扫描 -> 写回报告
type Scanner struct {
	cfg       *service.Config
	provider  KlineProvider
	store     ReportStore
	generator *strategy.SignalGenerator
	metrics   *metrics.Recorder
	logger    *zap.Logger
}

func NewScanner(cfg *service.Config, provider KlineProvider, store ReportStore, recorder *metrics.Recorder, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.New()
	}
	calc := ta.NewTACalculator(ta.Periods{
		EMAShort: cfg.Strategy.EMAShort,
		EMALong:  cfg.Strategy.EMALong,
		SMAShort: cfg.Strategy.SMAShort,
		SMALong:  cfg.Strategy.SMALong,
	}, logger.Sugar())
	return &Scanner{
		cfg:       cfg,
		provider:  provider,
		store:     store,
		generator: strategy.NewSignalGenerator(calc, logger),
		metrics:   recorder,
		logger:    logger,
	}
}

// Run 顺序扫描所有交易对。数据不足、行情接口失败、报告损坏都只记录日志并跳过。
// ctx 取消时提前结束扫描，已找到的信号仍然写入报告。
func (s *Scanner) Run(ctx context.Context, symbols []string) Summary {
	var sum Summary
	timeframes := s.cfg.Scan.Timeframes
	mem := memory.Load(s.store, timeframes, s.logger)

	fresh := make(map[string][]model.Signal, len(timeframes))

scan:
	for _, symbol := range symbols {
		for _, tf := range timeframes {
			if err := ctx.Err(); err != nil {
				s.logger.Warn("Scan interrupted, writing partial results", zap.Error(err))
				break scan
			}
			signals, ok := s.scanPair(ctx, symbol, tf)
			if !ok {
				sum.Skipped++
				continue
			}
			sum.Scanned++

			for _, sig := range signals {
				if !mem.Accept(sig) {
					sum.Duplicates++
					s.metrics.DuplicateSignal()
					continue
				}
				s.logger.Info("NEW SIGNAL FOUND",
					zap.String("symbol", symbol),
					zap.String("timeframe", tf),
					zap.String("type", string(sig.Type)),
					zap.String("alert_time", sig.Key().AlertTime))
				fresh[tf] = append(fresh[tf], sig)
				sum.NewSignals++
				s.metrics.NewSignal(tf, string(sig.Type))
			}
		}
	}

	s.logger.Info("Analysis complete",
		zap.Int("scanned", sum.Scanned), zap.Int("skipped", sum.Skipped), zap.Int("duplicates", sum.Duplicates))
	if sum.NewSignals == 0 {
		s.logger.Info("No new signals found in this run, reports will be re-saved with existing data")
	} else {
		s.logger.Info("Found new signals, updating reports", zap.Int("count", sum.NewSignals))
	}

	for _, tf := range timeframes {
		merged := report.Merge(mem.Existing(tf), fresh[tf])
		if err := s.store.Save(tf, merged); err != nil {
			s.logger.Error("Error saving report", zap.String("timeframe", tf), zap.Error(err))
			sum.ReportErrors++
			s.metrics.ReportSaved(false)
			continue
		}
		s.metrics.ReportSaved(true)
	}

	s.metrics.RunFinished(sum.NewSignals)
	return sum
}

// scanPair 返回单个交易对触发的信号，被跳过时返回 false
func (s *Scanner) scanPair(ctx context.Context, symbol, tf string) ([]model.Signal, bool) {
	log := s.logger.With(zap.String("symbol", symbol), zap.String("timeframe", tf))

	count := s.cfg.Scan.CandleCount(tf)
	total := count + s.cfg.Strategy.WarmupCandles()
	log.Info("Processing pair", zap.Int("candles", count))

	klines, err := s.provider.FetchKlines(ctx, symbol, tf, total)
	if err != nil {
		log.Warn("Provider failure, skipping", zap.Error(err))
		s.metrics.PairSkipped(metrics.SkipProviderFailure)
		return nil, false
	}
	if len(klines) < total {
		log.Warn("Could not fetch enough data, skipping", zap.Int("got", len(klines)), zap.Int("want", total))
		s.metrics.PairSkipped(metrics.SkipInsufficientData)
		return nil, false
	}

	signals, ok := s.generator.Generate(symbol, tf, klines, count)
	if !ok {
		log.Warn("Could not calculate indicators, skipping")
		s.metrics.PairSkipped(metrics.SkipInsufficientData)
		return nil, false
	}
	s.metrics.PairScanned()
	return signals, true
}

// ResolveSymbols 优先使用配置中的交易对，否则按成交额挑选
func ResolveSymbols(ctx context.Context, cfg service.ScanConfig, lister SymbolLister) ([]string, error) {
	if len(cfg.Symbols) > 0 {
		return cfg.Symbols, nil
	}
	symbols, err := lister.TopVolumeSymbols(ctx, cfg.QuoteAsset, cfg.ExcludeSuffixes, cfg.TopSymbols)
	if err != nil {
		return nil, fmt.Errorf("fetch top symbols: %w", err)
	}
	if len(symbols) == 0 {
		return nil, errors.New("no symbols matched the universe filter")
	}
	return symbols, nil
}

// Guard 执行 fn，把 panic 转换为 ErrCrashed 并记录堆栈。已经写入的报告保持不变。
func Guard(logger *zap.Logger, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Analysis CRASHED", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("%w: %v", ErrCrashed, r)
		}
	}()
	return fn()
}
