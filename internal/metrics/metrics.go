package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 跳过原因
const (
	SkipInsufficientData = "insufficient_data"
	SkipProviderFailure  = "provider_failure"
)

// Recorder 记录一次扫描运行的计数，使用独立的 Registry
type Recorder struct {
	registry *prometheus.Registry

	pairsScanned  prometheus.Counter
	pairsSkipped  *prometheus.CounterVec
	newSignals    *prometheus.CounterVec
	dupSignals    prometheus.Counter
	reportsSaved  *prometheus.CounterVec
	lastRunSignal prometheus.Gauge
}

// New 创建 Recorder 并注册所有指标
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pairsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_pairs_scanned_total",
			Help: "Symbol/timeframe pairs whose candles were scanned",
		}),
		pairsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_pairs_skipped_total",
			Help: "Symbol/timeframe pairs skipped, by reason",
		}, []string{"reason"}),
		newSignals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_new_signals_total",
			Help: "Newly triggered signals accepted into memory",
		}, []string{"timeframe", "type"}),
		dupSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_duplicate_signals_total",
			Help: "Triggered signals dropped because they were already reported",
		}),
		reportsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_reports_saved_total",
			Help: "Report file writes, by result",
		}, []string{"result"}),
		lastRunSignal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_last_run_new_signals",
			Help: "New signals found by the last completed run",
		}),
	}
	r.registry.MustRegister(r.pairsScanned, r.pairsSkipped, r.newSignals, r.dupSignals, r.reportsSaved, r.lastRunSignal)
	return r
}

func (r *Recorder) PairScanned() { r.pairsScanned.Inc() }

func (r *Recorder) PairSkipped(reason string) { r.pairsSkipped.WithLabelValues(reason).Inc() }

func (r *Recorder) NewSignal(timeframe, signalType string) {
	r.newSignals.WithLabelValues(timeframe, signalType).Inc()
}

func (r *Recorder) DuplicateSignal() { r.dupSignals.Inc() }

func (r *Recorder) ReportSaved(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.reportsSaved.WithLabelValues(result).Inc()
}

func (r *Recorder) RunFinished(newSignals int) { r.lastRunSignal.Set(float64(newSignals)) }

// Registry 返回底层 Registry
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteTextfile 以 node_exporter textfile 格式导出
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
