package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.PairScanned()
	r.PairScanned()
	r.PairSkipped(SkipProviderFailure)
	r.NewSignal("4h", "Green")
	r.DuplicateSignal()
	r.ReportSaved(true)
	r.ReportSaved(false)
	r.RunFinished(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.pairsScanned))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pairsSkipped.WithLabelValues(SkipProviderFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.pairsSkipped.WithLabelValues(SkipInsufficientData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.newSignals.WithLabelValues("4h", "Green")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dupSignals))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reportsSaved.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastRunSignal))

	path := filepath.Join(t.TempDir(), "scanner.prom")
	require.NoError(t, r.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scanner_pairs_scanned_total 2")
}
