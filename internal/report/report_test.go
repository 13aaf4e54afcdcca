package report

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"regime-scanner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSignal(symbol string, alert time.Time, typ model.SignalType) model.Signal {
	return model.Signal{
		Symbol:     symbol,
		Timeframe:  "4h",
		Type:       typ,
		Reason:     model.ReasonTriggered,
		AlertTime:  alert,
		AlertClose: 64123.456789,
		Resistance: 63000.1,
		StopLoss:   65000,
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1.2346", FormatPrice(1.23456))
	assert.Equal(t, "65000.0000", FormatPrice(65000))
	assert.Equal(t, "0.0001", FormatPrice(0.00012))
	assert.Equal(t, "", FormatPrice(math.NaN()))
	assert.Equal(t, "", FormatPrice(math.Inf(1)))
}

func TestFromSignal_Schema(t *testing.T) {
	alert := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	rec := FromSignal(sampleSignal("BTCUSDT", alert, model.SignalGreen))

	assert.Equal(t, Record{
		Type:            "section",
		TimeframeName:   "4hour",
		ColorStateIndex: 3,
		IsClosed:        false,
		Direction:       "Short",
		Entry:           "64123.4568",
		Resistance:      "63000.1000",
		StopLoss:        "65000.0000",
		Target:          "",
		CandleNum:       "",
		EntryDate:       "2024-05-06 08:00",
		Symbol:          "BTCUSDT",
	}, rec)

	red := FromSignal(sampleSignal("BTCUSDT", alert, model.SignalRed))
	assert.Equal(t, "Long", red.Direction)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, k := range []string{"type", "timeframe_name", "color_state_index", "is_closed", "direction",
		"entry", "resistance", "stoploss", "target", "candle_num", "entry_date", "symbol"} {
		assert.Contains(t, fields, k)
	}
	assert.Len(t, fields, 12)
}

func TestToSignal_RoundTrip(t *testing.T) {
	alert := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	rec := FromSignal(sampleSignal("BTCUSDT", alert, model.SignalRed))

	sig, err := ToSignal(rec)
	require.NoError(t, err)
	assert.Equal(t, "4h", sig.Timeframe)
	assert.Equal(t, model.SignalRed, sig.Type)
	assert.True(t, alert.Equal(sig.AlertTime))
	assert.Equal(t, rec, FromSignal(sig))
}

func TestToSignal_EmptyPricesStayEmpty(t *testing.T) {
	rec := Record{Type: "section", TimeframeName: "1hour", Direction: "Short", EntryDate: "2024-01-01 00:00", Symbol: "X"}
	sig, err := ToSignal(rec)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sig.Resistance))
	out := FromSignal(sig)
	assert.Equal(t, "", out.Entry)
	assert.Equal(t, "", out.StopLoss)

	_, err = ToSignal(Record{EntryDate: "yesterday"})
	assert.Error(t, err)
}

func TestMerge_SortsByAlertTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := []model.Signal{
		sampleSignal("A", base.Add(3*time.Hour), model.SignalGreen),
		sampleSignal("B", base.Add(1*time.Hour), model.SignalGreen),
	}
	fresh := []model.Signal{
		sampleSignal("C", base.Add(2*time.Hour), model.SignalRed),
		sampleSignal("D", base, model.SignalRed),
	}
	merged := Merge(old, fresh)
	require.Len(t, merged, 4)
	var symbols []string
	for _, s := range merged {
		symbols = append(symbols, s.Symbol)
	}
	assert.Equal(t, []string{"D", "B", "C", "A"}, symbols)
	assert.Equal(t, "A", old[0].Symbol)
}

func TestBuildDocument_Empty(t *testing.T) {
	doc := BuildDocument(nil)
	assert.Equal(t, -1, doc.MasterSectionIndex)
	assert.NotNil(t, doc.Sections)

	raw, err := json.Marshal([]Document{doc})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"sections": [], "master_section_index": -1}]`, string(raw))

	doc = BuildDocument([]model.Signal{sampleSignal("A", time.Now(), model.SignalGreen)})
	assert.Equal(t, 0, doc.MasterSectionIndex)
	assert.Len(t, doc.Sections, 1)
}

func TestFileStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "signals_report", nil)
	assert.Equal(t, filepath.Join(dir, "signals_report_4h.json"), store.Path("4h"))

	signals, err := store.Load("4h")
	require.NoError(t, err)
	assert.Empty(t, signals)

	alert := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	in := []model.Signal{sampleSignal("BTCUSDT", alert, model.SignalGreen)}
	require.NoError(t, store.Save("4h", in))

	out, err := store.Load("4h")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].Key(), out[0].Key())

	first, err := os.ReadFile(store.Path("4h"))
	require.NoError(t, err)
	require.NoError(t, store.Save("4h", out))
	second, err := os.ReadFile(store.Path("4h"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "signals_report", nil)
	require.NoError(t, os.WriteFile(store.Path("4h"), []byte("{not json"), 0o644))

	_, err := store.Load("4h")
	assert.ErrorIs(t, err, ErrCorruptReport)
}

func TestFileStore_SkipsUnreadableRecords(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "signals_report", nil)
	content := `[{"sections": [
		{"type": "section", "timeframe_name": "1hour", "direction": "Long", "entry": "1.0000", "entry_date": "bad", "symbol": "A"},
		{"type": "section", "timeframe_name": "1hour", "direction": "Long", "entry": "2.0000", "entry_date": "2024-02-01 10:00", "symbol": "B"}
	], "master_section_index": 0}]`
	require.NoError(t, os.WriteFile(store.Path("1h"), []byte(content), 0o644))

	signals, err := store.Load("1h")
	require.NoError(t, err)
	require.Len(t, signals, 1)
	assert.Equal(t, "B", signals[0].Symbol)
	assert.Equal(t, "1h", signals[0].Timeframe)
	assert.Equal(t, 2.0, signals[0].AlertClose)
}
