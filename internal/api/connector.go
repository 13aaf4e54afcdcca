package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"regime-scanner/internal/model"
	"regime-scanner/internal/service"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrProviderUnavailable 表示重试耗尽或熔断器处于打开状态
var ErrProviderUnavailable = errors.New("market data provider unavailable")

const (
	klinesPath = "/api/v3/klines"
	tickerPath = "/api/v3/ticker/24hr"
)

// Connector 是 Binance 现货 REST 行情客户端
type Connector struct {
	client        *http.Client
	baseURL       string
	chunkLimit    int
	retryAttempts int
	retryDelay    time.Duration
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker
	logger        *zap.Logger
}

// NewConnector 按交易所配置初始化客户端
func NewConnector(cfg service.ExchangeConfig, logger *zap.Logger) *Connector {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := gobreaker.Settings{
		Name:     "binance-rest",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(max(cfg.RetryAttempts*3, 5))
		},
	}
	return &Connector{
		client:        &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:       strings.TrimRight(cfg.RESTURL, "/"),
		chunkLimit:    cfg.ChunkLimit,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker:       gobreaker.NewCircuitBreaker(st),
		logger:        logger.With(zap.String("component", "binance-rest")),
	}
}

// FetchKlines 获取最近 count 根 K 线，按 endTime 向前分页。
// 返回的序列按时间升序、无重复、OHLC 全部为正；数量可能少于 count。
func (c *Connector) FetchKlines(ctx context.Context, symbol, interval string, count int) ([]model.KLine, error) {
	c.logger.Info("Fetching recent candles",
		zap.String("symbol", symbol), zap.String("interval", interval), zap.Int("count", count))

	var raw [][]any
	var endTime int64
	calls := (count + c.chunkLimit - 1) / c.chunkLimit
	for i := 0; i < calls && len(raw) < count; i++ {
		params := url.Values{}
		params.Set("symbol", strings.ToUpper(symbol))
		params.Set("interval", interval)
		params.Set("limit", strconv.Itoa(min(count-len(raw), c.chunkLimit)))
		if endTime > 0 {
			params.Set("endTime", strconv.FormatInt(endTime, 10))
		}

		var chunk [][]any
		if err := c.getJSON(ctx, klinesPath, params, &chunk); err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		raw = append(chunk, raw...)

		first, err := openTimeOf(chunk[0])
		if err != nil {
			return nil, fmt.Errorf("decode kline open time: %w", err)
		}
		endTime = first - 1
	}

	klines := cleanKlines(parseKlines(raw, symbol, interval))
	if len(klines) > count {
		klines = klines[len(klines)-count:]
	}
	if len(klines) == 0 {
		c.logger.Warn("No data fetched", zap.String("symbol", symbol), zap.String("interval", interval))
	}
	return klines, nil
}

// TopVolumeSymbols 返回以 quote 计价、按 24h 成交额排序的前 limit 个交易对，
// 名称中包含 exclude 任一片段的交易对会被过滤
func (c *Connector) TopVolumeSymbols(ctx context.Context, quote string, exclude []string, limit int) ([]string, error) {
	var resp []struct {
		Symbol      string `json:"symbol"`
		QuoteVolume string `json:"quoteVolume"`
	}
	if err := c.getJSON(ctx, tickerPath, nil, &resp); err != nil {
		return nil, err
	}

	tickers := make([]model.Ticker24h, 0, len(resp))
	for _, r := range resp {
		if !strings.HasSuffix(r.Symbol, quote) || containsAny(r.Symbol, exclude) {
			continue
		}
		qv, err := service.StringToFloat(r.QuoteVolume)
		if err != nil || qv <= 0 {
			continue
		}
		tickers = append(tickers, model.Ticker24h{Symbol: r.Symbol, QuoteVolume: qv})
	}
	sort.SliceStable(tickers, func(i, j int) bool {
		return tickers[i].QuoteVolume > tickers[j].QuoteVolume
	})

	symbols := make([]string, 0, min(limit, len(tickers)))
	for _, t := range tickers[:min(limit, len(tickers))] {
		symbols = append(symbols, t.Symbol)
	}
	c.logger.Info("Selected top pairs by volume", zap.Int("count", len(symbols)), zap.String("quote", quote))
	return symbols, nil
}

// getJSON 带限速、熔断和线性退避重试的 GET
func (c *Connector) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.doGet(ctx, fullURL, out)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, path, err)
		}
		lastErr = err
		c.logger.Error("Request failed",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Int("attempts", c.retryAttempts),
			zap.Error(err))

		if attempt+1 < c.retryAttempts {
			if err := sleepCtx(ctx, c.retryDelay*time.Duration(attempt+1)); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w: %s failed after %d attempts: %v", ErrProviderUnavailable, path, c.retryAttempts, lastErr)
}

func (c *Connector) doGet(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
