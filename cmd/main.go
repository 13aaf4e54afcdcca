package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"regime-scanner/internal/api"
	"regime-scanner/internal/app"
	"regime-scanner/internal/metrics"
	"regime-scanner/internal/report"
	"regime-scanner/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "regime-scanner",
	Short: "Moving-average regime scanner with retest breakout signals",
	Long: `Classifies candles into Green/Red/Grey regimes from EMA/SMA relationships,
opens retest setups at regime transitions and reports breakout/breakdown triggers.
Signals already present in the per-timeframe reports are never reported twice.`,
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one full scan and update the reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer service.Logger.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		connector := api.NewConnector(cfg.Exchange, service.Logger)
		symbols, err := app.ResolveSymbols(ctx, cfg.Scan, connector)
		if err != nil {
			service.Logger.Error("Could not resolve symbols. Exiting.", zap.Error(err))
			return err
		}
		service.Logger.Info("Starting analysis",
			zap.Int("symbols", len(symbols)),
			zap.Strings("timeframes", cfg.Scan.Timeframes))

		recorder := metrics.New()
		store := report.NewFileStore(cfg.Report.Dir, cfg.Report.FilePrefix, service.Logger)
		scanner := app.NewScanner(cfg, connector, store, recorder, service.Logger)

		defer service.Logger.Info("Scan finished")
		err = app.Guard(service.Logger, func() error {
			sum := scanner.Run(ctx, symbols)
			service.Logger.Info("Run summary",
				zap.Int("scanned", sum.Scanned),
				zap.Int("skipped", sum.Skipped),
				zap.Int("new_signals", sum.NewSignals),
				zap.Int("duplicates", sum.Duplicates),
				zap.Int("report_errors", sum.ReportErrors))
			return nil
		})
		if err != nil {
			// 崩溃已在 Guard 中记录，已写入的报告保持不变
			return nil
		}

		if path := cfg.Metrics.TextfilePath; path != "" {
			if err := recorder.WriteTextfile(path); err != nil {
				service.Logger.Warn("Failed to write metrics textfile", zap.String("path", path), zap.Error(err))
			}
		}
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the symbol universe that a scan would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := bootstrap()
		if err != nil {
			return err
		}
		defer service.Logger.Sync()

		connector := api.NewConnector(cfg.Exchange, service.Logger)
		symbols, err := app.ResolveSymbols(cmd.Context(), cfg.Scan, connector)
		if err != nil {
			return err
		}
		for i, s := range symbols {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i+1, s)
		}
		return nil
	},
}

// bootstrap 读取配置并初始化日志
func bootstrap() (*service.Config, error) {
	cfg, err := service.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if err := service.InitLogger(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: config/config.yaml)")
	rootCmd.AddCommand(scanCmd, symbolsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
