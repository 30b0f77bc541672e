package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmercat/socsim/app"
	"github.com/lmercat/socsim/config"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/infra/logger"
	infrasink "github.com/lmercat/socsim/infra/sink"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the sensitivity matrix",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("sweep")
	defer func() {
		if err := a.Close(); err != nil {
			logg.Errorf("sink close: %v", err)
		}
	}()

	if a.PromListen != "" {
		go func() {
			if err := infrasink.StartPromServer(ctx, a.PromListen); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	results, summary, err := a.Runner().Run(ctx, cfg.Sensitivity.Build())
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			logg.Errorf("variant %s failed: %v", res.Variant, res.Err)
			continue
		}
		logg.Infof("variant %s: mean power %.3f W (%+.1f%% vs baseline), scale %.2f, fade %.2f",
			res.Variant, res.MeanPowerW, res.DeltaPowerPct, res.Scale, res.Fade)
		for _, th := range cfg.Simulation.Thresholds {
			est, ok := res.Estimates[th]
			if !ok || est.Method == model.MethodUnavailable {
				continue
			}
			logg.Infof("  threshold %v: %.0f s (%s, %+.1f%% vs baseline)",
				th, est.Seconds, est.Method, res.DeltaTimePct[th])
		}
	}
	logg.Infof("summary threshold %v: %d variants, depletion %.0f to %.0f s, mean %.0f s, stddev %.0f s (cv %.3f)",
		summary.Threshold, summary.Count, summary.MinSeconds, summary.MaxSeconds,
		summary.MeanSeconds, summary.StdDevSeconds, summary.CoeffVar)
	return nil
}
