package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lmercat/socsim/app"
	"github.com/lmercat/socsim/config"
	"github.com/lmercat/socsim/core/model"
	"github.com/lmercat/socsim/infra/logger"
	"github.com/lmercat/socsim/pkg/export"
)

var trajOut string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a single drain scenario",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&trajOut, "trajectory-out", "", "write the SOC curve to this file (.csv or .json)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("simulate")
	defer func() {
		if err := a.Close(); err != nil {
			logg.Errorf("sink close: %v", err)
		}
	}()

	run, err := a.Simulator().Run(a.Timeline)
	if err != nil {
		return err
	}

	logg.Infof("run %s: mean power %.3f W, mean current %.3f A, energy %.3f Wh, final SOC %.4f",
		run.ID, run.MeanPowerW, run.MeanCurrentA, run.EnergyWh, run.SOC.Final())
	for _, d := range run.Diagnostics {
		logg.Warnf("%s: %s", d.Code, d.Message)
	}
	for _, th := range cfg.Simulation.Thresholds {
		est, ok := run.Estimates[th]
		if !ok || est.Method == model.MethodUnavailable {
			logg.Warnf("threshold %v: no estimate", th)
			continue
		}
		logg.Infof("threshold %v reached in %.0f s (%.2f h, %s)", th, est.Seconds, est.Hours(), est.Method)
	}

	res := model.ScenarioResult{
		ID:           run.ID,
		Variant:      "baseline",
		Scale:        1,
		Fade:         cfg.Simulation.Fade,
		MeanPowerW:   run.MeanPowerW,
		MeanCurrentA: run.MeanCurrentA,
		Estimates:    run.Estimates,
		Diagnostics:  run.Diagnostics,
	}
	if err := a.Sink.RecordRun(res); err != nil {
		logg.Errorf("record run: %v", err)
	}
	if err := a.Sink.RecordTrajectory(run.ID, "baseline", run.SOC); err != nil {
		logg.Errorf("record trajectory: %v", err)
	}
	if trajOut != "" {
		if err := exportTrajectory(trajOut, run.SOC); err != nil {
			return fmt.Errorf("export trajectory: %w", err)
		}
		logg.Infof("trajectory written to %s", trajOut)
	}
	return nil
}

func exportTrajectory(path string, traj model.SOCTrajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	switch filepath.Ext(path) {
	case ".csv":
		return export.WriteCSV(f, traj)
	case ".json":
		return export.WriteJSON(f, traj)
	default:
		return fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}
