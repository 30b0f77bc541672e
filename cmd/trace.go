package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/lmercat/socsim/app"
	"github.com/lmercat/socsim/config"
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the per-component load breakdown",
	RunE:  runTrace,
}

func init() {
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing sinks: %v\n", err); ferr != nil {
				fmt.Println("failed to write to stderr:", ferr)
			}
		}
	}()

	trace, err := a.Simulator().Trace(a.Timeline)
	if err != nil {
		return err
	}

	total := stat.Mean(trace.PowerW, nil)
	means := make(map[string]float64, len(trace.Components))
	names := make([]string, 0, len(trace.Components))
	for name, series := range trace.Components {
		means[name] = stat.Mean(series, nil)
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if means[names[i]] != means[names[j]] {
			return means[names[i]] > means[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Printf("mean draw %.3f W over %.0f s\n", total, a.Timeline.Span())
	for _, name := range names {
		share := 0.0
		if total > 0 {
			share = 100 * means[name] / total
		}
		fmt.Printf("%-12s %8.3f W  %5.1f%%\n", name, means[name], share)
	}
	return nil
}
