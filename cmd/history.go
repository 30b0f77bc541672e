package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lmercat/socsim/config"
	"github.com/lmercat/socsim/core/runlog"
)

var (
	historyVariant string
	historySince   time.Duration
	historyJSON    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyVariant, "variant", "", "only runs of this variant")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only runs newer than this age")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	var path string
	for _, mc := range cfg.Sinks {
		if mc.Type == "history" {
			if p, ok := mc.Conf["path"].(string); ok {
				path = p
			}
		}
	}
	if path == "" {
		return fmt.Errorf("no history sink configured")
	}
	store, err := runlog.NewJSONLStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	q := runlog.RunQuery{Variant: historyVariant}
	if historySince > 0 {
		q.Start = time.Now().Add(-historySince)
	}
	records, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	if historyJSON {
		return json.NewEncoder(os.Stdout).Encode(records)
	}
	for _, rec := range records {
		fmt.Printf("%s  %-10s %-12s %7.3f W", rec.Timestamp.Format(time.RFC3339), rec.RunID, rec.Variant, rec.MeanPowerW)
		for _, est := range rec.Estimates {
			fmt.Printf("  %g: %.0fs (%s)", est.Threshold, est.Seconds, est.Method)
		}
		if rec.Error != "" {
			fmt.Printf("  error: %s", rec.Error)
		}
		fmt.Println()
	}
	return nil
}
