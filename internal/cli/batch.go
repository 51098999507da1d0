package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ziwei/internal/batch"
	"github.com/rcliao/ziwei/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Compute charts for every birth record in a YAML file",
		Long: "Compute charts for a YAML file with a top-level births list. Each entry takes " +
			"name, gender, calendar, date, hour and leap. Invalid entries are reported per item.",
		Args: cobra.ExactArgs(1),
		Run:  runBatch,
	}

	cmd.Flags().IntP("workers", "w", 0, "Concurrent computations (default from config)")
	cmd.Flags().Bool("save", false, "Archive every successful chart")

	RootCmd.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, args []string) {
	workers, _ := cmd.Flags().GetInt("workers")
	save, _ := cmd.Flags().GetBool("save")
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}

	inputs, err := batch.Load(args[0])
	if err != nil {
		exitErr("batch", err)
	}

	results, err := batch.Run(cmd.Context(), newCalculator(), inputs, workers, log)
	if err != nil {
		exitErr("batch", err)
	}

	if save {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()
		for _, r := range results {
			if r.Reading == nil {
				continue
			}
			if _, err := s.Save(cmd.Context(), store.SaveParams{Input: r.Input, Reading: r.Reading}); err != nil {
				exitErr("save", err)
			}
		}
	}

	failed := batch.Failed(results)
	log.Debug("batch complete", zap.Int("total", len(results)), zap.Int("failed", failed))
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d entries failed\n", failed, len(results))
	}

	if cfg.Format == "json" {
		if results == nil {
			results = []batch.Result{}
		}
		printJSON(cmd, results)
		return
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(out, "#%d %s: error: %v\n\n", r.Index, r.Input.Name, r.Err)
			continue
		}
		printReading(cmd, r.Reading, r.Reading)
		fmt.Fprintln(out)
	}
}
