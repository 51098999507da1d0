package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	if cfg.Format == "json" {
		printJSON(cmd, stats)
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Fprintf(out, "charts: %d active, %d total, %d interpreted\n", stats.ActiveCharts, stats.TotalCharts, stats.Interpreted)
	for _, b := range stats.Bureaus {
		fmt.Fprintf(out, "  %s %d\n", b.Bureau, b.Count)
	}
}
