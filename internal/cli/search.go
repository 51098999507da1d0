package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/ziwei/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search archived charts",
		Long: "Search archived charts by name, star, palace or transformation. " +
			"Space-separated terms must all appear in the same palace, e.g. \"命宮 化忌\".",
		Args: cobra.MinimumNArgs(1),
		Run:  runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max charts")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}

	if cfg.Format == "json" {
		if results == nil {
			results = []store.SearchResult{}
		}
		printJSON(cmd, results)
		return
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%s  %s  命宮%s %s\n", r.ID, r.Name, r.LifePalace, r.Bureau)
		for _, m := range r.Matches {
			fmt.Fprintf(out, "    %s\n", m)
		}
	}
}
