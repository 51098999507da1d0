package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived charts",
		Run:   runList,
	}

	cmd.Flags().StringP("name", "n", "", "Filter by name (substring)")
	cmd.Flags().StringP("bureau", "b", "", "Filter by bureau, e.g. 土五局")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

// chartSummary is the list view of a record.
type chartSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Calendar    string    `json:"calendar"`
	BirthDate   string    `json:"birth_date"`
	Hour        string    `json:"hour"`
	LifePalace  string    `json:"life_palace"`
	Bureau      string    `json:"bureau"`
	Interpreted bool      `json:"interpreted"`
	CreatedAt   time.Time `json:"created_at"`
}

func summarize(rec model.Record) chartSummary {
	return chartSummary{
		ID:          rec.ID,
		Name:        rec.Input.Name,
		Gender:      string(rec.Input.Gender),
		Calendar:    string(rec.Input.Calendar),
		BirthDate:   rec.Input.Date(),
		Hour:        rec.Input.Hour.Label(),
		LifePalace:  rec.Reading.Chart.LifePalace,
		Bureau:      rec.Reading.Profile.Bureau,
		Interpreted: rec.Reading.Interpretation != nil,
		CreatedAt:   rec.CreatedAt,
	}
}

func runList(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	bureau, _ := cmd.Flags().GetString("bureau")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.List(cmd.Context(), store.ListParams{
		Name:   name,
		Bureau: bureau,
		Limit:  limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	summaries := make([]chartSummary, len(records))
	for i, r := range records {
		summaries[i] = summarize(r)
	}

	if cfg.Format == "json" {
		printJSON(cmd, summaries)
		return
	}
	for _, c := range summaries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s %s %s  命宮%s %s\n",
			c.ID, c.Name, c.Gender, c.BirthDate, c.Hour, c.LifePalace, c.Bureau)
	}
}
