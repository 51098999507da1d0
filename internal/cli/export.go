package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/ziwei/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived charts as JSON",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	if records == nil {
		records = []model.Record{}
	}
	printJSON(cmd, records)
}
