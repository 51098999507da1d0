package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ziwei/internal/interpret"
)

func init() {
	cmd := &cobra.Command{
		Use:   "interpret <id>",
		Short: "Interpret an archived chart",
		Long:  "Ask the interpretation service to analyse an archived chart and store the result with it.",
		Args:  cobra.ExactArgs(1),
		Run:   runInterpret,
	}

	RootCmd.AddCommand(cmd)
}

func runInterpret(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("get", err)
	}

	it, err := interpret.NewFromConfig(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("interpret", err)
	}
	in, err := it.Interpret(cmd.Context(), rec.Reading.Profile, rec.Reading.Chart)
	if err != nil {
		exitErr("interpret", err)
	}
	if err := s.SetInterpretation(cmd.Context(), rec.ID, in); err != nil {
		exitErr("save interpretation", err)
	}
	log.Debug("interpretation stored", zap.String("id", rec.ID))

	rec.Reading.Interpretation = in
	printReading(cmd, &rec.Reading, rec)
}
