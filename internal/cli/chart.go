package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ziwei/internal/interpret"
	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a chart from birth data",
		Long: "Compute a Zi Wei Dou Shu chart. Dates are YYYY-MM-DD in the chosen calendar; " +
			"hour is a slot index 0-11 or its branch (子, 子時).",
		Example: "  ziwei chart --name 小明 --gender male --date 1990-06-07 --hour 卯\n" +
			"  ziwei chart --name 小華 --gender female --calendar lunar --date 2023-02-20 --leap --hour 11 --save",
		Run: runChart,
	}

	cmd.Flags().String("name", "", "Subject name")
	cmd.Flags().StringP("gender", "g", "", "male or female (required)")
	cmd.Flags().StringP("calendar", "c", "solar", "Calendar of --date: solar or lunar")
	cmd.Flags().String("date", "", "Birth date YYYY-MM-DD (required)")
	cmd.Flags().String("hour", "", "Birth hour slot: 0-11, 子 or 子時 (required)")
	cmd.Flags().Bool("leap", false, "Lunar date is in a leap month")
	cmd.Flags().Bool("save", false, "Archive the chart")
	cmd.Flags().Bool("interpret", false, "Ask the interpretation service for an analysis")

	cmd.MarkFlagRequired("gender")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("hour")

	RootCmd.AddCommand(cmd)
}

func runChart(cmd *cobra.Command, args []string) {
	in, err := birthInputFromFlags(cmd)
	if err != nil {
		exitErr("chart", err)
	}
	save, _ := cmd.Flags().GetBool("save")
	interp, _ := cmd.Flags().GetBool("interpret")

	reading, err := newCalculator().Calculate(in)
	if err != nil {
		exitErr("chart", err)
	}
	log.Debug("chart computed",
		zap.String("life", reading.Chart.LifePalace), zap.String("bureau", reading.Profile.Bureau))

	if interp {
		it, err := interpret.NewFromConfig(cmd.Context(), cfg, log)
		if err != nil {
			exitErr("interpret", err)
		}
		reading.Interpretation, err = it.Interpret(cmd.Context(), reading.Profile, reading.Chart)
		if err != nil {
			exitErr("interpret", err)
		}
	}

	if !save {
		printReading(cmd, reading, reading)
		return
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rec, err := s.Save(cmd.Context(), store.SaveParams{Input: in, Reading: reading})
	if err != nil {
		exitErr("save", err)
	}
	printReading(cmd, &rec.Reading, rec)
}

func birthInputFromFlags(cmd *cobra.Command) (model.BirthInput, error) {
	name, _ := cmd.Flags().GetString("name")
	genderStr, _ := cmd.Flags().GetString("gender")
	calStr, _ := cmd.Flags().GetString("calendar")
	dateStr, _ := cmd.Flags().GetString("date")
	hourStr, _ := cmd.Flags().GetString("hour")
	leap, _ := cmd.Flags().GetBool("leap")

	gender, err := model.ParseGender(genderStr)
	if err != nil {
		return model.BirthInput{}, err
	}
	cal, err := model.ParseCalendarSystem(calStr)
	if err != nil {
		return model.BirthInput{}, err
	}
	y, m, d, err := model.ParseDate(dateStr)
	if err != nil {
		return model.BirthInput{}, err
	}
	hour, err := model.ParseHourSlot(hourStr)
	if err != nil {
		return model.BirthInput{}, err
	}
	if leap && cal != model.Lunar {
		return model.BirthInput{}, errors.New("--leap requires --calendar lunar")
	}
	return model.BirthInput{
		Name: name, Gender: gender, Calendar: cal,
		Year: y, Month: m, Day: d, Hour: hour, LeapMonth: leap,
	}, nil
}
