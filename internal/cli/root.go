// Package cli implements the ziwei CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/ziwei/internal/config"
	"github.com/rcliao/ziwei/internal/logging"
	"github.com/rcliao/ziwei/internal/lunar"
	"github.com/rcliao/ziwei/internal/model"
	"github.com/rcliao/ziwei/internal/render"
	"github.com/rcliao/ziwei/internal/store"
	"github.com/rcliao/ziwei/internal/ziwei"
)

var (
	dbPath     string
	formatFlag string
	configPath string
	debugFlag  bool

	cfg config.Config
	log = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "ziwei",
	Short: "Zi Wei Dou Shu charts from the command line",
	Long: "Computes Zi Wei Dou Shu (紫微斗數) natal charts from birth data, " +
		"archives them in SQLite and optionally asks Gemini for an interpretation.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $ZIWEI_DB or ~/.ziwei/charts.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: json, grid or text (default from config, json)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $ZIWEI_CONFIG or ~/.ziwei/config.yaml)")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Debug logging to stderr")
}

// setup resolves config, flags over environment over file, and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if formatFlag != "" {
		c.Format = formatFlag
	}
	if debugFlag {
		c.Log.Debug = true
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(logging.Config{Debug: c.Log.Debug, Level: c.Log.Level})
	if err != nil {
		return err
	}
	cfg, log = c, l
	log.Debug("config loaded", zap.String("path", path), zap.String("db", cfg.DBPath))
	return nil
}

// Execute runs the root command and flushes the logger.
func Execute(ctx context.Context) error {
	defer func() { _ = log.Sync() }()
	return RootCmd.ExecuteContext(ctx)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath, log)
}

func newCalculator() *ziwei.Calculator {
	return ziwei.NewCalculator(lunar.New())
}

func printJSON(cmd *cobra.Command, v interface{}) {
	if err := writeJSON(cmd.OutOrStdout(), v); err != nil {
		exitErr("encode output", err)
	}
}

// writeJSON writes v as indented JSON. Nothing is written when encoding fails.
func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// printReading writes a reading in the configured format. v is what json
// output marshals, the reading itself or the record wrapping it.
func printReading(cmd *cobra.Command, r *model.Reading, v interface{}) {
	out := cmd.OutOrStdout()
	switch cfg.Format {
	case "grid":
		fmt.Fprintln(out, render.Board(r, render.DefaultTheme()))
	case "text":
		fmt.Fprint(out, render.Text(r))
	default:
		printJSON(cmd, v)
		return
	}
	if r.Interpretation != nil {
		s, err := render.Interpretation(r.Interpretation, 80)
		if err != nil {
			exitErr("render interpretation", err)
		}
		fmt.Fprint(out, s)
	}
}

func exitErr(msg string, err error) {
	log.Debug("command failed", zap.String("op", msg), zap.Error(err))
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
