package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mlexport/internal/config"
	"mlexport/internal/output"
	"mlexport/internal/pipeline"
)

var (
	flagConfig     string
	flagInputDir   string
	flagOutputDir  string
	flagEncoding   string
	flagFormats    []string
	flagSQLitePath string
	flagLocalTimes bool
	flagDebug      bool
)

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("input-dir") {
		cfg.InputDir = flagInputDir
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Encoding = flagEncoding
	}
	if cmd.Flags().Changed("format") {
		cfg.Formats = flagFormats
	}
	if cmd.Flags().Changed("sqlite-path") {
		cfg.SQLitePath = flagSQLitePath
	}
	if cmd.Flags().Changed("local-time-columns") {
		cfg.LocalTimeColumns = flagLocalTimes
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level == "debug" {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zc.Build()
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Transform raw report exports into merged, long and wide tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer log.Sync()
			sum, err := pipeline.Run(cfg, log)
			if err != nil {
				return err
			}
			for _, a := range sum.Artifacts {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}

func newOutputsInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outputs-info",
		Short: "Describe every artifact the run command can produce",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			rows := []struct{ name, desc string }{
				{output.FileMerged, "all report* files merged into one table, canonical column names"},
				{output.FileDictionary, "one row per distinct activity item definition"},
				{output.FileOptions, "item options exploded to one row per option with value and score"},
				{output.FileLong, "one row per response with normalized response, values and scores"},
				{output.FileLongDebug, "long table with intermediate columns kept for inspection"},
				{output.FileWide, "one row per submission group, one column per activity item"},
				{output.FileProfile, "markdown profile of the dataset (shape, missingness, value counts)"},
				{output.FileSQLite, "all tables written to a single sqlite database"},
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%-25s %s\n", r.name, r.desc)
			}
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "mlexport",
		Short:         "Survey export transformation pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	pf.StringVarP(&flagInputDir, "input-dir", "i", ".", "directory scanned for report* files")
	pf.StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for artifacts (default: input dir)")
	pf.StringVar(&flagEncoding, "encoding", "windows-1252", "charset of the source files")
	pf.StringSliceVar(&flagFormats, "format", []string{"csv"}, "artifact formats: csv, sqlite, profile")
	pf.StringVar(&flagSQLitePath, "sqlite-path", "", "override the sqlite database path")
	pf.BoolVar(&flagLocalTimes, "local-time-columns", false, "add *_local companions to the time columns")
	pf.BoolVar(&flagDebug, "debug", false, "debug logging")

	root.AddCommand(newRunCmd(), newOutputsInfoCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
