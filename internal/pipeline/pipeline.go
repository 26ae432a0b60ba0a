package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mlexport/internal/config"
	"mlexport/internal/output"
	"mlexport/internal/report"
	"mlexport/internal/transform"
)

// Summary reports what a run produced.
type Summary struct {
	MergedRows int
	LongRows   int
	WideRows   int
	WideCols   int
	Artifacts  []string
}

// Run executes the whole export transformation: load and merge the raw
// report files, melt subscale columns into long form, normalize
// responses, map scores and values from the option definitions, and
// pivot to one row per submission group. Artifacts are written per the
// enabled formats.
func Run(cfg config.Config, log *zap.Logger) (*Summary, error) {
	loader, err := report.NewLoader(log, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	merged, err := loader.Load(cfg.InputDir)
	if err != nil {
		return nil, err
	}

	if merged.Empty() {
		log.Warn("no report rows found, writing empty artifacts",
			zap.String("input_dir", cfg.InputDir))
	}

	// Snapshot the merged export before the transforms run. The long
	// table shares the loaded row maps and the timestamp conversion
	// rewrites cells in place, so the artifact copy must own its rows to
	// keep the raw values.
	mergedOut := merged.Clone()
	mergedOut.DropColumn(report.ColLegacyUser)

	dictionary, err := output.Dictionary(mergedOut)
	if err != nil {
		return nil, err
	}
	options := output.OptionsTable(dictionary)

	long := transform.Longform(merged, log)
	transform.FormatResponses(long)
	if cfg.LocalTimeColumns {
		transform.AddLocalTimes(long)
	}
	transform.ConvertTimestamps(long, log)
	transform.MapScoresValues(long, log)
	transform.MergeResponses(long)
	wide := transform.BuildWide(long, log)

	sum := &Summary{
		MergedRows: len(merged.Rows),
		LongRows:   len(long.Rows),
		WideRows:   len(wide.Rows),
		WideCols:   len(wide.Columns),
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	longOut := output.Long(long)
	longDebug := output.LongDebug(long)

	if cfg.WantsFormat("csv") {
		files := []struct {
			name  string
			table *report.Table
		}{
			{output.FileMerged, mergedOut},
			{output.FileDictionary, dictionary},
			{output.FileOptions, options},
			{output.FileLong, longOut},
			{output.FileLongDebug, longDebug},
			{output.FileWide, wide},
		}
		for _, f := range files {
			path := filepath.Join(cfg.OutputDir, f.name)
			if err := output.WriteCSV(path, f.table); err != nil {
				return nil, fmt.Errorf("write %s: %w", f.name, err)
			}
			sum.Artifacts = append(sum.Artifacts, path)
		}
	}

	if cfg.WantsFormat("sqlite") {
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.OutputDir, output.FileSQLite)
		}
		tables := []output.SQLiteTable{
			{Name: "report_merged", Table: mergedOut},
			{Name: "applet_dictionary", Table: dictionary},
			{Name: "options", Table: options},
			{Name: "report_long", Table: longOut},
			{Name: "report_wide", Table: wide},
		}
		if err := output.WriteSQLite(path, tables); err != nil {
			return nil, fmt.Errorf("write sqlite: %w", err)
		}
		sum.Artifacts = append(sum.Artifacts, path)
	}

	if cfg.WantsFormat("profile") {
		path := filepath.Join(cfg.OutputDir, output.FileProfile)
		md := output.BuildProfile(mergedOut, long, wide, loader.Stats())
		if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output.FileProfile, err)
		}
		sum.Artifacts = append(sum.Artifacts, path)
	}

	log.Info("run complete",
		zap.Int("merged_rows", sum.MergedRows),
		zap.Int("long_rows", sum.LongRows),
		zap.Int("wide_rows", sum.WideRows),
		zap.Int("wide_cols", sum.WideCols),
		zap.Int("artifacts", len(sum.Artifacts)))
	return sum, nil
}
