package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ReportGlob matches the per-activity export files inside an export
// directory.
const ReportGlob = "report*"

// Encodings supported for the raw export files. Exports arrive in a
// legacy single-byte encoding by default.
var Encodings = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"latin-1":      charmap.ISO8859_1,
	"utf-8":        unicode.UTF8,
}

// DefaultEncoding is the legacy single-byte encoding of the source files.
const DefaultEncoding = "windows-1252"

// FileStat records how many rows one source file contributed.
type FileStat struct {
	Name string
	Rows int
}

// Loader reads and concatenates the report files of one export directory.
type Loader struct {
	log   *zap.Logger
	enc   encoding.Encoding
	stats []FileStat
}

// Stats reports the per-file row counts of the most recent Load.
func (l *Loader) Stats() []FileStat {
	return l.stats
}

// NewLoader builds a loader using the named encoding. An unknown encoding
// name is a configuration error.
func NewLoader(log *zap.Logger, encodingName string) (*Loader, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, ok := Encodings[strings.ToLower(encodingName)]
	if !ok {
		return nil, fmt.Errorf("unknown input encoding %q", encodingName)
	}
	return &Loader{log: log, enc: enc}, nil
}

// Load reads every report* file in dir and concatenates them into one
// table, renaming the leading submission-id column and the three
// duration-boundary columns. Missing directory, no matching files, or
// only empty files yield an empty table and a diagnostic, not an error;
// downstream stages no-op on empty input.
//
// Files are merged in lexical name order so that later last-wins
// aggregations are deterministic.
func (l *Loader) Load(dir string) (*Table, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		l.log.Warn("export directory not found, producing empty output", zap.String("dir", dir))
		return NewTable(), nil
	}
	paths, err := filepath.Glob(filepath.Join(dir, ReportGlob))
	if err != nil {
		return nil, fmt.Errorf("scan export directory: %w", err)
	}
	sort.Strings(paths)

	l.stats = nil
	merged := NewTable()
	for _, path := range paths {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		part, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if part == nil {
			l.log.Warn("skipping empty report file", zap.String("file", filepath.Base(path)))
			continue
		}
		l.log.Debug("loaded report file",
			zap.String("file", filepath.Base(path)),
			zap.Int("rows", len(part.Rows)))
		l.stats = append(l.stats, FileStat{Name: filepath.Base(path), Rows: len(part.Rows)})
		appendTable(merged, part)
	}
	if merged.Empty() {
		l.log.Warn("no report rows found in export directory", zap.String("dir", dir))
	} else {
		l.log.Info("merged export",
			zap.Int("files", len(paths)),
			zap.Int("rows", len(merged.Rows)),
			zap.Int("columns", len(merged.Columns)))
	}
	return merged, nil
}

// loadFile reads one report file. An empty file returns (nil, nil).
func (l *Loader) loadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	decoded, err := l.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	header = canonicalHeader(header)

	t := NewTable(header...)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, col := range header {
			// Empty source cells stay missing, matching the
			// read-as-null behavior the transforms rely on.
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			}
		}
		t.Append(row)
	}
	return t, nil
}

// canonicalHeader renames the unnamed leading column to the submission id
// and applies the _utc suffix renames.
func canonicalHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			out[i] = ColSubmissionID
			continue
		}
		if to, ok := columnRenames[h]; ok {
			out[i] = to
			continue
		}
		out[i] = h
	}
	return out
}

// appendTable concatenates src onto dst, aligning columns by name. Columns
// unseen so far are appended in first-seen order; row content is merge
// order independent.
func appendTable(dst, src *Table) {
	for _, c := range src.Columns {
		dst.AddColumn(c)
	}
	dst.Rows = append(dst.Rows, src.Rows...)
}
