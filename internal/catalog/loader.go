// Package catalog serves class records from a local catalog file.
package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Entry is one class of the catalog. Info holds the class record as JSON text.
type Entry struct {
	ClassID string `json:"class_id" parquet:"class_id"`
	Info    string `json:"-" parquet:"info"`
}

// jsonlEntry accepts the record either as an embedded object or as JSON text.
type jsonlEntry struct {
	ClassID string          `json:"class_id"`
	Info    json.RawMessage `json:"info"`
}

// Loader reads catalog entries from a JSONL or Parquet file
type Loader struct {
	path string
}

// NewLoader creates a new catalog loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every entry from the catalog file
func (l *Loader) Load() ([]Entry, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".jsonl", ".json":
		return l.loadJSONL()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func (l *Loader) loadJSONL() ([]Entry, error) {
	slog.Debug("Opening JSONL catalog", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	// Records can be large nested documents
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw jsonlEntry
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}
		if raw.ClassID == "" {
			return nil, fmt.Errorf("missing class_id at line %d", lineNum)
		}

		entry := Entry{ClassID: raw.ClassID, Info: string(raw.Info)}
		// A JSON string holding the document is unwrapped
		var text string
		if err := json.Unmarshal(raw.Info, &text); err == nil {
			entry.Info = text
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}

	slog.Debug("Finished reading JSONL catalog", "entries", len(entries), "lines", lineNum)
	return entries, nil
}

func (l *Loader) loadParquet() ([]Entry, error) {
	slog.Debug("Opening Parquet catalog", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet catalog opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Entry](pf)
	defer reader.Close()

	var entries []Entry
	rows := make([]Entry, 128)
	for {
		n, err := reader.Read(rows)
		if n > 0 {
			entries = append(entries, rows[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet catalog", "entries", len(entries))
	return entries, nil
}

// WriteParquet writes entries to a Parquet file with class_id and info columns
func WriteParquet(path string, entries []Entry) error {
	if err := parquet.WriteFile(path, entries); err != nil {
		return fmt.Errorf("failed to write parquet catalog: %w", err)
	}
	return nil
}
