package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CSVRecord is a raw scraped record that can be exported as one CSV row.
type CSVRecord interface {
	CSVHeader() []string
	CSVRow() []string
}

// CSVWriter writes raw (unnormalized) scrape output to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRows appends rows and flushes.
func (c *CSVWriter) WriteRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range rows {
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// CSVSink exports each raw scrape batch to a per-domain file derived from
// Path: "./output/raw.csv" becomes "./output/raw_trains.csv".
type CSVSink struct {
	Path  string
	Limit int
}

// Export writes the first Limit records of a batch, replacing the previous
// file for that domain. An empty batch writes nothing.
func (s *CSVSink) Export(domain string, records []CSVRecord) error {
	if len(records) == 0 {
		return nil
	}
	if s.Limit > 0 && len(records) > s.Limit {
		records = records[:s.Limit]
	}

	w, err := NewCSVWriter(s.domainPath(domain), records[0].CSVHeader())
	if err != nil {
		return err
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.CSVRow()
	}
	if err := w.WriteRows(rows); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *CSVSink) domainPath(domain string) string {
	ext := filepath.Ext(s.Path)
	return strings.TrimSuffix(s.Path, ext) + "_" + domain + ext
}
