package ml

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing corpus timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// LoadCorpus reads a labeled training corpus from a CSV file with at least
// Merchant, Category and Amount columns. Timestamp and Flag columns are
// optional; rows without a Flag are treated as normal.
func LoadCorpus(path string) ([]LabeledSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()
	return ReadCorpus(f)
}

// ReadCorpus parses a labeled corpus from CSV data.
func ReadCorpus(r io.Reader) ([]LabeledSample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"merchant", "category", "amount"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("corpus is missing required column %q", required)
		}
	}

	var rows []LabeledSample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row: %w", err)
		}

		amount, err := strconv.ParseFloat(field(record, cols, "amount"), 64)
		if err != nil {
			continue // skip unparseable rows rather than abort the run
		}

		ts := time.Now()
		if raw := field(record, cols, "timestamp"); raw != "" {
			if parsed, ok := parseTimestamp(raw); ok {
				ts = parsed
			}
		}

		fraud := false
		if raw := field(record, cols, "flag"); raw != "" {
			fraud = raw != "0"
		}

		rows = append(rows, LabeledSample{
			Sample: Sample{
				Merchant:  field(record, cols, "merchant"),
				Category:  field(record, cols, "category"),
				Amount:    amount,
				Hour:      ts.Hour(),
				DayOfWeek: int(ts.Weekday()),
			},
			Fraud: fraud,
		})
	}
	return rows, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
