package datareader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
)

// row is one CSV record addressed by column name.
type row struct {
	header map[string]int
	fields []string
}

// get returns the named column, or "" when the column is absent.
func (r row) get(col string) string {
	idx, ok := r.header[col]
	if !ok || idx >= len(r.fields) {
		return ""
	}
	return r.fields[idx]
}

// forEachRow streams the records of a headed CSV file through fn. A record
// fn rejects is logged and skipped; the read continues.
func forEachRow(path string, fn func(r row) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fixture %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headerFields, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read fixture header %s: %w", path, err)
	}
	header := make(map[string]int, len(headerFields))
	for i, name := range headerFields {
		header[name] = i
	}

	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read fixture %s: %w", path, err)
		}
		line++
		if err := fn(row{header: header, fields: fields}); err != nil {
			log.Warn().
				Err(err).
				Str("file", path).
				Int("line", line).
				Msg("Skipping malformed fixture row")
		}
	}
}
