package console

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// splitArgs splits a command line on spaces. Double quotes group words, so
// `add 12 Food 2024-05-01 "team lunch"` yields five fields.
func splitArgs(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	record, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}

	args := make([]string, 0, len(record))
	for _, f := range record {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}
