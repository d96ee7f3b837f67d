package curriculum

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// misconceptionColumns are the CSV columns that may hold a documented
// misconception for a substandard.
var misconceptionColumns = []string{
	"Common Misconception 1",
	"Common Misconception 2",
	"Common Misconception 3",
	"Common Misconception 4",
}

// LoadMisconceptions reads the misconceptions CSV and returns documented
// misconceptions keyed by substandard ID. Empty and "N/A" cells are
// skipped; substandards without any misconception are absent from the map.
func LoadMisconceptions(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open misconceptions: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read misconceptions header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	idCol, ok := col["Substandard ID"]
	if !ok {
		return nil, fmt.Errorf("missing column %q", "Substandard ID")
	}

	out := make(map[string][]string)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if idCol >= len(row) {
			continue
		}
		id := strings.TrimSpace(row[idCol])
		if id == "" {
			continue
		}

		var list []string
		for _, name := range misconceptionColumns {
			i, ok := col[name]
			if !ok || i >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[i])
			if v == "" || v == "N/A" {
				continue
			}
			list = append(list, v)
		}
		if len(list) > 0 {
			out[id] = list
		}
	}
	return out, nil
}
