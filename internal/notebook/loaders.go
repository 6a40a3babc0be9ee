package notebook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/ini.v1"
)

// Table is the header and leading rows of a CSV file.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadJSON decodes the JSON document at path.
func LoadJSON(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", path, err)
	}

	return data, nil
}

// INISections lists the section names of the INI file at path, without the
// implicit default section. A missing file yields no sections.
func INISections(path string) ([]string, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("load ini %s: %w", path, err)
	}

	var sections []string
	for _, name := range cfg.SectionStrings() {
		if name == ini.DefaultSection {
			continue
		}
		sections = append(sections, name)
	}

	return sections, nil
}

// CSVHead reads the header and at most n data rows of the CSV file at path.
func CSVHead(path string, n int) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Table{}, fmt.Errorf("csv %s: no columns to parse", path)
		}
		return Table{}, fmt.Errorf("read csv header: %w", err)
	}

	table := Table{Header: header}
	for len(table.Rows) < n {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row %d: %w", len(table.Rows)+1, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
