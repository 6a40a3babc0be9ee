package notebook

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	json "github.com/goccy/go-json"
)

const DefaultRows = 3

// Options names the files the notebook reads. Relative paths are resolved
// against Dir.
type Options struct {
	Dir  string
	JSON string
	INI  string
	CSV  string
	Rows int
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:  dir,
		JSON: filepath.Join("data", "demo_data.json"),
		INI:  filepath.Join("config", "config.ini"),
		CSV:  filepath.Join("data", "penguins.csv"),
		Rows: DefaultRows,
	}
}

type Notebook struct {
	opts   Options
	out    io.Writer
	logger *slog.Logger
}

func New(opts Options, out io.Writer, logger *slog.Logger) *Notebook {
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}

	return &Notebook{
		opts:   opts,
		out:    out,
		logger: logger,
	}
}

// Run prints every section and returns the number of sections that failed.
func (n *Notebook) Run() int {
	failed := 0
	for _, section := range []struct {
		title string
		run   func() error
	}{
		{"CWD", n.PrintDir},
		{"load json", n.PrintJSON},
		{"load ini to config", n.PrintINI},
		{"load csv", n.PrintCSV},
	} {
		fmt.Fprintf(n.out, "-----%s-----\n", section.title)
		if err := section.run(); err != nil {
			failed++
			n.logger.Debug("Notebook section failed",
				slog.String("section", section.title),
				slog.Any("err", err))
			fmt.Fprintln(n.out, err)
		}
	}

	return failed
}

func (n *Notebook) PrintDir() error {
	_, err := fmt.Fprintln(n.out, n.opts.Dir)
	return err
}

func (n *Notebook) PrintJSON() error {
	data, err := LoadJSON(n.path(n.opts.JSON))
	if err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	_, err = fmt.Fprintln(n.out, string(raw))
	return err
}

func (n *Notebook) PrintINI() error {
	sections, err := INISections(n.path(n.opts.INI))
	if err != nil {
		return err
	}

	if sections == nil {
		sections = []string{}
	}

	raw, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	_, err = fmt.Fprintln(n.out, string(raw))
	return err
}

func (n *Notebook) PrintCSV() error {
	table, err := CSVHead(n.path(n.opts.CSV), n.opts.Rows)
	if err != nil {
		return err
	}

	return RenderTable(n.out, table)
}

func (n *Notebook) path(p string) string {
	if filepath.IsAbs(p) || n.opts.Dir == "" {
		return p
	}
	return filepath.Join(n.opts.Dir, p)
}
