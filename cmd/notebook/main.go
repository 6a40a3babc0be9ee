// Notebook prints the demo data files section by section.
//
// Usage:
//
//	notebook run --dir ./workspace
//	notebook csv data/penguins.csv --rows 5
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/trigger-functions/internal/notebook"
	"github.com/angeloszaimis/trigger-functions/pkg/logger"
)

type flags struct {
	dir      string
	json     string
	ini      string
	csv      string
	rows     int
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	var log *slog.Logger

	root := &cobra.Command{
		Use:   "notebook",
		Short: "Print the demo JSON, INI and CSV data files",
		Long: `notebook loads the demo data files from a workspace directory and prints
them section by section: the working directory, a JSON document, the section
names of an INI file and the first rows of a CSV file as a table.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log = logger.NewWithWriter(cmd.ErrOrStderr(), f.logLevel, false, "dev")

			if f.dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to resolve working directory: %w", err)
				}
				f.dir = cwd
			}
			return nil
		},
	}

	defaults := notebook.DefaultOptions("")
	root.PersistentFlags().StringVar(&f.dir, "dir", "", "workspace directory (defaults to the working directory)")
	root.PersistentFlags().IntVar(&f.rows, "rows", notebook.DefaultRows, "number of CSV rows to print")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Print every section, continuing past failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nb := notebook.New(f.options(), cmd.OutOrStdout(), log)
			if failed := nb.Run(); failed > 0 {
				log.Warn("Some notebook sections failed", slog.Int("failed", failed))
			}
			return nil
		},
	}
	run.Flags().StringVar(&f.json, "json", defaults.JSON, "JSON file")
	run.Flags().StringVar(&f.ini, "ini", defaults.INI, "INI file")
	run.Flags().StringVar(&f.csv, "csv", defaults.CSV, "CSV file")

	root.AddCommand(run,
		sectionCmd("json <file>", "Print a JSON document", f, &log, func(nb *notebook.Notebook) error { return nb.PrintJSON() },
			func(o *notebook.Options, path string) { o.JSON = path }),
		sectionCmd("ini <file>", "Print the section names of an INI file", f, &log, func(nb *notebook.Notebook) error { return nb.PrintINI() },
			func(o *notebook.Options, path string) { o.INI = path }),
		sectionCmd("csv <file>", "Print the first rows of a CSV file", f, &log, func(nb *notebook.Notebook) error { return nb.PrintCSV() },
			func(o *notebook.Options, path string) { o.CSV = path }),
	)

	return root
}

func sectionCmd(
	use, short string,
	f *flags,
	log **slog.Logger,
	show func(*notebook.Notebook) error,
	setPath func(*notebook.Options, string),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := f.options()
			setPath(&opts, args[0])
			return show(notebook.New(opts, cmd.OutOrStdout(), *log))
		},
	}
}

func (f *flags) options() notebook.Options {
	return notebook.Options{
		Dir:  f.dir,
		JSON: f.json,
		INI:  f.ini,
		CSV:  f.csv,
		Rows: f.rows,
	}
}
