package notebook_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/trigger-functions/internal/notebook"
)

const penguins = `species,island,bill_length_mm,sex
Adelie,Torgersen,39.1,MALE
Adelie,Torgersen,39.5,FEMALE
Adelie,Torgersen,40.3,FEMALE
Adelie,Torgersen,,
Adelie,Torgersen,36.7,FEMALE
`

const configINI = `; demo configuration
top = level

[database]
host = localhost
port = 5432

[storage]
bucket = demo
`

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("Notebook", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	Describe("LoadJSON", func() {
		It("decodes a document", func() {
			path := writeFile(dir, "data.json", `{"name":"demo","values":[1,2,3]}`)

			data, err := notebook.LoadJSON(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(HaveKeyWithValue("name", "demo"))
		})

		It("fails on a missing file", func() {
			_, err := notebook.LoadJSON(filepath.Join(dir, "missing.json"))
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("fails on invalid JSON", func() {
			path := writeFile(dir, "bad.json", `{"name":`)

			_, err := notebook.LoadJSON(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("INISections", func() {
		It("lists sections without the default one", func() {
			path := writeFile(dir, "config.ini", configINI)

			sections, err := notebook.INISections(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(sections).To(Equal([]string{"database", "storage"}))
		})

		It("returns no sections for a missing file", func() {
			sections, err := notebook.INISections(filepath.Join(dir, "missing.ini"))
			Expect(err).NotTo(HaveOccurred())
			Expect(sections).To(BeEmpty())
		})
	})

	Describe("CSVHead", func() {
		It("reads the header and the first rows", func() {
			path := writeFile(dir, "penguins.csv", penguins)

			table, err := notebook.CSVHead(path, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Header).To(Equal([]string{"species", "island", "bill_length_mm", "sex"}))
			Expect(table.Rows).To(HaveLen(3))
			Expect(table.Rows[1]).To(Equal([]string{"Adelie", "Torgersen", "39.5", "FEMALE"}))
		})

		It("stops at the end of a short file", func() {
			path := writeFile(dir, "short.csv", "a,b\n1,2\n")

			table, err := notebook.CSVHead(path, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Rows).To(HaveLen(1))
		})

		It("fails on an empty file", func() {
			path := writeFile(dir, "empty.csv", "")

			_, err := notebook.CSVHead(path, 3)
			Expect(err).To(MatchError(ContainSubstring("no columns")))
		})

		It("fails on ragged rows", func() {
			path := writeFile(dir, "ragged.csv", "a,b\n1,2,3\n")

			_, err := notebook.CSVHead(path, 3)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("RenderTable", func() {
		It("renders header, index and cells", func() {
			var buf bytes.Buffer

			err := notebook.RenderTable(&buf, notebook.Table{
				Header: []string{"species", "island"},
				Rows:   [][]string{{"Adelie", "Torgersen"}, {"Gentoo", "Biscoe"}},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("species"))
			Expect(buf.String()).To(ContainSubstring("Gentoo"))
			Expect(buf.String()).To(ContainSubstring("Biscoe"))
		})
	})

	Describe("Run", func() {
		var (
			out bytes.Buffer
			log *slog.Logger
		)

		BeforeEach(func() {
			out.Reset()
			log = slog.New(slog.NewTextHandler(io.Discard, nil))
		})

		It("prints every section", func() {
			writeFile(dir, "data/demo_data.json", `{"name":"demo"}`)
			writeFile(dir, "config/config.ini", configINI)
			writeFile(dir, "data/penguins.csv", penguins)

			failed := notebook.New(notebook.DefaultOptions(dir), &out, log).Run()

			Expect(failed).To(BeZero())
			Expect(out.String()).To(ContainSubstring("-----CWD-----\n" + dir + "\n"))
			Expect(out.String()).To(ContainSubstring(`{"name":"demo"}`))
			Expect(out.String()).To(ContainSubstring(`["database","storage"]`))
			Expect(out.String()).To(ContainSubstring("39.1"))
			Expect(out.String()).NotTo(ContainSubstring("36.7"))
		})

		It("keeps going after a failing section", func() {
			writeFile(dir, "data/penguins.csv", penguins)

			failed := notebook.New(notebook.DefaultOptions(dir), &out, log).Run()

			Expect(failed).To(Equal(1))
			Expect(out.String()).To(ContainSubstring("-----load json-----"))
			Expect(out.String()).To(ContainSubstring("[]"))
			Expect(out.String()).To(ContainSubstring("Adelie"))
		})

		It("honours the row count", func() {
			writeFile(dir, "data/penguins.csv", penguins)
			opts := notebook.DefaultOptions(dir)
			opts.Rows = 5

			Expect(notebook.New(opts, &out, log).PrintCSV()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("36.7"))
		})
	})
})
