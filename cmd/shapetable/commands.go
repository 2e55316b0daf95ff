package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shapestone/shape-table/internal/logging"
	"github.com/shapestone/shape-table/pkg/table"
)

// errUsage is returned after a flag error has been printed.
var errUsage = errors.New("usage")

// common holds the flags shared by every command.
type common struct {
	probe    int
	fallback string
	logLevel string
	resize   bool
	in       table.DialectSpec
}

func (c *common) register(fs *flag.FlagSet) {
	fs.IntVar(&c.probe, "probe", envInt("SHAPETABLE_PROBE_LINES", 10), "rows parsed per candidate dialect")
	fs.StringVar(&c.fallback, "fallback", envString("SHAPETABLE_FALLBACK_ENCODING", "utf8"), "encoding used when none can be detected (utf8, latin1, latin9, win1252)")
	fs.StringVar(&c.logLevel, "log-level", envString("SHAPETABLE_LOG_LEVEL", "warn"), "log level: debug, info, warn, error")
	fs.BoolVar(&c.resize, "resize", envBool("SHAPETABLE_RESIZE_ROWS", false), "pad every row to the widest row")
	fs.StringVar(&c.in.Delimiter, "in-delimiter", "", "input delimiter; skips detection (comma, semicolon, tab, pipe, colon or a character)")
	fs.StringVar(&c.in.Quote, "in-quote", "", "input quote character")
	fs.StringVar(&c.in.Escape, "in-escape", "", "input escape: double, backslash or a character")
	fs.StringVar(&c.in.Encoding, "in-encoding", "", "input encoding")
}

// open loads path using the shared flags.
func (c *common) open(path string, stderr io.Writer) (*table.Document, error) {
	fallback, err := table.ParseEncoding(c.fallback)
	if err != nil {
		return nil, err
	}
	opts := table.Options{
		ProbeLines: c.probe,
		Fallback:   fallback,
		ResizeRows: c.resize,
		Logger:     logging.New(stderr, c.logLevel, "text"),
	}
	if !c.in.IsZero() {
		d, err := c.in.Input()
		if err != nil {
			return nil, err
		}
		opts.Dialect = &d
	}
	return table.Open(path, opts)
}

// parse parses args and returns the single FILE argument.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "usage: shapetable %s [flags] FILE\n", fs.Name())
		fs.PrintDefaults()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

// output returns the writer for path, stdout for "" and "-".
func output(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// detectReport is the -json output of detect.
type detectReport struct {
	File       string      `json:"file"`
	Encoding   string      `json:"encoding"`
	BOM        int         `json:"bom"`
	Delimiter  string      `json:"delimiter"`
	Quote      string      `json:"quote"`
	Escape     string      `json:"escape"`
	Confidence float64     `json:"confidence"`
	Header     bool        `json:"header"`
	Rows       int         `json:"rows"`
	Columns    int         `json:"columns"`
	Widths     map[int]int `json:"widths"`
}

func runDetect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	asJSON := fs.Bool("json", envBool("SHAPETABLE_JSON", false), "print the report as JSON")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	doc, err := c.open(path, stderr)
	if err != nil {
		return err
	}
	d := doc.Dialect
	report := detectReport{
		File:       path,
		Encoding:   d.Encoding.String(),
		BOM:        d.BOMLength,
		Delimiter:  string(d.Delimiter),
		Quote:      string(d.Quote),
		Escape:     string(d.Escape),
		Confidence: doc.Confidence,
		Header:     doc.HasHeader(),
		Rows:       doc.Table.Rows(),
		Columns:    doc.Table.Columns(),
		Widths:     doc.Widths,
	}
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(stdout, "file:       %s\n", report.File)
	fmt.Fprintf(stdout, "encoding:   %s (bom %d)\n", report.Encoding, report.BOM)
	fmt.Fprintf(stdout, "delimiter:  %q\n", d.Delimiter)
	fmt.Fprintf(stdout, "quote:      %q\n", d.Quote)
	fmt.Fprintf(stdout, "escape:     %q\n", d.Escape)
	fmt.Fprintf(stdout, "confidence: %.3f\n", report.Confidence)
	fmt.Fprintf(stdout, "header:     %t\n", report.Header)
	fmt.Fprintf(stdout, "rows:       %d\n", report.Rows)
	fmt.Fprintf(stdout, "columns:    %d\n", report.Columns)
	for _, w := range doc.Widths.Widths() {
		fmt.Fprintf(stdout, "  %d fields: %d rows\n", w, doc.Widths[w])
	}
	return nil
}

// outFlags holds the output dialect flags of convert and sort.
type outFlags struct {
	path string
	spec table.DialectSpec
}

func (o *outFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&o.path, "o", "", "output file (default stdout)")
	fs.StringVar(&o.spec.Delimiter, "delimiter", "", "output delimiter (default: input delimiter)")
	fs.StringVar(&o.spec.Quote, "quote", "", "output quote character")
	fs.StringVar(&o.spec.Escape, "escape", "", "output escape: double, backslash or a character")
	fs.StringVar(&o.spec.Encoding, "encoding", envString("SHAPETABLE_OUTPUT_ENCODING", ""), "output encoding (default: input encoding)")
	fs.StringVar(&o.spec.QuoteStyle, "quoting", envString("SHAPETABLE_QUOTING", ""), "quote style: needed, all, nonnumeric")
	fs.StringVar(&o.spec.LineBreak, "linebreak", envString("SHAPETABLE_LINEBREAK", ""), "line break: crlf, lf, cr (default crlf)")
}

func (o *outFlags) save(doc *table.Document, stdout io.Writer) (err error) {
	d, err := o.spec.Apply(doc.Dialect)
	if err != nil {
		return err
	}
	w, closeFn, err := output(o.path, stdout)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeFn())
	}()
	n, err := doc.Save(w, table.SaveOptions{Dialect: &d})
	if err != nil {
		return err
	}
	slog.Debug("saved", "rows", n, "dialect", d.String())
	return nil
}

func runConvert(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	var o outFlags
	c.register(fs)
	o.register(fs)
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	doc, err := c.open(path, stderr)
	if err != nil {
		return err
	}
	return o.save(doc, stdout)
}

func runJSON(args []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	out := fs.String("o", "", "output file (default stdout)")
	header := fs.Bool("header", envBool("SHAPETABLE_JSON_HEADER", false), "use the first row as object keys")
	numbers := fs.Bool("numbers", envBool("SHAPETABLE_JSON_NUMBERS", false), "write numeric cells as JSON numbers")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	doc, err := c.open(path, stderr)
	if err != nil {
		return err
	}
	w, closeFn, err := output(*out, stdout)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closeFn())
	}()
	return doc.ExportJSON(w, table.JSONOptions{Header: *header, Numbers: *numbers})
}

func runSort(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	var o outFlags
	c.register(fs)
	o.register(fs)
	column := fs.Int("column", -1, "zero-based column to sort by (required)")
	desc := fs.Bool("desc", false, "sort in descending order")
	mode := fs.String("mode", "string", "comparison: numeric, string, fold")
	keepHeader := fs.Bool("header", false, "keep the first row in place")
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	sortMode, err := table.ParseSortMode(*mode)
	if err != nil {
		return err
	}
	doc, err := c.open(path, stderr)
	if err != nil {
		return err
	}
	if *column < 0 || *column >= doc.Table.Columns() {
		return fmt.Errorf("column %d out of range (table has %d columns)", *column, doc.Table.Columns())
	}

	var header []string
	if *keepHeader && doc.Table.Rows() > 0 {
		header = doc.Table.RawRow(0)
		doc.Table.DeleteRows(0, 0)
	}
	doc.Sort(*column, !*desc, sortMode)
	if header != nil {
		doc.Table.Prepend(header)
	}
	return o.save(doc, stdout)
}
