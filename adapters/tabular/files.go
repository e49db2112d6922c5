// Package tabular reads and writes the delimited and spreadsheet files the
// simulator consumes and produces: expression matrices, contrast lines and
// fold-change tables. Paths ending in .gz are transparently (de)compressed.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gzip "github.com/klauspost/pgzip"
	"github.com/xuri/excelize/v2"
)

type fileKind int

const (
	kindDelimited fileKind = iota
	kindXLSX
)

func kindOf(path string) fileKind {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return kindXLSX
	}
	return kindDelimited
}

func isGzip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return file, nil
	}
	gr, err := gzip.NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
	}
	return &readCloser{Reader: gr, closers: []io.Closer{gr, file}}, nil
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Create creates path for writing, compressing .gz files.
func Create(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return file, nil
	}
	gw := gzip.NewWriter(file)
	return &writeCloser{Writer: gw, closers: []io.Closer{gw, file}}, nil
}

func separator(sep string) (rune, error) {
	r := []rune(sep)
	if len(r) != 1 {
		return 0, fmt.Errorf("separator must be a single character, got %q", sep)
	}
	return r[0], nil
}

// readRecords returns every row of a delimited file or of the first sheet
// of a workbook.
func readRecords(path, sep string) ([][]string, error) {
	if kindOf(path) == kindXLSX {
		return readSheet(path)
	}
	comma, err := separator(sep)
	if err != nil {
		return nil, err
	}
	in, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func readSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

func writeRecords(path, sep string, rows [][]string) error {
	comma, err := separator(sep)
	if err != nil {
		return err
	}
	out, err := Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(out)
	w.Comma = comma
	if err := w.WriteAll(rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeSheet(path string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}
