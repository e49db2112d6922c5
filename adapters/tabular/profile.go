package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// ProfileOptions describe the layout of an expression matrix file.
type ProfileOptions struct {
	// Sep is the field separator of delimited files.
	Sep string
	// IDColumn names the gene identifier column. Empty means the first column.
	IDColumn string
}

// DefaultProfileOptions match tab-separated matrices keyed by an "ID" column.
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{Sep: "\t", IDColumn: "ID"}
}

var missingValues = map[string]bool{"": true, "NA": true, "NaN": true, "nan": true, "null": true}

// ReadProfile reads a genes x samples matrix. Every column other than the ID
// column is a sample. Missing cells (NA, NaN, empty) become NaN.
func ReadProfile(path string, opts ProfileOptions) (*expression.Profile, error) {
	rows, err := readRecords(path, opts.Sep)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidExpressionFile, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s must have a header row and at least one gene", core.ErrInvalidExpressionFile, path)
	}

	header := trimAll(rows[0])
	idCol := 0
	if opts.IDColumn != "" {
		idCol = columnIndex(header, opts.IDColumn)
		if idCol < 0 {
			return nil, fmt.Errorf("%w: %s has no %q column", core.ErrInvalidExpressionFile, path, opts.IDColumn)
		}
	}

	samples := make([]core.SampleID, 0, len(header)-1)
	for j, h := range header {
		if j != idCol {
			samples = append(samples, core.SampleID(h))
		}
	}

	genes := make([]core.GeneID, 0, len(rows)-1)
	data := make([][]float64, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		line := i + 2
		if len(raw) == 1 && strings.TrimSpace(raw[0]) == "" {
			continue
		}
		if len(raw) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				core.ErrInvalidExpressionFile, line, len(raw), len(header))
		}
		row := make([]float64, 0, len(samples))
		for j, cell := range raw {
			if j == idCol {
				continue
			}
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %s: %v",
					core.ErrInvalidExpressionFile, line, header[j], err)
			}
			row = append(row, v)
		}
		genes = append(genes, core.GeneID(strings.TrimSpace(raw[idCol])))
		data = append(data, row)
	}

	profile, err := expression.NewProfile(genes, samples, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidExpressionFile, err)
	}
	return profile, nil
}

func parseValue(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if missingValues[cell] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func profileHeader(p *expression.Profile, idColumn string) []string {
	if idColumn == "" {
		idColumn = "ID"
	}
	samples := p.Samples()
	header := make([]string, 0, len(samples)+1)
	header = append(header, idColumn)
	for _, s := range samples {
		header = append(header, s.String())
	}
	return header
}

// WriteProfile writes p as a delimited matrix with the gene IDs in idColumn.
func WriteProfile(path string, p *expression.Profile, opts ProfileOptions) error {
	genes := p.Genes()
	data := p.Data()
	rows := make([][]string, 0, len(genes)+1)
	rows = append(rows, profileHeader(p, opts.IDColumn))
	for i, g := range genes {
		row := make([]string, 0, len(data[i])+1)
		row = append(row, g.String())
		for _, v := range data[i] {
			row = append(row, formatValue(v))
		}
		rows = append(rows, row)
	}
	return writeRecords(path, opts.Sep, rows)
}

// WriteProfileXLSX writes p to the first sheet of a new workbook.
func WriteProfileXLSX(path string, p *expression.Profile, idColumn string) error {
	genes := p.Genes()
	data := p.Data()
	rows := make([][]any, 0, len(genes)+1)

	header := profileHeader(p, idColumn)
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	rows = append(rows, hdr)

	for i, g := range genes {
		row := make([]any, 0, len(data[i])+1)
		row = append(row, g.String())
		for _, v := range data[i] {
			if math.IsNaN(v) {
				row = append(row, "NA")
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return writeSheet(path, rows)
}
