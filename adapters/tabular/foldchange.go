package tabular

import (
	"fmt"
	"strings"

	"gosilver/domain/core"
	"gosilver/domain/expression"
)

// FoldChangeOptions name the columns of a fold-change table.
type FoldChangeOptions struct {
	Sep         string
	IDColumn    string
	LowerColumn string
	UpperColumn string
}

// DefaultFoldChangeOptions match the reference ID/FCLower/FCUpper layout.
func DefaultFoldChangeOptions() FoldChangeOptions {
	return FoldChangeOptions{Sep: "\t", IDColumn: "ID", LowerColumn: "FCLower", UpperColumn: "FCUpper"}
}

// ReadFoldChanges reads one interval per gene. Other columns are ignored.
// A gene listed twice keeps its last interval.
func ReadFoldChanges(path string, opts FoldChangeOptions) (expression.GeneFoldChanges, error) {
	rows, err := readRecords(path, opts.Sep)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidFoldChangeFile, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", core.ErrInvalidFoldChangeFile, path)
	}

	header := trimAll(rows[0])
	cols := make([]int, 3)
	for i, name := range []string{opts.IDColumn, opts.LowerColumn, opts.UpperColumn} {
		cols[i] = columnIndex(header, name)
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: %s has no %q column", core.ErrInvalidFoldChangeFile, path, name)
		}
	}

	gfc := make(expression.GeneFoldChanges, len(rows)-1)
	for i, raw := range rows[1:] {
		line := i + 2
		if len(raw) == 1 && strings.TrimSpace(raw[0]) == "" {
			continue
		}
		for _, c := range cols {
			if c >= len(raw) {
				return nil, fmt.Errorf("%w: line %d is missing fields", core.ErrInvalidFoldChangeFile, line)
			}
		}
		lower, err := parseValue(raw[cols[1]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", core.ErrInvalidFoldChangeFile, line, err)
		}
		upper, err := parseValue(raw[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", core.ErrInvalidFoldChangeFile, line, err)
		}
		fc, err := expression.NewFoldChange(lower, upper)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		gfc[core.GeneID(strings.TrimSpace(raw[cols[0]]))] = fc
	}
	return gfc, nil
}

// WriteFoldChanges writes gfc in sorted gene order.
func WriteFoldChanges(path string, gfc expression.GeneFoldChanges, opts FoldChangeOptions) error {
	rows := [][]string{{opts.IDColumn, opts.LowerColumn, opts.UpperColumn}}
	for _, g := range gfc.SortedGenes() {
		fc := gfc[g]
		rows = append(rows, []string{g.String(), formatValue(fc.Lower), formatValue(fc.Upper)})
	}
	return writeRecords(path, opts.Sep, rows)
}
