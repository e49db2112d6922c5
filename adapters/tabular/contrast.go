package tabular

import (
	"bufio"
	"fmt"
	"strings"

	"gosilver/domain/core"
)

// Contrast assigns a phenotype label to every sample column.
type Contrast struct {
	Labels []string
	Ctrl   []int
	Case   []int
}

// NewContrast indexes labels by the control and case symbols. Labels
// matching neither symbol are kept in Labels but belong to no group.
func NewContrast(labels []string, ctrlSymbol, caseSymbol string) (Contrast, error) {
	c := Contrast{Labels: append([]string(nil), labels...)}
	for i, l := range labels {
		switch l {
		case ctrlSymbol:
			c.Ctrl = append(c.Ctrl, i)
		case caseSymbol:
			c.Case = append(c.Case, i)
		}
	}
	if len(c.Ctrl) == 0 {
		return Contrast{}, fmt.Errorf("%w: contrast must contain the control symbol (%s)", core.ErrInvalidContrast, ctrlSymbol)
	}
	return c, nil
}

// SimulatedContrast labels numCtrls controls followed by numCases cases.
func SimulatedContrast(numCtrls, numCases int, ctrlSymbol, caseSymbol string) Contrast {
	labels := make([]string, 0, numCtrls+numCases)
	c := Contrast{}
	for i := 0; i < numCtrls; i++ {
		c.Ctrl = append(c.Ctrl, len(labels))
		labels = append(labels, ctrlSymbol)
	}
	for i := 0; i < numCases; i++ {
		c.Case = append(c.Case, len(labels))
		labels = append(labels, caseSymbol)
	}
	c.Labels = labels
	return c
}

// Len returns the number of labelled samples.
func (c Contrast) Len() int { return len(c.Labels) }

// ReadContrast reads phenotype labels separated by sep. Labels may span
// several lines; blank lines are ignored.
func ReadContrast(path, ctrlSymbol, caseSymbol, sep string) (Contrast, error) {
	if sep == "" {
		return Contrast{}, fmt.Errorf("%w: empty separator", core.ErrInvalidContrast)
	}
	in, err := Open(path)
	if err != nil {
		return Contrast{}, err
	}
	defer in.Close()

	var labels []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		for _, l := range strings.Split(line, sep) {
			labels = append(labels, strings.TrimSpace(l))
		}
	}
	if err := scanner.Err(); err != nil {
		return Contrast{}, fmt.Errorf("%w: %w", core.ErrInvalidContrast, err)
	}
	return NewContrast(labels, ctrlSymbol, caseSymbol)
}

// WriteContrast writes the labels of c on one line.
func WriteContrast(path string, c Contrast, sep string) error {
	out, err := Create(path)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, strings.Join(c.Labels, sep)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
