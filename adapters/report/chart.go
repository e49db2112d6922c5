// Package report renders the outcome of a differential expression run as an
// HTML bar chart.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"gosilver/internal/dataset"
)

// Render draws requested bounds and achieved shift for every gene of r.
func Render(w io.Writer, r *dataset.Report, subtitle string) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Fold change per gene (%s)", r.Criterion),
			Subtitle: subtitle,
		}),
	)

	genes := make([]string, 0, len(r.Genes))
	for _, g := range r.Genes {
		genes = append(genes, g.Gene.String())
	}
	bar.SetXAxis(genes).
		AddSeries("lower", barItems(r, func(g dataset.GeneReport) float64 { return g.FoldChange.Lower })).
		AddSeries("upper", barItems(r, func(g dataset.GeneReport) float64 { return g.FoldChange.Upper })).
		AddSeries("achieved", barItems(r, func(g dataset.GeneReport) float64 { return g.Shift }))
	return bar.Render(w)
}

// WriteFile renders r into an HTML file at path.
func WriteFile(path string, r *dataset.Report, subtitle string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(out, r, subtitle); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func barItems(r *dataset.Report, value func(dataset.GeneReport) float64) []opts.BarData {
	items := make([]opts.BarData, 0, len(r.Genes))
	for _, g := range r.Genes {
		items = append(items, opts.BarData{Name: string(g.Outcome), Value: value(g)})
	}
	return items
}
