package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders one named series as an ASCII graph.
func PlotSeries(name string, data []float64, width, height int) string {
	if len(data) == 0 {
		return fmt.Sprintf("%s: no data\n", name)
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(name),
	)
	return graph + "\n"
}

// PlotColumns renders a set of trajectory columns stacked vertically.
func PlotColumns(columns map[string][]float64, order []string, width, height int) string {
	var b strings.Builder
	for _, name := range order {
		data, ok := columns[name]
		if !ok {
			continue
		}
		b.WriteString(PlotSeries(name, data, width, height))
		b.WriteByte('\n')
	}
	return b.String()
}
