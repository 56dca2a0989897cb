package aggregate

import "math"

// HeatmapGrid is a 2-D histogram. Cells[i][j] counts pairs whose x falls in
// X[i] and whose y falls in Y[j]; the Count of each axis bin is its marginal.
type HeatmapGrid struct {
	X     []Bin   `json:"x"`
	Y     []Bin   `json:"y"`
	Cells [][]int `json:"cells"`
	Total int     `json:"total"`
}

// Heatmap bins (xs[i], ys[i]) pairs on both axes using the Histogram rules.
// Pairs with a NaN coordinate are skipped. The slices are read up to the
// shorter length.
func Heatmap(xs, ys []float64, bins int) HeatmapGrid {
	n := min(len(xs), len(ys))
	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	for i := range n {
		x, y := xs[i], ys[i]
		if !isFinite(x) || !isFinite(y) {
			continue
		}
		px = append(px, x)
		py = append(py, y)
	}
	if len(px) == 0 {
		return HeatmapGrid{X: []Bin{}, Y: []Bin{}, Cells: [][]int{}}
	}

	xEdges := binEdges(px, bins)
	yEdges := binEdges(py, bins)
	grid := HeatmapGrid{
		X:     edgesToBins(xEdges),
		Y:     edgesToBins(yEdges),
		Cells: make([][]int, len(xEdges)-1),
		Total: len(px),
	}
	for i := range grid.Cells {
		grid.Cells[i] = make([]int, len(yEdges)-1)
	}
	for k := range px {
		i := binIndex(xEdges, px[k])
		j := binIndex(yEdges, py[k])
		grid.Cells[i][j]++
		grid.X[i].Count++
		grid.Y[j].Count++
	}
	return grid
}

// Cell is one non-empty heatmap cell addressed by bin bounds.
type Cell struct {
	X     Bin `json:"x"`
	Y     Bin `json:"y"`
	Count int `json:"count"`
}

// NonEmptyCells lists the cells with a positive count, x-major.
func (g HeatmapGrid) NonEmptyCells() []Cell {
	out := []Cell{}
	for i, row := range g.Cells {
		for j, c := range row {
			if c == 0 {
				continue
			}
			x, y := g.X[i], g.Y[j]
			x.Count, y.Count = 0, 0
			out = append(out, Cell{X: x, Y: y, Count: c})
		}
	}
	return out
}

func edgesToBins(edges []float64) []Bin {
	out := make([]Bin, len(edges)-1)
	for i := range out {
		out[i] = Bin{Lower: edges[i], Upper: edges[i+1]}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
