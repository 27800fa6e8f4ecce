// Package tables detects tabular structures in positioned text using
// geometric heuristics. It clusters fragments by spatial proximity, derives
// row and column boundaries from edge alignment, scores each candidate
// grid, and emits tables as plain string rows.
package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/docsift/docsift/model"
)

// Config holds detector parameters.
type Config struct {
	// MinRows is the minimum row count for a valid table.
	MinRows int

	// MinCols is the minimum column count for a valid table.
	MinCols int

	// MinConfidence is the score threshold (0-1) below which a candidate
	// grid is rejected.
	MinConfidence float64

	// AlignmentTolerance is the distance in points within which two edges
	// are considered aligned.
	AlignmentTolerance float64

	// ClusterGap is the vertical gap in points that separates one block of
	// fragments from the next.
	ClusterGap float64
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		AlignmentTolerance: 2.0,
		ClusterGap:         50.0,
	}
}

// Detector finds tables in a page's text fragments.
type Detector struct {
	config Config
}

// NewDetector creates a detector with the default configuration.
func NewDetector() *Detector {
	return &Detector{config: DefaultConfig()}
}

// Configure replaces the detector configuration.
func (d *Detector) Configure(config Config) {
	d.config = config
}

// Detect finds tables among the fragments of one page. Fragments are
// clustered into vertically contiguous blocks first; each block is then
// analyzed for tabular structure independently.
func (d *Detector) Detect(fragments []model.TextFragment) []model.Table {
	if len(fragments) == 0 {
		return nil
	}

	var tables []model.Table
	for _, cluster := range d.clusterFragments(fragments) {
		if table, ok := d.detectInCluster(cluster); ok {
			tables = append(tables, table)
		}
	}
	return tables
}

// clusterFragments groups fragments that are vertically close. A gap larger
// than ClusterGap starts a new cluster.
func (d *Detector) clusterFragments(fragments []model.TextFragment) [][]model.TextFragment {
	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)

	// Top to bottom; PDF Y grows upward.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var clusters [][]model.TextFragment
	current := []model.TextFragment{sorted[0]}

	for i := 1; i < len(sorted); i++ {
		prev := current[len(current)-1]
		gap := prev.Bottom() - sorted[i].Top()
		if gap > d.config.ClusterGap {
			clusters = append(clusters, current)
			current = []model.TextFragment{sorted[i]}
		} else {
			current = append(current, sorted[i])
		}
	}
	return append(clusters, current)
}

// grid holds candidate row and column boundaries. Row boundaries are in
// descending Y order, column boundaries in ascending X order.
type grid struct {
	rows []float64
	cols []float64
}

func (g *grid) rowCount() int { return len(g.rows) - 1 }
func (g *grid) colCount() int { return len(g.cols) - 1 }

// detectInCluster attempts to find a table in one cluster of fragments.
func (d *Detector) detectInCluster(fragments []model.TextFragment) (model.Table, bool) {
	if len(fragments) < d.config.MinRows*d.config.MinCols {
		return model.Table{}, false
	}

	g := d.buildGrid(fragments)
	if g == nil || g.rowCount() < d.config.MinRows || g.colCount() < d.config.MinCols {
		return model.Table{}, false
	}

	if d.confidence(g, fragments) < d.config.MinConfidence {
		return model.Table{}, false
	}

	return d.assemble(g, fragments)
}

// buildGrid derives row and column boundaries by clustering fragment edges.
func (d *Detector) buildGrid(fragments []model.TextFragment) *grid {
	yValues := make([]float64, 0, len(fragments)*2)
	xValues := make([]float64, 0, len(fragments)*2)
	for _, frag := range fragments {
		yValues = append(yValues, frag.Top(), frag.Bottom())
		xValues = append(xValues, frag.Left(), frag.Right())
	}

	sort.Float64s(yValues)
	rows := clusterValues(yValues, d.config.AlignmentTolerance)
	sort.Sort(sort.Reverse(sort.Float64Slice(rows)))

	sort.Float64s(xValues)
	cols := clusterValues(xValues, d.config.AlignmentTolerance)

	if len(rows) < d.config.MinRows+1 || len(cols) < d.config.MinCols+1 {
		return nil
	}
	return &grid{rows: rows, cols: cols}
}

// clusterValues merges sorted values that fall within tolerance of each
// other, averaging merged values into the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	for i := 1; i < len(values); i++ {
		last := len(clustered) - 1
		if values[i]-clustered[last] > tolerance {
			clustered = append(clustered, values[i])
		} else {
			clustered[last] = (clustered[last] + values[i]) / 2
		}
	}
	return clustered
}

// confidence scores a candidate grid 0-1 from grid regularity, fragment
// alignment, and cell occupancy. Occupancy carries the largest weight:
// boundaries are derived from fragment edges, so alignment is high even for
// prose, and a mostly empty grid is the strongest signal against a table.
func (d *Detector) confidence(g *grid, fragments []model.TextFragment) float64 {
	return d.gridRegularity(g)*0.3 +
		d.alignmentQuality(g, fragments)*0.3 +
		d.cellOccupancy(g, fragments)*0.4
}

// gridRegularity measures how uniform row heights and column widths are via
// the coefficient of variation. Lower variance scores higher.
func (d *Detector) gridRegularity(g *grid) float64 {
	if g.rowCount() < 2 || g.colCount() < 2 {
		return 0
	}

	rowHeights := make([]float64, g.rowCount())
	for i := 0; i < g.rowCount(); i++ {
		rowHeights[i] = g.rows[i] - g.rows[i+1]
	}
	colWidths := make([]float64, g.colCount())
	for i := 0; i < g.colCount(); i++ {
		colWidths[i] = g.cols[i+1] - g.cols[i]
	}

	rowCV := math.Sqrt(variance(rowHeights)) / mean(rowHeights)
	colCV := math.Sqrt(variance(colWidths)) / mean(colWidths)

	return (math.Max(0, 1-rowCV) + math.Max(0, 1-colCV)) / 2
}

// alignmentQuality is the fraction of fragments with at least two edges on
// grid boundaries.
func (d *Detector) alignmentQuality(g *grid, fragments []model.TextFragment) float64 {
	if len(fragments) == 0 {
		return 0
	}
	aligned := 0
	for _, frag := range fragments {
		if d.isAligned(g, frag) {
			aligned++
		}
	}
	return float64(aligned) / float64(len(fragments))
}

func (d *Detector) isAligned(g *grid, frag model.TextFragment) bool {
	count := 0
	if d.nearBoundary(frag.Left(), g.cols) {
		count++
	}
	if d.nearBoundary(frag.Right(), g.cols) {
		count++
	}
	if d.nearBoundary(frag.Top(), g.rows) {
		count++
	}
	if d.nearBoundary(frag.Bottom(), g.rows) {
		count++
	}
	return count >= 2
}

func (d *Detector) nearBoundary(value float64, boundaries []float64) bool {
	for _, b := range boundaries {
		if math.Abs(value-b) < d.config.AlignmentTolerance*2 {
			return true
		}
	}
	return false
}

// cellOccupancy is the fraction of grid cells containing at least one
// fragment center.
func (d *Detector) cellOccupancy(g *grid, fragments []model.TextFragment) float64 {
	total := g.rowCount() * g.colCount()
	if total == 0 {
		return 0
	}

	occupied := map[[2]int]bool{}
	for _, frag := range fragments {
		row, col := d.findCell(g, frag)
		if row >= 0 && col >= 0 {
			occupied[[2]int{row, col}] = true
		}
	}
	return float64(len(occupied)) / float64(total)
}

// findCell returns the cell containing the fragment's center, or -1,-1 when
// the center falls outside the grid.
func (d *Detector) findCell(g *grid, frag model.TextFragment) (row, col int) {
	row, col = -1, -1
	cx, cy := frag.CenterX(), frag.CenterY()

	for i := 0; i < g.rowCount(); i++ {
		if cy <= g.rows[i] && cy >= g.rows[i+1] {
			row = i
			break
		}
	}
	for i := 0; i < g.colCount(); i++ {
		if cx >= g.cols[i] && cx <= g.cols[i+1] {
			col = i
			break
		}
	}
	return row, col
}

// assemble places fragments into cells by center position and renders the
// result as stripped string rows. Fragments sharing a cell are joined with
// single spaces in traversal order. Rows with no content are dropped.
func (d *Detector) assemble(g *grid, fragments []model.TextFragment) (model.Table, bool) {
	cells := make([][]string, g.rowCount())
	for i := range cells {
		cells[i] = make([]string, g.colCount())
	}

	for _, frag := range fragments {
		row, col := d.findCell(g, frag)
		if row < 0 || col < 0 {
			continue
		}
		if cells[row][col] != "" {
			cells[row][col] += " "
		}
		cells[row][col] += frag.Text
	}

	var rows [][]string
	for _, row := range cells {
		stripped := model.StripCells(row)
		if rowHasContent(stripped) {
			rows = append(rows, stripped)
		}
	}
	if len(rows) < d.config.MinRows {
		return model.Table{}, false
	}
	return model.Table{Rows: rows}, true
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return sum / float64(len(values))
}
