// Package spatial provides the uniform grid that backs broad-phase
// collision queries against the orb chain.
package spatial

import "math"

// Grid buckets entity indices into fixed-size square cells, row-major.
// With the cell size at one query diameter (projectile radius plus orb
// radius, doubled) a radius query never touches more than a 2x2
// neighborhood.
//
// Contents are indices, not pointers: the caller rebuilds the grid from
// its own slice each sweep, so the grid never owns entity state.
type Grid struct {
	cellSize float64
	invCell  float64
	cols     int
	rows     int
	cells    [][]uint32
	scratch  []uint32 // reused by QueryRadius
}

// NewGrid covers a width by height board. capacityHint sizes the
// per-cell slices so steady-state sweeps do not allocate.
func NewGrid(width, height, cellSize float64, capacityHint int) *Grid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	cells := make([][]uint32, cols*rows)
	perCell := max(capacityHint/len(cells), 4)
	for i := range cells {
		cells[i] = make([]uint32, 0, perCell)
	}

	return &Grid{
		cellSize: cellSize,
		invCell:  1 / cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
		scratch:  make([]uint32, 0, 64),
	}
}

// clampCell maps a position to cell coordinates. Off-board positions
// land in the nearest edge cell rather than panicking, matching how
// Insert files orbs that are still marching in from outside the board.
func (g *Grid) clampCell(x, y float64) (col, row int) {
	col = min(max(int(x*g.invCell), 0), g.cols-1)
	row = min(max(int(y*g.invCell), 0), g.rows-1)
	return col, row
}

// Clear empties every cell, keeping capacity for the next sweep.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert files id under the cell containing (x, y).
func (g *Grid) Insert(id uint32, x, y float64) {
	col, row := g.clampCell(x, y)
	i := row*g.cols + col
	g.cells[i] = append(g.cells[i], id)
}

// QueryRadius returns every id whose cell intersects the circle at
// (x, y). Candidates can sit outside the radius; the caller owns the
// narrow phase. The returned slice is reused on the next call.
func (g *Grid) QueryRadius(x, y, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	c0, r0 := g.clampCell(x-radius, y-radius)
	c1, r1 := g.clampCell(x+radius, y+radius)

	for row := r0; row <= r1; row++ {
		base := row * g.cols
		for col := c0; col <= c1; col++ {
			g.scratch = append(g.scratch, g.cells[base+col]...)
		}
	}
	return g.scratch
}

// QueryCell returns the ids filed under the cell containing (x, y).
func (g *Grid) QueryCell(x, y float64) []uint32 {
	col, row := g.clampCell(x, y)
	return g.cells[row*g.cols+col]
}

// Dimensions reports the grid layout.
func (g *Grid) Dimensions() (cols, rows int, cellSize float64) {
	return g.cols, g.rows, g.cellSize
}

// GridStats summarizes occupancy for diagnostics.
type GridStats struct {
	Cells          int
	Occupied       int
	Entities       int
	MaxPerCell     int
	AvgPerOccupied float64
}

// Stats walks the cells and tallies occupancy.
func (g *Grid) Stats() GridStats {
	s := GridStats{Cells: len(g.cells)}
	for _, cell := range g.cells {
		n := len(cell)
		s.Entities += n
		if n == 0 {
			continue
		}
		s.Occupied++
		if n > s.MaxPerCell {
			s.MaxPerCell = n
		}
	}
	if s.Occupied > 0 {
		s.AvgPerOccupied = float64(s.Entities) / float64(s.Occupied)
	}
	return s
}
