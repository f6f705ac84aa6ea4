package main

// SpatialGrid buckets entity indexes by cell on the XZ plane for broad-phase queries.
// The grid covers [-halfExtent, halfExtent] on both axes; points outside land in edge cells.
type SpatialGrid struct {
	cellSize   float64
	halfExtent float64
	cols       int
	cells      [][]int
}

// NewSpatialGrid creates a grid covering the square of the given half extent
func NewSpatialGrid(halfExtent, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(2*halfExtent/cellSize) + 1
	if cols < 1 {
		cols = 1
	}
	return &SpatialGrid{
		cellSize:   cellSize,
		halfExtent: halfExtent,
		cols:       cols,
		cells:      make([][]int, cols*cols),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) cellCoord(v float64) int {
	c := int((v + g.halfExtent) / g.cellSize)
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

// Insert adds an index at the given position
func (g *SpatialGrid) Insert(x, z float64, idx int) {
	i := g.cellCoord(z)*g.cols + g.cellCoord(x)
	g.cells[i] = append(g.cells[i], idx)
}

// QueryBuf appends the indexes in every cell overlapping the square of the
// given radius around (x, z) to buf and returns the extended slice
func (g *SpatialGrid) QueryBuf(x, z, radius float64, buf []int) []int {
	minCX, maxCX := g.cellCoord(x-radius), g.cellCoord(x+radius)
	minCZ, maxCZ := g.cellCoord(z-radius), g.cellCoord(z+radius)
	for cz := minCZ; cz <= maxCZ; cz++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cz*g.cols+cx]...)
		}
	}
	return buf
}
