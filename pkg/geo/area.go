package geo

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/episim/pkg/random"
)

// ErrNotEnoughCells is returned when an area cannot hold the requested points.
var ErrNotEnoughCells = errors.New("not enough cells in area")

// Area is an axis-aligned rectangle of cells. Start and End are both inclusive.
type Area struct {
	Start Point `json:"start_offset"`
	End   Point `json:"end_offset"`
}

// NewArea creates an area, normalising the corners so Start <= End.
func NewArea(start, end Point) Area {
	if start.X > end.X {
		start.X, end.X = end.X, start.X
	}
	if start.Y > end.Y {
		start.Y, end.Y = end.Y, start.Y
	}
	return Area{Start: start, End: end}
}

// Width returns the number of columns.
func (a Area) Width() int {
	return abs(a.End.X-a.Start.X) + 1
}

// Height returns the number of rows.
func (a Area) Height() int {
	return abs(a.End.Y-a.Start.Y) + 1
}

// Cells returns the number of cells in the area.
func (a Area) Cells() int {
	return a.Width() * a.Height()
}

// Contains reports whether p lies inside the area.
func (a Area) Contains(p Point) bool {
	return a.Start.X <= p.X && p.X <= a.End.X &&
		a.Start.Y <= p.Y && p.Y <= a.End.Y
}

// Neighbors returns the 8-neighbours of p that lie inside the area,
// in the order of Point.Neighbors.
func (a Area) Neighbors(p Point) []Point {
	out := make([]Point, 0, 8)
	for _, n := range p.Neighbors() {
		if a.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Points returns every cell of the area, row by row.
func (a Area) Points() []Point {
	pts := make([]Point, 0, a.Cells())
	for y := a.Start.Y; y <= a.End.Y; y++ {
		for x := a.Start.X; x <= a.End.X; x++ {
			pts = append(pts, Point{x, y})
		}
	}
	return pts
}

// PointAt returns the i-th cell of the area in the order of Points.
func (a Area) PointAt(i int) Point {
	w := a.Width()
	return Point{a.Start.X + i%w, a.Start.Y + i/w}
}

// RandomPoint returns a uniformly chosen cell of the area.
func (a Area) RandomPoint(r random.Source) Point {
	return Point{
		X: a.Start.X + r.IntN(a.Width()),
		Y: a.Start.Y + r.IntN(a.Height()),
	}
}

// RandomPoints returns n distinct cells of the area.
func (a Area) RandomPoints(n int, r random.Source) ([]Point, error) {
	cells := a.Cells()
	if n > cells {
		return nil, fmt.Errorf("%w: %d cells in %s, %d requested", ErrNotEnoughCells, cells, a, n)
	}

	// Rejection sampling stalls when the area is nearly full, so fall back to
	// shuffling every cell.
	if cells < n*2 {
		pts := a.Points()
		r.Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })
		return pts[:n], nil
	}

	pts := make([]Point, 0, n)
	seen := make(map[Point]struct{}, n)
	for len(pts) < n {
		p := a.RandomPoint(r)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pts = append(pts, p)
	}
	return pts, nil
}

// Subdivide splits the area into size×size squares laid out row by row.
// Cells left over at the right and bottom edges are not covered.
func (a Area) Subdivide(size int) []Area {
	if size <= 0 {
		return nil
	}
	across := a.Width() / size
	down := a.Height() / size

	areas := make([]Area, 0, across*down)
	for row := 0; row < down; row++ {
		for col := 0; col < across; col++ {
			start := Point{a.Start.X + col*size, a.Start.Y + row*size}
			areas = append(areas, Area{Start: start, End: Point{start.X + size - 1, start.Y + size - 1}})
		}
	}
	return areas
}

func (a Area) String() string {
	return fmt.Sprintf("[%s..%s]", a.Start, a.End)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
