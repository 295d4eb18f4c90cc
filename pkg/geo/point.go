package geo

import "fmt"

// Point is a cell coordinate on the simulation grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is a shorthand constructor for Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// neighborOffsets lists the 8 surrounding cells row by row, top to bottom.
var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors returns the 8 points surrounding p in a fixed order.
// It does not check that they belong to any grid or area.
func (p Point) Neighbors() [8]Point {
	var out [8]Point
	for i, o := range neighborOffsets {
		out[i] = p.Add(o)
	}
	return out
}

// Point2D is a continuous coordinate, used for census boundary shapes.
type Point2D struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// P2 is a shorthand constructor for Point2D.
func P2(x, z float64) Point2D {
	return Point2D{X: x, Z: z}
}
