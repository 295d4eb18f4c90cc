// Package grid implements the spatial occupancy index. Cells hold the arena
// index of their occupant, never the agent itself, and hold at most one.
package grid

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/episim/pkg/geo"
)

var (
	ErrOutOfGrid = errors.New("point outside grid")
	ErrOccupied  = errors.New("cell already occupied")
)

const vacant int32 = -1

// Grid maps cells inside a bounding area to agent indices.
type Grid struct {
	bounds     geo.Area
	width      int
	cells      []int32
	population int
}

// New creates an empty grid covering bounds.
func New(bounds geo.Area) *Grid {
	g := &Grid{
		bounds: bounds,
		width:  bounds.Width(),
		cells:  make([]int32, bounds.Cells()),
	}
	g.Clear()
	return g
}

// Bounds returns the area covered by the grid.
func (g *Grid) Bounds() geo.Area {
	return g.bounds
}

// Population returns the number of occupied cells.
func (g *Grid) Population() int {
	return g.population
}

// IsPointInGrid reports whether p lies inside the grid bounds.
func (g *Grid) IsPointInGrid(p geo.Point) bool {
	return g.bounds.Contains(p)
}

// IsCellVacant reports whether p is inside the grid and unoccupied.
func (g *Grid) IsCellVacant(p geo.Point) bool {
	if !g.IsPointInGrid(p) {
		return false
	}
	return g.cells[g.offset(p)] == vacant
}

// AgentFor returns the index of the agent occupying p.
func (g *Grid) AgentFor(p geo.Point) (int, bool) {
	if !g.IsPointInGrid(p) {
		return 0, false
	}
	idx := g.cells[g.offset(p)]
	if idx == vacant {
		return 0, false
	}
	return int(idx), true
}

// Place puts agent idx on p.
func (g *Grid) Place(p geo.Point, idx int) error {
	if !g.IsPointInGrid(p) {
		return fmt.Errorf("placing agent %d at %s: %w", idx, p, ErrOutOfGrid)
	}
	off := g.offset(p)
	if g.cells[off] != vacant {
		return fmt.Errorf("placing agent %d at %s: %w (agent %d)", idx, p, ErrOccupied, g.cells[off])
	}
	g.cells[off] = int32(idx)
	g.population++
	return nil
}

// Destination returns where an agent at from would end up if it tried to
// move to to: to when it is inside the grid and vacant, from otherwise.
// The grid is not modified.
func (g *Grid) Destination(from, to geo.Point) geo.Point {
	if from == to || !g.IsCellVacant(to) {
		return from
	}
	return to
}

// Move relocates the occupant of from to to and returns its new cell.
// A blocked move is not an error: the occupant stays and from is returned.
func (g *Grid) Move(from, to geo.Point) geo.Point {
	dest := g.Destination(from, to)
	if dest == from {
		return from
	}
	idx, ok := g.AgentFor(from)
	if !ok {
		return from
	}
	g.cells[g.offset(from)] = vacant
	g.cells[g.offset(dest)] = int32(idx)
	return dest
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = vacant
	}
	g.population = 0
}

func (g *Grid) offset(p geo.Point) int {
	return (p.Y-g.bounds.Start.Y)*g.width + (p.X - g.bounds.Start.X)
}
