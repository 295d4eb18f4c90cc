package geo

import (
	"math"
	"testing"

	"github.com/ChicagoDave/episim/pkg/random"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func testArea() Area {
	return NewArea(Pt(0, 0), Pt(4, 4))
}

func assertUnique(t *testing.T, pts []Point) {
	t.Helper()
	seen := make(map[Point]bool, len(pts))
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("duplicate point %s", p)
		}
		seen[p] = true
	}
}

// --- Point tests ---

func TestPointAdd(t *testing.T) {
	if got := Pt(1, 1).Add(Pt(1, 1)); got != Pt(2, 2) {
		t.Errorf("got %s, want (2,2)", got)
	}
	if got := Pt(1, 1).Sub(Pt(1, 1)); got != Pt(0, 0) {
		t.Errorf("got %s, want (0,0)", got)
	}
}

func TestPointNeighbors(t *testing.T) {
	got := Pt(1, 1).Neighbors()
	want := [8]Point{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {2, 1},
		{0, 2}, {1, 2}, {2, 2},
	}
	if got != want {
		t.Errorf("neighbors = %v, want %v", got, want)
	}
}

// --- Area tests ---

func TestAreaCells(t *testing.T) {
	tests := []struct {
		area Area
		want int
	}{
		{testArea(), 25},
		{NewArea(Pt(0, 0), Pt(0, 0)), 1},
		{NewArea(Pt(0, 0), Pt(1, 1)), 4},
		{NewArea(Pt(3, 7), Pt(5, 7)), 3},
	}
	for _, tt := range tests {
		if got := tt.area.Cells(); got != tt.want {
			t.Errorf("%s.Cells() = %d, want %d", tt.area, got, tt.want)
		}
	}
}

func TestNewAreaNormalises(t *testing.T) {
	a := NewArea(Pt(4, 4), Pt(0, 0))
	if a.Start != Pt(0, 0) || a.End != Pt(4, 4) {
		t.Errorf("got %s, want [(0,0)..(4,4)]", a)
	}
}

func TestAreaContains(t *testing.T) {
	a := testArea()
	if !a.Contains(Pt(2, 3)) {
		t.Error("expected (2,3) inside")
	}
	if !a.Contains(Pt(4, 4)) {
		t.Error("end corner is inclusive")
	}
	if a.Contains(Pt(20, 3)) {
		t.Error("expected (20,3) outside")
	}
}

func TestAreaNeighborsFiltered(t *testing.T) {
	a := testArea()
	n := a.Neighbors(Pt(4, 5))
	if len(n) != 2 {
		t.Fatalf("expected 2 neighbors inside area, got %d: %v", len(n), n)
	}
	for _, p := range n {
		if !a.Contains(p) {
			t.Errorf("neighbor %s outside area", p)
		}
	}
	if len(a.Neighbors(Pt(2, 2))) != 8 {
		t.Error("interior point should have 8 neighbors")
	}
}

func TestAreaPoints(t *testing.T) {
	got := NewArea(Pt(1, 1), Pt(2, 2)).Points()
	want := []Point{{1, 1}, {2, 1}, {1, 2}, {2, 2}}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAreaPointAt(t *testing.T) {
	a := NewArea(Pt(3, 7), Pt(6, 9))
	for i, want := range a.Points() {
		if got := a.PointAt(i); got != want {
			t.Errorf("PointAt(%d) = %s, want %s", i, got, want)
		}
	}
}

func TestRandomPoint(t *testing.T) {
	r := random.New(3)
	a := testArea()
	for i := 0; i < 100; i++ {
		if p := a.RandomPoint(r); !a.Contains(p) {
			t.Fatalf("random point %s outside area", p)
		}
	}
}

func TestRandomPoints(t *testing.T) {
	r := random.New(5)
	a := testArea()

	for _, n := range []int{0, 5, 13, 25} {
		pts, err := a.RandomPoints(n, r)
		if err != nil {
			t.Fatalf("RandomPoints(%d): %v", n, err)
		}
		if len(pts) != n {
			t.Errorf("RandomPoints(%d) returned %d points", n, len(pts))
		}
		assertUnique(t, pts)
		for _, p := range pts {
			if !a.Contains(p) {
				t.Errorf("point %s outside area", p)
			}
		}
	}

	if _, err := a.RandomPoints(50, r); err == nil {
		t.Error("expected error when requesting more points than cells")
	}
}

func TestSubdivide(t *testing.T) {
	buildings := NewArea(Pt(10, 0), Pt(21, 10)).Subdivide(3)

	if len(buildings) != 12 {
		t.Fatalf("expected 12 buildings, got %d", len(buildings))
	}
	if buildings[0] != NewArea(Pt(10, 0), Pt(12, 2)) {
		t.Errorf("first building = %s", buildings[0])
	}
	if !buildings[1].Contains(Pt(13, 0)) || buildings[1].Contains(Pt(12, 0)) {
		t.Error("second building should start at x=13")
	}
	if buildings[5] != NewArea(Pt(13, 3), Pt(15, 5)) {
		t.Errorf("sixth building = %s", buildings[5])
	}
	if last := buildings[len(buildings)-1]; last != NewArea(Pt(19, 6), Pt(21, 8)) {
		t.Errorf("last building = %s", last)
	}
}

// --- Polygon tests ---

func TestPolygonAreaSquare(t *testing.T) {
	sq := NewPolygon(P2(0, 0), P2(10, 0), P2(10, 10), P2(0, 10))
	if !approxEqual(sq.Area(), 100, tolerance) {
		t.Errorf("expected area 100, got %f", sq.Area())
	}
}

func TestPolygonContains(t *testing.T) {
	sq := NewPolygon(P2(0, 0), P2(10, 0), P2(10, 10), P2(0, 10))
	if !sq.Contains(P2(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.Contains(P2(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	p := NewPolygon(P2(-5, -3), P2(10, 0), P2(7, 12))
	mn, mx := p.BoundingBox()
	if !approxEqual(mn.X, -5, tolerance) || !approxEqual(mn.Z, -3, tolerance) {
		t.Errorf("expected min (-5,-3), got (%f,%f)", mn.X, mn.Z)
	}
	if !approxEqual(mx.X, 10, tolerance) || !approxEqual(mx.Z, 12, tolerance) {
		t.Errorf("expected max (10,12), got (%f,%f)", mx.X, mx.Z)
	}
}
