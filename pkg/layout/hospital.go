package layout

import (
	"math"

	"github.com/ChicagoDave/episim/pkg/geo"
)

// StaffPercentage is the share of the population that works in the
// hospital and needs a cell there.
const StaffPercentage = 0.002

// HospitalBeds returns the number of cells needed for patients and staff.
func HospitalBeds(agents int, staffPct, bedsPct float64) int {
	return int(math.Ceil(float64(agents)*bedsPct + float64(agents)*staffPct))
}

// ResizeHospital shrinks the hospital strip to the rows needed for the
// population's beds and staff. It reports false and leaves the hospital
// untouched when the strip cannot hold that many cells.
func (c *City) ResizeHospital(agents int, staffPct, bedsPct float64) bool {
	beds := HospitalBeds(agents, staffPct, bedsPct)
	h := c.HospitalArea
	if beds > h.Cells() || beds <= 0 {
		return false
	}
	rows := (beds + h.Width() - 1) / h.Width()
	c.HospitalArea = geo.NewArea(h.Start, geo.Pt(h.End.X, h.Start.Y+rows-1))
	return true
}

// IncreaseHospitalSize grows the hospital out to the bottom-right corner of
// the grid, taking over the unused strip to its right.
func (c *City) IncreaseHospitalSize() {
	c.HospitalArea = geo.NewArea(c.HospitalArea.Start, geo.Pt(c.GridSize-1, c.GridSize-1))
}
