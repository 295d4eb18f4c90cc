package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/layout"
)

// ValidateCapacity lays out the city for the configured grid and checks
// that it can hold agents citizens.
func ValidateCapacity(c *config.Config, agents int) *Report {
	r := NewReport()
	if c.GridSize <= 0 {
		return r
	}
	city := layout.Define(c.GridSize)

	if len(city.Houses) == 0 || len(city.Offices) == 0 {
		r.AddError(Finding{
			Stage:   StageCapacity,
			Message: fmt.Sprintf("grid has %d houses and %d offices", len(city.Houses), len(city.Offices)),
			Key:     "grid_size",
			Got:     c.GridSize,
			Want:    fmt.Sprintf("large enough for one %dx%d office", layout.OfficeSize, layout.OfficeSize),
			Fixes:   []string{"Increase grid_size"},
		})
		return r
	}

	if capacity := len(city.Houses) * layout.HouseCapacity(); agents > capacity {
		r.AddError(Finding{
			Stage:   StageCapacity,
			Message: fmt.Sprintf("%d citizens do not fit in %d houses of %d", agents, len(city.Houses), layout.HouseCapacity()),
			Key:     "grid_size",
			Got:     agents,
			Want:    fmt.Sprintf("<= %d", capacity),
			Fixes:   []string{"Increase grid_size", "Reduce the population"},
		})
	} else if capacity > 0 {
		load := float64(agents) / float64(capacity)
		r.AddInfo(Finding{
			Stage:   StageCapacity,
			Message: fmt.Sprintf("housing is %.0f%% occupied", load*100),
			Key:     "grid_size",
			Got:     load,
		})
	}

	if a := c.Population.Auto; a != nil {
		stops := int(math.Ceil(float64(a.NumberOfAgents) * (a.PublicTransportPercentage + 0.1) * (a.WorkingPercentage + 0.1)))
		if cells := city.TransportArea.Cells(); stops > cells {
			r.AddError(Finding{
				Stage:   StageCapacity,
				Message: fmt.Sprintf("%d transport stops needed, transport strip has %d cells", stops, cells),
				Key:     "population.auto.public_transport_percentage",
				Got:     stops,
				Want:    fmt.Sprintf("<= %d", cells),
				Fixes:   []string{"Increase grid_size", "Lower public_transport_percentage"},
			})
		}
	}

	beds := layout.HospitalBeds(agents, layout.StaffPercentage, c.Geography.HospitalBedsPercentage)
	if cells := city.HospitalArea.Cells(); beds > cells {
		r.AddWarning(Finding{
			Stage:   StageCapacity,
			Message: fmt.Sprintf("%d hospital cells needed, hospital strip has %d; the full strip is used", beds, cells),
			Key:     "geography.hospital_beds_percentage",
			Got:     beds,
			Want:    fmt.Sprintf("<= %d", cells),
		})
	}

	return r
}
