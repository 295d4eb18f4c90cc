package intervention

import (
	"github.com/ChicagoDave/episim/pkg/config"
	"github.com/ChicagoDave/episim/pkg/events"
	"github.com/ChicagoDave/episim/pkg/layout"
)

// HospitalExpansion builds a bigger hospital, once, when the wards fill up.
type HospitalExpansion struct {
	cfg     config.BuildNewHospitalConfig
	applied bool
}

func NewHospitalExpansion(cfg config.BuildNewHospitalConfig) *HospitalExpansion {
	return &HospitalExpansion{cfg: cfg}
}

// ShouldApply reports whether the hospitalized share of the hospital's
// cells has reached the configured capacity fraction.
func (h *HospitalExpansion) ShouldApply(c events.Counts, city *layout.City) bool {
	if h.applied {
		return false
	}
	capacity := h.cfg.CapacityFraction * float64(city.HospitalArea.Cells())
	return c.Hospitalized > 0 && float64(c.Hospitalized) >= capacity
}

// Apply grows the hospital.
func (h *HospitalExpansion) Apply(city *layout.City) {
	city.IncreaseHospitalSize()
	h.applied = true
}
