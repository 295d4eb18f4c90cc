package layout

import (
	"math"

	"github.com/ChicagoDave/episim/pkg/geo"
)

// ZoneType identifies a functional strip of the city grid.
type ZoneType string

const (
	ZoneHousing   ZoneType = "housing"
	ZoneTransport ZoneType = "transport"
	ZoneWork      ZoneType = "work"
	ZoneHospital  ZoneType = "hospital"
)

// zoneOrder lists the strips left to right with their share of the grid width.
var zoneOrder = []struct {
	zone  ZoneType
	share float64
}{
	{ZoneHousing, 0.4},
	{ZoneTransport, 0.1},
	{ZoneWork, 0.2},
	{ZoneHospital, 0.1},
}

const (
	// HomeSize is the side length of a house in cells.
	HomeSize = 4
	// OfficeSize is the side length of an office in cells.
	OfficeSize = 10
)

// City is the geography agents live in: four full-height strips plus the
// houses and offices carved out of the housing and work strips.
type City struct {
	GridSize      int        `json:"grid_size"`
	HousingArea   geo.Area   `json:"housing_area"`
	TransportArea geo.Area   `json:"transport_area"`
	WorkArea      geo.Area   `json:"work_area"`
	HospitalArea  geo.Area   `json:"hospital_area"`
	Houses        []geo.Area `json:"houses"`
	Offices       []geo.Area `json:"offices"`
}

// Define lays out a city on a gridSize×gridSize grid.
func Define(gridSize int) *City {
	c := &City{GridSize: gridSize}
	x := 0
	for _, z := range zoneOrder {
		width := int(math.Ceil(float64(gridSize) * z.share))
		area := geo.NewArea(geo.Pt(x, 0), geo.Pt(x+width-1, gridSize-1))
		x += width

		switch z.zone {
		case ZoneHousing:
			c.HousingArea = area
		case ZoneTransport:
			c.TransportArea = area
		case ZoneWork:
			c.WorkArea = area
		case ZoneHospital:
			c.HospitalArea = area
		}
	}
	c.Houses = c.HousingArea.Subdivide(HomeSize)
	c.Offices = c.WorkArea.Subdivide(OfficeSize)
	return c
}

// Bounds returns the full grid.
func (c *City) Bounds() geo.Area {
	return geo.NewArea(geo.Pt(0, 0), geo.Pt(c.GridSize-1, c.GridSize-1))
}

// Zone returns the strip of the given type.
func (c *City) Zone(z ZoneType) geo.Area {
	switch z {
	case ZoneTransport:
		return c.TransportArea
	case ZoneWork:
		return c.WorkArea
	case ZoneHospital:
		return c.HospitalArea
	default:
		return c.HousingArea
	}
}

// HouseCapacity is the number of people a single house can hold.
func HouseCapacity() int {
	return HomeSize * HomeSize
}
