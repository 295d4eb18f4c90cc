package agent

import (
	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/layout"
	"github.com/ChicagoDave/episim/pkg/random"
)

// Hours of the daily routine.
const (
	HoursInADay             = 24
	RoutineStartTime        = 0
	SleepStartTime          = 1
	SleepEndTime            = 7
	RoutineTravelStartTime  = 8
	RoutineWorkTime         = 9
	NonWorkingTravelEndTime = 16
	RoutineWorkEndTime      = 17
	RoutineTravelEndTime    = 18
	RoutineEndTime          = 23
)

// QuarantineDays is the length of a hospital shift, and of the rest that
// follows it.
const QuarantineDays = 14

// HospitalStaffPercentage is the share of workers that staff the hospital.
const HospitalStaffPercentage = layout.StaffPercentage

// Snapshot is the frozen view of the grid a citizen reads during an hour.
// Move never mutates the snapshot: it returns where the citizen would land.
type Snapshot interface {
	IsPointInGrid(p geo.Point) bool
	IsCellVacant(p geo.Point) bool
	CitizenAt(p geo.Point) (*Citizen, bool)
	Move(from, to geo.Point) geo.Point
}

// PerformOperation runs one hour of the citizen's routine from cell and
// returns the cell it wants to occupy at the end of the hour.
func (c *Citizen) PerformOperation(cell geo.Point, hour int, city *layout.City, snap Snapshot,
	r random.Source, d *disease.Disease) geo.Point {
	switch h := hour % HoursInADay; {
	case h == RoutineStartTime:
		if c.Health.IsInfected() {
			c.Health.IncrementInfectionDay()
		}
		return c.hospitalize(cell, city.HospitalArea, snap, r, d)
	case h >= SleepStartTime && h <= SleepEndTime:
		if !c.IsHospitalStaff() {
			c.currentArea = c.Home
		}
		return cell
	case h == RoutineEndTime:
		return c.deceased(cell, snap, r, d)
	default:
		return c.performMovements(cell, h, hour, city, snap, r, d)
	}
}

func (c *Citizen) performMovements(cell geo.Point, hourOfDay, hour int, city *layout.City, snap Snapshot,
	r random.Source, d *disease.Disease) geo.Point {
	next := cell

	switch c.workStatus.Kind {
	case Normal, Essential:
		switch hourOfDay {
		case RoutineTravelStartTime, RoutineTravelEndTime:
			if c.UsesPublicTransport {
				next = c.gotoArea(city.TransportArea, snap, cell, r)
				c.currentArea = city.TransportArea
			} else {
				next = c.moveAgentFrom(snap, cell, r)
			}
		case RoutineWorkTime:
			next = c.gotoArea(c.Work, snap, cell, r)
			c.currentArea = c.Work
		case RoutineWorkEndTime:
			next = c.gotoArea(c.Home, snap, cell, r)
			c.currentArea = c.Home
		default:
			next = c.moveAgentFrom(snap, cell, r)
		}

	case HospitalStaff:
		onShift := hour - c.workStatus.ShiftStart
		shift := HoursInADay * QuarantineDays
		if onShift == shift {
			c.workQuarantined = true
			return cell
		}
		if onShift == 2*shift {
			next = c.gotoArea(c.Home, snap, cell, r)
			c.currentArea = c.Home
			c.workStatus.ShiftStart = hour + shift
			return next
		}

		switch hourOfDay {
		case RoutineWorkTime:
			if c.currentArea != city.HospitalArea && c.workStatus.ShiftStart <= hour {
				next = c.gotoArea(city.HospitalArea, snap, cell, r)
				c.currentArea = city.HospitalArea
				c.workStatus.ShiftStart = hour
			}
			c.workQuarantined = false
		case RoutineWorkEndTime:
			c.workQuarantined = true
		default:
			if !c.workQuarantined && c.CanMove() {
				next = c.moveAgentFrom(snap, cell, r)
			}
		}

	default:
		switch hourOfDay {
		case RoutineWorkTime:
			next = c.gotoArea(city.HousingArea, snap, cell, r)
			c.currentArea = city.HousingArea
		case NonWorkingTravelEndTime:
			next = c.gotoArea(c.Home, snap, cell, r)
			c.currentArea = c.Home
		default:
			next = c.moveAgentFrom(snap, cell, r)
		}
	}

	c.updateInfectionDynamics(next, snap, hour, r, d)
	return next
}

func (c *Citizen) updateInfectionDynamics(cell geo.Point, snap Snapshot, hour int, r random.Source, d *disease.Disease) {
	c.updateExposure(cell, snap, hour, r, d)
	if c.Health.IsExposed() {
		c.Health.Infect(r, hour, d)
	}
	if c.Health.IsPreSymptomatic() {
		c.Health.ChangeInfectionSeverity(hour, r, d)
	}
}

// updateExposure combines the transmission chances of every infectious
// neighbour in the current area into one draw, so the outcome does not
// depend on the order neighbours are visited in.
func (c *Citizen) updateExposure(cell geo.Point, snap Snapshot, hour int, r random.Source, d *disease.Disease) {
	if !c.Health.IsSusceptible() || c.workQuarantined || c.vaccinated {
		return
	}

	escape := 1.0
	for _, p := range c.currentArea.Neighbors(cell) {
		if !snap.IsPointInGrid(p) {
			continue
		}
		n, ok := snap.CitizenAt(p)
		if !ok || !n.Health.IsInfected() || n.hospitalized {
			continue
		}
		escape *= 1 - n.TransmissionRate(d)
	}

	if random.Bernoulli(r, 1-escape) {
		c.Health.Expose(hour)
	}
}

// hospitalize admits a severe case to a free bed. The ward is scanned from a
// random offset so that citizens admitted in the same hour spread out.
func (c *Citizen) hospitalize(cell geo.Point, hospital geo.Area, snap Snapshot, r random.Source, d *disease.Disease) geo.Point {
	if !c.Health.IsInfected() || c.hospitalized {
		return cell
	}
	if !c.Health.Hospitalize(d, c.immunity) {
		return cell
	}

	beds := hospital.Cells()
	start := r.IntN(beds)
	for i := 0; i < beds; i++ {
		bed := hospital.PointAt((start + i) % beds)
		if snap.IsCellVacant(bed) {
			c.hospitalized = true
			c.currentArea = hospital
			return snap.Move(cell, bed)
		}
	}
	return cell
}

// deceased ends a run-down infection. Whatever the outcome the citizen is
// discharged and sent home.
func (c *Citizen) deceased(cell geo.Point, snap Snapshot, r random.Source, d *disease.Disease) geo.Point {
	if !c.Health.IsInfected() {
		return cell
	}
	if c.Health.Decease(r, d) == disease.OutcomeNone {
		return cell
	}
	c.hospitalized = false
	c.currentArea = c.Home
	return snap.Move(cell, c.Home.RandomPoint(r))
}

// gotoArea relocates the citizen to a random cell of target. Sick workers
// at the office are let through when heading home.
func (c *Citizen) gotoArea(target geo.Area, snap Snapshot, cell geo.Point, r random.Source) geo.Point {
	override := false
	switch c.workStatus.Kind {
	case Normal, Essential:
		if c.Work.Contains(cell) && target == c.Home &&
			(c.Health.IsMildSymptomatic() || c.Health.IsInfectedSevere()) {
			override = true
		}
	}
	if !c.CanMove() && !override {
		return cell
	}

	if c.Working {
		next := target.RandomPoint(r)
		if !snap.IsCellVacant(next) {
			next = cell
		}
		return snap.Move(cell, next)
	}
	return c.moveAgentFrom(snap, cell, r)
}

// moveAgentFrom steps to a uniformly random vacant neighbour inside the
// current area, staying put when there is none.
func (c *Citizen) moveAgentFrom(snap Snapshot, cell geo.Point, r random.Source) geo.Point {
	if !c.CanMove() {
		return cell
	}
	from := cell
	if !c.currentArea.Contains(cell) {
		from = c.currentArea.RandomPoint(r)
	}

	var free [8]geo.Point
	n := 0
	for _, p := range c.currentArea.Neighbors(from) {
		if snap.IsPointInGrid(p) && snap.IsCellVacant(p) {
			free[n] = p
			n++
		}
	}
	if n == 0 {
		return cell
	}
	return snap.Move(cell, free[r.IntN(n)])
}
