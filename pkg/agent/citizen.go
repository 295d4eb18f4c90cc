// Package agent implements the citizen automaton: one simulated person's
// hourly routine of movement, exposure and disease progression.
package agent

import (
	"github.com/google/uuid"

	"github.com/ChicagoDave/episim/pkg/disease"
	"github.com/ChicagoDave/episim/pkg/geo"
	"github.com/ChicagoDave/episim/pkg/random"
)

// WorkKind classifies what a citizen does during working hours.
type WorkKind int

const (
	NotApplicable WorkKind = iota
	Normal
	Essential
	HospitalStaff
)

func (k WorkKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Essential:
		return "essential"
	case HospitalStaff:
		return "hospital_staff"
	default:
		return "not_applicable"
	}
}

// WorkStatus is a citizen's working role. ShiftStart is the hour the
// current shift began and is only meaningful for HospitalStaff.
type WorkStatus struct {
	Kind       WorkKind `json:"kind"`
	ShiftStart int      `json:"shift_start,omitempty"`
}

// immunityRange is the set of offsets a citizen's immunity is drawn from.
// It shifts which day of the infection the transmission rate is read at.
var immunityRange = [...]int{-4, -3, -2, -1, 0, 1, 2, 3, 4}

// Citizen is one simulated person. Citizens are owned by the driver's
// arena and referenced from the grid by index.
type Citizen struct {
	ID                  uuid.UUID            `json:"id"`
	Home                geo.Area             `json:"home_location"`
	Work                geo.Area             `json:"work_location"`
	Transport           geo.Point            `json:"transport_location"`
	UsesPublicTransport bool                 `json:"uses_public_transport"`
	Working             bool                 `json:"working"`
	Health              disease.StateMachine `json:"-"`

	immunity        int
	vaccinated      bool
	hospitalized    bool
	isolated        bool
	workQuarantined bool
	currentArea     geo.Area
	workStatus      WorkStatus
}

// New creates a susceptible citizen at home with a freshly drawn identity
// and immunity offset.
func New(home, work geo.Area, transport geo.Point, usesPublicTransport, working bool,
	status WorkStatus, r random.Source) Citizen {
	return Citizen{
		ID:                  random.UUID(r),
		Home:                home,
		Work:                work,
		Transport:           transport,
		UsesPublicTransport: usesPublicTransport,
		Working:             working,
		immunity:            immunityRange[r.IntN(len(immunityRange))],
		currentArea:         home,
		workStatus:          status,
	}
}

// deriveWorkStatus draws the role of a newly created citizen. A small
// share of the working population staffs the hospital.
func deriveWorkStatus(working bool, r random.Source) WorkStatus {
	if !working {
		return WorkStatus{Kind: NotApplicable}
	}
	if random.Bernoulli(r, HospitalStaffPercentage) {
		return WorkStatus{Kind: HospitalStaff, ShiftStart: RoutineWorkTime}
	}
	return WorkStatus{Kind: Normal}
}

// Immunity returns the offset, in days, added to the infection day when
// reading the disease's transmission windows.
func (c *Citizen) Immunity() int { return c.immunity }

// IsVaccinated reports whether the citizen is protected from exposure.
func (c *Citizen) IsVaccinated() bool { return c.vaccinated }

// IsHospitalized reports whether the citizen occupies a hospital bed.
func (c *Citizen) IsHospitalized() bool { return c.hospitalized }

// IsIsolated reports whether a lockdown keeps the citizen in place.
func (c *Citizen) IsIsolated() bool { return c.isolated }

// IsWorkQuarantined reports whether hospital staff are off shift and shielded
// from exposure.
func (c *Citizen) IsWorkQuarantined() bool { return c.workQuarantined }

// CurrentArea returns the area the citizen moves and is exposed within.
func (c *Citizen) CurrentArea() geo.Area { return c.currentArea }

// WorkStatus returns the citizen's role and, for hospital staff, shift.
func (c *Citizen) WorkStatus() WorkStatus { return c.workStatus }

// IsEssentialWorker reports whether the citizen keeps working in a lockdown.
func (c *Citizen) IsEssentialWorker() bool { return c.workStatus.Kind == Essential }

// IsHospitalStaff reports whether the citizen works shifts at the hospital.
func (c *Citizen) IsHospitalStaff() bool { return c.workStatus.Kind == HospitalStaff }

// SetVaccination marks the citizen vaccinated or not. Vaccination does not
// change an exposure or infection already under way.
func (c *Citizen) SetVaccination(v bool) { c.vaccinated = v }

// SetIsolation confines the citizen to its cell, or releases it.
func (c *Citizen) SetIsolation(isolated bool) { c.isolated = isolated }

// CanMove reports whether the citizen may leave its cell this hour.
func (c *Citizen) CanMove() bool {
	return !(c.Health.IsSymptomatic() || c.hospitalized || c.Health.IsDeceased() || c.isolated)
}

// TransmissionRate is the chance this citizen infects one neighbour this
// hour, read at its infection day shifted by its immunity.
func (c *Citizen) TransmissionRate(d *disease.Disease) float64 {
	return d.CurrentTransmissionRate(c.Health.InfectionDay() + c.immunity)
}

// AssignEssentialWorker promotes a normal worker to essential with the
// given probability. Other roles are left alone.
func (c *Citizen) AssignEssentialWorker(pct float64, r random.Source) {
	if c.workStatus.Kind == Normal && random.Bernoulli(r, pct) {
		c.workStatus = WorkStatus{Kind: Essential}
	}
}

// UndoAdmission reverts a hospital admission made this hour when the
// move into the ward was lost to another citizen. prev is the citizen as it
// was at the start of the hour. The admission is retried the next day.
func (c *Citizen) UndoAdmission(prev *Citizen) {
	if c.hospitalized && !prev.hospitalized {
		c.hospitalized = false
		c.currentArea = prev.currentArea
	}
}
