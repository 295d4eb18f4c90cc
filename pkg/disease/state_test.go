package disease

import "testing"

// fixedSource returns the same draw every time.
type fixedSource struct{ f float64 }

func (s fixedSource) Float64() float64                 { return s.f }
func (s fixedSource) IntN(n int) int                   { return int(s.f * float64(n)) }
func (s fixedSource) Uint64() uint64                   { return uint64(s.f * (1 << 63)) }
func (s fixedSource) Shuffle(n int, swap func(i, j int)) {}

var (
	alwaysYes = fixedSource{0}
	alwaysNo  = fixedSource{0.999999}
)

func covidLike() Disease {
	return Disease{
		RegularTransmissionStartDay:        5,
		HighTransmissionStartDay:           20,
		LastDay:                            40,
		AsymptomaticLastDay:                9,
		MildInfectedLastDay:                12,
		RegularTransmissionRate:            0.025,
		HighTransmissionRate:               0.25,
		DeathRate:                          0.035,
		PercentageAsymptomaticPopulation:   0.3,
		PercentageSevereInfectedPopulation: 0.3,
		ExposedDuration:                    48,
		PreSymptomaticDuration:             48,
	}
}

func TestZeroValueIsSusceptible(t *testing.T) {
	var m StateMachine
	if !m.IsSusceptible() {
		t.Errorf("state = %s, want susceptible", m.State())
	}
}

func TestExposeOnlyFromSusceptible(t *testing.T) {
	var m StateMachine
	m.Expose(10)
	if !m.IsExposed() || m.ExposedAt() != 10 {
		t.Fatalf("expected exposed at 10, got %s at %d", m.State(), m.ExposedAt())
	}
	m.Expose(20)
	if m.ExposedAt() != 10 {
		t.Error("second exposure must not reset the exposure hour")
	}
}

func TestInfectAfterExposedDuration(t *testing.T) {
	d := covidLike()
	var m StateMachine
	m.Expose(100)

	if m.Infect(alwaysNo, 147, &d) {
		t.Fatal("infected before exposed duration elapsed")
	}
	if !m.Infect(alwaysNo, 148, &d) {
		t.Fatal("expected infection once exposed duration elapsed")
	}
	if !m.IsPreSymptomatic() {
		t.Error("symptomatic case should start pre-symptomatic")
	}
	if m.IsSymptomatic() {
		t.Error("pre-symptomatic case should not count as symptomatic")
	}
}

func TestInfectAsymptomatic(t *testing.T) {
	d := covidLike()
	var m StateMachine
	m.Expose(0)
	m.Infect(alwaysYes, 48, &d)
	if !m.IsMildAsymptomatic() {
		t.Errorf("severity = %s, want asymptomatic", m.Severity())
	}
}

func TestChangeInfectionSeverity(t *testing.T) {
	d := covidLike()
	var m StateMachine
	m.Expose(0)
	m.Infect(alwaysNo, 48, &d)

	m.ChangeInfectionSeverity(95, alwaysYes, &d)
	if !m.IsPreSymptomatic() {
		t.Fatal("symptoms presented too early")
	}
	m.ChangeInfectionSeverity(96, alwaysYes, &d)
	if !m.IsInfectedSevere() {
		t.Errorf("severity = %s, want severe", m.Severity())
	}
}

func TestChangeInfectionSeverityMild(t *testing.T) {
	d := covidLike()
	var m StateMachine
	m.Expose(0)
	m.Infect(alwaysNo, 48, &d)
	m.ChangeInfectionSeverity(96, alwaysNo, &d)
	if !m.IsMildSymptomatic() || !m.IsSymptomatic() {
		t.Errorf("severity = %s, want presented mild", m.Severity())
	}
}

func TestNoPreSymptomaticPhase(t *testing.T) {
	d := smallPox()
	var m StateMachine
	m.Expose(5)
	m.Infect(alwaysNo, 5, &d)
	if !m.IsInfectedSevere() {
		t.Errorf("severity = %s, want severe", m.Severity())
	}
}

func TestHospitalize(t *testing.T) {
	d := smallPox()
	var m StateMachine
	m.SetSevere()
	for i := 0; i < 17; i++ {
		m.IncrementInfectionDay()
	}
	if !m.Hospitalize(&d, 0) {
		t.Error("severe case in high window should be hospitalized")
	}
	if m.Hospitalize(&d, -2) {
		t.Error("immunity offset should shift the case back into the regular window")
	}

	var mild StateMachine
	mild.SetMildSymptomatic()
	for i := 0; i < 17; i++ {
		mild.IncrementInfectionDay()
	}
	if mild.Hospitalize(&d, 0) {
		t.Error("mild cases are not hospitalized")
	}
}

func TestDeceaseSevere(t *testing.T) {
	d := smallPox()
	var m StateMachine
	m.SetSevere()
	for i := 0; i < 21; i++ {
		m.IncrementInfectionDay()
	}
	if got := m.Decease(alwaysYes, &d); got != OutcomeNone {
		t.Fatalf("outcome before last day = %d, want none", got)
	}
	m.IncrementInfectionDay()
	if got := m.Decease(alwaysYes, &d); got != OutcomeDeceased {
		t.Fatalf("outcome = %d, want deceased", got)
	}
	if !m.IsDeceased() {
		t.Error("state should be deceased")
	}
}

func TestDeceaseSevereSurvives(t *testing.T) {
	d := smallPox()
	var m StateMachine
	m.SetSevere()
	for i := 0; i < 22; i++ {
		m.IncrementInfectionDay()
	}
	if got := m.Decease(alwaysNo, &d); got != OutcomeRecovered {
		t.Errorf("outcome = %d, want recovered", got)
	}
}

func TestMildRecovers(t *testing.T) {
	d := covidLike()
	var m StateMachine
	m.SetMildSymptomatic()
	for i := 0; i < 12; i++ {
		m.IncrementInfectionDay()
	}
	if got := m.Decease(alwaysYes, &d); got != OutcomeRecovered {
		t.Errorf("outcome = %d, want recovered", got)
	}
}

func TestDeceasedIsTerminal(t *testing.T) {
	d := smallPox()
	var m StateMachine
	m.SetSevere()
	for i := 0; i < 22; i++ {
		m.IncrementInfectionDay()
	}
	m.Decease(alwaysYes, &d)

	m.Expose(1)
	m.Infect(alwaysYes, 1000, &d)
	m.IncrementInfectionDay()
	m.SetMildSymptomatic()
	m.SetSevere()
	if got := m.Decease(alwaysYes, &d); got != OutcomeNone {
		t.Errorf("decease on deceased agent = %d, want none", got)
	}
	if !m.IsDeceased() {
		t.Errorf("state = %s, want deceased", m.State())
	}
}
