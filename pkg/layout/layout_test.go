package layout

import (
	"encoding/json"
	"testing"

	"github.com/ChicagoDave/episim/pkg/geo"
)

func TestDefine(t *testing.T) {
	c := Define(100)

	tests := []struct {
		zone ZoneType
		want geo.Area
	}{
		{ZoneHousing, geo.NewArea(geo.Pt(0, 0), geo.Pt(39, 99))},
		{ZoneTransport, geo.NewArea(geo.Pt(40, 0), geo.Pt(49, 99))},
		{ZoneWork, geo.NewArea(geo.Pt(50, 0), geo.Pt(69, 99))},
		{ZoneHospital, geo.NewArea(geo.Pt(70, 0), geo.Pt(79, 99))},
	}
	for _, tt := range tests {
		if got := c.Zone(tt.zone); got != tt.want {
			t.Errorf("%s = %s, want %s", tt.zone, got, tt.want)
		}
	}

	if len(c.Houses) != 10*25 {
		t.Errorf("houses = %d, want 250", len(c.Houses))
	}
	if len(c.Offices) != 2*10 {
		t.Errorf("offices = %d, want 20", len(c.Offices))
	}
	for _, h := range c.Houses {
		if !c.HousingArea.Contains(h.Start) || !c.HousingArea.Contains(h.End) {
			t.Fatalf("house %s outside housing area", h)
		}
	}
}

func TestResizeHospital(t *testing.T) {
	c := Define(100)
	if !c.ResizeHospital(1000, 0.02, 0.01) {
		t.Fatal("expected hospital to be resized")
	}
	want := geo.NewArea(geo.Pt(70, 0), geo.Pt(79, 2))
	if c.HospitalArea != want {
		t.Errorf("hospital = %s, want %s", c.HospitalArea, want)
	}
	if c.HospitalArea.Cells() < HospitalBeds(1000, 0.02, 0.01) {
		t.Error("resized hospital must hold every bed")
	}
}

func TestResizeHospitalTooLarge(t *testing.T) {
	c := Define(100)
	if c.ResizeHospital(50000, 0.02, 0.01) {
		t.Error("expected resize to be refused")
	}
	want := geo.NewArea(geo.Pt(70, 0), geo.Pt(79, 99))
	if c.HospitalArea != want {
		t.Errorf("hospital = %s, want %s", c.HospitalArea, want)
	}
}

func TestIncreaseHospitalSize(t *testing.T) {
	c := Define(100)
	c.ResizeHospital(1000, 0.02, 0.01)
	c.IncreaseHospitalSize()
	want := geo.NewArea(geo.Pt(70, 0), geo.Pt(99, 99))
	if c.HospitalArea != want {
		t.Errorf("hospital = %s, want %s", c.HospitalArea, want)
	}
}

func TestCitySerializes(t *testing.T) {
	data, err := json.Marshal(Define(75))
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"grid_size", "housing_area", "work_area", "transport_area", "hospital_area", "houses", "offices"} {
		if _, ok := fields[k]; !ok {
			t.Errorf("missing key %q", k)
		}
	}
}
