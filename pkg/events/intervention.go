package events

// Intervention names, as reported in intervention-applied events.
const (
	Vaccination       = "vaccination"
	Lockdown          = "lockdown"
	HospitalExpansion = "build_new_hospital"
)

// Intervention describes one intervention state transition.
type Intervention struct {
	Name   string         `json:"intervention"`
	Hour   int            `json:"hour"`
	Detail map[string]any `json:"data,omitempty"`
}
