package census

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/episim/pkg/geo"
)

// HouseholdSize is the number of people generated per household.
const HouseholdSize = 4

// ErrMissingCensusData is returned when an area in the geography has no
// row in the census table.
var ErrMissingCensusData = errors.New("area missing from census data")

// Boundary is the outline of one output area.
type Boundary struct {
	Code    string       `yaml:"code"`
	Outline [][]float64 `yaml:"boundary"`
}

// Polygon converts the outline into a polygon. Vertices with fewer than two
// coordinates are skipped.
func (b Boundary) Polygon() geo.Polygon {
	pts := make([]geo.Point2D, 0, len(b.Outline))
	for _, v := range b.Outline {
		if len(v) < 2 {
			continue
		}
		pts = append(pts, geo.P2(v[0], v[1]))
	}
	return geo.NewPolygon(pts...)
}

// LoadGeography reads output area boundaries from a YAML list.
func LoadGeography(path string) ([]Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geography file: %w", err)
	}
	var areas []Boundary
	if err := yaml.Unmarshal(data, &areas); err != nil {
		return nil, fmt.Errorf("parsing geography YAML: %w", err)
	}
	return areas, nil
}

// Household is a group of people sharing a house.
type Household struct {
	Area           string `json:"area"`
	Classification string `json:"classification"`
	Size           int    `json:"size"`
}

// OutputArea is one census area and the households generated for it.
type OutputArea struct {
	Code       string
	Polygon    geo.Polygon
	Population int
	Households []Household
}

// BuildOutputAreas generates the households of every area in the
// geography, sorted by area code.
func BuildOutputAreas(boundaries []Boundary, table Table) ([]OutputArea, error) {
	areas := make([]OutputArea, 0, len(boundaries))
	for _, b := range boundaries {
		rec, ok := table[b.Code]
		if !ok {
			return nil, fmt.Errorf("output area %s: %w", b.Code, ErrMissingCensusData)
		}
		areas = append(areas, OutputArea{
			Code:       b.Code,
			Polygon:    b.Polygon(),
			Population: rec.PopulationSize(),
			Households: households(rec),
		})
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].Code < areas[j].Code })
	return areas, nil
}

// households splits each classification's population into households of
// HouseholdSize, the last one taking the remainder. The Total row is only
// used when it is the area's single classification.
func households(rec *Record) []Household {
	var out []Household
	for _, class := range rec.Classifications {
		if class == ClassificationTotal && len(rec.Classifications) > 1 {
			continue
		}
		for left := rec.Counts[class]; left > 0; left -= HouseholdSize {
			out = append(out, Household{Area: rec.Code, Classification: class, Size: min(left, HouseholdSize)})
		}
	}
	return out
}

// HouseholdSizes flattens the households of every area in order.
func HouseholdSizes(areas []OutputArea) []int {
	var sizes []int
	for _, a := range areas {
		for _, h := range a.Households {
			sizes = append(sizes, h.Size)
		}
	}
	return sizes
}
