// Package census turns local census extracts into households. It reads a
// population table keyed by output area and a YAML file of output area
// boundaries.
package census

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ClassificationTotal is the classification holding an area's total
// population.
const ClassificationTotal = "Total"

// Record is the population of one output area by classification.
type Record struct {
	Code string
	// Classifications keeps the order rows appeared in.
	Classifications []string
	Counts          map[string]int
}

// PopulationSize is the number of people living in the area: the Total
// row if present, otherwise the sum of every classification.
func (r Record) PopulationSize() int {
	if n, ok := r.Counts[ClassificationTotal]; ok {
		return n
	}
	sum := 0
	for _, n := range r.Counts {
		sum += n
	}
	return sum
}

// Table maps area codes to their population records.
type Table map[string]*Record

// LoadTable reads a census population table from a CSV file.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening census table: %w", err)
	}
	defer f.Close()
	return ReadTable(f)
}

// ReadTable parses CSV rows of area_code,classification,count. The first
// row is a header.
func ReadTable(in io.Reader) (Table, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = 3
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("reading census header: %w", err)
	}

	t := make(Table)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading census line %d: %w", line, err)
		}
		count, err := strconv.Atoi(row[2])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("census line %d: invalid count %q", line, row[2])
		}

		code, class := row[0], row[1]
		rec, ok := t[code]
		if !ok {
			rec = &Record{Code: code, Counts: make(map[string]int)}
			t[code] = rec
		}
		if _, dup := rec.Counts[class]; !dup {
			rec.Classifications = append(rec.Classifications, class)
		}
		rec.Counts[class] += count
	}
	return t, nil
}
