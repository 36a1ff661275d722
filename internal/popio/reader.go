// Package popio reads the raw population CSV and writes the
// aggregated cohort dataset.
package popio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/epistat/roadinj/internal/contracts"
)

// ReadPopulations reads raw population records from a pops.csv file.
// The file must have a header with the columns sex, age_start,
// age_end, year, population (any order). Unparseable numeric fields
// are an error; the file is expected to be well-formed.
func ReadPopulations(path string) ([]contracts.PopulationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open population file: %w", err)
	}
	defer f.Close()

	return readPopulations(f)
}

func readPopulations(r io.Reader) ([]contracts.PopulationRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, want := range []string{"sex", "age_start", "age_end", "year", "population"} {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("population file missing column %q", want)
		}
	}

	var records []contracts.PopulationRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		ageStart, err := strconv.ParseFloat(row[idx["age_start"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad age_start %q", line, row[idx["age_start"]])
		}
		ageEnd, err := strconv.ParseFloat(row[idx["age_end"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad age_end %q", line, row[idx["age_end"]])
		}
		year, err := strconv.Atoi(row[idx["year"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad year %q", line, row[idx["year"]])
		}
		population, err := strconv.ParseFloat(row[idx["population"]], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad population %q", line, row[idx["population"]])
		}

		records = append(records, contracts.PopulationRecord{
			Sex:        row[idx["sex"]],
			AgeStart:   ageStart,
			AgeEnd:     ageEnd,
			Year:       year,
			Population: population,
		})
	}

	return records, nil
}
