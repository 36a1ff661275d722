package popio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/epistat/roadinj/internal/contracts"
)

// ReadCohorts reads an aggregated cohort dataset back from disk, so
// Stage 2 can run on a previously written roadInj_data.csv.
// Extra columns (earlier outcome runs) are ignored.
func ReadCohorts(path string) (*contracts.CohortTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cohort file: %w", err)
	}
	defer f.Close()

	return readCohorts(f)
}

func readCohorts(r io.Reader) (*contracts.CohortTable, error) {
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
	for _, want := range contracts.Columns {
		if _, ok := idx[want]; !ok {
			return nil, fmt.Errorf("cohort file missing column %q", want)
		}
	}

	table := &contracts.CohortTable{}
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

		parsed, err := parseCohortRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		table.Rows = append(table.Rows, parsed)
	}

	return table, nil
}

func parseCohortRow(row []string, idx map[string]int) (contracts.CohortRow, error) {
	var out contracts.CohortRow

	field := func(col string) string { return row[idx[col]] }

	floats := []struct {
		col  string
		dest *float64
	}{
		{contracts.ColAge, &out.Age},
		{contracts.ColSampleSize, &out.SampleSize},
		{contracts.ColSeatbelt, &out.Seatbelt},
		{contracts.ColOffset, &out.Offset},
		{contracts.ColIntercept, &out.Intercept},
	}
	for _, f := range floats {
		v, err := strconv.ParseFloat(field(f.col), 64)
		if err != nil {
			return out, fmt.Errorf("bad %s %q", f.col, field(f.col))
		}
		*f.dest = v
	}

	sex, err := strconv.Atoi(field(contracts.ColSex))
	if err != nil {
		return out, fmt.Errorf("bad sex %q", field(contracts.ColSex))
	}
	out.Sex = sex

	year, err := strconv.Atoi(field(contracts.ColYear))
	if err != nil {
		return out, fmt.Errorf("bad year %q", field(contracts.ColYear))
	}
	out.Year = year

	return out, nil
}
