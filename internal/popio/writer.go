package popio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/epistat/roadinj/internal/contracts"
)

// WriteCohorts writes the aggregated cohort dataset, overwriting any
// prior file. The write goes to a temp file in the target directory
// and is renamed into place, so a crash never leaves a half-written
// dataset behind.
func WriteCohorts(path string, table *contracts.CohortTable) error {
	return writeAtomic(path, table, nil)
}

// WriteDataset writes the cohort dataset with the Stage 2 outcome
// columns appended.
func WriteDataset(path string, table *contracts.CohortTable, outcomes *contracts.GeneratedOutcomes) error {
	if outcomes != nil && outcomes.Len() != table.Len() {
		return fmt.Errorf("outcomes have %d rows for %d cohorts", outcomes.Len(), table.Len())
	}
	return writeAtomic(path, table, outcomes)
}

func writeAtomic(path string, table *contracts.CohortTable, outcomes *contracts.GeneratedOutcomes) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := writeCSV(tmp, table, outcomes); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func writeCSV(f *os.File, table *contracts.CohortTable, outcomes *contracts.GeneratedOutcomes) error {
	w := csv.NewWriter(f)

	header := append([]string{}, contracts.Columns...)
	if outcomes != nil {
		header = append(header, "p_synthetic", "lambda_synthetic")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range table.Rows {
		fields := []string{
			formatFloat(row.Age),
			strconv.Itoa(row.Sex),
			strconv.Itoa(row.Year),
			formatFloat(row.SampleSize),
			formatFloat(row.Seatbelt),
			formatFloat(row.Offset),
			strconv.Itoa(int(row.Intercept)),
		}
		if outcomes != nil {
			fields = append(fields,
				formatFloat(outcomes.P[i]),
				formatFloat(outcomes.Lambda[i]),
			)
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
