package fetch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/epistat/roadinj/internal/contracts"
)

// popHeaders are the table headings we accept, normalized to the
// pops.csv column names.
var popHeaders = map[string]string{
	"sex":        "sex",
	"age start":  "age_start",
	"age_start":  "age_start",
	"age end":    "age_end",
	"age_end":    "age_end",
	"year":       "year",
	"population": "population",
}

// ParsePopulationHTML extracts population records from the first
// table on the page whose header row carries the expected columns.
func ParsePopulationHTML(html string) ([]contracts.PopulationRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var records []contracts.PopulationRecord
	var parseErr error
	found := false

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		idx := headerIndex(table)
		if idx == nil {
			return true // not a population table, keep looking
		}
		found = true

		table.Find("tr").EachWithBreak(func(rowNum int, tr *goquery.Selection) bool {
			cells := tr.Find("td")
			if cells.Length() == 0 {
				return true // header row
			}

			rec, err := parseRow(cells, idx)
			if err != nil {
				parseErr = fmt.Errorf("table row %d: %w", rowNum, err)
				return false
			}
			records = append(records, rec)
			return true
		})
		return false // only the first matching table
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if !found {
		return nil, fmt.Errorf("no population table found")
	}
	return records, nil
}

// headerIndex maps pops.csv column names to cell positions, or nil if
// the table's header does not cover all required columns.
func headerIndex(table *goquery.Selection) map[string]int {
	idx := make(map[string]int)

	table.Find("tr").First().Find("th,td").Each(func(i int, cell *goquery.Selection) {
		name := strings.ToLower(strings.TrimSpace(cell.Text()))
		if col, ok := popHeaders[name]; ok {
			idx[col] = i
		}
	})

	for _, want := range []string{"sex", "age_start", "age_end", "year", "population"} {
		if _, ok := idx[want]; !ok {
			return nil
		}
	}
	return idx
}

func parseRow(cells *goquery.Selection, idx map[string]int) (contracts.PopulationRecord, error) {
	var rec contracts.PopulationRecord

	text := func(col string) string {
		return strings.TrimSpace(cells.Eq(idx[col]).Text())
	}

	rec.Sex = strings.ToLower(text("sex"))

	var err error
	if rec.AgeStart, err = parseNumber(text("age_start")); err != nil {
		return rec, fmt.Errorf("age_start: %w", err)
	}
	if rec.AgeEnd, err = parseNumber(text("age_end")); err != nil {
		return rec, fmt.Errorf("age_end: %w", err)
	}

	year, err := strconv.Atoi(text("year"))
	if err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	rec.Year = year

	if rec.Population, err = parseNumber(text("population")); err != nil {
		return rec, fmt.Errorf("population: %w", err)
	}

	return rec, nil
}

// parseNumber tolerates thousands separators in portal tables
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// marshalCSV renders records in pops.csv layout
func marshalCSV(records []contracts.PopulationRecord) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"sex", "age_start", "age_end", "year", "population"})
	for _, rec := range records {
		w.Write([]string{
			rec.Sex,
			strconv.FormatFloat(rec.AgeStart, 'f', -1, 64),
			strconv.FormatFloat(rec.AgeEnd, 'f', -1, 64),
			strconv.Itoa(rec.Year),
			strconv.FormatFloat(rec.Population, 'f', -1, 64),
		})
	}

	w.Flush()
	return buf.Bytes()
}
