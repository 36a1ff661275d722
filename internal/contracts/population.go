package contracts

// PopulationRecord is one raw population count as it appears in pops.csv:
// a sex/age-range cohort observed in a single calendar year.
// Read once at the start of Stage 1 and never persisted.
type PopulationRecord struct {
	Sex        string  `json:"sex"` // "male" or "female"
	AgeStart   float64 `json:"age_start"`
	AgeEnd     float64 `json:"age_end"`
	Year       int     `json:"year"`
	Population float64 `json:"population"`
}

// MidpointAge returns the midpoint of the record's age range
func (r *PopulationRecord) MidpointAge() float64 {
	return (r.AgeStart + r.AgeEnd) / 2
}
