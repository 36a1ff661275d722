package s1_cohort

// yearWindows maps inclusive calendar-year ranges to their 5-year
// window midpoint label, as in the original road injuries data.
var yearWindows = []struct {
	from, to int
	label    int
}{
	{1993, 1997, 1995},
	{1998, 2002, 2000},
	{2003, 2007, 2005},
	{2008, 2012, 2010},
}

// yearWindow returns the window label for a calendar year.
// Years outside every window have no group key and their records are
// dropped from aggregation.
func yearWindow(year int) (int, bool) {
	for _, w := range yearWindows {
		if year >= w.from && year <= w.to {
			return w.label, true
		}
	}
	return 0, false
}

// YearLabels returns the valid window labels in ascending order
func YearLabels() []int {
	labels := make([]int, len(yearWindows))
	for i, w := range yearWindows {
		labels[i] = w.label
	}
	return labels
}
