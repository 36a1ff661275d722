package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `
<html><body>
<table>
  <tr><th>Region</th><th>Notes</th></tr>
  <tr><td>US</td><td>irrelevant table</td></tr>
</table>
<table>
  <tr><th>sex</th><th>age start</th><th>age end</th><th>year</th><th>population</th></tr>
  <tr><td>male</td><td>40</td><td>44</td><td>1996</td><td>1,234,567</td></tr>
  <tr><td>female</td><td>40</td><td>44</td><td>1996</td><td>1,300,000</td></tr>
</table>
</body></html>`

func TestParsePopulationHTML(t *testing.T) {
	records, err := ParsePopulationHTML(fixtureHTML)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "male", records[0].Sex)
	assert.Equal(t, 40.0, records[0].AgeStart)
	assert.Equal(t, 44.0, records[0].AgeEnd)
	assert.Equal(t, 1996, records[0].Year)
	assert.Equal(t, 1234567.0, records[0].Population)

	assert.Equal(t, "female", records[1].Sex)
}

func TestParsePopulationHTML_NoTable(t *testing.T) {
	_, err := ParsePopulationHTML(`<html><body><p>nothing here</p></body></html>`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no population table")
}

func TestParsePopulationHTML_BadCell(t *testing.T) {
	html := `<table>
	  <tr><th>sex</th><th>age_start</th><th>age_end</th><th>year</th><th>population</th></tr>
	  <tr><td>male</td><td>forty</td><td>44</td><td>1996</td><td>100</td></tr>
	</table>`

	_, err := ParsePopulationHTML(html)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age_start")
}

func TestMarshalCSV(t *testing.T) {
	records, err := ParsePopulationHTML(fixtureHTML)
	require.NoError(t, err)

	out := string(marshalCSV(records))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sex,age_start,age_end,year,population", lines[0])
	assert.Equal(t, "male,40,44,1996,1234567", lines[1])
}
