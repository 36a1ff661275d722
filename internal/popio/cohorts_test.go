package popio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCohorts_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadInj_data.csv")
	table := testCohortTable()

	require.NoError(t, WriteCohorts(path, table))

	got, err := ReadCohorts(path)
	require.NoError(t, err)
	require.Equal(t, table.Len(), got.Len())

	for i := range table.Rows {
		assert.Equal(t, table.Rows[i], got.Rows[i])
	}
}

func TestReadCohorts_MissingColumn(t *testing.T) {
	input := "age,sex,year\n42,1,1995\n"
	_, err := readCohorts(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReadCohorts_BadField(t *testing.T) {
	input := "age,sex,year,sample_size,seatbeltUse_synthetic,offset,(Intercept)\n" +
		"42,1,1995,lots,0.5,6.2,1\n"
	_, err := readCohorts(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample_size")
}

func TestReadCohorts_IgnoresExtraColumns(t *testing.T) {
	input := "age,sex,year,sample_size,seatbeltUse_synthetic,offset,(Intercept),p_synthetic,lambda_synthetic\n" +
		"42,1,1995,500,0.25,6.214608098422191,1,0.5,12.5\n"
	table, err := readCohorts(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 500.0, table.Rows[0].SampleSize)
}
