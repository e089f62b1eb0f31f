package data

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderIndex(t *testing.T) {
	idx, err := HeaderIndex([]string{"td", "period", "a"}, []string{"period", "a", "td"})
	require.NoError(t, err)
	require.Equal(t, map[string]int{"td": 0, "period": 1, "a": 2}, idx)

	_, err = HeaderIndex([]string{"period", "a"}, []string{"period", "a", "td"})
	require.EqualError(t, err, `missing column "td"`)
}

func TestRowParserKeepsFirstError(t *testing.T) {
	idx, err := HeaderIndex([]string{"period", "a", "td"}, []string{"period", "a", "td"})
	require.NoError(t, err)

	p := NewRowParser([]string{"oops", "bad", "0.2"}, idx)
	require.Equal(t, 0, p.Int("period"))
	// Later columns are skipped once the parser is poisoned, even valid ones.
	require.Equal(t, 0.0, p.Float("a"))
	require.Equal(t, 0.0, p.Float("td"))
	require.ErrorContains(t, p.Err(), `column "period"`)
}

func TestRowParserCleanRow(t *testing.T) {
	idx, err := HeaderIndex([]string{"period", "a"}, []string{"period", "a"})
	require.NoError(t, err)

	p := NewRowParser([]string{"3", "1.05"}, idx)
	require.Equal(t, 3, p.Int("period"))
	require.Equal(t, 1.05, p.Float("a"))
	require.NoError(t, p.Err())
}

func TestFormatFloatRoundTrips(t *testing.T) {
	for _, v := range []float64{0, 1.0 / 3, 0.1, 80, -2.5e-8, 73.50000000000001} {
		got, err := strconv.ParseFloat(FormatFloat(v), 64)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}
