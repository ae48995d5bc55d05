package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/domain/dto"
)

func rec(county, element, year, value string) domain.DataRecord {
	return domain.DataRecord{County: county, Element: element, RefYear: year, Value: value}
}

func TestSumByKeyByYearCoercesMalformedValues(t *testing.T) {
	records := []domain.DataRecord{
		rec("Kiambu", "Area", "2020", "12.5"),
		rec("Kiambu", "Area", "2020", ""),
		rec("Kiambu", "Area", "2020", "abc"),
		rec("Kiambu", "Area", "2020", "7"),
	}

	sums := SumByKeyByYear(records, ByCounty)
	require.InDelta(t, 19.5, sums["Kiambu"][2020], 1e-9)

	for _, byYear := range sums {
		for _, v := range byYear {
			require.False(t, math.IsNaN(v))
		}
	}
}

func TestSumByKeyByYearDropsUnparseableYears(t *testing.T) {
	records := []domain.DataRecord{
		rec("Kiambu", "Area", "2020", "1"),
		rec("Kiambu", "Area", "n/a", "100"),
		rec("Kiambu", "Area", "", "100"),
	}

	sums := SumByKeyByYear(records, ByCounty)
	require.Len(t, sums["Kiambu"], 1)
	require.InDelta(t, 1, sums["Kiambu"][2020], 1e-9)
}

func TestSumByKeyByYearSeparatesKeysAndYears(t *testing.T) {
	records := []domain.DataRecord{
		rec("Kiambu", "Area", "2020", "1"),
		rec("Kiambu", "Area", "2021", "2"),
		rec("Nakuru", "Area", "2020", "4"),
	}

	sums := SumByKeyByYear(records, ByCounty)
	require.InDelta(t, 1, sums["Kiambu"][2020], 1e-9)
	require.InDelta(t, 2, sums["Kiambu"][2021], 1e-9)
	require.InDelta(t, 4, sums["Nakuru"][2020], 1e-9)
}

func TestYearAxisSortedDistinct(t *testing.T) {
	records := []domain.DataRecord{
		rec("a", "e", "2021", "1"),
		rec("b", "e", "2019", "1"),
		rec("c", "e", "2021", "1"),
		rec("d", "e", "bogus", "1"),
	}

	require.Equal(t, []domain.Year{2019, 2021}, YearAxis(records))
}

func TestTopNStableTieBreak(t *testing.T) {
	records := []domain.DataRecord{
		rec("A", "e", "2020", "50"),
		rec("B", "e", "2020", "50"),
		rec("C", "e", "2020", "30"),
	}

	rows := TopN(records, ByCounty, 2)
	require.Len(t, rows, 2)
	require.Equal(t, "A", rows[0].Key)
	require.Equal(t, 1, rows[0].Rank)
	require.Equal(t, "B", rows[1].Key)
	require.Equal(t, 2, rows[1].Rank)
}

func TestTopNSumsAcrossYears(t *testing.T) {
	records := []domain.DataRecord{
		rec("A", "e", "2020", "10"),
		rec("A", "e", "2021", "15"),
		rec("B", "e", "2020", "20"),
	}

	rows := TopN(records, ByCounty, 0)
	require.Len(t, rows, 2)
	require.Equal(t, "A", rows[0].Key)
	require.InDelta(t, 25, rows[0].Value, 1e-9)
}

func TestTopNCarriesFirstObservedUnit(t *testing.T) {
	records := []domain.DataRecord{
		{County: "A", RefYear: "2020", Value: "1", Unit: "Ha", Flag: "E"},
		{County: "A", RefYear: "2021", Value: "1", Unit: "t"},
	}

	rows := TopN(records, ByCounty, 1)
	require.Equal(t, "Ha", rows[0].Unit)
	require.Equal(t, "E", rows[0].Flag)
}

func TestDistributionSumsToHundred(t *testing.T) {
	slices := []dto.Slice{
		{Label: "a", Value: 12.5},
		{Label: "b", Value: 40},
		{Label: "c", Value: 7.25},
	}

	dist := Distribution(slices)
	total := 0.0
	for _, d := range dist {
		total += d.Percentage
	}
	require.InDelta(t, 100, total, 0.01)
}

func TestDistributionZeroTotal(t *testing.T) {
	dist := Distribution([]dto.Slice{{Label: "a"}, {Label: "b"}})
	for _, d := range dist {
		require.Zero(t, d.Percentage)
	}
}

func TestLastYearsWindow(t *testing.T) {
	axis := []domain.Year{2017, 2018, 2019, 2020}
	totals := map[domain.Year]float64{2017: 1, 2018: 2, 2019: 3, 2020: 4}

	window := LastYears(axis, totals, 2)
	require.Equal(t, []domain.Year{2019, 2020}, window.Years)
	require.Equal(t, []float64{3, 4}, window.Values)
}

func TestLastYearsWindowLargerThanAxis(t *testing.T) {
	axis := []domain.Year{2019, 2020}
	totals := map[domain.Year]float64{2019: 3, 2020: 4}

	window := LastYears(axis, totals, 10)
	require.Equal(t, axis, window.Years)
	require.Equal(t, []float64{3, 4}, window.Values)
}

func TestDenseYears(t *testing.T) {
	require.Equal(t, []domain.Year{2019, 2020, 2021}, DenseYears(2019, 2021))
	require.Nil(t, DenseYears(2021, 2019))
}

func TestValuesOnFillsGapsWithZero(t *testing.T) {
	axis := DenseYears(2019, 2021)
	values := ValuesOn(axis, map[domain.Year]float64{2019: 5, 2021: 7})
	require.Equal(t, []float64{5, 0, 7}, values)
}
