// Package aggregate turns flat record lists into the grouped structures the
// visualizations consume. All functions are pure and perform no I/O.
//
// Numeric policy: record values are decimal strings that may be empty or
// malformed; every aggregate coerces those to 0 so a NaN can never appear in
// an output. Year axes are the sorted ascending distinct integer years
// observed in the input; gaps are only synthesized by DenseYears.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/domain/dto"
)

// KeyFunc extracts the grouping key from a record, e.g. the county or
// element name.
type KeyFunc func(domain.DataRecord) string

func ByCounty(r domain.DataRecord) string { return r.County }

func ByElement(r domain.DataRecord) string { return r.Element }

func ByItem(r domain.DataRecord) string { return r.Item }

// SumByKeyByYear accumulates record values per (key, year). Records without
// a parseable year are dropped; unparseable values contribute 0.
func SumByKeyByYear(records []domain.DataRecord, key KeyFunc) map[string]map[domain.Year]float64 {
	sums := make(map[string]map[domain.Year]decimal.Decimal)
	for _, rec := range records {
		year, ok := rec.YearInt()
		if !ok {
			continue
		}

		k := key(rec)
		byYear, ok := sums[k]
		if !ok {
			byYear = make(map[domain.Year]decimal.Decimal)
			sums[k] = byYear
		}
		byYear[year] = byYear[year].Add(decimal.NewFromFloat(rec.ValueFloat()))
	}

	out := make(map[string]map[domain.Year]float64, len(sums))
	for k, byYear := range sums {
		series := make(map[domain.Year]float64, len(byYear))
		for year, sum := range byYear {
			series[year] = sum.InexactFloat64()
		}
		out[k] = series
	}
	return out
}

// YearAxis returns the sorted ascending distinct years observed in records.
func YearAxis(records []domain.DataRecord) []domain.Year {
	seen := make(map[domain.Year]struct{})
	for _, rec := range records {
		if y, ok := rec.YearInt(); ok {
			seen[y] = struct{}{}
		}
	}

	axis := make([]domain.Year, 0, len(seen))
	for y := range seen {
		axis = append(axis, y)
	}
	sort.Ints(axis)
	return axis
}

// Series bundles SumByKeyByYear with the shared year axis.
func Series(records []domain.DataRecord, key KeyFunc) dto.SeriesByKey {
	return dto.SeriesByKey{
		Years:  YearAxis(records),
		Series: SumByKeyByYear(records, key),
	}
}

// TotalsByYear sums all record values per year, ignoring grouping.
func TotalsByYear(records []domain.DataRecord) map[domain.Year]float64 {
	sums := make(map[domain.Year]decimal.Decimal)
	for _, rec := range records {
		year, ok := rec.YearInt()
		if !ok {
			continue
		}
		sums[year] = sums[year].Add(decimal.NewFromFloat(rec.ValueFloat()))
	}

	out := make(map[domain.Year]float64, len(sums))
	for year, sum := range sums {
		out[year] = sum.InexactFloat64()
	}
	return out
}

// TopN sums values per key across all years, sorts descending and assigns
// 1-based dense ranks. Ties keep first-encounter order (stable sort). Unit
// and flag carry the first observed values per key. A non-positive n returns
// every key.
func TopN(records []domain.DataRecord, key KeyFunc, n int) []dto.RankingRow {
	order := make([]string, 0)
	sums := make(map[string]decimal.Decimal)
	units := make(map[string]string)
	flags := make(map[string]string)

	for _, rec := range records {
		k := key(rec)
		if _, ok := sums[k]; !ok {
			order = append(order, k)
			units[k] = rec.Unit
			flags[k] = rec.Flag
		}
		sums[k] = sums[k].Add(decimal.NewFromFloat(rec.ValueFloat()))
	}

	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]].GreaterThan(sums[order[j]])
	})

	if n > 0 && n < len(order) {
		order = order[:n]
	}

	rows := make([]dto.RankingRow, len(order))
	for i, k := range order {
		rows[i] = dto.RankingRow{
			Rank:  i + 1,
			Key:   k,
			Value: sums[k].InexactFloat64(),
			Unit:  units[k],
			Flag:  flags[k],
		}
	}
	return rows
}

// Distribution computes each slice's share of the total as a percentage.
// When the total is 0 every percentage is 0 and the caller should render a
// no-data state instead of a chart.
func Distribution(slices []dto.Slice) []dto.DistributionSlice {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(decimal.NewFromFloat(s.Value))
	}

	out := make([]dto.DistributionSlice, len(slices))
	for i, s := range slices {
		pct := 0.0
		if !total.IsZero() {
			pct = decimal.NewFromFloat(s.Value).Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out[i] = dto.DistributionSlice{Label: s.Label, Value: s.Value, Percentage: pct}
	}
	return out
}

// LastYears returns the trailing k entries of the axis with their totals.
// A k at or beyond the axis length returns everything; missing totals read
// as 0.
func LastYears(axis []domain.Year, totals map[domain.Year]float64, k int) dto.YearWindow {
	if k > 0 && k < len(axis) {
		axis = axis[len(axis)-k:]
	}

	window := dto.YearWindow{
		Years:  append([]domain.Year(nil), axis...),
		Values: make([]float64, len(axis)),
	}
	for i, y := range axis {
		window.Values[i] = totals[y]
	}
	return window
}

// DenseYears builds the inclusive [from, to] year axis, synthesizing the
// gap years consumers of dense ranges expect.
func DenseYears(from, to domain.Year) []domain.Year {
	if to < from {
		return nil
	}

	axis := make([]domain.Year, 0, to-from+1)
	for y := from; y <= to; y++ {
		axis = append(axis, y)
	}
	return axis
}

// ValuesOn aligns a per-year sum map to an explicit axis, filling gaps
// with 0.
func ValuesOn(axis []domain.Year, series map[domain.Year]float64) []float64 {
	values := make([]float64, len(axis))
	for i, y := range axis {
		values[i] = series[y]
	}
	return values
}
