package dto

import "github.com/kilimostat/kilimostat/internal/domain"

// SeriesByKey is a per-key per-year sum map plus the ascending year axis
// shared by every series.
type SeriesByKey struct {
	Years  []domain.Year                      `json:"years"`
	Series map[string]map[domain.Year]float64 `json:"series"`
}

// CountySeries is one county's values aligned to a shared year axis, the
// shape the comparison chart consumes.
type CountySeries struct {
	County string    `json:"county"`
	Values []float64 `json:"values"`
}

type Comparison struct {
	Years    []domain.Year  `json:"years"`
	Counties []CountySeries `json:"counties"`
}

// RankingRow is a 1-based dense-rank entry. Unit and Flag carry the first
// observed values for the key so the table can annotate rows.
type RankingRow struct {
	Rank  int     `json:"rank"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
	Flag  string  `json:"flag,omitempty"`
}

// Slice is one labelled summed value feeding a percentage distribution.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type DistributionSlice struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// YearWindow is a trailing run of the year axis with per-year totals.
type YearWindow struct {
	Years  []domain.Year `json:"years"`
	Values []float64     `json:"values"`
}
