package csvexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilimostat/kilimostat/internal/domain"
)

func sampleRecord() domain.DataRecord {
	return domain.DataRecord{
		County:    "Kiambu",
		Subsector: "Crops",
		Domain:    "Production",
		SubDomain: "Crop Production",
		Element:   "Area Harvested",
		Item:      "Maize",
		Unit:      "Ha",
		Region:    "Central",
		Flag:      "E",
		Note:      "estimated",
		RefYear:   "2021",
		Value:     "1234567.89",
	}
}

func TestRecordsDefaultColumns(t *testing.T) {
	out := Records([]domain.DataRecord{sampleRecord()}, Options{})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "County,Subsector,Domain,Subdomain,Element,Item,Year,Value,Region", lines[0])
	require.Equal(t, `"Kiambu","Crops","Production","Crop Production","Area Harvested","Maize",2021,1234567.89,"Central"`, lines[1])
}

func TestRecordsAllOptionalColumns(t *testing.T) {
	opts := Options{IncludeUnits: true, IncludeFlags: true, IncludeNotes: true}
	out := Records([]domain.DataRecord{sampleRecord()}, opts)

	lines := strings.Split(out, "\n")
	require.Equal(t, "County,Subsector,Domain,Subdomain,Element,Item,Year,Value,Unit,Region,Flag,Note", lines[0])
	require.Equal(t, `"Kiambu","Crops","Production","Crop Production","Area Harvested","Maize",2021,1234567.89,"Ha","Central","E","estimated"`, lines[1])
}

func TestRecordsEmptySetIsHeaderOnly(t *testing.T) {
	out := Records(nil, Options{IncludeUnits: true})
	require.Equal(t, "County,Subsector,Domain,Subdomain,Element,Item,Year,Value,Unit,Region", out)
}

func TestRecordsQuotesEmbeddedQuotes(t *testing.T) {
	rec := sampleRecord()
	rec.Item = `Maize "hybrid"`
	out := Records([]domain.DataRecord{rec}, Options{})
	require.Contains(t, out, `"Maize ""hybrid"""`)
}

func TestRecordsMultipleRows(t *testing.T) {
	first := sampleRecord()
	second := sampleRecord()
	second.County = "Nakuru"
	second.Value = "42"

	out := Records([]domain.DataRecord{first, second}, Options{})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], `"Kiambu"`))
	require.True(t, strings.HasPrefix(lines[2], `"Nakuru"`))
}

func TestThousandSeparatorComma(t *testing.T) {
	out := Records([]domain.DataRecord{sampleRecord()}, Options{ThousandSeparator: SeparatorComma})
	require.Contains(t, out, ",1,234,567.89,")
}

func TestThousandSeparatorPeriod(t *testing.T) {
	out := Records([]domain.DataRecord{sampleRecord()}, Options{ThousandSeparator: SeparatorPeriod})
	require.Contains(t, out, ",1.234.567,89,")
}

func TestThousandSeparatorNegativeValue(t *testing.T) {
	rec := sampleRecord()
	rec.Value = "-9876543"
	out := Records([]domain.DataRecord{rec}, Options{ThousandSeparator: SeparatorComma})
	require.Contains(t, out, ",-9,876,543,")
}

func TestMalformedValuePassesThrough(t *testing.T) {
	rec := sampleRecord()
	rec.Value = "n/a"
	out := Records([]domain.DataRecord{rec}, Options{ThousandSeparator: SeparatorComma})
	require.Contains(t, out, ",n/a,")
}

func TestSmallValueNeedsNoGrouping(t *testing.T) {
	rec := sampleRecord()
	rec.Value = "512.5"
	out := Records([]domain.DataRecord{rec}, Options{ThousandSeparator: SeparatorComma})
	require.Contains(t, out, ",512.5,")
}
