// Package csvexport renders record sets in the dashboard's established CSV
// export shape: a fixed column order, free-text fields double-quoted,
// numeric fields (Year, Value) unquoted. Rows are built by hand because the
// contract quotes by column class, not by content.
package csvexport

import (
	"strconv"
	"strings"

	"github.com/kilimostat/kilimostat/internal/domain"
)

type ThousandSeparator string

const (
	SeparatorNone   ThousandSeparator = "none"
	SeparatorComma  ThousandSeparator = "comma"
	SeparatorPeriod ThousandSeparator = "period"
)

type Options struct {
	IncludeUnits      bool
	IncludeFlags      bool
	IncludeNotes      bool
	ThousandSeparator ThousandSeparator
}

// Records renders the export document, one row per record.
func Records(records []domain.DataRecord, opts Options) string {
	headers := []string{"County", "Subsector", "Domain", "Subdomain", "Element", "Item", "Year", "Value"}
	if opts.IncludeUnits {
		headers = append(headers, "Unit")
	}
	headers = append(headers, "Region")
	if opts.IncludeFlags {
		headers = append(headers, "Flag")
	}
	if opts.IncludeNotes {
		headers = append(headers, "Note")
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteByte('\n')

	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}

		cols := []string{
			quote(rec.County),
			quote(rec.Subsector),
			quote(rec.Domain),
			quote(rec.SubDomain),
			quote(rec.Element),
			quote(rec.Item),
			rec.RefYear,
			formatValue(rec.Value, opts.ThousandSeparator),
		}
		if opts.IncludeUnits {
			cols = append(cols, quote(rec.Unit))
		}
		cols = append(cols, quote(rec.Region))
		if opts.IncludeFlags {
			cols = append(cols, quote(rec.Flag))
		}
		if opts.IncludeNotes {
			cols = append(cols, quote(rec.Note))
		}

		b.WriteString(strings.Join(cols, ","))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// formatValue applies the requested thousand separator. Malformed values
// pass through untouched so the export never loses source data.
func formatValue(raw string, sep ThousandSeparator) string {
	if sep == SeparatorNone || sep == "" {
		return raw
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}

	switch sep {
	case SeparatorComma:
		return groupDigits(v, ",", ".")
	case SeparatorPeriod:
		return groupDigits(v, ".", ",")
	default:
		return raw
	}
}

func groupDigits(v float64, group, point string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteRune(digit)
	}

	out := sign + b.String()
	if hasFrac {
		out += point + fracPart
	}
	return out
}
