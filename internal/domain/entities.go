package domain

import (
	"strconv"
	"strings"
)

type Year = int

// Reference entities are keyed by numeric id. Transactional records reference
// them by resolved display name, not id (see DataRecord).

type County struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type Subsector struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Domain struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Subsector   int64  `json:"subsector"`
}

type SubDomain struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Domain      int64  `json:"domain"`
}

type Element struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	SubDomain   int64  `json:"subdomain"`
}

type Item struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Description  string `json:"description"`
	Element      int64  `json:"element"`
	ItemCategory int64  `json:"itemcategory"`
	Periodicity  string `json:"periodicity"`
}

type ItemCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Unit struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Description  string `json:"description"`
}

// DataRecord is one row of the transactional fact table. County, domain,
// element, item and unit carry the resolved display name, and refyear/value
// arrive as strings that may be empty or malformed.
type DataRecord struct {
	ID          int64  `json:"id"`
	County      string `json:"county"`
	Subsector   string `json:"subsector"`
	Domain      string `json:"domain"`
	SubDomain   string `json:"subdomain"`
	Element     string `json:"element"`
	Item        string `json:"item"`
	Source      string `json:"source"`
	Flag        string `json:"flag"`
	Unit        string `json:"unit"`
	Region      string `json:"region"`
	RefYear     string `json:"refyear"`
	Value       string `json:"value"`
	Note        string `json:"note"`
	DateCreated string `json:"date_created"`
	DateUpdated string `json:"date_updated"`
}

// YearInt parses the record's reference year. Non-numeric years report ok=false
// so year filters exclude the record instead of failing.
func (r *DataRecord) YearInt() (Year, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(r.RefYear))
	if err != nil {
		return 0, false
	}
	return y, true
}

// ValueFloat coerces the record's value to a float64, treating empty or
// malformed values as 0 so one bad record cannot poison an aggregate.
func (r *DataRecord) ValueFloat() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Value), 64)
	if err != nil {
		return 0
	}
	return v
}

// RecordQuery holds the id-based filters accepted by the record query. Empty
// slices mean "no constraint on that dimension"; a zero SubDomain is
// unconstrained.
type RecordQuery struct {
	Counties  []int64 `json:"counties"`
	Elements  []int64 `json:"elements"`
	Items     []int64 `json:"items"`
	Years     []Year  `json:"years"`
	SubDomain int64   `json:"subdomain"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
