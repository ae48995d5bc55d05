package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/kilimostat/kilimostat/internal/domain"
)

// FixtureStore serves the same interface from CSV snapshot exports on disk,
// named the way the dataset publishes them ("County-2025-08-18.csv"). Every
// snapshot is parsed strictly: a missing required column fails the load
// loudly instead of producing half-typed rows.
type FixtureStore struct {
	dir string

	mu     sync.Mutex
	loaded bool

	counties       []domain.County
	subsectors     []domain.Subsector
	domains        []domain.Domain
	subDomains     []domain.SubDomain
	elements       []domain.Element
	items          []domain.Item
	itemCategories []domain.ItemCategory
	units          []domain.Unit
	records        []domain.DataRecord
}

func NewFixtureStore(dir string) *FixtureStore {
	return &FixtureStore{dir: dir}
}

type row map[string]string

func (r row) field(entity, col string) (string, error) {
	v, ok := r[col]
	if !ok {
		return "", fmt.Errorf("%s snapshot: missing column %q", entity, col)
	}
	return v, nil
}

func (r row) id(entity, col string) (int64, error) {
	raw, err := r.field(entity, col)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s snapshot: column %q is not an id: %q", entity, col, raw)
	}
	return id, nil
}

// snapshotRows reads the newest "<Entity>-*.csv" snapshot in dir (falling
// back to "<Entity>.csv") into header-keyed rows.
func snapshotRows(dir, entity string) ([]row, error) {
	matches, err := filepath.Glob(filepath.Join(dir, entity+"-*.csv"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		plain := filepath.Join(dir, entity+".csv")
		if _, statErr := os.Stat(plain); statErr != nil {
			return nil, fmt.Errorf("no %s snapshot in %s", entity, dir)
		}
		matches = []string{plain}
	}
	sort.Strings(matches)
	path := matches[len(matches)-1]

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: empty snapshot", path)
	}

	header := all[0]
	rows := make([]row, 0, len(all)-1)
	for _, rec := range all[1:] {
		r := make(row, len(header))
		for i, col := range header {
			if i < len(rec) {
				r[col] = rec[i]
			} else {
				r[col] = ""
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func parseAll[T any](dir, entity string, parse func(row) (T, error)) ([]T, error) {
	rows, err := snapshotRows(dir, entity)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for i, r := range rows {
		v, err := parse(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseCounty(r row) (domain.County, error) {
	id, err := r.id("county", "id")
	if err != nil {
		return domain.County{}, err
	}
	name, err := r.field("county", "name")
	if err != nil {
		return domain.County{}, err
	}
	return domain.County{ID: id, Name: name, Code: r["code"]}, nil
}

func parseSubsector(r row) (domain.Subsector, error) {
	id, err := r.id("subsector", "id")
	if err != nil {
		return domain.Subsector{}, err
	}
	name, err := r.field("subsector", "name")
	if err != nil {
		return domain.Subsector{}, err
	}
	return domain.Subsector{ID: id, Name: name, Code: r["code"], Description: r["description"]}, nil
}

func parseDomain(r row) (domain.Domain, error) {
	id, err := r.id("domain", "id")
	if err != nil {
		return domain.Domain{}, err
	}
	name, err := r.field("domain", "name")
	if err != nil {
		return domain.Domain{}, err
	}
	subsector, err := r.id("domain", "subsector")
	if err != nil {
		return domain.Domain{}, err
	}
	return domain.Domain{ID: id, Name: name, Code: r["code"], Description: r["description"], Subsector: subsector}, nil
}

func parseSubDomain(r row) (domain.SubDomain, error) {
	id, err := r.id("subdomain", "id")
	if err != nil {
		return domain.SubDomain{}, err
	}
	name, err := r.field("subdomain", "name")
	if err != nil {
		return domain.SubDomain{}, err
	}
	parent, err := r.id("subdomain", "domain")
	if err != nil {
		return domain.SubDomain{}, err
	}
	return domain.SubDomain{ID: id, Name: name, Code: r["code"], Description: r["description"], Domain: parent}, nil
}

func parseElement(r row) (domain.Element, error) {
	id, err := r.id("element", "id")
	if err != nil {
		return domain.Element{}, err
	}
	name, err := r.field("element", "name")
	if err != nil {
		return domain.Element{}, err
	}
	subDomain, err := r.id("element", "subdomain")
	if err != nil {
		return domain.Element{}, err
	}
	return domain.Element{ID: id, Name: name, Code: r["code"], Description: r["description"], SubDomain: subDomain}, nil
}

func parseItem(r row) (domain.Item, error) {
	id, err := r.id("item", "id")
	if err != nil {
		return domain.Item{}, err
	}
	name, err := r.field("item", "name")
	if err != nil {
		return domain.Item{}, err
	}
	element, err := r.id("item", "element")
	if err != nil {
		return domain.Item{}, err
	}
	category, err := r.id("item", "itemcategory")
	if err != nil {
		return domain.Item{}, err
	}
	return domain.Item{
		ID:           id,
		Name:         name,
		Code:         r["code"],
		Description:  r["description"],
		Element:      element,
		ItemCategory: category,
		Periodicity:  r["periodicity"],
	}, nil
}

func parseItemCategory(r row) (domain.ItemCategory, error) {
	id, err := r.id("itemcategory", "id")
	if err != nil {
		return domain.ItemCategory{}, err
	}
	name, err := r.field("itemcategory", "name")
	if err != nil {
		return domain.ItemCategory{}, err
	}
	return domain.ItemCategory{ID: id, Name: name, Code: r["code"], Description: r["description"]}, nil
}

func parseUnit(r row) (domain.Unit, error) {
	id, err := r.id("unit", "id")
	if err != nil {
		return domain.Unit{}, err
	}
	name, err := r.field("unit", "name")
	if err != nil {
		return domain.Unit{}, err
	}
	return domain.Unit{ID: id, Name: name, Abbreviation: r["abbreviation"], Description: r["description"]}, nil
}

func parseRecord(r row) (domain.DataRecord, error) {
	county, err := r.field("kilimodata", "county")
	if err != nil {
		return domain.DataRecord{}, err
	}
	refYear, err := r.field("kilimodata", "refyear")
	if err != nil {
		return domain.DataRecord{}, err
	}
	value, err := r.field("kilimodata", "value")
	if err != nil {
		return domain.DataRecord{}, err
	}

	id, _ := strconv.ParseInt(r["id"], 10, 64)
	return domain.DataRecord{
		ID:          id,
		County:      county,
		Subsector:   r["subsector"],
		Domain:      r["domain"],
		SubDomain:   r["subdomain"],
		Element:     r["element"],
		Item:        r["item"],
		Source:      r["source"],
		Flag:        r["flag"],
		Unit:        r["unit"],
		Region:      r["region"],
		RefYear:     refYear,
		Value:       value,
		Note:        r["note"],
		DateCreated: r["date_created"],
		DateUpdated: r["date_updated"],
	}, nil
}

func (s *FixtureStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	var err error
	if s.counties, err = parseAll(s.dir, "County", parseCounty); err != nil {
		return err
	}
	if s.subsectors, err = parseAll(s.dir, "Subsector", parseSubsector); err != nil {
		return err
	}
	if s.domains, err = parseAll(s.dir, "Domain", parseDomain); err != nil {
		return err
	}
	if s.subDomains, err = parseAll(s.dir, "SubDomain", parseSubDomain); err != nil {
		return err
	}
	if s.elements, err = parseAll(s.dir, "Element", parseElement); err != nil {
		return err
	}
	if s.items, err = parseAll(s.dir, "Item", parseItem); err != nil {
		return err
	}
	if s.itemCategories, err = parseAll(s.dir, "ItemCategory", parseItemCategory); err != nil {
		return err
	}
	if s.units, err = parseAll(s.dir, "Unit", parseUnit); err != nil {
		return err
	}
	if s.records, err = parseAll(s.dir, "KilimoData", parseRecord); err != nil {
		return err
	}

	s.loaded = true
	return nil
}

func (s *FixtureStore) Counties(_ context.Context) ([]domain.County, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.counties, nil
}

func (s *FixtureStore) Subsectors(_ context.Context) ([]domain.Subsector, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.subsectors, nil
}

func (s *FixtureStore) Domains(_ context.Context) ([]domain.Domain, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.domains, nil
}

func (s *FixtureStore) SubDomains(_ context.Context) ([]domain.SubDomain, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.subDomains, nil
}

func (s *FixtureStore) Elements(_ context.Context) ([]domain.Element, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.elements, nil
}

func (s *FixtureStore) Items(_ context.Context) ([]domain.Item, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.items, nil
}

func (s *FixtureStore) ItemCategories(_ context.Context) ([]domain.ItemCategory, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.itemCategories, nil
}

func (s *FixtureStore) Units(_ context.Context) ([]domain.Unit, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.units, nil
}

// Records filters the snapshot the way the remote service filters by id:
// ids resolve to display names against the loaded reference tables, then
// records match on name. Unknown ids simply match nothing.
func (s *FixtureStore) Records(_ context.Context, query domain.RecordQuery) ([]domain.DataRecord, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	countyNames := make(map[string]struct{})
	for _, id := range query.Counties {
		for _, c := range s.counties {
			if c.ID == id {
				countyNames[c.Name] = struct{}{}
			}
		}
	}
	elementNames := make(map[string]struct{})
	for _, id := range query.Elements {
		for _, e := range s.elements {
			if e.ID == id {
				elementNames[e.Name] = struct{}{}
			}
		}
	}
	itemNames := make(map[string]struct{})
	for _, id := range query.Items {
		for _, it := range s.items {
			if it.ID == id {
				itemNames[it.Name] = struct{}{}
			}
		}
	}

	subDomainName := ""
	if query.SubDomain > 0 {
		for _, sd := range s.subDomains {
			if sd.ID == query.SubDomain {
				subDomainName = sd.Name
			}
		}
	}

	years := make(map[domain.Year]struct{}, len(query.Years))
	for _, y := range query.Years {
		years[y] = struct{}{}
	}

	var out []domain.DataRecord
	for _, rec := range s.records {
		if len(query.Counties) > 0 {
			if _, ok := countyNames[rec.County]; !ok {
				continue
			}
		}
		if len(query.Elements) > 0 {
			if _, ok := elementNames[rec.Element]; !ok {
				continue
			}
		}
		if len(query.Items) > 0 {
			if _, ok := itemNames[rec.Item]; !ok {
				continue
			}
		}
		if query.SubDomain > 0 && rec.SubDomain != subDomainName {
			continue
		}
		if len(query.Years) > 0 {
			y, ok := rec.YearInt()
			if !ok {
				continue
			}
			if _, want := years[y]; !want {
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
