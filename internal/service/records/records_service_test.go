package records

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/pkg/aggregate"
	"github.com/kilimostat/kilimostat/internal/pkg/kilimo"
	"github.com/kilimostat/kilimostat/internal/pkg/store"
)

type stubStore struct {
	counties []domain.County
	elements []domain.Element
	items    []domain.Item
	records  []domain.DataRecord

	lastQuery domain.RecordQuery
}

func (s *stubStore) Counties(context.Context) ([]domain.County, error) { return s.counties, nil }

func (s *stubStore) Subsectors(context.Context) ([]domain.Subsector, error) { return nil, nil }

func (s *stubStore) Domains(context.Context) ([]domain.Domain, error) { return nil, nil }

func (s *stubStore) SubDomains(context.Context) ([]domain.SubDomain, error) { return nil, nil }

func (s *stubStore) Elements(context.Context) ([]domain.Element, error) { return s.elements, nil }

func (s *stubStore) Items(context.Context) ([]domain.Item, error) { return s.items, nil }
func (s *stubStore) ItemCategories(context.Context) ([]domain.ItemCategory, error) {
	return nil, nil
}

func (s *stubStore) Units(context.Context) ([]domain.Unit, error) { return nil, nil }

func (s *stubStore) Records(_ context.Context, query domain.RecordQuery) ([]domain.DataRecord, error) {
	s.lastQuery = query
	return s.records, nil
}

func TestQueryCorrectsLooseCountyFilter(t *testing.T) {
	st := &stubStore{
		counties: []domain.County{{ID: 5, Name: "Kiambu"}},
		records: []domain.DataRecord{
			{County: "Kiambu", RefYear: "2020", Value: "1"},
			{County: "Kiambu North", RefYear: "2020", Value: "2"},
			{County: "Kiambu", RefYear: "2021", Value: "3"},
		},
	}

	recs, err := NewRecordsService(st).Query(context.Background(), domain.RecordQuery{Counties: []int64{5}})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		require.Equal(t, "Kiambu", rec.County)
	}
}

func TestQueryYearFilterExcludesUnparseableYears(t *testing.T) {
	st := &stubStore{
		records: []domain.DataRecord{
			{County: "Kiambu", RefYear: "2020", Value: "1"},
			{County: "Kiambu", RefYear: "2019", Value: "2"},
			{County: "Kiambu", RefYear: "n/a", Value: "3"},
		},
	}

	recs, err := NewRecordsService(st).Query(context.Background(), domain.RecordQuery{Years: []int{2020}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "2020", recs[0].RefYear)
}

func TestQueryEmptyFiltersUnconstrained(t *testing.T) {
	st := &stubStore{
		records: []domain.DataRecord{
			{County: "Kiambu", RefYear: "2020", Value: "1"},
			{County: "Nakuru", RefYear: "bogus", Value: "2"},
		},
	}

	recs, err := NewRecordsService(st).Query(context.Background(), domain.RecordQuery{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestQueryUnknownIDYieldsEmptyNotError(t *testing.T) {
	st := &stubStore{
		counties: []domain.County{{ID: 5, Name: "Kiambu"}},
		records:  []domain.DataRecord{{County: "Kiambu", RefYear: "2020", Value: "1"}},
	}

	recs, err := NewRecordsService(st).Query(context.Background(), domain.RecordQuery{Counties: []int64{999}})
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestQueryPassesIDsUpstream(t *testing.T) {
	st := &stubStore{
		counties: []domain.County{{ID: 1, Name: "Kiambu"}},
		elements: []domain.Element{{ID: 2, Name: "Area"}},
	}

	_, err := NewRecordsService(st).Query(context.Background(), domain.RecordQuery{
		Counties:  []int64{1},
		Elements:  []int64{2},
		Years:     []int{2020},
		SubDomain: 3,
	})
	require.NoError(t, err)
	require.Equal(t, []int64{1}, st.lastQuery.Counties)
	require.Equal(t, []int64{2}, st.lastQuery.Elements)
	require.Equal(t, int64(3), st.lastQuery.SubDomain)
}

// End-to-end against a 3-page fixture service: 130 raw records fetched,
// corrective filtering narrows them, and the year sum matches the
// hand-computed total.
func TestQueryPaginatedScenario(t *testing.T) {
	const (
		total    = 130
		pageSize = 50
	)

	recordJSON := func(i int) string {
		county := "CountyOne"
		if i > 60 {
			county = "CountyTwo"
		}
		element := "ElementTwo"
		if i%2 == 0 {
			element = "ElementNine"
		}
		year := "2019"
		switch i % 4 {
		case 1:
			year = "2020"
		case 2:
			year = "2021"
		}
		return fmt.Sprintf(`{"id":%d,"county":%q,"element":%q,"refyear":%q,"value":"%d"}`, i, county, element, year, i)
	}

	var recordRequests int32
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			fmt.Fprintf(w, `{"counties":%q,"elements":%q,"kilimodata_pagination":%q}`,
				srv.URL+"/counties/", srv.URL+"/elements/", srv.URL+"/kilimodata/")
		case r.URL.Path == "/counties/":
			fmt.Fprint(w, `[{"id":1,"name":"CountyOne","code":"001"},{"id":9,"name":"CountyTwo","code":"009"}]`)
		case r.URL.Path == "/elements/":
			fmt.Fprint(w, `[{"id":2,"name":"ElementTwo","code":"E2","subdomain":3}]`)
		case strings.HasPrefix(r.URL.Path, "/kilimodata"):
			atomic.AddInt32(&recordRequests, 1)

			page := 1
			if p := r.URL.Query().Get("page"); p != "" {
				page, _ = strconv.Atoi(p)
			}
			start := (page-1)*pageSize + 1
			end := page * pageSize
			if end > total {
				end = total
			}

			rows := make([]string, 0, pageSize)
			for i := start; i <= end; i++ {
				rows = append(rows, recordJSON(i))
			}
			next := "null"
			if end < total {
				next = fmt.Sprintf("%q", fmt.Sprintf("%s/kilimodata/?page=%d", srv.URL, page+1))
			}
			fmt.Fprintf(w, `{"count":%d,"next":%s,"results":[%s]}`, total, next, strings.Join(rows, ","))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := kilimo.NewClient(kilimo.Config{BaseURL: srv.URL, RatePerSecond: 1000, HTTPClient: srv.Client()})
	svc := NewRecordsService(store.NewRemoteStore(client, store.NewCache()))

	recs, err := svc.Query(context.Background(), domain.RecordQuery{
		Counties:  []int64{1},
		Elements:  []int64{2},
		Years:     []int{2020, 2021},
		SubDomain: 3,
	})
	require.NoError(t, err)

	// All three pages were pulled.
	require.EqualValues(t, 3, atomic.LoadInt32(&recordRequests))

	// CountyOne covers i 1..60; ElementTwo the odd i; years 2020/2021 need
	// i%4 of 1 or 2, and odd i rules out 2. That leaves i = 1,5,...,57.
	require.Len(t, recs, 15)
	for _, rec := range recs {
		require.Equal(t, "CountyOne", rec.County)
		require.Equal(t, "ElementTwo", rec.Element)
		require.Equal(t, "2020", rec.RefYear)
	}

	sums := aggregate.SumByKeyByYear(recs, aggregate.ByCounty)
	require.InDelta(t, 435, sums["CountyOne"][2020], 1e-9)
}
