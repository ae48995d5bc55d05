// Package records implements the filtered record query: id filters go to the
// upstream as-is, and the response is re-filtered by resolved display name
// because the fact table joins on name while the upstream filter contract
// joins on id. Skipping the re-filter risks over-inclusive results when the
// two drift.
package records

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewRecordsService(store store.Store) *Service {
	return &Service{store: store}
}

// Query fetches all records matching the id-based filters. Empty filter
// slices leave that dimension unconstrained; a zero SubDomain is
// unconstrained.
func (s *Service) Query(ctx context.Context, query domain.RecordQuery) ([]domain.DataRecord, error) {
	var countyNames, elementNames, itemNames map[string]struct{}

	eg, egCtx := errgroup.WithContext(ctx)
	if len(query.Counties) > 0 {
		eg.Go(func() error {
			counties, err := s.store.Counties(egCtx)
			if err != nil {
				return fmt.Errorf("resolve county names: %w", err)
			}
			countyNames = namesForIDs(counties, query.Counties, func(c domain.County) (int64, string) { return c.ID, c.Name })
			return nil
		})
	}
	if len(query.Elements) > 0 {
		eg.Go(func() error {
			elements, err := s.store.Elements(egCtx)
			if err != nil {
				return fmt.Errorf("resolve element names: %w", err)
			}
			elementNames = namesForIDs(elements, query.Elements, func(e domain.Element) (int64, string) { return e.ID, e.Name })
			return nil
		})
	}
	if len(query.Items) > 0 {
		eg.Go(func() error {
			items, err := s.store.Items(egCtx)
			if err != nil {
				return fmt.Errorf("resolve item names: %w", err)
			}
			itemNames = namesForIDs(items, query.Items, func(it domain.Item) (int64, string) { return it.ID, it.Name })
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	fetched, err := s.store.Records(ctx, query)
	if err != nil {
		return nil, err
	}

	years := make(map[domain.Year]struct{}, len(query.Years))
	for _, y := range query.Years {
		years[y] = struct{}{}
	}

	out := make([]domain.DataRecord, 0, len(fetched))
	for _, rec := range fetched {
		if countyNames != nil {
			if _, ok := countyNames[rec.County]; !ok {
				continue
			}
		}
		if elementNames != nil {
			if _, ok := elementNames[rec.Element]; !ok {
				continue
			}
		}
		if itemNames != nil {
			if _, ok := itemNames[rec.Item]; !ok {
				continue
			}
		}
		if len(years) > 0 {
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

// namesForIDs resolves requested ids to display names. Ids with no match in
// the reference collection simply resolve to nothing, so an orphan filter
// yields an empty result set rather than an error.
func namesForIDs[T any](collection []T, ids []int64, keyOf func(T) (int64, string)) map[string]struct{} {
	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	names := make(map[string]struct{}, len(ids))
	for _, entry := range collection {
		id, name := keyOf(entry)
		if _, ok := wanted[id]; ok {
			names[name] = struct{}{}
		}
	}
	return names
}
