// Package reference exposes the cached reference collections and the derived
// lookups the dashboard filters are built from. Derived lookups are pure
// filters over the cached collections: they never trigger extra network
// calls once the underlying collection is cached, and they recompute on
// every call.
package reference

import (
	"context"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewReferenceService(store store.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Counties(ctx context.Context) ([]domain.County, error) {
	return s.store.Counties(ctx)
}

func (s *Service) Subsectors(ctx context.Context) ([]domain.Subsector, error) {
	return s.store.Subsectors(ctx)
}

func (s *Service) Domains(ctx context.Context) ([]domain.Domain, error) {
	return s.store.Domains(ctx)
}

func (s *Service) SubDomains(ctx context.Context) ([]domain.SubDomain, error) {
	return s.store.SubDomains(ctx)
}

func (s *Service) Elements(ctx context.Context) ([]domain.Element, error) {
	return s.store.Elements(ctx)
}

func (s *Service) Items(ctx context.Context) ([]domain.Item, error) {
	return s.store.Items(ctx)
}

func (s *Service) ItemCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	return s.store.ItemCategories(ctx)
}

func (s *Service) Units(ctx context.Context) ([]domain.Unit, error) {
	return s.store.Units(ctx)
}

func (s *Service) SubDomainsByDomain(ctx context.Context, domainID int64) ([]domain.SubDomain, error) {
	all, err := s.store.SubDomains(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SubDomain, 0, len(all))
	for _, sd := range all {
		if sd.Domain == domainID {
			out = append(out, sd)
		}
	}
	return out, nil
}

func (s *Service) ElementsBySubDomain(ctx context.Context, subDomainID int64) ([]domain.Element, error) {
	all, err := s.store.Elements(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Element, 0, len(all))
	for _, e := range all {
		if e.SubDomain == subDomainID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) ItemsByCategory(ctx context.Context, categoryID int64) ([]domain.Item, error) {
	all, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(all))
	for _, it := range all {
		if it.ItemCategory == categoryID {
			out = append(out, it)
		}
	}
	return out, nil
}

// ItemsBySubDomain lists items whose element belongs to the subdomain.
func (s *Service) ItemsBySubDomain(ctx context.Context, subDomainID int64) ([]domain.Item, error) {
	elements, err := s.ElementsBySubDomain(ctx, subDomainID)
	if err != nil {
		return nil, err
	}

	elementIDs := make(map[int64]struct{}, len(elements))
	for _, e := range elements {
		elementIDs[e.ID] = struct{}{}
	}

	all, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(all))
	for _, it := range all {
		if _, ok := elementIDs[it.Element]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// ItemCategoriesBySubDomain lists the categories of the subdomain's items,
// in the cached collection's order.
func (s *Service) ItemCategoriesBySubDomain(ctx context.Context, subDomainID int64) ([]domain.ItemCategory, error) {
	items, err := s.ItemsBySubDomain(ctx, subDomainID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int64]struct{}, len(items))
	for _, it := range items {
		wanted[it.ItemCategory] = struct{}{}
	}

	all, err := s.store.ItemCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ItemCategory, 0, len(wanted))
	for _, cat := range all {
		if _, ok := wanted[cat.ID]; ok {
			out = append(out, cat)
		}
	}
	return out, nil
}
