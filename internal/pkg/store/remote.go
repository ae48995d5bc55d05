package store

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/kilimostat/kilimostat/internal/domain"
	"github.com/kilimostat/kilimostat/internal/pkg/kilimo"
)

// RemoteStore reads from the live Kilimostat service. Reference collections
// go through the injected session cache; record queries go straight to the
// paginated endpoint with in-flight coalescing only.
type RemoteStore struct {
	client *kilimo.Client
	cache  *Cache
	sf     singleflight.Group
}

func NewRemoteStore(client *kilimo.Client, cache *Cache) *RemoteStore {
	return &RemoteStore{client: client, cache: cache}
}

func collection[T any](ctx context.Context, s *RemoteStore, resource string) ([]T, error) {
	return Cached[T](ctx, s.cache, resource, func(ctx context.Context) ([]T, error) {
		u, err := s.client.ResourceURL(ctx, resource)
		if err != nil {
			return nil, err
		}
		return kilimo.FetchAll[T](ctx, s.client, u)
	})
}

func (s *RemoteStore) Counties(ctx context.Context) ([]domain.County, error) {
	return collection[domain.County](ctx, s, kilimo.ResourceCounties)
}

func (s *RemoteStore) Subsectors(ctx context.Context) ([]domain.Subsector, error) {
	return collection[domain.Subsector](ctx, s, kilimo.ResourceSubsectors)
}

func (s *RemoteStore) Domains(ctx context.Context) ([]domain.Domain, error) {
	return collection[domain.Domain](ctx, s, kilimo.ResourceDomains)
}

func (s *RemoteStore) SubDomains(ctx context.Context) ([]domain.SubDomain, error) {
	return collection[domain.SubDomain](ctx, s, kilimo.ResourceSubDomains)
}

func (s *RemoteStore) Elements(ctx context.Context) ([]domain.Element, error) {
	return collection[domain.Element](ctx, s, kilimo.ResourceElements)
}

func (s *RemoteStore) Items(ctx context.Context) ([]domain.Item, error) {
	return collection[domain.Item](ctx, s, kilimo.ResourceItems)
}

func (s *RemoteStore) ItemCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	return collection[domain.ItemCategory](ctx, s, kilimo.ResourceItemCategories)
}

func (s *RemoteStore) Units(ctx context.Context) ([]domain.Unit, error) {
	return collection[domain.Unit](ctx, s, kilimo.ResourceUnits)
}

func (s *RemoteStore) Records(ctx context.Context, query domain.RecordQuery) ([]domain.DataRecord, error) {
	key := EncodeQuery(query)

	res, err, _ := s.sf.Do(key, func() (any, error) {
		base, err := s.client.ResourceURL(ctx, kilimo.ResourceRecords)
		if err != nil {
			return nil, err
		}

		full := base
		if key != "" {
			sep := "?"
			if strings.Contains(base, "?") {
				sep = "&"
			}
			full = base + sep + key
		}

		return kilimo.FetchAll[domain.DataRecord](ctx, s.client, full)
	})
	if err != nil {
		return nil, err
	}
	return res.([]domain.DataRecord), nil
}

// EncodeQuery builds the upstream filter query string. The service filters by
// id: repeated county/element/item/refyear params and a single subdomain.
// url.Values.Encode sorts keys, so the result doubles as a canonical
// coalescing key for identical concurrent queries.
func EncodeQuery(q domain.RecordQuery) string {
	v := url.Values{}
	for _, id := range q.Counties {
		v.Add("county", strconv.FormatInt(id, 10))
	}
	for _, id := range q.Elements {
		v.Add("element", strconv.FormatInt(id, 10))
	}
	for _, id := range q.Items {
		v.Add("item", strconv.FormatInt(id, 10))
	}
	for _, year := range q.Years {
		v.Add("refyear", strconv.Itoa(year))
	}
	if q.SubDomain > 0 {
		v.Set("subdomain", strconv.FormatInt(q.SubDomain, 10))
	}
	return v.Encode()
}
