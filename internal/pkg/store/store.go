// Package store provides the session-scoped record sources: a remote store
// backed by the Kilimostat service and a fixture store backed by CSV
// snapshots, behind one interface selected at construction time.
package store

import (
	"context"

	"github.com/kilimostat/kilimostat/internal/domain"
)

type Store interface {
	Counties(ctx context.Context) ([]domain.County, error)
	Subsectors(ctx context.Context) ([]domain.Subsector, error)
	Domains(ctx context.Context) ([]domain.Domain, error)
	SubDomains(ctx context.Context) ([]domain.SubDomain, error)
	Elements(ctx context.Context) ([]domain.Element, error)
	Items(ctx context.Context) ([]domain.Item, error)
	ItemCategories(ctx context.Context) ([]domain.ItemCategory, error)
	Units(ctx context.Context) ([]domain.Unit, error)

	// Records fetches transactional records matching the id-based query.
	// Results are never cached beyond in-flight de-duplication of identical
	// concurrent queries.
	Records(ctx context.Context, query domain.RecordQuery) ([]domain.DataRecord, error)
}
