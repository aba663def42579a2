package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopstream/backend/internal/domain"
	"github.com/shopstream/backend/internal/infrastructure/index"
)

// Catalog is one immutable build generation: the canonical document
// list and the index built from it. A Catalog is never mutated after
// construction; rebuilds install a fresh value, so readers holding an
// older generation stay self-consistent.
type Catalog struct {
	Documents  []domain.Document
	Index      *index.Index
	Generation int64
}

// CatalogServiceConfig holds configuration for the catalog service.
type CatalogServiceConfig struct {
	DefaultCurrency string
}

// CatalogService owns the process-wide catalog lifecycle:
// Unloaded -> Loading -> Loaded, with invalidation flipping back to
// rebuild-on-next-read. A single mutex serializes builds so concurrent
// EnsureLoaded callers await the in-flight result instead of starting
// redundant rebuilds.
type CatalogService struct {
	products   domain.ProductRepository
	snapshots  *SnapshotStore // nil when no blob store is configured
	normalizer *RowNormalizer

	mu         sync.Mutex
	current    *Catalog
	stale      bool
	generation int64
}

// NewCatalogService creates a catalog service. snapshots may be nil,
// in which case every cold start rebuilds from the relational store.
func NewCatalogService(
	products domain.ProductRepository,
	snapshots *SnapshotStore,
	config CatalogServiceConfig,
) *CatalogService {
	return &CatalogService{
		products:   products,
		snapshots:  snapshots,
		normalizer: NewRowNormalizer(config.DefaultCurrency),
	}
}

// EnsureLoaded returns the current catalog, building it if needed.
// Cold start prefers the snapshot; an invalidated catalog rebuilds
// from the relational store so writes since the last load are
// reflected. Idempotent once loaded.
func (s *CatalogService) EnsureLoaded(ctx context.Context) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.stale {
		return s.current, nil
	}

	// The snapshot is only trustworthy on cold start. After an
	// invalidation it may predate the write that invalidated us.
	if s.current == nil && !s.stale && s.snapshots != nil {
		if cat, ok := s.restoreFromSnapshotLocked(ctx); ok {
			return cat, nil
		}
	}

	cat, err := s.rebuildLocked(ctx)
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, cat.Generation, cat.Documents); err != nil {
			// The read path stays usable on a failed snapshot write.
			log.Printf("[catalog] warn: snapshot write failed: %v", err)
		}
	}
	return cat, nil
}

// ForceRebuild unconditionally rebuilds from the relational store,
// bypassing any snapshot, and writes a fresh snapshot. A snapshot
// write failure propagates; the rebuilt catalog is still installed.
func (s *CatalogService) ForceRebuild(ctx context.Context) (*Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.rebuildLocked(ctx)
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, cat.Generation, cat.Documents); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// Invalidate marks the catalog stale after a product write. The
// rebuild itself is deferred to the next read; a brief staleness
// window is expected.
func (s *CatalogService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = true
}

// Loaded reports whether a current, non-stale catalog is installed.
func (s *CatalogService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil && !s.stale
}

// restoreFromSnapshotLocked attempts a snapshot restore. The index is
// rebuilt from the snapshot's documents; the persisted document list,
// not an exported index bundle, is the restore format.
func (s *CatalogService) restoreFromSnapshotLocked(ctx context.Context) (*Catalog, bool) {
	docs, err := s.snapshots.Load(ctx)
	if err != nil {
		log.Printf("[catalog] no usable snapshot, rebuilding from store: %v", err)
		return nil, false
	}

	idx, err := index.Build(docs)
	if err != nil {
		log.Printf("[catalog] warn: indexing snapshot documents failed, rebuilding from store: %v", err)
		return nil, false
	}

	s.generation++
	cat := &Catalog{Documents: docs, Index: idx, Generation: s.generation}
	s.current = cat
	s.stale = false
	log.Printf("[catalog] restored %d documents from snapshot (generation %d)", len(docs), cat.Generation)
	return cat, true
}

// rebuildLocked builds a fresh catalog generation from the relational
// store. On failure the previous catalog, if any, stays installed.
func (s *CatalogService) rebuildLocked(ctx context.Context) (*Catalog, error) {
	rows, err := s.products.List(ctx, domain.ProductStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("listing products for rebuild: %w", err)
	}

	docs := make([]domain.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, s.normalizer.Normalize(row))
	}

	idx, err := index.Build(docs)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	s.generation++
	cat := &Catalog{Documents: docs, Index: idx, Generation: s.generation}
	s.current = cat
	s.stale = false
	log.Printf("[catalog] rebuilt %d documents from store (generation %d)", len(docs), cat.Generation)
	return cat, nil
}
