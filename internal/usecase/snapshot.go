package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shopstream/backend/internal/domain"
)

// snapshotPayload is the serialized catalog bundle persisted to the
// blob store. The snapshot is a cache, not a source of truth: the
// relational store remains authoritative, and restore rebuilds the
// index by re-adding the documents.
type snapshotPayload struct {
	Generation int64             `json:"generation"`
	Documents  []domain.Document `json:"documents"`
}

// SnapshotStore persists the built catalog to the blob object store
// under one fixed name. Every save is a full replace of that one
// artifact; there is no delta snapshotting.
type SnapshotStore struct {
	blobs domain.BlobStore
	name  string
}

// NewSnapshotStore creates a snapshot store writing under the given
// artifact name.
func NewSnapshotStore(blobs domain.BlobStore, name string) *SnapshotStore {
	if name == "" {
		name = "catalog_snapshot.json"
	}
	return &SnapshotStore{blobs: blobs, name: name}
}

// Save uploads the document list as the current snapshot. Upload
// failures propagate to the caller; a failed snapshot must not look
// successful.
func (s *SnapshotStore) Save(ctx context.Context, generation int64, docs []domain.Document) error {
	payload := snapshotPayload{Generation: generation, Documents: docs}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding catalog snapshot: %w", err)
	}

	url, err := s.blobs.Put(ctx, s.name, data, domain.PutOptions{
		Public:      true,
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("uploading catalog snapshot: %w", err)
	}

	log.Printf("[snapshot] saved generation %d (%d documents) to %s", generation, len(docs), url)
	return nil
}

// Load fetches and parses the current snapshot. Any miss or failure
// (no artifact, fetch error, malformed or empty payload) yields
// ErrSnapshotUnavailable so the caller falls back to a full rebuild.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.Document, error) {
	objects, err := s.blobs.List(ctx)
	if err != nil {
		log.Printf("[snapshot] warn: listing blobs failed: %v", err)
		return nil, domain.ErrSnapshotUnavailable
	}

	var target *domain.BlobObject
	for i := range objects {
		if objects[i].Name == s.name {
			target = &objects[i]
			break
		}
	}
	if target == nil {
		return nil, domain.ErrSnapshotUnavailable
	}

	data, err := s.blobs.Fetch(ctx, target.URL)
	if err != nil {
		log.Printf("[snapshot] warn: fetching %s failed: %v", s.name, err)
		return nil, domain.ErrSnapshotUnavailable
	}

	var payload snapshotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("[snapshot] warn: parsing %s failed: %v", s.name, err)
		return nil, domain.ErrSnapshotUnavailable
	}
	if len(payload.Documents) == 0 {
		log.Printf("[snapshot] warn: snapshot %s has no documents", s.name)
		return nil, domain.ErrSnapshotUnavailable
	}

	log.Printf("[snapshot] loaded generation %d (%d documents)", payload.Generation, len(payload.Documents))
	return payload.Documents, nil
}
