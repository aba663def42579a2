// Package index wraps a bleve in-memory full-text index over canonical
// product documents. Indexes are built wholesale from a document list
// and never patched incrementally; a catalog rebuild constructs a new
// Index and discards the old one.
package index

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/shopstream/backend/internal/domain"
)

// indexedFields is the fixed set of text fields queries run against.
var indexedFields = []string{
	"title",
	"vendor",
	"description_text",
	"body_text",
	"tags",
	"product_type",
	"ingredients",
}

// Index is a build-once, query-many full-text index. Full documents
// are retained alongside the index so query results need no secondary
// store lookup.
type Index struct {
	idx  bleve.Index
	docs map[string]domain.Document
}

// Build constructs an index over the given documents.
func Build(docs []domain.Document) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textField := bleve.NewTextFieldMapping()
	for _, field := range indexedFields {
		docMapping.AddFieldMappingsAt(field, textField)
	}
	mapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}

	byID := make(map[string]domain.Document, len(docs))
	for _, doc := range docs {
		if err := idx.Index(doc.ID, searchFields(doc)); err != nil {
			idx.Close()
			return nil, fmt.Errorf("indexing document %s: %w", doc.ID, err)
		}
		byID[doc.ID] = doc
	}

	return &Index{idx: idx, docs: byID}, nil
}

// searchFields projects a Document onto the indexed field set.
func searchFields(doc domain.Document) map[string]any {
	return map[string]any{
		"title":            doc.Title,
		"vendor":           doc.Vendor,
		"description_text": doc.DescriptionText,
		"body_text":        doc.BodyText,
		"tags":             doc.Tags,
		"product_type":     doc.ProductType,
		"ingredients":      doc.Ingredients,
	}
}

// Query returns the documents matching the query on any indexed field,
// deduplicated by ID. An empty or whitespace-only query yields an
// empty result; falling back to "all documents" is the caller's job.
// The index imposes no ordering guarantee on the result.
func (x *Index) Query(query string) ([]domain.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	// Fuzzy match and forward (prefix) match across all indexed
	// fields, matching the storefront's type-ahead behavior.
	match := bleve.NewMatchQuery(query)
	match.SetFuzziness(1)
	prefix := bleve.NewPrefixQuery(strings.ToLower(query))

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(match, prefix))
	req.Size = len(x.docs)

	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]domain.Document, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if doc, ok := x.docs[hit.ID]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Size returns the number of indexed documents.
func (x *Index) Size() int {
	return len(x.docs)
}

// Close releases the underlying index resources.
func (x *Index) Close() error {
	return x.idx.Close()
}
