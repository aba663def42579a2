package usecase

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/shopstream/backend/internal/domain"
)

// SearchServiceConfig holds pagination bounds for the search service.
type SearchServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// SearchService turns the current catalog into paged search responses.
// It holds no state of its own; filtering, sorting and pagination are
// pure transformations of the catalog contents.
type SearchService struct {
	catalog         *CatalogService
	defaultPageSize int
	maxPageSize     int
}

// NewSearchService creates a search service over the given catalog.
func NewSearchService(catalog *CatalogService, config SearchServiceConfig) *SearchService {
	defaultPageSize := config.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	maxPageSize := config.MaxPageSize
	if maxPageSize < defaultPageSize {
		maxPageSize = defaultPageSize
	}
	return &SearchService{
		catalog:         catalog,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Search runs the query/filter/sort/paginate pipeline. A catalog that
// cannot be loaded yields an empty, successfully-shaped response so
// the storefront stays usable in degraded mode.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	page, pageSize := s.clampPaging(req.Page, req.PageSize)

	cat, err := s.catalog.EnsureLoaded(ctx)
	if err != nil {
		log.Printf("[search] warn: catalog unavailable, serving empty response: %v", err)
		return emptyResponse(page, pageSize), nil
	}

	var results []domain.Document
	if strings.TrimSpace(req.Query) != "" {
		results, err = cat.Index.Query(req.Query)
		if err != nil {
			log.Printf("[search] warn: index query failed, serving empty response: %v", err)
			return emptyResponse(page, pageSize), nil
		}
	} else {
		// No query: start from the full document list. Copy so
		// sorting never mutates the shared catalog slice.
		results = make([]domain.Document, len(cat.Documents))
		copy(results, cat.Documents)
	}

	results = applyFilters(results, req)
	sortDocuments(results, req.SortBy)

	total := len(results)
	paged := paginate(results, page, pageSize)

	vendors, productTypes := facets(cat.Documents)

	return &domain.SearchResponse{
		Results:      paged,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   (total + pageSize - 1) / pageSize,
		Vendors:      vendors,
		ProductTypes: productTypes,
	}, nil
}

func (s *SearchService) clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

func emptyResponse(page, pageSize int) *domain.SearchResponse {
	return &domain.SearchResponse{
		Results:      []domain.Document{},
		Page:         page,
		PageSize:     pageSize,
		Vendors:      []string{},
		ProductTypes: []string{},
	}
}

// applyFilters applies vendor, type, stock and price-bound predicates
// in sequence, each retaining the order of its input.
func applyFilters(docs []domain.Document, req domain.SearchRequest) []domain.Document {
	if req.Vendor != "" && req.Vendor != "All" {
		docs = filter(docs, func(d domain.Document) bool { return d.Vendor == req.Vendor })
	}
	if req.ProductType != "" && req.ProductType != "All" {
		docs = filter(docs, func(d domain.Document) bool { return d.ProductType == req.ProductType })
	}
	if req.InStockOnly {
		docs = filter(docs, func(d domain.Document) bool { return d.Quantity > 0 })
	}
	if req.MinPrice != nil {
		docs = filter(docs, func(d domain.Document) bool { return d.MinPrice >= *req.MinPrice })
	}
	if req.MaxPrice != nil {
		docs = filter(docs, func(d domain.Document) bool { return d.MinPrice <= *req.MaxPrice })
	}
	return docs
}

func filter(docs []domain.Document, keep func(domain.Document) bool) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if keep(doc) {
			out = append(out, doc)
		}
	}
	return out
}

// sortDocuments sorts the entire filtered result in place by the given
// key. An unrecognized key is a no-op and preserves the input order.
func sortDocuments(docs []domain.Document, sortBy string) {
	var less func(a, b domain.Document) bool

	switch sortBy {
	case domain.SortTitleAsc:
		less = func(a, b domain.Document) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case domain.SortTitleDesc:
		less = func(a, b domain.Document) bool {
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		}
	case domain.SortPriceAsc:
		less = func(a, b domain.Document) bool { return a.MinPrice < b.MinPrice }
	case domain.SortPriceDesc:
		less = func(a, b domain.Document) bool { return a.MinPrice > b.MinPrice }
	case domain.SortSoldCountDesc:
		less = func(a, b domain.Document) bool { return a.SoldCount > b.SoldCount }
	case domain.SortReviewCountDesc:
		less = func(a, b domain.Document) bool { return a.ReviewCount > b.ReviewCount }
	case domain.SortAverageRatingDesc:
		less = func(a, b domain.Document) bool { return a.AverageRating > b.AverageRating }
	default:
		return
	}

	sort.SliceStable(docs, func(i, j int) bool { return less(docs[i], docs[j]) })
}

// paginate slices one 1-based page out of the result list.
// Out-of-range pages yield an empty slice, not an error.
func paginate(docs []domain.Document, page, pageSize int) []domain.Document {
	start := (page - 1) * pageSize
	if start >= len(docs) {
		return []domain.Document{}
	}
	end := start + pageSize
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end]
}

// facets derives the distinct sorted vendor and product type lists
// from the full unfiltered catalog for populating filter menus.
func facets(docs []domain.Document) ([]string, []string) {
	vendorSet := make(map[string]bool)
	typeSet := make(map[string]bool)
	for _, doc := range docs {
		if doc.Vendor != "" {
			vendorSet[doc.Vendor] = true
		}
		if doc.ProductType != "" {
			typeSet[doc.ProductType] = true
		}
	}

	vendors := make([]string, 0, len(vendorSet))
	for v := range vendorSet {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	productTypes := make([]string, 0, len(typeSet))
	for t := range typeSet {
		productTypes = append(productTypes, t)
	}
	sort.Strings(productTypes)

	return vendors, productTypes
}
