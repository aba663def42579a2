package domain

// Sort keys accepted by the search service. An unrecognized key is a
// no-op: the filtered result keeps its original order.
const (
	SortTitleAsc          = "title_asc"
	SortTitleDesc         = "title_desc"
	SortPriceAsc          = "price_asc"
	SortPriceDesc         = "price_desc"
	SortSoldCountDesc     = "sold_count_desc"
	SortReviewCountDesc   = "review_count_desc"
	SortAverageRatingDesc = "average_rating_desc"
)

// SearchRequest is a parsed search query: free-text query plus the
// optional filters, sort key and pagination from the storefront.
type SearchRequest struct {
	Query       string
	Vendor      string
	ProductType string
	InStockOnly bool
	MinPrice    *float64
	MaxPrice    *float64
	SortBy      string
	Page        int
	PageSize    int
}

// SearchResponse is one page of search results. Vendors and
// ProductTypes are facets derived from the full catalog, not the
// filtered result, so filter menus stay complete.
type SearchResponse struct {
	Results      []Document `json:"results"`
	Total        int        `json:"total"`
	Page         int        `json:"page"`
	PageSize     int        `json:"pageSize"`
	TotalPages   int        `json:"totalPages"`
	Vendors      []string   `json:"vendors"`
	ProductTypes []string   `json:"productTypes"`
}
