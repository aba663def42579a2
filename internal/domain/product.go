package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Product approval states. Vendor submissions start as pending and only
// approved products are served to the storefront.
const (
	ProductStatusPending  = "pending"
	ProductStatusApproved = "approved"
	ProductStatusRejected = "rejected"
)

// ProductRow is a raw product record as stored in the relational store
// (and as imported from the catalog CSV feed). Field names follow the
// store's snake_case schema; the row normalizer is the only component
// that bridges rows to canonical Documents.
type ProductRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Vendor      string `json:"vendor"`
	Description string `json:"description"`
	BodyHTML    string `json:"body_html"`
	ProductType string `json:"product_type"`
	Tags        string `json:"tags"`
	Category    string `json:"category"`
	Quantity    int    `json:"quantity"`

	// Plain pricing columns, used when no price_range sub-structure
	// is present (admin/vendor created products).
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
	Currency string  `json:"currency"`

	// JSON-encoded sub-structures carried through from the catalog
	// feed. Empty for products created through the API.
	PriceRange string `json:"price_range,omitempty"`
	Metafields string `json:"metafields,omitempty"`
	Options    string `json:"options,omitempty"`
	Variants   string `json:"variants,omitempty"`
	SEO        string `json:"seo,omitempty"`

	Status string `json:"status"`
}

// Document is the canonical product document: the unit indexed, cached
// and returned by search. Constructed fresh on every rebuild, never
// mutated in place. JSON keys keep the catalog's upper-case semantic
// names so the search response stays wire-compatible with the
// storefront pages.
type Document struct {
	ID              string  `json:"ID"`
	Title           string  `json:"TITLE"`
	Vendor          string  `json:"VENDOR"`
	Description     string  `json:"DESCRIPTION"`
	DescriptionText string  `json:"DESCRIPTION_TEXT"`
	BodyHTML        string  `json:"BODY_HTML"`
	BodyText        string  `json:"BODY_HTML_TEXT"`
	ProductType     string  `json:"PRODUCT_TYPE"`
	Tags            string  `json:"TAGS"`
	Category        string  `json:"CATEGORY"`
	Quantity        int     `json:"TOTAL_INVENTORY"`
	MinPrice        float64 `json:"MIN_PRICE"`
	MaxPrice        float64 `json:"MAX_PRICE"`
	Currency        string  `json:"CURRENCY"`
	SoldCount       int     `json:"SOLD_COUNT"`
	ReviewCount     int     `json:"REVIEW_COUNT"`
	AverageRating   float64 `json:"AVERAGE_RATING"`
	Ingredients     string  `json:"INGREDIENTS,omitempty"`
	Status          string  `json:"STATUS,omitempty"`
}

// PriceRange mirrors the pricing sub-structure of the catalog feed.
type PriceRange struct {
	MinVariantPrice PricePoint `json:"min_variant_price"`
	MaxVariantPrice PricePoint `json:"max_variant_price"`
}

// PricePoint is a single amount/currency pair within a PriceRange.
type PricePoint struct {
	Amount       Decimal `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

// Metafields maps a metafield key to its value entry. The feed encodes
// numeric metrics (sold count, review metrics) as string values.
type Metafields map[string]Metafield

// Metafield is one named metadata entry.
type Metafield struct {
	Value string `json:"value"`
}

// Metafield keys recognized by the row normalizer.
const (
	MetafieldSoldCount     = "inventory_sold_count"
	MetafieldReviewCount   = "reviews_count"
	MetafieldReviewAverage = "reviews_average"
	MetafieldIngredients   = "ingredients"
)

// Decimal is a float64 that unmarshals from either a JSON number or a
// numeric string, as the catalog feed uses both encodings for amounts.
type Decimal float64

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(d))
}
