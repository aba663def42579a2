package usecase

import (
	"encoding/json"
	"html"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopstream/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	scriptTagRegex   = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTagRegex    = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlCommentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockTagRegex    = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|table|blockquote|pre|section|article)[^>]*>`)
	anyTagRegex      = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex  = regexp.MustCompile(`\s+`)
)

// RowNormalizer converts raw product rows into canonical Documents.
// Normalization is a pure function of its input apart from warning
// logs; malformed embedded JSON is defaulted, never fatal.
type RowNormalizer struct {
	defaultCurrency string
}

// NewRowNormalizer creates a row normalizer. defaultCurrency is used
// when a row carries no currency information at all.
func NewRowNormalizer(defaultCurrency string) *RowNormalizer {
	if defaultCurrency == "" {
		defaultCurrency = "GBP"
	}
	return &RowNormalizer{defaultCurrency: defaultCurrency}
}

// Normalize produces the canonical Document for one raw row.
func (n *RowNormalizer) Normalize(row domain.ProductRow) domain.Document {
	doc := domain.Document{
		ID:          strings.TrimSpace(row.ID),
		Title:       row.Title,
		Vendor:      row.Vendor,
		Description: row.Description,
		BodyHTML:    row.BodyHTML,
		ProductType: row.ProductType,
		Tags:        row.Tags,
		Category:    row.Category,
		Quantity:    row.Quantity,
		Status:      row.Status,
	}

	doc.DescriptionText = StripHTML(row.Description)
	doc.BodyText = StripHTML(row.BodyHTML)

	n.applyPricing(&doc, row)
	n.applyMetafields(&doc, row)

	// Option, variant and SEO sub-structures are validated but carry
	// no canonical fields; a parse failure only warns.
	checkJSONField(row.ID, "options", row.Options)
	checkJSONField(row.ID, "variants", row.Variants)
	checkJSONField(row.ID, "seo", row.SEO)

	return doc
}

// applyPricing derives MinPrice, MaxPrice and Currency. The pricing
// sub-structure wins when present and parseable; otherwise the plain
// row columns apply.
func (n *RowNormalizer) applyPricing(doc *domain.Document, row domain.ProductRow) {
	doc.MinPrice = row.MinPrice
	doc.MaxPrice = row.MaxPrice
	doc.Currency = row.Currency

	if row.PriceRange != "" {
		var pr domain.PriceRange
		if err := json.Unmarshal([]byte(row.PriceRange), &pr); err != nil {
			log.Printf("[normalizer] warn: could not parse field 'price_range' for product %s: %v", row.ID, err)
		} else {
			doc.MinPrice = float64(pr.MinVariantPrice.Amount)
			doc.MaxPrice = float64(pr.MaxVariantPrice.Amount)
			doc.Currency = pr.MinVariantPrice.CurrencyCode
		}
	}

	if doc.Currency == "" {
		doc.Currency = n.defaultCurrency
	}
}

// applyMetafields derives sold count, review metrics and the indexed
// ingredients text from the metafields sub-structure. Absent or
// malformed entries default to zero values.
func (n *RowNormalizer) applyMetafields(doc *domain.Document, row domain.ProductRow) {
	if row.Metafields == "" {
		return
	}

	var fields domain.Metafields
	if err := json.Unmarshal([]byte(row.Metafields), &fields); err != nil {
		log.Printf("[normalizer] warn: could not parse field 'metafields' for product %s: %v", row.ID, err)
		return
	}

	doc.SoldCount = parseIntField(fields[domain.MetafieldSoldCount].Value)
	doc.ReviewCount = parseIntField(fields[domain.MetafieldReviewCount].Value)
	doc.AverageRating = parseFloatField(fields[domain.MetafieldReviewAverage].Value)
	doc.Ingredients = fields[domain.MetafieldIngredients].Value
}

func checkJSONField(id, name, raw string) {
	if raw == "" {
		return
	}
	if !json.Valid([]byte(raw)) {
		log.Printf("[normalizer] warn: could not parse field '%s' for product %s", name, id)
	}
}

func parseIntField(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseFloatField(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// StripHTML extracts plain text from an HTML fragment. Missing input
// yields an empty string, never an error.
func StripHTML(input string) string {
	if input == "" {
		return ""
	}
	text := scriptTagRegex.ReplaceAllString(input, " ")
	text = styleTagRegex.ReplaceAllString(text, " ")
	text = htmlCommentRegex.ReplaceAllString(text, " ")
	text = blockTagRegex.ReplaceAllString(text, " ")
	text = anyTagRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
