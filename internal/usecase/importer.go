package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopstream/backend/internal/domain"
)

// Importer loads the catalog CSV feed into the product store. Rows are
// upserted by ID so repeated imports of the same feed converge instead
// of erroring on duplicates.
type Importer struct {
	products domain.ProductRepository
}

// NewImporter creates an importer writing to the given repository.
func NewImporter(products domain.ProductRepository) *Importer {
	return &Importer{products: products}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ImportFile imports the CSV feed at the given path.
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog feed: %w", err)
	}
	defer f.Close()
	return i.Import(ctx, f)
}

// Import reads the CSV feed from r and upserts each row. The first
// record is the header; columns are matched by name so the feed can
// reorder or omit columns. A row without an ID is skipped with a
// warning rather than failing the whole import.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading feed header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.ToUpper(strings.TrimSpace(name))] = idx
	}
	if _, ok := columns["ID"]; !ok {
		return nil, fmt.Errorf("catalog feed has no ID column")
	}

	result := &ImportResult{}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			log.Printf("[importer] warn: skipping malformed record at line %d: %v", line, err)
			result.Skipped++
			continue
		}

		row := rowFromRecord(columns, record)
		if row.ID == "" {
			log.Printf("[importer] warn: skipping record at line %d: empty ID", line)
			result.Skipped++
			continue
		}

		updated, err := i.upsert(ctx, row)
		if err != nil {
			return result, fmt.Errorf("importing product %s: %w", row.ID, err)
		}
		if updated {
			result.Updated++
		} else {
			result.Inserted++
		}
	}

	return result, nil
}

func (i *Importer) upsert(ctx context.Context, row domain.ProductRow) (updated bool, err error) {
	err = i.products.Insert(ctx, row)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrDuplicateProduct) {
		return true, i.products.Update(ctx, row)
	}
	return false, err
}

func rowFromRecord(columns map[string]int, record []string) domain.ProductRow {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	quantity, err := strconv.Atoi(field("TOTAL_INVENTORY"))
	if err != nil {
		quantity = 0
	}

	return domain.ProductRow{
		ID:          field("ID"),
		Title:       field("TITLE"),
		Vendor:      field("VENDOR"),
		Description: field("DESCRIPTION"),
		BodyHTML:    field("BODY_HTML"),
		ProductType: field("PRODUCT_TYPE"),
		Tags:        field("TAGS"),
		Category:    field("CATEGORY"),
		Quantity:    quantity,
		PriceRange:  field("PRICE_RANGE_V2"),
		Metafields:  field("METAFIELDS"),
		Options:     field("OPTIONS"),
		Variants:    field("VARIANTS"),
		SEO:         field("SEO"),
		Status:      domain.ProductStatusApproved,
	}
}
