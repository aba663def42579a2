package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopstream/backend/internal/domain"
)

const productColumns = `id, title, vendor, description, body_html, product_type, tags, category,
	quantity, min_price, max_price, currency, price_range, metafields, options, variants, seo, status`

// productStore implements domain.ProductRepository.
type productStore struct {
	store *Store
}

func (p *productStore) List(ctx context.Context, status string) ([]domain.ProductRow, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := p.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing products: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.ProductRow
	for rows.Next() {
		row, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (p *productStore) GetByID(ctx context.Context, id string) (*domain.ProductRow, error) {
	r := p.store.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	row, err := scanProduct(r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", id, err)
	}
	return &row, nil
}

func (p *productStore) Insert(ctx context.Context, row domain.ProductRow) error {
	_, err := p.store.db.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.Title, row.Vendor, row.Description, row.BodyHTML, row.ProductType,
		row.Tags, row.Category, row.Quantity, row.MinPrice, row.MaxPrice, row.Currency,
		row.PriceRange, row.Metafields, row.Options, row.Variants, row.SEO, row.Status)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: id %s", domain.ErrDuplicateProduct, row.ID)
		}
		return fmt.Errorf("inserting product %s: %w", row.ID, err)
	}
	return nil
}

func (p *productStore) Update(ctx context.Context, row domain.ProductRow) error {
	res, err := p.store.db.ExecContext(ctx,
		`UPDATE products SET
			title = ?, vendor = ?, description = ?, body_html = ?, product_type = ?,
			tags = ?, category = ?, quantity = ?, min_price = ?, max_price = ?,
			currency = ?, price_range = ?, metafields = ?, options = ?, variants = ?,
			seo = ?, status = ?
		 WHERE id = ?`,
		row.Title, row.Vendor, row.Description, row.BodyHTML, row.ProductType,
		row.Tags, row.Category, row.Quantity, row.MinPrice, row.MaxPrice,
		row.Currency, row.PriceRange, row.Metafields, row.Options, row.Variants,
		row.SEO, row.Status, row.ID)
	if err != nil {
		return fmt.Errorf("updating product %s: %w", row.ID, err)
	}
	return requireRow(res, row.ID)
}

func (p *productStore) Delete(ctx context.Context, id string) error {
	res, err := p.store.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	return requireRow(res, id)
}

func (p *productStore) SetStatus(ctx context.Context, id, status string) error {
	res, err := p.store.db.ExecContext(ctx,
		`UPDATE products SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("setting status of product %s: %w", id, err)
	}
	return requireRow(res, id)
}

// requireRow maps a zero-row write to ErrProductNotFound.
func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %s", domain.ErrProductNotFound, id)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (domain.ProductRow, error) {
	var row domain.ProductRow
	var vendor, description, bodyHTML, productType, tags, category sql.NullString
	var currency, priceRange, metafields, options, variants, seo, status sql.NullString
	err := s.Scan(&row.ID, &row.Title, &vendor, &description, &bodyHTML, &productType,
		&tags, &category, &row.Quantity, &row.MinPrice, &row.MaxPrice, &currency,
		&priceRange, &metafields, &options, &variants, &seo, &status)
	if err != nil {
		return domain.ProductRow{}, err
	}
	row.Vendor = vendor.String
	row.Description = description.String
	row.BodyHTML = bodyHTML.String
	row.ProductType = productType.String
	row.Tags = tags.String
	row.Category = category.String
	row.Currency = currency.String
	row.PriceRange = priceRange.String
	row.Metafields = metafields.String
	row.Options = options.String
	row.Variants = variants.String
	row.SEO = seo.String
	row.Status = status.String
	return row, nil
}
