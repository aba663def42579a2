package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopstream/backend/internal/domain"
)

// userStore implements domain.UserRepository.
type userStore struct {
	store *Store
}

func (u *userStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := u.store.db.QueryContext(ctx,
		`SELECT email, first_name, last_name, brand_name, role FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (u *userStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r := u.store.db.QueryRowContext(ctx,
		`SELECT email, first_name, last_name, brand_name, role FROM users WHERE email = ?`, email)
	user, err := scanUser(r)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", email, err)
	}
	return &user, nil
}

func (u *userStore) Upsert(ctx context.Context, user domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	_, err := u.store.db.ExecContext(ctx,
		`INSERT INTO users (email, first_name, last_name, brand_name, role)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			brand_name = excluded.brand_name,
			role = excluded.role`,
		user.Email, user.FirstName, user.LastName, user.BrandName, user.Role)
	if err != nil {
		return fmt.Errorf("upserting user %s: %w", user.Email, err)
	}
	return nil
}

func scanUser(s scanner) (domain.User, error) {
	var user domain.User
	var first, last, brand, role sql.NullString
	if err := s.Scan(&user.Email, &first, &last, &brand, &role); err != nil {
		return domain.User{}, err
	}
	user.FirstName = first.String
	user.LastName = last.String
	user.BrandName = brand.String
	user.Role = role.String
	return user, nil
}

// orderStore implements domain.OrderRepository. Order items are stored
// as a JSON blob, as the storefront only ever reads an order whole.
type orderStore struct {
	store *Store
}

func (o *orderStore) Insert(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encoding order items: %w", err)
	}
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = o.store.db.ExecContext(ctx,
		`INSERT INTO orders (id, user_email, items, total, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserEmail, string(items), order.Total, order.Status,
		createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting order %s: %w", order.ID, err)
	}
	return nil
}

func (o *orderStore) ListForUser(ctx context.Context, email string) ([]domain.Order, error) {
	return o.list(ctx,
		`SELECT id, user_email, items, total, status, created_at FROM orders
		 WHERE user_email = ? ORDER BY created_at DESC`, email)
}

func (o *orderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	return o.list(ctx,
		`SELECT id, user_email, items, total, status, created_at FROM orders
		 ORDER BY created_at DESC`)
}

func (o *orderStore) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := o.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing orders: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var order domain.Order
		var items, createdAt string
		if err := rows.Scan(&order.ID, &order.UserEmail, &items, &order.Total,
			&order.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
			return nil, fmt.Errorf("decoding items of order %s: %w", order.ID, err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			order.CreatedAt = ts
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

// categoryStore implements domain.CategoryRepository.
type categoryStore struct {
	store *Store
}

func (c *categoryStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing categories: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var cat domain.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

func (c *categoryStore) Insert(ctx context.Context, name string) (*domain.Category, error) {
	res, err := c.store.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("%w: category %s", domain.ErrInvalidRequest, name)
		}
		return nil, fmt.Errorf("inserting category %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: id, Name: name}, nil
}
