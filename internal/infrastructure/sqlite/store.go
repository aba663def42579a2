package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shopstream/backend/internal/domain"
)

// Store is a SQLite-backed relational store providing the product,
// user, order and category repositories through wrapper types sharing
// one connection pool.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the SQLite database at the given path
// and ensures the schema exists.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Products returns a ProductRepository backed by this store.
func (s *Store) Products() domain.ProductRepository {
	return &productStore{store: s}
}

// Users returns a UserRepository backed by this store.
func (s *Store) Users() domain.UserRepository {
	return &userStore{store: s}
}

// Orders returns an OrderRepository backed by this store.
func (s *Store) Orders() domain.OrderRepository {
	return &orderStore{store: s}
}

// Categories returns a CategoryRepository backed by this store.
func (s *Store) Categories() domain.CategoryRepository {
	return &categoryStore{store: s}
}

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			vendor TEXT,
			description TEXT,
			body_html TEXT,
			product_type TEXT,
			tags TEXT,
			category TEXT,
			quantity INTEGER DEFAULT 0,
			min_price REAL DEFAULT 0,
			max_price REAL DEFAULT 0,
			currency TEXT,
			price_range TEXT,
			metafields TEXT,
			options TEXT,
			variants TEXT,
			seo TEXT,
			status TEXT DEFAULT 'approved'
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			first_name TEXT,
			last_name TEXT,
			brand_name TEXT,
			role TEXT DEFAULT 'user'
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_email TEXT,
			items TEXT,
			total REAL,
			status TEXT DEFAULT 'pending',
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_email)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
