package domain

import "context"

// ProductRepository defines access to the relational product store.
// An empty status lists all products regardless of approval state.
type ProductRepository interface {
	List(ctx context.Context, status string) ([]ProductRow, error)
	GetByID(ctx context.Context, id string) (*ProductRow, error)
	Insert(ctx context.Context, row ProductRow) error
	Update(ctx context.Context, row ProductRow) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
}

// UserRepository defines access to the user directory.
type UserRepository interface {
	List(ctx context.Context) ([]User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Upsert(ctx context.Context, user User) error
}

// OrderRepository defines access to placed orders.
type OrderRepository interface {
	Insert(ctx context.Context, order Order) error
	ListForUser(ctx context.Context, email string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// CategoryRepository defines access to product categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	Insert(ctx context.Context, name string) (*Category, error)
}

// BlobObject is one stored blob as reported by the object store.
type BlobObject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PutOptions control how a blob is stored.
type PutOptions struct {
	Public      bool
	ContentType string
}

// BlobStore defines the remote blob object store used for catalog
// snapshots. Put returns the public URL of the stored object.
type BlobStore interface {
	List(ctx context.Context) ([]BlobObject, error)
	Put(ctx context.Context, name string, data []byte, opts PutOptions) (string, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}
