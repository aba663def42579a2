package domain

// User roles.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User is a directory record backing the admin user screen and vendor
// attribution. Credentials and sessions are handled by the upstream
// identity service and never stored here.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BrandName string `json:"brand_name,omitempty"`
	Role      string `json:"role"`
}

// Category groups products for the storefront navigation.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
