package repositories

import (
	"context"

	"github.com/SAP-F-2025/identity-service/internal/models"
)

// UserFilters defines filters for user queries
type UserFilters struct {
	Role   *models.UserRole // Filter by role
	Query  string           // Search query for name or email
	Limit  int              // Page size
	Offset int              // Offset for pagination
}

// UserRepository owns credential record persistence. Email uniqueness
// is enforced by the storage layer; Create surfaces a duplicate-key
// failure as gorm.ErrDuplicatedKey.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error

	// UpdateLastLogin touches only the last_login column; it must not
	// re-run any derived-field computation.
	UpdateLastLogin(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Search(ctx context.Context, query string, filters UserFilters) ([]*models.User, int64, error)

	ExistsByID(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
