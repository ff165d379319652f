package ports

import (
	"context"

	"github.com/memberdesk/identity-system/internal/core/domain"
)

// AccountRepository is the credential store boundary. Implementations must
// enforce username uniqueness themselves (a unique index, not check-then-insert)
// and translate their native duplicate error to domain.ErrDuplicateUsername.
type AccountRepository interface {
	// FindByUsername retrieves an account by exact username.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// FindByCredentials retrieves an account matching both username and
	// password exactly, as a single combined predicate. A wrong username and
	// a wrong password are indistinguishable to the caller.
	FindByCredentials(ctx context.Context, username, password string) (*domain.Account, error)
	// Insert persists a new account and assigns its integer ID.
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	DeleteByID(ctx context.Context, id int64) error
	// ListAll returns every account in store-native order; callers must not
	// assume any sort invariant.
	ListAll(ctx context.Context) ([]domain.Account, error)
}
