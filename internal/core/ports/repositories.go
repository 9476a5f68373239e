package ports

import (
	"context"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

// Repositories store references to other entities by id only. On read, a
// reference comes back as a stub carrying just its ID; services hydrate it.
//
// Every FindByID returns a *domain.NotFoundError when nothing matches.
// Writes that violate a uniqueness constraint return domain.ErrConflict.

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// UpdatePassword replaces only the stored hash.
	UpdatePassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByPersonID(ctx context.Context, personID string) (*domain.User, error)
	// Search returns the requested page and the size of the whole filtered set.
	Search(ctx context.Context, spec query.Spec) ([]*domain.User, int64, error)
}

type PersonRepository interface {
	Create(ctx context.Context, p *domain.Person) error
	Update(ctx context.Context, p *domain.Person) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	FindByEmail(ctx context.Context, email string) (*domain.Person, error)
	Search(ctx context.Context, spec query.Spec) ([]*domain.Person, int64, error)
}

type AddressRepository interface {
	Create(ctx context.Context, a *domain.Address) error
	Update(ctx context.Context, a *domain.Address) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Address, error)
	Search(ctx context.Context, spec query.Spec) ([]*domain.Address, int64, error)
}

type RoleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	FindAll(ctx context.Context) ([]domain.Role, error)
	// EnsureRole returns the role with the given name, creating it atomically
	// if absent. Concurrent callers always observe the same single row.
	EnsureRole(ctx context.Context, name string) (*domain.Role, error)
}

// GeoRepository reads the geographic reference data. Lookups by id return
// fully linked values (a City carries its State and Country).
type GeoRepository interface {
	Countries(ctx context.Context) ([]domain.Country, error)
	States(ctx context.Context, countryID string) ([]domain.State, error)
	Cities(ctx context.Context, countryID, stateID string) ([]domain.City, error)
	CountryByID(ctx context.Context, id string) (*domain.Country, error)
	StateByID(ctx context.Context, id string) (*domain.State, error)
	CityByID(ctx context.Context, id string) (*domain.City, error)
}

// Transactor runs fn inside a storage transaction. Calls made with a context
// already inside a transaction join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
