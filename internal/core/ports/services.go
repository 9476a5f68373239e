package ports

import (
	"context"

	"github.com/identityadmin/admin-service/internal/core/query"
)

type UserService interface {
	FindPageable(ctx context.Context, q UserQuery) (query.Page[UserDTO], error)
	FindByID(ctx context.Context, id string) (*UserDTO, error)
	FindByName(ctx context.Context, name string) ([]UserDTO, error)
	Create(ctx context.Context, in UserDTO) (*UserDTO, error)
	Edit(ctx context.Context, id string, in UserDTO) (*UserDTO, error)
	Delete(ctx context.Context, id string) error
	ListRoles(ctx context.Context) ([]RoleDTO, error)
	// ChangePassword rotates the password of the user identified by principal
	// (a person email or a username).
	ChangePassword(ctx context.Context, principal string, in UpdatePassword) error
	Me(ctx context.Context, principal string) (*UserDTO, error)
}

type PersonService interface {
	FindAll(ctx context.Context) ([]PersonDTO, error)
	FindPageable(ctx context.Context, q PersonQuery) (query.Page[PersonDTO], error)
	FindByName(ctx context.Context, name string, page PageQuery) (query.Page[PersonDTO], error)
	FindByID(ctx context.Context, id string) (*PersonDTO, error)
	Create(ctx context.Context, in PersonDTO) (*PersonDTO, error)
	Update(ctx context.Context, id string, in PersonDTO) (*PersonDTO, error)
	Delete(ctx context.Context, id string) error
}

type AddressService interface {
	FindByID(ctx context.Context, id string) (*AddressDTO, error)
	FindByName(ctx context.Context, name string) ([]AddressDTO, error)
	Create(ctx context.Context, in AddressDTO) (*AddressDTO, error)
	Edit(ctx context.Context, id string, in AddressDTO) (*AddressDTO, error)
	Delete(ctx context.Context, id string) error
	Logradouros() []LogradouroDTO
	Countries(ctx context.Context) ([]CountryDTO, error)
	States(ctx context.Context, countryID string) ([]StateDTO, error)
	Cities(ctx context.Context, countryID, stateID string) ([]CityDTO, error)
}
