package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
	"github.com/identityadmin/admin-service/internal/core/query"
)

var userSort = query.SortPolicy{
	Allowed: []string{domain.FieldUsername, domain.FieldCreatedAt},
	Default: domain.FieldUsername,
}

// now is the audit clock; Mongo keeps millisecond precision.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

type UserService struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	tx          ports.Transactor
	mapper      *EntityMapper
	provisioner *RoleProvisioner
	creds       *CredentialManager
	logger      zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tx ports.Transactor,
	mapper *EntityMapper,
	provisioner *RoleProvisioner,
	creds *CredentialManager,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:       users,
		roles:       roles,
		tx:          tx,
		mapper:      mapper,
		provisioner: provisioner,
		creds:       creds,
		logger:      logger,
	}
}

// FindPageable returns one page of users matching q. Name matches the
// username; the date range applies to the creation time and only when both
// bounds are given.
func (s *UserService) FindPageable(ctx context.Context, q ports.UserQuery) (query.Page[ports.UserDTO], error) {
	page := query.NewPageRequest(q.Page, q.PageSize, q.SortField, q.SortDir, userSort)
	spec := query.NewBuilder().
		WithID(domain.FieldID, q.ID).
		WithNameLike(q.Name, domain.FieldUsername).
		WithDateBetween(domain.FieldCreatedAt, q.StartDate, q.EndDate).
		Build(page)

	users, total, err := s.users.Search(ctx, spec)
	if err != nil {
		return query.Page[ports.UserDTO]{}, fmt.Errorf("search users: %w", err)
	}
	return query.NewPage(s.render(ctx, users), total, page), nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*ports.UserDTO, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	s.mapper.HydrateUser(ctx, u)
	return ToUserDTO(u), nil
}

// FindByName lists every user whose username contains name.
func (s *UserService) FindByName(ctx context.Context, name string) ([]ports.UserDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.InvalidRequest("name must not be blank")
	}
	spec := query.NewBuilder().
		WithNameLike(name, domain.FieldUsername).
		Build(query.Unpaged(domain.FieldUsername))

	users, _, err := s.users.Search(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("find users by name: %w", err)
	}
	return s.render(ctx, users), nil
}

// Create maps, provisions roles, hashes the password and stores a new user.
// The default role is ensured before the write transaction opens.
func (s *UserService) Create(ctx context.Context, in ports.UserDTO) (*ports.UserDTO, error) {
	roles, err := s.provisioner.Provision(ctx, in.Roles)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	var created *domain.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u := s.mapper.UserFromDTO(ctx, &in)
		u.ID = uuid.NewString()
		u.Roles = roles
		u.CreatedAt = now()
		u.CreatedBy = domain.ActorFromContext(ctx)

		hash, err := s.creds.Hash(in.Password)
		if err != nil {
			return err
		}
		u.Password = hash

		if err := u.Validate(); err != nil {
			return err
		}
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return ToUserDTO(created), nil
}

// Edit overlays the mutable fields of in onto the stored user. An empty role
// list keeps the current roles.
func (s *UserService) Edit(ctx context.Context, id string, in ports.UserDTO) (*ports.UserDTO, error) {
	var updated *domain.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		roles, err := s.provisioner.Resolve(ctx, in.Roles)
		if err != nil {
			return err
		}
		u := s.mapper.OverlayUser(ctx, existing, &in, roles)
		if err := u.Validate(); err != nil {
			return err
		}
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("edit user: %w", err)
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return ToUserDTO(updated), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) ListRoles(ctx context.Context) ([]ports.RoleDTO, error) {
	roles, err := s.roles.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make([]ports.RoleDTO, 0, len(roles))
	for _, r := range roles {
		out = append(out, ToRoleDTO(r))
	}
	return out, nil
}

// ChangePassword reads, verifies and rewrites the credential in one
// transaction.
func (s *UserService) ChangePassword(ctx context.Context, principal string, in ports.UpdatePassword) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.creds.ChangePassword(ctx, principal, in)
	})
}

// Me returns the user behind the authenticated principal.
func (s *UserService) Me(ctx context.Context, principal string) (*ports.UserDTO, error) {
	u, err := s.creds.FindByPrincipal(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	s.mapper.HydrateUser(ctx, u)
	return ToUserDTO(u), nil
}

func (s *UserService) render(ctx context.Context, users []*domain.User) []ports.UserDTO {
	out := make([]ports.UserDTO, 0, len(users))
	for _, u := range users {
		s.mapper.HydrateUser(ctx, u)
		out = append(out, *ToUserDTO(u))
	}
	return out
}
