package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// RoleProvisioner guarantees every user leaves creation with at least one role.
type RoleProvisioner struct {
	roles       ports.RoleRepository
	defaultRole string
	logger      zerolog.Logger
}

func NewRoleProvisioner(roles ports.RoleRepository, defaultRole string, logger zerolog.Logger) *RoleProvisioner {
	if strings.TrimSpace(defaultRole) == "" {
		defaultRole = domain.RoleClient
	}
	return &RoleProvisioner{roles: roles, defaultRole: defaultRole, logger: logger}
}

// Resolve looks up the requested roles by id, or by name when no id is given.
// Unknown roles are dropped and duplicates collapsed. Only storage failures
// are returned as errors.
func (p *RoleProvisioner) Resolve(ctx context.Context, requested []ports.RoleDTO) ([]domain.Role, error) {
	seen := make(map[string]struct{}, len(requested))
	out := make([]domain.Role, 0, len(requested))
	for _, req := range requested {
		role, err := p.lookup(ctx, req)
		if errors.Is(err, domain.ErrNotFound) {
			p.logger.Debug().Str("role_id", req.ID).Str("role_name", req.Name).Msg("unknown role dropped")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("resolve roles: %w", err)
		}
		if role == nil {
			continue
		}
		if _, dup := seen[role.ID]; dup {
			continue
		}
		seen[role.ID] = struct{}{}
		out = append(out, *role)
	}
	return out, nil
}

// Provision resolves the requested roles and falls back to the default role
// when none remain. The default role is created on first use; the storage
// layer makes that creation atomic.
func (p *RoleProvisioner) Provision(ctx context.Context, requested []ports.RoleDTO) ([]domain.Role, error) {
	roles, err := p.Resolve(ctx, requested)
	if err != nil {
		return nil, err
	}
	if len(roles) > 0 {
		return roles, nil
	}
	def, err := p.roles.EnsureRole(ctx, p.defaultRole)
	if err != nil {
		return nil, fmt.Errorf("ensure default role %q: %w", p.defaultRole, err)
	}
	return []domain.Role{*def}, nil
}

func (p *RoleProvisioner) lookup(ctx context.Context, req ports.RoleDTO) (*domain.Role, error) {
	if id := strings.TrimSpace(req.ID); id != "" {
		return p.roles.FindByID(ctx, id)
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		return p.roles.FindByName(ctx, strings.ToUpper(name))
	}
	return nil, nil
}
