package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
	"github.com/identityadmin/admin-service/internal/core/query"
)

// AddressService manages addresses and serves the geographic catalogues used
// to fill them in.
type AddressService struct {
	addresses ports.AddressRepository
	tx        ports.Transactor
	mapper    *EntityMapper
	geo       *GeoResolver
	logger    zerolog.Logger
}

func NewAddressService(addresses ports.AddressRepository, tx ports.Transactor, mapper *EntityMapper, geo *GeoResolver, logger zerolog.Logger) *AddressService {
	return &AddressService{addresses: addresses, tx: tx, mapper: mapper, geo: geo, logger: logger}
}

func (s *AddressService) FindByID(ctx context.Context, id string) (*ports.AddressDTO, error) {
	a, err := s.addresses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find address: %w", err)
	}
	s.mapper.HydrateAddress(ctx, a)
	return ToAddressDTO(a), nil
}

func (s *AddressService) FindByName(ctx context.Context, name string) ([]ports.AddressDTO, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.InvalidRequest("name must not be blank")
	}
	spec := query.NewBuilder().
		WithNameLike(name, domain.FieldName).
		Build(query.Unpaged(domain.FieldName))

	addresses, _, err := s.addresses.Search(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("find addresses by name: %w", err)
	}
	out := make([]ports.AddressDTO, 0, len(addresses))
	for _, a := range addresses {
		s.mapper.HydrateAddress(ctx, a)
		out = append(out, *ToAddressDTO(a))
	}
	return out, nil
}

func (s *AddressService) Create(ctx context.Context, in ports.AddressDTO) (*ports.AddressDTO, error) {
	var created *domain.Address
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		a := s.mapper.AddressFromDTO(ctx, &in)
		a.ID = uuid.NewString()
		a.CreatedAt = now()
		a.CreatedBy = domain.ActorFromContext(ctx)
		if err := a.Validate(); err != nil {
			return err
		}
		if err := s.addresses.Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	s.logger.Info().Str("address_id", created.ID).Bool("city_resolved", created.City != nil).Msg("address created")
	return ToAddressDTO(created), nil
}

func (s *AddressService) Edit(ctx context.Context, id string, in ports.AddressDTO) (*ports.AddressDTO, error) {
	var updated *domain.Address
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.addresses.FindByID(ctx, id)
		if err != nil {
			return err
		}
		a := s.mapper.OverlayAddress(ctx, existing, &in)
		if err := a.Validate(); err != nil {
			return err
		}
		if err := s.addresses.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("edit address: %w", err)
	}
	s.logger.Info().Str("address_id", updated.ID).Msg("address updated")
	return ToAddressDTO(updated), nil
}

func (s *AddressService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.addresses.FindByID(ctx, id); err != nil {
			return err
		}
		return s.addresses.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	s.logger.Info().Str("address_id", id).Msg("address deleted")
	return nil
}

func (s *AddressService) Logradouros() []ports.LogradouroDTO {
	opts := domain.Logradouros()
	out := make([]ports.LogradouroDTO, 0, len(opts))
	for _, o := range opts {
		out = append(out, ports.LogradouroDTO{Value: string(o.Value), Label: o.Label})
	}
	return out
}

func (s *AddressService) Countries(ctx context.Context) ([]ports.CountryDTO, error) {
	countries, err := s.geo.Countries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	out := make([]ports.CountryDTO, 0, len(countries))
	for i := range countries {
		out = append(out, *ToCountryDTO(&countries[i]))
	}
	return out, nil
}

func (s *AddressService) States(ctx context.Context, countryID string) ([]ports.StateDTO, error) {
	states, err := s.geo.States(ctx, countryID)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	out := make([]ports.StateDTO, 0, len(states))
	for i := range states {
		out = append(out, *ToStateDTO(&states[i]))
	}
	return out, nil
}

func (s *AddressService) Cities(ctx context.Context, countryID, stateID string) ([]ports.CityDTO, error) {
	cities, err := s.geo.Cities(ctx, countryID, stateID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	out := make([]ports.CityDTO, 0, len(cities))
	for i := range cities {
		out = append(out, *ToCityDTO(&cities[i]))
	}
	return out, nil
}
