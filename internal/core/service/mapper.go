package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// EntityMapper converts between transfer objects and entities.
//
// Nested references are resolved by id: cities and countries through the
// GeoResolver, persons and addresses through their repositories. A reference
// that cannot be resolved becomes nil; it never aborts the mapping. Entities
// read back from storage carry reference stubs (ID only) which Hydrate*
// replaces the same way.
type EntityMapper struct {
	geo       *GeoResolver
	persons   ports.PersonRepository
	addresses ports.AddressRepository
	logger    zerolog.Logger
}

func NewEntityMapper(geo *GeoResolver, persons ports.PersonRepository, addresses ports.AddressRepository, logger zerolog.Logger) *EntityMapper {
	return &EntityMapper{geo: geo, persons: persons, addresses: addresses, logger: logger}
}

// ── forward ──────────────────────────────────────────────────────────────────

func (m *EntityMapper) AddressFromDTO(ctx context.Context, in *ports.AddressDTO) *domain.Address {
	if in == nil {
		return nil
	}
	return &domain.Address{
		ID:               in.ID,
		Name:             strings.TrimSpace(in.Name),
		Logradouro:       domain.Logradouro(strings.ToUpper(strings.TrimSpace(in.Logradouro))),
		Number:           in.Number,
		Neighborhood:     in.Neighborhood,
		CEP:              in.CEP,
		ZipCode:          in.ZipCode,
		Coordination:     in.Coordination,
		ReferentialPoint: in.ReferentialPoint,
		City:             m.geo.City(ctx, cityID(in.City)),
	}
}

func (m *EntityMapper) PersonFromDTO(ctx context.Context, in *ports.PersonDTO) *domain.Person {
	if in == nil {
		return nil
	}
	p := &domain.Person{
		ID:           in.ID,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Gender:       domain.Gender(strings.ToUpper(strings.TrimSpace(in.Gender))),
		Email:        strings.TrimSpace(in.Email),
		CPF:          domain.NormalizeCPF(in.CPF),
		Birthdate:    in.Birthdate,
		BirthCity:    m.geo.City(ctx, cityID(in.BirthCity)),
		BirthCountry: m.geo.Country(ctx, countryID(in.BirthCountry)),
	}
	if in.Address != nil {
		p.Address = m.findAddress(ctx, in.Address.ID)
	}
	return p
}

// UserFromDTO maps the user's own fields and person reference. Roles and the
// password hash are filled in by the RoleProvisioner and CredentialManager.
func (m *EntityMapper) UserFromDTO(ctx context.Context, in *ports.UserDTO) *domain.User {
	if in == nil {
		return nil
	}
	u := &domain.User{
		ID:       in.ID,
		Username: strings.TrimSpace(in.Username),
	}
	if in.Person != nil {
		u.Person = m.findPerson(ctx, in.Person.ID)
	}
	return u
}

// ── overlay ──────────────────────────────────────────────────────────────────
//
// Edits start from a copy of the stored entity and copy over an explicit list
// of mutable fields. Identity, audit fields and the password hash are then
// restored from the stored entity, whatever the incoming object carried.

func (m *EntityMapper) OverlayUser(ctx context.Context, existing *domain.User, in *ports.UserDTO, roles []domain.Role) *domain.User {
	incoming := m.UserFromDTO(ctx, in)
	working := *existing
	working.Username = incoming.Username
	working.Person = incoming.Person
	if len(roles) > 0 {
		working.Roles = roles
	}
	restoreUser(&working, existing)
	return &working
}

func (m *EntityMapper) OverlayPerson(ctx context.Context, existing *domain.Person, in *ports.PersonDTO) *domain.Person {
	incoming := m.PersonFromDTO(ctx, in)
	working := *existing
	working.FirstName = incoming.FirstName
	working.LastName = incoming.LastName
	working.Gender = incoming.Gender
	working.Email = incoming.Email
	working.CPF = incoming.CPF
	working.Birthdate = incoming.Birthdate
	working.Address = incoming.Address
	working.BirthCity = incoming.BirthCity
	working.BirthCountry = incoming.BirthCountry
	working.ID, working.CreatedAt, working.CreatedBy = existing.ID, existing.CreatedAt, existing.CreatedBy
	return &working
}

func (m *EntityMapper) OverlayAddress(ctx context.Context, existing *domain.Address, in *ports.AddressDTO) *domain.Address {
	incoming := m.AddressFromDTO(ctx, in)
	working := *existing
	working.Name = incoming.Name
	working.Logradouro = incoming.Logradouro
	working.Number = incoming.Number
	working.Neighborhood = incoming.Neighborhood
	working.CEP = incoming.CEP
	working.ZipCode = incoming.ZipCode
	working.Coordination = incoming.Coordination
	working.ReferentialPoint = incoming.ReferentialPoint
	working.City = incoming.City
	working.ID, working.CreatedAt, working.CreatedBy = existing.ID, existing.CreatedAt, existing.CreatedBy
	return &working
}

func restoreUser(dst, original *domain.User) {
	dst.ID = original.ID
	dst.CreatedAt = original.CreatedAt
	dst.CreatedBy = original.CreatedBy
	dst.Password = original.Password
}

// ── hydration ────────────────────────────────────────────────────────────────

func (m *EntityMapper) HydrateUser(ctx context.Context, u *domain.User) {
	if u == nil {
		return
	}
	if u.Person != nil {
		u.Person = m.findPerson(ctx, u.Person.ID)
	}
}

func (m *EntityMapper) HydratePerson(ctx context.Context, p *domain.Person) {
	if p == nil {
		return
	}
	if p.Address != nil {
		p.Address = m.findAddress(ctx, p.Address.ID)
	}
	if p.BirthCity != nil {
		p.BirthCity = m.geo.City(ctx, p.BirthCity.ID)
	}
	if p.BirthCountry != nil {
		p.BirthCountry = m.geo.Country(ctx, p.BirthCountry.ID)
	}
}

func (m *EntityMapper) HydrateAddress(ctx context.Context, a *domain.Address) {
	if a == nil {
		return
	}
	if a.City != nil {
		a.City = m.geo.City(ctx, a.City.ID)
	}
}

func (m *EntityMapper) findPerson(ctx context.Context, id string) *domain.Person {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	p, err := m.persons.FindByID(ctx, id)
	if err != nil {
		m.unresolved(err, domain.KindPerson, id)
		return nil
	}
	m.HydratePerson(ctx, p)
	return p
}

func (m *EntityMapper) findAddress(ctx context.Context, id string) *domain.Address {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	a, err := m.addresses.FindByID(ctx, id)
	if err != nil {
		m.unresolved(err, domain.KindAddress, id)
		return nil
	}
	m.HydrateAddress(ctx, a)
	return a
}

func (m *EntityMapper) unresolved(err error, kind domain.EntityKind, id string) {
	if errors.Is(err, domain.ErrNotFound) {
		m.logger.Debug().Str("kind", string(kind)).Str("id", id).Msg("reference not found, leaving empty")
		return
	}
	m.logger.Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("reference lookup failed, leaving empty")
}

// ── reverse ──────────────────────────────────────────────────────────────────

// ToUserDTO renders a user for output. The password is always cleared.
func ToUserDTO(u *domain.User) *ports.UserDTO {
	if u == nil {
		return nil
	}
	roles := make([]ports.RoleDTO, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, ToRoleDTO(r))
	}
	return &ports.UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Person:    ToPersonDTO(u.Person),
		Roles:     roles,
		CreatedAt: timePtr(u.CreatedAt),
		CreatedBy: u.CreatedBy,
	}
}

func ToPersonDTO(p *domain.Person) *ports.PersonDTO {
	if p == nil {
		return nil
	}
	return &ports.PersonDTO{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Gender:       string(p.Gender),
		Email:        p.Email,
		CPF:          p.CPF,
		Birthdate:    p.Birthdate,
		Address:      ToAddressDTO(p.Address),
		BirthCity:    ToCityDTO(p.BirthCity),
		BirthCountry: ToCountryDTO(p.BirthCountry),
		CreatedAt:    timePtr(p.CreatedAt),
		CreatedBy:    p.CreatedBy,
	}
}

func ToAddressDTO(a *domain.Address) *ports.AddressDTO {
	if a == nil {
		return nil
	}
	return &ports.AddressDTO{
		ID:               a.ID,
		Name:             a.Name,
		Logradouro:       string(a.Logradouro),
		Number:           a.Number,
		Neighborhood:     a.Neighborhood,
		CEP:              a.CEP,
		ZipCode:          a.ZipCode,
		Coordination:     a.Coordination,
		ReferentialPoint: a.ReferentialPoint,
		City:             ToCityDTO(a.City),
		CreatedAt:        timePtr(a.CreatedAt),
		CreatedBy:        a.CreatedBy,
	}
}

func ToCityDTO(c *domain.City) *ports.CityDTO {
	if c == nil {
		return nil
	}
	return &ports.CityDTO{ID: c.ID, Name: c.Name, State: ToStateDTO(c.State)}
}

func ToStateDTO(s *domain.State) *ports.StateDTO {
	if s == nil {
		return nil
	}
	return &ports.StateDTO{ID: s.ID, Name: s.Name, Country: ToCountryDTO(s.Country)}
}

func ToCountryDTO(c *domain.Country) *ports.CountryDTO {
	if c == nil {
		return nil
	}
	return &ports.CountryDTO{ID: c.ID, Name: c.Name}
}

func ToRoleDTO(r domain.Role) ports.RoleDTO {
	return ports.RoleDTO{ID: r.ID, Name: r.Name}
}

func cityID(c *ports.CityDTO) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func countryID(c *ports.CountryDTO) string {
	if c == nil {
		return ""
	}
	return c.ID
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
