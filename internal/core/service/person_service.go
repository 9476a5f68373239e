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

var personSort = query.SortPolicy{
	Allowed: []string{domain.FieldFirstName, domain.FieldLastName, domain.FieldEmail, domain.FieldBirthdate, domain.FieldCreatedAt},
	Default: domain.FieldFirstName,
}

type PersonService struct {
	persons ports.PersonRepository
	tx      ports.Transactor
	mapper  *EntityMapper
	logger  zerolog.Logger
}

func NewPersonService(persons ports.PersonRepository, tx ports.Transactor, mapper *EntityMapper, logger zerolog.Logger) *PersonService {
	return &PersonService{persons: persons, tx: tx, mapper: mapper, logger: logger}
}

// FindAll returns every person ordered by first name.
func (s *PersonService) FindAll(ctx context.Context) ([]ports.PersonDTO, error) {
	persons, _, err := s.persons.Search(ctx, query.NewBuilder().Build(query.Unpaged(domain.FieldFirstName)))
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return s.render(ctx, persons), nil
}

func (s *PersonService) FindPageable(ctx context.Context, q ports.PersonQuery) (query.Page[ports.PersonDTO], error) {
	page := query.NewPageRequest(q.Page, q.PageSize, q.SortField, q.SortDir, personSort)
	spec := query.NewBuilder().
		WithID(domain.FieldID, q.ID).
		WithNameLike(q.Name, domain.FieldFirstName, domain.FieldLastName).
		WithEquals(domain.FieldEmail, q.Email).
		WithEquals(domain.FieldCPF, domain.NormalizeCPF(q.CPF)).
		WithEquals(domain.FieldGender, strings.ToUpper(q.Gender)).
		WithDateBetween(domain.FieldBirthdate, q.StartDate, q.EndDate).
		Build(page)
	return s.search(ctx, spec)
}

// FindByName pages through persons whose first or last name contains name.
func (s *PersonService) FindByName(ctx context.Context, name string, pq ports.PageQuery) (query.Page[ports.PersonDTO], error) {
	if strings.TrimSpace(name) == "" {
		return query.Page[ports.PersonDTO]{}, domain.InvalidRequest("name must not be blank")
	}
	page := query.NewPageRequest(pq.Page, pq.PageSize, pq.SortField, pq.SortDir, personSort)
	spec := query.NewBuilder().
		WithNameLike(name, domain.FieldFirstName, domain.FieldLastName).
		Build(page)
	return s.search(ctx, spec)
}

func (s *PersonService) FindByID(ctx context.Context, id string) (*ports.PersonDTO, error) {
	p, err := s.persons.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	s.mapper.HydratePerson(ctx, p)
	return ToPersonDTO(p), nil
}

func (s *PersonService) Create(ctx context.Context, in ports.PersonDTO) (*ports.PersonDTO, error) {
	var created *domain.Person
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p := s.mapper.PersonFromDTO(ctx, &in)
		p.ID = uuid.NewString()
		p.CreatedAt = now()
		p.CreatedBy = domain.ActorFromContext(ctx)
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.persons.Create(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	s.logger.Info().Str("person_id", created.ID).Msg("person created")
	return ToPersonDTO(created), nil
}

func (s *PersonService) Update(ctx context.Context, id string, in ports.PersonDTO) (*ports.PersonDTO, error) {
	var updated *domain.Person
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.persons.FindByID(ctx, id)
		if err != nil {
			return err
		}
		p := s.mapper.OverlayPerson(ctx, existing, &in)
		if err := p.Validate(); err != nil {
			return err
		}
		if err := s.persons.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	s.logger.Info().Str("person_id", updated.ID).Msg("person updated")
	return ToPersonDTO(updated), nil
}

func (s *PersonService) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.persons.FindByID(ctx, id); err != nil {
			return err
		}
		return s.persons.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	s.logger.Info().Str("person_id", id).Msg("person deleted")
	return nil
}

func (s *PersonService) search(ctx context.Context, spec query.Spec) (query.Page[ports.PersonDTO], error) {
	persons, total, err := s.persons.Search(ctx, spec)
	if err != nil {
		return query.Page[ports.PersonDTO]{}, fmt.Errorf("search persons: %w", err)
	}
	return query.NewPage(s.render(ctx, persons), total, spec.Page), nil
}

func (s *PersonService) render(ctx context.Context, persons []*domain.Person) []ports.PersonDTO {
	out := make([]ports.PersonDTO, 0, len(persons))
	for _, p := range persons {
		s.mapper.HydratePerson(ctx, p)
		out = append(out, *ToPersonDTO(p))
	}
	return out
}
