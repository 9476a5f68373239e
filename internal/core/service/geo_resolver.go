package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/ports"
)

// GeoResolver resolves Country/State/City references. Single lookups never
// fail: a blank id, a missing row or a storage error all resolve to nil so a
// partially known location never blocks the surrounding write.
type GeoResolver struct {
	repo   ports.GeoRepository
	logger zerolog.Logger
}

func NewGeoResolver(repo ports.GeoRepository, logger zerolog.Logger) *GeoResolver {
	return &GeoResolver{repo: repo, logger: logger}
}

func (g *GeoResolver) Country(ctx context.Context, id string) *domain.Country {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	c, err := g.repo.CountryByID(ctx, id)
	if err != nil {
		g.unresolved(err, domain.KindCountry, id)
		return nil
	}
	return c
}

func (g *GeoResolver) State(ctx context.Context, id string) *domain.State {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	s, err := g.repo.StateByID(ctx, id)
	if err != nil {
		g.unresolved(err, domain.KindState, id)
		return nil
	}
	return s
}

func (g *GeoResolver) City(ctx context.Context, id string) *domain.City {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	c, err := g.repo.CityByID(ctx, id)
	if err != nil {
		g.unresolved(err, domain.KindCity, id)
		return nil
	}
	return c
}

func (g *GeoResolver) Countries(ctx context.Context) ([]domain.Country, error) {
	return g.repo.Countries(ctx)
}

// States lists the states of a country; an unknown country yields an empty list.
func (g *GeoResolver) States(ctx context.Context, countryID string) ([]domain.State, error) {
	if g.Country(ctx, countryID) == nil {
		return []domain.State{}, nil
	}
	return g.repo.States(ctx, countryID)
}

// Cities lists the cities of a state. The state must exist and belong to the
// given country, otherwise the list is empty.
func (g *GeoResolver) Cities(ctx context.Context, countryID, stateID string) ([]domain.City, error) {
	st := g.State(ctx, stateID)
	if st == nil || st.Country == nil || st.Country.ID != countryID {
		return []domain.City{}, nil
	}
	return g.repo.Cities(ctx, countryID, stateID)
}

func (g *GeoResolver) unresolved(err error, kind domain.EntityKind, id string) {
	if errors.Is(err, domain.ErrNotFound) {
		g.logger.Debug().Str("kind", string(kind)).Str("id", id).Msg("reference not found, leaving empty")
		return
	}
	g.logger.Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("reference lookup failed, leaving empty")
}
