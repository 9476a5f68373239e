package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/identityadmin/admin-service/internal/core/domain"
)

// GeoRepository reads countries, states and cities. Each level references its
// parent by id; lookups by id link the whole chain up to the country.
type GeoRepository struct {
	countries *mongo.Collection
	states    *mongo.Collection
	cities    *mongo.Collection
}

func NewGeoRepository(db *mongo.Database) *GeoRepository {
	return &GeoRepository{
		countries: db.Collection(collectionCountries),
		states:    db.Collection(collectionStates),
		cities:    db.Collection(collectionCities),
	}
}

type countryDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type stateDoc struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	CountryID string `bson:"country_id"`
}

type cityDoc struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	StateID   string `bson:"state_id"`
	CountryID string `bson:"country_id"`
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(caseInsensitive)

func (g *GeoRepository) Countries(ctx context.Context) ([]domain.Country, error) {
	docs, err := findAll[countryDoc](ctx, g.countries, bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Country, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Country{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

func (g *GeoRepository) States(ctx context.Context, countryID string) ([]domain.State, error) {
	docs, err := findAll[stateDoc](ctx, g.states, bson.M{"country_id": countryID})
	if err != nil {
		return nil, err
	}
	country, err := g.optionalCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.State, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.State{ID: d.ID, Name: d.Name, Country: country})
	}
	return out, nil
}

func (g *GeoRepository) Cities(ctx context.Context, countryID, stateID string) ([]domain.City, error) {
	docs, err := findAll[cityDoc](ctx, g.cities, bson.M{"country_id": countryID, "state_id": stateID})
	if err != nil {
		return nil, err
	}
	state, err := g.StateByID(ctx, stateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	out := make([]domain.City, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.City{ID: d.ID, Name: d.Name, State: state})
	}
	return out, nil
}

func (g *GeoRepository) CountryByID(ctx context.Context, id string) (*domain.Country, error) {
	doc, err := findOne[countryDoc](ctx, g.countries, bson.M{"_id": id}, domain.KindCountry, id)
	if err != nil {
		return nil, err
	}
	return &domain.Country{ID: doc.ID, Name: doc.Name}, nil
}

func (g *GeoRepository) StateByID(ctx context.Context, id string) (*domain.State, error) {
	doc, err := findOne[stateDoc](ctx, g.states, bson.M{"_id": id}, domain.KindState, id)
	if err != nil {
		return nil, err
	}
	country, err := g.optionalCountry(ctx, doc.CountryID)
	if err != nil {
		return nil, err
	}
	return &domain.State{ID: doc.ID, Name: doc.Name, Country: country}, nil
}

func (g *GeoRepository) CityByID(ctx context.Context, id string) (*domain.City, error) {
	doc, err := findOne[cityDoc](ctx, g.cities, bson.M{"_id": id}, domain.KindCity, id)
	if err != nil {
		return nil, err
	}
	state, err := g.StateByID(ctx, doc.StateID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return &domain.City{ID: doc.ID, Name: doc.Name, State: state}, nil
}

// optionalCountry returns nil, not an error, for a missing parent.
func (g *GeoRepository) optionalCountry(ctx context.Context, id string) (*domain.Country, error) {
	c, err := g.CountryByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func findAll[D any](ctx context.Context, col *mongo.Collection, filter bson.M) ([]D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, byName)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	docs := []D{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return docs, nil
}
