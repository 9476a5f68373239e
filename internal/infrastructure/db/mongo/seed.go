package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// geoSeed is the bootstrap reference catalogue. Ids are stable codes so the
// seed can be re-applied.
var geoSeed = struct {
	countries []countryDoc
	states    []stateDoc
	cities    []cityDoc
}{
	countries: []countryDoc{
		{ID: "BR", Name: "Brasil"},
		{ID: "PT", Name: "Portugal"},
	},
	states: []stateDoc{
		{ID: "BR-SP", Name: "São Paulo", CountryID: "BR"},
		{ID: "BR-RJ", Name: "Rio de Janeiro", CountryID: "BR"},
		{ID: "BR-MG", Name: "Minas Gerais", CountryID: "BR"},
		{ID: "BR-RS", Name: "Rio Grande do Sul", CountryID: "BR"},
		{ID: "PT-11", Name: "Lisboa", CountryID: "PT"},
		{ID: "PT-13", Name: "Porto", CountryID: "PT"},
	},
	cities: []cityDoc{
		{ID: "BR-SP-SAO", Name: "São Paulo", StateID: "BR-SP", CountryID: "BR"},
		{ID: "BR-SP-CPQ", Name: "Campinas", StateID: "BR-SP", CountryID: "BR"},
		{ID: "BR-SP-STS", Name: "Santos", StateID: "BR-SP", CountryID: "BR"},
		{ID: "BR-RJ-RIO", Name: "Rio de Janeiro", StateID: "BR-RJ", CountryID: "BR"},
		{ID: "BR-RJ-NIT", Name: "Niterói", StateID: "BR-RJ", CountryID: "BR"},
		{ID: "BR-MG-BHZ", Name: "Belo Horizonte", StateID: "BR-MG", CountryID: "BR"},
		{ID: "BR-RS-POA", Name: "Porto Alegre", StateID: "BR-RS", CountryID: "BR"},
		{ID: "PT-11-LIS", Name: "Lisboa", StateID: "PT-11", CountryID: "PT"},
		{ID: "PT-13-OPO", Name: "Porto", StateID: "PT-13", CountryID: "PT"},
	},
}

// SeedGeo upserts the bootstrap catalogue and returns how many documents were
// inserted. Existing documents are replaced with the seed values.
func SeedGeo(ctx context.Context, db *mongo.Database) (int64, error) {
	var inserted int64
	apply := func(coll string, models []mongo.WriteModel) error {
		if len(models) == 0 {
			return nil
		}
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
		res, err := db.Collection(coll).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return fmt.Errorf("seed %s: %w", coll, err)
		}
		inserted += res.UpsertedCount
		return nil
	}

	countries := make([]mongo.WriteModel, 0, len(geoSeed.countries))
	for _, c := range geoSeed.countries {
		countries = append(countries, upsertModel(c.ID, c))
	}
	states := make([]mongo.WriteModel, 0, len(geoSeed.states))
	for _, s := range geoSeed.states {
		states = append(states, upsertModel(s.ID, s))
	}
	cities := make([]mongo.WriteModel, 0, len(geoSeed.cities))
	for _, c := range geoSeed.cities {
		cities = append(cities, upsertModel(c.ID, c))
	}

	if err := apply(collectionCountries, countries); err != nil {
		return inserted, err
	}
	if err := apply(collectionStates, states); err != nil {
		return inserted, err
	}
	if err := apply(collectionCities, cities); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func upsertModel(id string, doc any) mongo.WriteModel {
	return mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": id}).
		SetReplacement(doc).
		SetUpsert(true)
}
