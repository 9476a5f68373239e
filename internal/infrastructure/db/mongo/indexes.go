package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every collection relies on. The unique
// ones back the ErrConflict reclassification and default-role provisioning.
// Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "person_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		collectionPersons: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}},
			{Keys: bson.D{{Key: "cpf", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "birthdate", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		collectionAddresses: {
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		collectionRoles: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionStates: {
			{Keys: bson.D{{Key: "country_id", Value: 1}, {Key: "name", Value: 1}}},
		},
		collectionCities: {
			{Keys: bson.D{{Key: "country_id", Value: 1}, {Key: "state_id", Value: 1}, {Key: "name", Value: 1}}},
		},
	}

	for coll, models := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
