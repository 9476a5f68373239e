package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/identityadmin/admin-service/internal/api/metrics"
	"github.com/identityadmin/admin-service/internal/core/domain"
)

// RoleRepository reads roles and provisions them on first use. The unique
// index on name is what makes EnsureRole safe under concurrency.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

func (r *RoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, bson.M{"name": name}, name)
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	var docs []roleDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	roles := make([]domain.Role, 0, len(docs))
	for _, d := range docs {
		roles = append(roles, domain.Role{ID: d.ID, Name: d.Name})
	}
	return roles, nil
}

// EnsureRole upserts the role by name with $setOnInsert, so an existing row is
// never modified. Two concurrent upserts on a missing name can both attempt
// the insert; the loser gets a duplicate-key error and re-reads the winner's
// row.
func (r *RoleRepository) EnsureRole(ctx context.Context, name string) (*domain.Role, error) {
	upsertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(upsertCtx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"_id": uuid.NewString()}},
		options.Update().SetUpsert(true),
	)
	switch {
	case mongo.IsDuplicateKeyError(err):
		metrics.DefaultRoleProvisionsTotal.WithLabelValues("raced").Inc()
	case err != nil:
		return nil, fmt.Errorf("ensure role %q: %w", name, err)
	case res.UpsertedCount > 0:
		metrics.DefaultRoleProvisionsTotal.WithLabelValues("created").Inc()
	default:
		metrics.DefaultRoleProvisionsTotal.WithLabelValues("existing").Inc()
	}
	return r.FindByName(ctx, name)
}

func (r *RoleRepository) findOne(ctx context.Context, filter bson.M, key string) (*domain.Role, error) {
	doc, err := findOne[roleDoc](ctx, r.col, filter, domain.KindRole, key)
	if err != nil {
		return nil, err
	}
	return &domain.Role{ID: doc.ID, Name: doc.Name}, nil
}
