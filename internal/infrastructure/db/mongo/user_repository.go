package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

// UserRepository persists users. Roles are embedded as {_id, name} pairs;
// the person is referenced by id.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type roleDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Password  string    `bson:"password"`
	PersonID  string    `bson:"person_id,omitempty"`
	Roles     []roleDoc `bson:"roles"`
	CreatedAt time.Time `bson:"created_at"`
	CreatedBy string    `bson:"created_by"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		Roles:     make([]roleDoc, 0, len(u.Roles)),
		CreatedAt: u.CreatedAt,
		CreatedBy: u.CreatedBy,
	}
	if u.Person != nil {
		doc.PersonID = u.Person.ID
	}
	for _, r := range u.Roles {
		doc.Roles = append(doc.Roles, roleDoc{ID: r.ID, Name: r.Name})
	}
	return doc
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:        d.ID,
		Username:  d.Username,
		Password:  d.Password,
		Roles:     make([]domain.Role, 0, len(d.Roles)),
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
	}
	if d.PersonID != "" {
		u.Person = &domain.Person{ID: d.PersonID}
	}
	for _, r := range d.Roles {
		u.Roles = append(u.Roles, domain.Role{ID: r.ID, Name: r.Name})
	}
	return u
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return insert(ctx, r.col, toUserDoc(u), "insert user")
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return replace(ctx, r.col, u.ID, toUserDoc(u), domain.KindUser)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return writeErr("update password", err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound(domain.KindUser, id)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.KindUser)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, username)
}

func (r *UserRepository) FindByPersonID(ctx context.Context, personID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"person_id": personID}, personID)
}

func (r *UserRepository) Search(ctx context.Context, spec query.Spec) ([]*domain.User, int64, error) {
	docs, total, err := search[userDoc](ctx, r.col, spec)
	if err != nil {
		return nil, 0, err
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, total, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, key string) (*domain.User, error) {
	doc, err := findOne[userDoc](ctx, r.col, filter, domain.KindUser, key)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}
