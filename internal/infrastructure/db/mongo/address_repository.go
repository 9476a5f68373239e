package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

type AddressRepository struct {
	col *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{col: db.Collection(collectionAddresses)}
}

type addressDoc struct {
	ID               string    `bson:"_id"`
	Name             string    `bson:"name"`
	Logradouro       string    `bson:"logradouro,omitempty"`
	Number           string    `bson:"number,omitempty"`
	Neighborhood     string    `bson:"neighborhood,omitempty"`
	CEP              string    `bson:"cep,omitempty"`
	ZipCode          string    `bson:"zip_code,omitempty"`
	Coordination     string    `bson:"coordination,omitempty"`
	ReferentialPoint string    `bson:"referential_point,omitempty"`
	CityID           string    `bson:"city_id,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
	CreatedBy        string    `bson:"created_by"`
}

func toAddressDoc(a *domain.Address) addressDoc {
	doc := addressDoc{
		ID:               a.ID,
		Name:             a.Name,
		Logradouro:       string(a.Logradouro),
		Number:           a.Number,
		Neighborhood:     a.Neighborhood,
		CEP:              a.CEP,
		ZipCode:          a.ZipCode,
		Coordination:     a.Coordination,
		ReferentialPoint: a.ReferentialPoint,
		CreatedAt:        a.CreatedAt,
		CreatedBy:        a.CreatedBy,
	}
	if a.City != nil {
		doc.CityID = a.City.ID
	}
	return doc
}

func (d addressDoc) toDomain() *domain.Address {
	a := &domain.Address{
		ID:               d.ID,
		Name:             d.Name,
		Logradouro:       domain.Logradouro(d.Logradouro),
		Number:           d.Number,
		Neighborhood:     d.Neighborhood,
		CEP:              d.CEP,
		ZipCode:          d.ZipCode,
		Coordination:     d.Coordination,
		ReferentialPoint: d.ReferentialPoint,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
	if d.CityID != "" {
		a.City = &domain.City{ID: d.CityID}
	}
	return a
}

func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	return insert(ctx, r.col, toAddressDoc(a), "insert address")
}

func (r *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	return replace(ctx, r.col, a.ID, toAddressDoc(a), domain.KindAddress)
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.KindAddress)
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (*domain.Address, error) {
	doc, err := findOne[addressDoc](ctx, r.col, bson.M{"_id": id}, domain.KindAddress, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *AddressRepository) Search(ctx context.Context, spec query.Spec) ([]*domain.Address, int64, error) {
	docs, total, err := search[addressDoc](ctx, r.col, spec)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Address, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}
