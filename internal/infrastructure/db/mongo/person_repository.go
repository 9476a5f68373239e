package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

type PersonRepository struct {
	col *mongo.Collection
}

func NewPersonRepository(db *mongo.Database) *PersonRepository {
	return &PersonRepository{col: db.Collection(collectionPersons)}
}

type personDoc struct {
	ID             string     `bson:"_id"`
	FirstName      string     `bson:"first_name"`
	LastName       string     `bson:"last_name,omitempty"`
	Gender         string     `bson:"gender,omitempty"`
	Email          string     `bson:"email,omitempty"`
	CPF            string     `bson:"cpf,omitempty"`
	Birthdate      *time.Time `bson:"birthdate,omitempty"`
	AddressID      string     `bson:"address_id,omitempty"`
	BirthCityID    string     `bson:"birth_city_id,omitempty"`
	BirthCountryID string     `bson:"birth_country_id,omitempty"`
	CreatedAt      time.Time  `bson:"created_at"`
	CreatedBy      string     `bson:"created_by"`
}

func toPersonDoc(p *domain.Person) personDoc {
	doc := personDoc{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    string(p.Gender),
		Email:     p.Email,
		CPF:       p.CPF,
		Birthdate: p.Birthdate,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
	if p.Address != nil {
		doc.AddressID = p.Address.ID
	}
	if p.BirthCity != nil {
		doc.BirthCityID = p.BirthCity.ID
	}
	if p.BirthCountry != nil {
		doc.BirthCountryID = p.BirthCountry.ID
	}
	return doc
}

func (d personDoc) toDomain() *domain.Person {
	p := &domain.Person{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Gender:    domain.Gender(d.Gender),
		Email:     d.Email,
		CPF:       d.CPF,
		Birthdate: d.Birthdate,
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
	}
	if d.AddressID != "" {
		p.Address = &domain.Address{ID: d.AddressID}
	}
	if d.BirthCityID != "" {
		p.BirthCity = &domain.City{ID: d.BirthCityID}
	}
	if d.BirthCountryID != "" {
		p.BirthCountry = &domain.Country{ID: d.BirthCountryID}
	}
	return p
}

func (r *PersonRepository) Create(ctx context.Context, p *domain.Person) error {
	return insert(ctx, r.col, toPersonDoc(p), "insert person")
}

func (r *PersonRepository) Update(ctx context.Context, p *domain.Person) error {
	return replace(ctx, r.col, p.ID, toPersonDoc(p), domain.KindPerson)
}

func (r *PersonRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id, domain.KindPerson)
}

func (r *PersonRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	doc, err := findOne[personDoc](ctx, r.col, bson.M{"_id": id}, domain.KindPerson, id)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PersonRepository) FindByEmail(ctx context.Context, email string) (*domain.Person, error) {
	doc, err := findOne[personDoc](ctx, r.col, bson.M{"email": email}, domain.KindPerson, email)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PersonRepository) Search(ctx context.Context, spec query.Spec) ([]*domain.Person, int64, error) {
	docs, total, err := search[personDoc](ctx, r.col, spec)
	if err != nil {
		return nil, 0, err
	}
	persons := make([]*domain.Person, 0, len(docs))
	for _, d := range docs {
		persons = append(persons, d.toDomain())
	}
	return persons, total, nil
}
