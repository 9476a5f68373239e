package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/identityadmin/admin-service/internal/core/domain"
	"github.com/identityadmin/admin-service/internal/core/query"
)

// bsonField maps a logical field name to its document key. Documents use the
// logical names verbatim except for the identity.
func bsonField(field string) string {
	if field == domain.FieldID {
		return "_id"
	}
	return field
}

// FilterFromSpec translates the criteria of a spec into a Mongo filter.
// Criteria are ANDed; a spec without criteria matches everything.
func FilterFromSpec(spec query.Spec) bson.M {
	and := bson.A{}
	for _, c := range spec.Criteria {
		switch c.Op {
		case query.OpEquals:
			and = append(and, bson.M{bsonField(c.Fields[0]): c.Value})
		case query.OpContainsFold:
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(c.Value), Options: "i"}
			if len(c.Fields) == 1 {
				and = append(and, bson.M{bsonField(c.Fields[0]): pattern})
				continue
			}
			or := bson.A{}
			for _, f := range c.Fields {
				or = append(or, bson.M{bsonField(f): pattern})
			}
			and = append(and, bson.M{"$or": or})
		case query.OpBetween:
			and = append(and, bson.M{bsonField(c.Fields[0]): bson.M{"$gte": c.From, "$lte": c.To}})
		}
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// caseInsensitive orders strings ignoring case and accents the Portuguese
// way. Name matching never depends on it: regexes are not collation aware.
var caseInsensitive = &options.Collation{Locale: "pt", Strength: 2}

// collationFor returns the collation a search may run under. A collation
// also applies to equality predicates, so specs that match a field exactly
// run under the default binary collation and sort case-sensitively.
func collationFor(spec query.Spec) *options.Collation {
	for _, c := range spec.Criteria {
		if c.Op == query.OpEquals {
			return nil
		}
	}
	return caseInsensitive
}

// findOptions sorts by the requested field with _id as tie-breaker so pages
// are stable, and applies skip/limit when the request is paged.
func findOptions(spec query.Spec) *options.FindOptions {
	page := spec.Page
	dir := 1
	if page.Direction == query.Desc {
		dir = -1
	}
	sort := bson.D{}
	if page.SortField != "" && page.SortField != domain.FieldID {
		sort = append(sort, bson.E{Key: bsonField(page.SortField), Value: dir})
	}
	sort = append(sort, bson.E{Key: "_id", Value: dir})

	opts := options.Find().SetSort(sort)
	if coll := collationFor(spec); coll != nil {
		opts.SetCollation(coll)
	}
	if page.Paged() {
		opts.SetSkip(page.Offset()).SetLimit(int64(page.Size))
	}
	return opts
}

// search runs a counted, paged find. An out-of-range page returns no
// documents without querying them.
func search[D any](ctx context.Context, col *mongo.Collection, spec query.Spec) ([]D, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := FilterFromSpec(spec)
	countOpts := options.Count()
	if coll := collationFor(spec); coll != nil {
		countOpts.SetCollation(coll)
	}
	total, err := col.CountDocuments(ctx, filter, countOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}
	if total == 0 || spec.Page.Offset() >= total {
		return []D{}, total, nil
	}

	cur, err := col.Find(ctx, filter, findOptions(spec))
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	docs := []D{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return docs, total, nil
}

// findOne decodes a single document, translating ErrNoDocuments into a
// domain NotFoundError.
func findOne[D any](ctx context.Context, col *mongo.Collection, filter bson.M, kind domain.EntityKind, key string) (*D, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc D
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFound(kind, key)
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return &doc, nil
}

// writeErr reclassifies uniqueness violations so storage details do not
// leak past the adapter.
func writeErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func insert(ctx context.Context, col *mongo.Collection, doc any, op string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return writeErr(op, err)
	}
	return nil
}

// replace overwrites the document with the given id; a missing document is a
// NotFoundError.
func replace(ctx context.Context, col *mongo.Collection, id string, doc any, kind domain.EntityKind) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return writeErr("update "+string(kind), err)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFound(kind, id)
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string, kind domain.EntityKind) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFound(kind, id)
	}
	return nil
}
