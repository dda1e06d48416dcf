package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore maps each collection onto a MongoDB collection, with the
// document id stored as _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo dials uri and pings it before returning.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("docstore: connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("docstore: ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) Get(ctx context.Context, id string) (Document, error) {
	var raw bson.Raw
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_, doc, err := fromBSON(raw)
	return doc, err
}

func (c *mongoCollection) GetAll(ctx context.Context) ([]Snapshot, error) {
	return c.find(ctx, bson.M{}, options.Find())
}

func (c *mongoCollection) Query(ctx context.Context, q *Query) ([]Snapshot, error) {
	opts := options.Find()
	if q.OrderField != "" {
		direction := 1
		if q.Descending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderField, Value: direction}})
	}
	if q.Max > 0 {
		opts.SetLimit(int64(q.Max))
	}
	return c.find(ctx, BuildFilter(q), opts)
}

func (c *mongoCollection) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]Snapshot, error) {
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]Snapshot, 0)
	for cursor.Next(ctx) {
		id, doc, err := fromBSON(cursor.Current)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{ID: id, Data: doc})
	}
	return out, cursor.Err()
}

func (c *mongoCollection) Set(ctx context.Context, id string, doc Document) error {
	body := bson.M{}
	for k, v := range clone(doc) {
		body[k] = v
	}
	body["_id"] = id
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, body, options.Replace().SetUpsert(true))
	return err
}

func (c *mongoCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	set := bson.M{}
	for path, value := range fields {
		set[path] = normalize(value)
	}
	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *mongoCollection) Delete(ctx context.Context, id string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (c *mongoCollection) Add(ctx context.Context, doc Document) (string, error) {
	id := uuid.NewString()
	if err := c.Set(ctx, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

var mongoOperators = map[Op]string{
	OpNotEqual:     "$ne",
	OpLess:         "$lt",
	OpLessEqual:    "$lte",
	OpGreater:      "$gt",
	OpGreaterEqual: "$gte",
	OpIn:           "$in",
}

// BuildFilter translates a Query's filters into a MongoDB filter document.
// Equality and array-contains both use the implicit form, which matches
// array elements too.
func BuildFilter(q *Query) bson.M {
	filter := bson.M{}
	if q == nil {
		return filter
	}
	for _, f := range q.Filters {
		switch f.Op {
		case OpEqual, OpArrayContains:
			filter[f.Field] = f.Value
		default:
			op, ok := mongoOperators[f.Op]
			if !ok {
				continue
			}
			cond, _ := filter[f.Field].(bson.M)
			if cond == nil {
				cond = bson.M{}
			}
			cond[op] = f.Value
			filter[f.Field] = cond
		}
	}
	return filter
}

// fromBSON converts a raw document to the JSON value space via relaxed
// extended JSON and splits off _id.
func fromBSON(raw bson.Raw) (string, Document, error) {
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return "", nil, fmt.Errorf("docstore: convert bson: %w", err)
	}
	doc := Document{}
	if err := json.Unmarshal(ext, &doc); err != nil {
		return "", nil, fmt.Errorf("docstore: convert bson: %w", err)
	}
	id, _ := doc["_id"].(string)
	delete(doc, "_id")
	return id, doc, nil
}
