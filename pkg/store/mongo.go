package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the MongoDB backend.
const (
	DefaultMongoDatabase   = "nbmap"
	DefaultMongoCollection = "datasets"

	mongoConnectTimeout = 10 * time.Second
)

// MongoStore keeps datasets in a MongoDB collection, one document per
// dataset with the id as _id. Suitable for a shared render server
// deployment.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and uses the default
// database and collection names. The connection is verified with a
// ping before returning.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return NewMongoStoreFromClient(client, DefaultMongoDatabase, DefaultMongoCollection), nil
}

// NewMongoStoreFromClient wraps an existing client. The caller keeps
// ownership of the client only until Close is called on the store.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// Get retrieves a dataset by id.
func (s *MongoStore) Get(ctx context.Context, id string) (*Dataset, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var ds Dataset
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ds)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", id, err)
	}
	return &ds, nil
}

// Put upserts a dataset document.
func (s *MongoStore) Put(ctx context.Context, ds *Dataset) error {
	if err := validateID(ds.ID); err != nil {
		return err
	}
	ds.UpdatedAt = time.Now().UTC()

	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": ds.ID},
		ds,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("writing dataset %s: %w", ds.ID, err)
	}
	return nil
}

// Delete removes a dataset document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting dataset %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns metadata for all datasets ordered by name. The GeoJSON
// payload is excluded by projection so listings stay cheap for large
// datasets.
func (s *MongoStore) List(ctx context.Context) ([]Dataset, error) {
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer cursor.Close(ctx)

	var out []Dataset
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	return out, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
