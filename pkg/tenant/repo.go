package tenant

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection("tenants"),
	}
}

// EnsureIndexes creates the unique slug index. Safe to call on every start.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoRepo) Create(t *Tenant) error {
	ctx := context.TODO()

	if _, err := r.collection.InsertOne(ctx, t); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrTenantExists
		}
		return err
	}
	return nil
}

func (r *MongoRepo) GetByID(id string) (*Tenant, error) {
	ctx := context.TODO()

	var t Tenant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenant: %w", err)
	}
	return &t, nil
}

func (r *MongoRepo) Exists(id string) (bool, error) {
	ctx := context.TODO()

	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoRepo) List() ([]*Tenant, error) {
	ctx := context.TODO()

	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tenants := make([]*Tenant, 0)
	for cursor.Next(ctx) {
		var t Tenant
		if err := cursor.Decode(&t); err != nil {
			continue
		}
		tenants = append(tenants, &t)
	}
	return tenants, cursor.Err()
}
