package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// abandonedCartTTL expires records nobody touched for 90 days.
const abandonedCartTTL = 90 * 24 * 60 * 60

type cartDocument struct {
	Name              string `bson:"_id"`
	domain.CartRecord `bson:",inline"`
}

// MongoRepository keeps the cart record as one document keyed by storage name.
type MongoRepository struct {
	collection *mongo.Collection
	name       string
}

func NewMongoRepository(db *mongo.Database, name string) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("cart_records"),
		name:       name,
	}
}

func (m *MongoRepository) Load(ctx context.Context) (*domain.CartRecord, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": m.name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cart.ErrNoRecord
		}
		return nil, fmt.Errorf("failed to get cart record: %w", err)
	}
	return &doc.CartRecord, nil
}

// Save replaces the whole document so lines and session ref change in one write.
func (m *MongoRepository) Save(ctx context.Context, record *domain.CartRecord) error {
	doc := cartDocument{Name: m.name, CartRecord: *record}
	if doc.Lines == nil {
		doc.Lines = []domain.CartLine{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": m.name}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert cart record: %w", err)
	}
	return nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(abandonedCartTTL),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
