// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"garment-dispatch-api-server/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens the Mongo connection and pings it.
func Connect(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	return client.Database(cfg.DBName), nil
}

// EnsureIndexes creates the unique indexes the engine relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"users":           {Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		"warehouses":      {Keys: bson.D{{Key: "warehouseID", Value: 1}}, Options: unique},
		"products":        {Keys: bson.D{{Key: "productID", Value: 1}}, Options: unique},
		"sizes":           {Keys: bson.D{{Key: "sizeID", Value: 1}}, Options: unique},
		"colors":          {Keys: bson.D{{Key: "colorID", Value: 1}}, Options: unique},
		"barcodes":        {Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
		"dispatch_orders": {Keys: bson.D{{Key: "orderID", Value: 1}}, Options: unique},
	}
	for collection, model := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", collection, err)
		}
	}

	// One stock level per (warehouse, product).
	_, err := db.Collection("stock_levels").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "warehouseID", Value: 1}, {Key: "productID", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create index on stock_levels: %w", err)
	}
	return nil
}
