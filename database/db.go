package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	ReportsCollection = "reports"
	FaqsCollection    = "faqs"
	OrdersCollection  = "orders"
)

// Client is the shared MongoDB connection, nil until InitDB succeeds.
var Client *mongo.Client

var dbName string

// InitDB connects to MongoDB, pings it and creates the indexes the API sorts and filters on.
func InitDB(uri, name string) error {
	if uri == "" {
		return fmt.Errorf("MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}

	Client = client
	dbName = name

	if err := ensureIndexes(ctx); err != nil {
		zap.L().Warn("index creation failed", zap.Error(err))
	}

	zap.L().Info("connected to MongoDB", zap.String("database", name))
	return nil
}

// DisconnectDB closes the connection opened by InitDB.
func DisconnectDB() {
	if Client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Client.Disconnect(ctx); err != nil {
		zap.L().Error("failed to disconnect MongoDB", zap.Error(err))
		return
	}
	Client = nil
	zap.L().Info("disconnected from MongoDB")
}

// OpenCollection returns the named collection of the configured database.
func OpenCollection(collectionName string) *mongo.Collection {
	return Client.Database(dbName).Collection(collectionName)
}

func ensureIndexes(ctx context.Context) error {
	newestFirst := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}

	if _, err := OpenCollection(ReportsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		newestFirst,
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("reports indexes: %w", err)
	}
	if _, err := OpenCollection(FaqsCollection).Indexes().CreateOne(ctx, newestFirst); err != nil {
		return fmt.Errorf("faqs indexes: %w", err)
	}
	if _, err := OpenCollection(OrdersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("orders indexes: %w", err)
	}
	return nil
}
