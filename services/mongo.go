package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climate-hub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 10 * time.Second

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// MongoReportStore stores reports in a MongoDB collection.
type MongoReportStore struct {
	col *mongo.Collection
}

func NewMongoReportStore(col *mongo.Collection) *MongoReportStore {
	return &MongoReportStore{col: col}
}

func (s *MongoReportStore) Create(ctx context.Context, r *models.Report) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	prepareReport(r)
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *MongoReportStore) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Severity != "" {
		query["severity"] = filter.Severity
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := s.col.Find(ctx, query, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (s *MongoReportStore) Get(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var report models.Report
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

func (s *MongoReportStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var report models.Report
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("update report status: %w", err)
	}
	return report, nil
}

func (s *MongoReportStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats groups on the (category, severity, status) triple once and folds the
// buckets into the three breakdowns.
func (s *MongoReportStore) Stats(ctx context.Context) (models.ReportStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "category", Value: "$category"},
				{Key: "severity", Value: "$severity"},
				{Key: "status", Value: "$status"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ReportStats{}, fmt.Errorf("aggregate report stats: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []struct {
		Key struct {
			Category models.ReportCategory `bson:"category"`
			Severity models.ReportSeverity `bson:"severity"`
			Status   models.ReportStatus   `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &buckets); err != nil {
		return models.ReportStats{}, fmt.Errorf("decode report stats: %w", err)
	}

	stats := models.NewReportStats()
	for _, b := range buckets {
		stats.Total += b.Count
		stats.ByCategory[b.Key.Category] += b.Count
		stats.BySeverity[b.Key.Severity] += b.Count
		stats.ByStatus[b.Key.Status] += b.Count
	}
	return stats, nil
}

// MongoFaqStore stores FAQ messages in a MongoDB collection.
type MongoFaqStore struct {
	col *mongo.Collection
}

func NewMongoFaqStore(col *mongo.Collection) *MongoFaqStore {
	return &MongoFaqStore{col: col}
}

func (s *MongoFaqStore) Create(ctx context.Context, f *models.Faq) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	prepareFaq(f)
	if _, err := s.col.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert faq: %w", err)
	}
	return nil
}

func (s *MongoFaqStore) List(ctx context.Context) ([]models.Faq, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find faqs: %w", err)
	}
	defer cursor.Close(ctx)

	faqs := []models.Faq{}
	if err := cursor.All(ctx, &faqs); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	return faqs, nil
}

// MongoOrderStore stores shop orders in a MongoDB collection.
type MongoOrderStore struct {
	col *mongo.Collection
}

func NewMongoOrderStore(col *mongo.Collection) *MongoOrderStore {
	return &MongoOrderStore{col: col}
}

func (s *MongoOrderStore) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	prepareOrder(o)
	if _, err := s.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *MongoOrderStore) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *MongoOrderStore) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"status":    models.OrderPending,
		"createdAt": bson.M{"$lt": cutoff},
	}
	result, err := s.col.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.OrderExpired}})
	if err != nil {
		return 0, fmt.Errorf("expire orders: %w", err)
	}
	return result.ModifiedCount, nil
}
