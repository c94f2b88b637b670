package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"leafsense/internal/types"
)

const submissionsCollection = "predictions"

// recentWindow bounds the "recent predictions" stat.
const recentWindow = 7 * 24 * time.Hour

// SubmissionRepo persists prediction submissions in the predictions
// collection. Safe for concurrent use.
type SubmissionRepo struct {
	col    *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

// NewSubmissionRepo builds the repository over the given database.
func NewSubmissionRepo(client *mongo.Client, database string, logger *slog.Logger) *SubmissionRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionRepo{
		col:    client.Database(database).Collection(submissionsCollection),
		logger: logger,
		now:    time.Now,
	}
}

// Create stores a submission record, assigning a fresh id and a UTC
// timestamp when the caller left them empty. The record is returned with
// those fields populated.
func (r *SubmissionRepo) Create(ctx context.Context, rec *types.SubmissionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = r.now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return r.storeErr("inserting submission", err)
	}
	return nil
}

// List returns submissions newest first, bounded by limit and offset by
// skip, together with the total collection count for pagination.
func (r *SubmissionRepo) List(ctx context.Context, limit, skip int64) ([]types.SubmissionRecord, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, r.storeErr("counting submissions", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, r.storeErr("listing submissions", err)
	}
	defer cur.Close(ctx)

	records := make([]types.SubmissionRecord, 0, limit)
	if err := cur.All(ctx, &records); err != nil {
		return nil, 0, r.storeErr("decoding submissions", err)
	}
	return records, total, nil
}

// GetByID fetches one submission by its id field.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*types.SubmissionRecord, error) {
	var rec types.SubmissionRecord
	err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, types.NewAppError(types.ErrCodeNotFoundRecord, "record not found", err)
	}
	if err != nil {
		return nil, r.storeErr("fetching submission", err)
	}
	return &rec, nil
}

// Delete removes one submission by id.
func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return r.storeErr("deleting submission", err)
	}
	if res.DeletedCount == 0 {
		return types.NewAppError(types.ErrCodeNotFoundRecord, "record not found", nil)
	}
	return nil
}

// Stats aggregates the submission history: totals, per-disease and per-crop
// distributions, mean confidence, and the count within the recent window.
// An empty collection yields zeroed stats with non-nil maps.
func (r *SubmissionRepo) Stats(ctx context.Context) (*types.StoreStats, error) {
	stats := &types.StoreStats{
		DiseaseDistribution: make(map[string]int),
		CropsAnalyzed:       make(map[string]int),
	}

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, r.storeErr("counting submissions", err)
	}
	stats.TotalPredictions = int(total)
	if total == 0 {
		return stats, nil
	}

	if err := r.groupCounts(ctx, "predicted_disease", stats.DiseaseDistribution); err != nil {
		return nil, err
	}
	if err := r.groupCounts(ctx, "crop_type", stats.CropsAnalyzed); err != nil {
		return nil, err
	}

	avg, err := r.averageConfidence(ctx)
	if err != nil {
		return nil, err
	}
	stats.AvgConfidence = avg

	since := r.now().UTC().Add(-recentWindow)
	recent, err := r.col.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$gte": since}})
	if err != nil {
		return nil, r.storeErr("counting recent submissions", err)
	}
	stats.RecentPredictions = int(recent)

	return stats, nil
}

// groupCounts runs a $group count over one field into dst.
func (r *SubmissionRepo) groupCounts(ctx context.Context, field string, dst map[string]int) error {
	pipe := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipe)
	if err != nil {
		return r.storeErr("aggregating "+field, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return r.storeErr("decoding "+field+" aggregation", err)
		}
		dst[row.ID] = row.Count
	}
	if err := cur.Err(); err != nil {
		return r.storeErr("iterating "+field+" aggregation", err)
	}
	return nil
}

func (r *SubmissionRepo) averageConfidence(ctx context.Context) (float64, error) {
	pipe := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"avg": bson.M{"$avg": "$confidence"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipe)
	if err != nil {
		return 0, r.storeErr("aggregating confidence", err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Avg float64 `bson:"avg"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, r.storeErr("decoding confidence aggregation", err)
		}
		return row.Avg, nil
	}
	if err := cur.Err(); err != nil {
		return 0, r.storeErr("iterating confidence aggregation", err)
	}
	return 0, nil
}

// storeErr wraps a driver error as a store_error, logging the operation.
func (r *SubmissionRepo) storeErr(op string, err error) *types.AppError {
	r.logger.Error("store operation failed", "op", op, "error", err)
	return types.NewAppError(types.ErrCodeStore, op+" failed", err)
}
