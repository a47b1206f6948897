package syncjob

import (
	"context"
	"errors"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound     = errors.New("sync job not found")
	ErrLeaseHeld    = errors.New("sync job lease held by another invocation")
	ErrStaleVersion = errors.New("sync job version changed underneath us")
)

type Repository interface {
	Create(ctx context.Context, job *SyncJob) error
	Get(ctx context.Context, jobID string) (*SyncJob, error)
	FindIncomplete(ctx context.Context, integrationID string, dataType models.DataType, label string) (*SyncJob, error)
	AcquireLease(ctx context.Context, jobID string, ttl time.Duration) (*SyncJob, error)
	AdvanceProgress(ctx context.Context, jobID string, version int64, newPage, items, errCount int) (*SyncJob, error)
	Finish(ctx context.Context, jobID string, version int64, status string, errMsg string) error
	ListActive(ctx context.Context) ([]SyncJob, error)
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("sync_jobs"),
	}
}

// EnsureIndexes enforces the one-running-job-per-tuple invariant at the
// store level instead of trusting callers to check first.
func (r *RepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "integration_id", Value: 1},
				{Key: "data_type", Value: 1},
				{Key: "cron_label", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": StatusRunning}),
		},
	})
	return err
}

func (r *RepositoryImpl) Create(ctx context.Context, job *SyncJob) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	job.Status = StatusRunning
	job.Version = 1

	_, err := r.collection.InsertOne(ctx, job)
	return err
}

func (r *RepositoryImpl) Get(ctx context.Context, jobID string) (*SyncJob, error) {
	var job SyncJob
	err := r.collection.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *RepositoryImpl) FindIncomplete(ctx context.Context, integrationID string, dataType models.DataType, label string) (*SyncJob, error) {
	var job SyncJob
	err := r.collection.FindOne(ctx, bson.M{
		"integration_id": integrationID,
		"data_type":      dataType,
		"cron_label":     label,
		"status":         StatusRunning,
	}).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// AcquireLease atomically claims a running job whose previous lease has
// expired. Losing the race returns ErrLeaseHeld.
func (r *RepositoryImpl) AcquireLease(ctx context.Context, jobID string, ttl time.Duration) (*SyncJob, error) {
	now := time.Now()
	filter := bson.M{
		"job_id": jobID,
		"status": StatusRunning,
		"lease_until": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{"lease_until": now.Add(ttl), "updated_at": now},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job SyncJob
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := r.Get(ctx, jobID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrLeaseHeld
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// AdvanceProgress moves the page cursor forward, guarded by the version the
// caller last saw. A stale version means another invocation advanced the
// job; the caller must stop.
func (r *RepositoryImpl) AdvanceProgress(ctx context.Context, jobID string, version int64, newPage, items, errCount int) (*SyncJob, error) {
	filter := bson.M{"job_id": jobID, "version": version, "status": StatusRunning}
	update := bson.M{
		"$set": bson.M{"current_page": newPage, "updated_at": time.Now()},
		"$inc": bson.M{"version": 1, "total_items": items, "total_errors": errCount},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job SyncJob
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&job)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStaleVersion
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *RepositoryImpl) Finish(ctx context.Context, jobID string, version int64, status string, errMsg string) error {
	now := time.Now()
	set := bson.M{
		"status":       status,
		"updated_at":   now,
		"completed_at": now,
		"lease_until":  time.Time{},
	}
	if errMsg != "" {
		set["error"] = errMsg
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"job_id": jobID, "version": version, "status": StatusRunning},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *RepositoryImpl) ListActive(ctx context.Context) ([]SyncJob, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": StatusRunning}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []SyncJob
	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *RepositoryImpl) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{
		"status":       bson.M{"$in": []string{StatusCompleted, StatusFailed}},
		"completed_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
