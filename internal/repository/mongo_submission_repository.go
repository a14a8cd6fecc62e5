package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/osa911/contact-api/internal/models"
)

const submissionsCollection = "submissions"

// MongoSubmissionRepository persists submissions in a MongoDB collection.
type MongoSubmissionRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects to MongoDB and ensures the collection indexes exist
func OpenMongo(ctx context.Context, uri, database string) (SubmissionRepository, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	repo := NewMongoSubmissionRepository(client.Database(database).Collection(submissionsCollection))
	repo.client = client
	if err := repo.EnsureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return repo, nil
}

// NewMongoSubmissionRepository wraps an existing collection
func NewMongoSubmissionRepository(collection *mongo.Collection) *MongoSubmissionRepository {
	return &MongoSubmissionRepository{collection: collection}
}

// EnsureIndexes creates the createdAt index used by listing and retention
func (r *MongoSubmissionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create submission indexes: %w", err)
	}
	return nil
}

func (r *MongoSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if _, err := r.collection.InsertOne(ctx, submission); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (r *MongoSubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

func (r *MongoSubmissionRepository) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*models.Submission
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	for _, s := range out {
		s.CreatedAt = s.CreatedAt.UTC()
	}
	return out, nil
}

func (r *MongoSubmissionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoSubmissionRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *MongoSubmissionRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
