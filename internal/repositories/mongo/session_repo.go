package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/repositories"
)

// SessionRepo wraps a MongoDB collection of interview sessions
type SessionRepo struct{ col *mongo.Collection }

// NewSessionRepo ensures the owner listing and pending evaluation indexes exist
func NewSessionRepo(c *Client, collection string) (*SessionRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	if collection == "" {
		collection = "interview_sessions"
	}

	r := &SessionRepo{col: db.Collection(collection)}

	_, _ = r.col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "completedAt", Value: 1}}},
	})

	return r, nil
}

func (r *SessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	s.Version = 1
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *SessionRepo) Get(ctx context.Context, id, ownerID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"_id": id, "ownerId": ownerID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update replaces the document only if nobody else wrote since it was read
func (r *SessionRepo) Update(ctx context.Context, s *models.InterviewSession) error {
	expected := s.Version
	s.Version = expected + 1

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID, "ownerId": s.OwnerID, "version": expected}, s)
	if err != nil {
		s.Version = expected
		return err
	}
	if res.MatchedCount == 0 {
		s.Version = expected
		return repositories.ErrVersionConflict
	}
	return nil
}

func (r *SessionRepo) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"conversation": 0})
	cur, err := r.col.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sessions []models.InterviewSession
	if err := cur.All(ctx, &sessions); err != nil {
		return nil, err
	}
	out := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessions[i].Summary())
	}
	return out, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) ListPendingEvaluation(ctx context.Context, limit int) ([]*models.InterviewSession, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	filter := bson.M{"status": models.StatusCompleted, "evaluation": nil}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SessionRepo) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

var _ repositories.SessionStore = (*SessionRepo)(nil)
