package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"trivialive/internal/model"
)

// SessionRepo handles MongoDB operations for finished-session summaries
type SessionRepo interface {
	Save(ctx context.Context, summary *model.SessionSummary) error
	GetByRoomCode(ctx context.Context, roomCode string) (*model.SessionSummary, error)
	ListByHost(ctx context.Context, hostID string, limit int64) ([]model.SessionSummary, error)
}

type sessionRepo struct {
	summaries *mongo.Collection
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		summaries: db.Collection("session_summaries"),
	}
}

func (r *sessionRepo) Save(ctx context.Context, summary *model.SessionSummary) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.summaries.ReplaceOne(ctx, bson.M{"roomCode": summary.RoomCode}, summary, opts)
	return err
}

func (r *sessionRepo) GetByRoomCode(ctx context.Context, roomCode string) (*model.SessionSummary, error) {
	var summary model.SessionSummary
	err := r.summaries.FindOne(ctx, bson.M{"roomCode": roomCode}).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *sessionRepo) ListByHost(ctx context.Context, hostID string, limit int64) ([]model.SessionSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "endedAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.summaries.Find(ctx, bson.M{"hostId": hostID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var summaries []model.SessionSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
