package bootstrap

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColQuestions = "questions"
	ColAnswers   = "answers"
)

// EnsureIndexes creates the indexes the question feed and answer lookups rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ColQuestions).Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "college_id", Value: 1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("college_feed"),
		},
	)
	if err != nil {
		return err
	}

	_, err = db.Collection(ColAnswers).Indexes().CreateOne(ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "question_id", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("answers_by_question"),
		},
	)
	return err
}
