package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/bootstrap"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/cursor"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type QuestionRepository struct {
	Client       *mongo.Client
	ColQuestions *mongo.Collection
	ColAnswers   *mongo.Collection
}

func NewQuestionRepository(client *mongo.Client, db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{
		Client:       client,
		ColQuestions: db.Collection(bootstrap.ColQuestions),
		ColAnswers:   db.Collection(bootstrap.ColAnswers),
	}
}

func (r *QuestionRepository) Insert(ctx context.Context, q *models.Question) error {
	if q.ID.IsZero() {
		q.ID = bson.NewObjectID()
	}
	q.Normalize()
	_, err := r.ColQuestions.InsertOne(ctx, q)
	return err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Question, error) {
	var q models.Question
	if err := r.ColQuestions.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, notFound(err)
	}
	return q.Normalize(), nil
}

// ListByCollege: newest first, cursor-based pagination
func (r *QuestionRepository) ListByCollege(
	ctx context.Context,
	collegeID bson.ObjectID,
	cursorStr string,
	limit int64,
) (items []models.Question, next *string, err error) {

	filter := bson.M{"college_id": collegeID}

	if cursorStr != "" {
		t, oid, derr := cursor.DecodeCursor(cursorStr)
		if derr != nil {
			err = fmt.Errorf("invalid cursor: %w", derr)
			return
		}
		filter["$or"] = []bson.M{
			{"created_at": bson.M{"$lt": t}},
			{"created_at": t, "_id": bson.M{"$lt": oid}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit + 1)

	cur, err := r.ColQuestions.Find(ctx, filter, opts)
	if err != nil {
		return
	}
	defer cur.Close(ctx)

	var all []models.Question
	if err = cur.All(ctx, &all); err != nil {
		return
	}
	for i := range all {
		all[i].Normalize()
	}

	if int64(len(all)) > limit {
		items = all[:limit]
		last := items[len(items)-1]
		s := cursor.EncodeCursor(last.CreatedAt, last.ID)
		next = &s
	} else {
		items = all
	}
	if items == nil {
		items = []models.Question{}
	}
	return
}

func (r *QuestionRepository) Update(ctx context.Context, id bson.ObjectID, patch models.QuestionPatch, now time.Time) (*models.Question, error) {
	tags := patch.Tags
	if tags == nil {
		tags = []string{}
	}
	var q models.Question
	err := r.ColQuestions.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":      patch.Title,
			"body":       patch.Body,
			"tags":       tags,
			"updated_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&q)
	if err != nil {
		return nil, notFound(err)
	}
	return q.Normalize(), nil
}

func (r *QuestionRepository) ToggleLike(ctx context.Context, id, userID bson.ObjectID) (*models.Question, bool, error) {
	liked, err := toggleMember(ctx, r.ColQuestions, id, userID)
	if err != nil {
		return nil, false, err
	}
	q, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return q, liked, nil
}

func (r *QuestionRepository) IncViews(ctx context.Context, id bson.ObjectID) (*models.Question, error) {
	var q models.Question
	err := r.ColQuestions.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&q)
	if err != nil {
		return nil, notFound(err)
	}
	return q.Normalize(), nil
}

// DeleteCascade: ลบ answers ทั้งหมดก่อน แล้วค่อยลบ question (transaction)
func (r *QuestionRepository) DeleteCascade(ctx context.Context, id bson.ObjectID) (int64, error) {
	sess, err := r.Client.StartSession()
	if err != nil {
		return 0, err
	}
	defer sess.EndSession(ctx)

	var answersDeleted int64
	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		ares, err := r.ColAnswers.DeleteMany(sc, bson.M{"question_id": id})
		if err != nil {
			return nil, err
		}
		qres, err := r.ColQuestions.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if qres.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		answersDeleted = ares.DeletedCount
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	return answersDeleted, nil
}
