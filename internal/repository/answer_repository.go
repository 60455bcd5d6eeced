package repository

import (
	"context"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/bootstrap"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AnswerRepository struct {
	Client       *mongo.Client
	ColAnswers   *mongo.Collection
	ColQuestions *mongo.Collection
}

func NewAnswerRepository(client *mongo.Client, db *mongo.Database) *AnswerRepository {
	return &AnswerRepository{
		Client:       client,
		ColAnswers:   db.Collection(bootstrap.ColAnswers),
		ColQuestions: db.Collection(bootstrap.ColQuestions),
	}
}

// Insert: เพิ่ม answer ใหม่ + $push ref เข้า question (transaction)
func (r *AnswerRepository) Insert(ctx context.Context, a *models.Answer) error {
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}
	a.Normalize()

	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		if _, err := r.ColAnswers.InsertOne(sc, a); err != nil {
			return nil, err
		}
		res, err := r.ColQuestions.UpdateOne(sc,
			bson.M{"_id": a.QuestionID},
			bson.M{"$push": bson.M{"answers": a.ID}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	return err
}

func (r *AnswerRepository) FindByID(ctx context.Context, id bson.ObjectID) (*models.Answer, error) {
	var a models.Answer
	if err := r.ColAnswers.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	return a.Normalize(), nil
}

// ListByQuestion returns answers in creation order.
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID bson.ObjectID) ([]models.Answer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.ColAnswers.Find(ctx, bson.M{"question_id": questionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Answer{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func (r *AnswerRepository) UpdateContent(ctx context.Context, id bson.ObjectID, content string, now time.Time) (*models.Answer, error) {
	var a models.Answer
	err := r.ColAnswers.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"content": content, "updated_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, notFound(err)
	}
	return a.Normalize(), nil
}

func (r *AnswerRepository) ToggleLike(ctx context.Context, id, userID bson.ObjectID) (*models.Answer, bool, error) {
	liked, err := toggleMember(ctx, r.ColAnswers, id, userID)
	if err != nil {
		return nil, false, err
	}
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return a, liked, nil
}

// Accept flips accepted false -> true and resolves the parent question.
// changed is false when the answer was already accepted.
func (r *AnswerRepository) Accept(ctx context.Context, a *models.Answer) (changed bool, err error) {
	sess, err := r.Client.StartSession()
	if err != nil {
		return false, err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		changed = false
		others, err := r.ColAnswers.CountDocuments(sc, bson.M{
			"question_id": a.QuestionID,
			"accepted":    true,
			"_id":         bson.M{"$ne": a.ID},
		})
		if err != nil {
			return nil, err
		}
		if others > 0 {
			return nil, ErrConflict
		}

		res, err := r.ColAnswers.UpdateOne(sc,
			bson.M{"_id": a.ID, "accepted": false},
			bson.M{"$set": bson.M{"accepted": true}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, nil
		}

		qres, err := r.ColQuestions.UpdateOne(sc,
			bson.M{"_id": a.QuestionID},
			bson.M{"$set": bson.M{"resolved": true}},
		)
		if err != nil {
			return nil, err
		}
		if qres.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		changed = true
		return nil, nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func (r *AnswerRepository) AppendComment(ctx context.Context, id bson.ObjectID, c models.Comment) error {
	res, err := r.ColAnswers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": c}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete: ลบ answer + $pull ref ออกจาก question (transaction)
func (r *AnswerRepository) Delete(ctx context.Context, a *models.Answer) error {
	sess, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc context.Context) (interface{}, error) {
		res, err := r.ColAnswers.DeleteOne(sc, bson.M{"_id": a.ID})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, ErrNotFound
		}
		_, err = r.ColQuestions.UpdateOne(sc,
			bson.M{"_id": a.QuestionID},
			bson.M{"$pull": bson.M{"answers": a.ID}},
		)
		return nil, err
	})
	return err
}
