package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict: the question already has a different accepted answer.
	ErrConflict = errors.New("conflict")
)

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// toggleMember pulls uid from the likes array of doc id if present, otherwise adds it.
// Each branch is a conditional single-document update, so two racing toggles by the
// same user cannot both add.
func toggleMember(ctx context.Context, col *mongo.Collection, id, uid bson.ObjectID) (liked bool, err error) {
	res, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "likes": uid},
		bson.M{"$pull": bson.M{"likes": uid}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return false, nil
	}

	res, err = col.UpdateOne(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": uid}},
		bson.M{"$addToSet": bson.M{"likes": uid}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
		if err != nil {
			return false, err
		}
		if n == 0 {
			return false, ErrNotFound
		}
	}
	return true, nil
}
