package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Question struct {
	ID        bson.ObjectID   `bson:"_id"        json:"id"`
	AuthorID  bson.ObjectID   `bson:"author_id"  json:"authorId"`
	CollegeID bson.ObjectID   `bson:"college_id" json:"collegeId"`
	Title     string          `bson:"title"      json:"title"`
	Body      string          `bson:"body"       json:"body"`
	Tags      []string        `bson:"tags"       json:"tags"`
	Answers   []bson.ObjectID `bson:"answers"    json:"answers"` // answer ids, creation order
	Likes     []bson.ObjectID `bson:"likes"      json:"likes"`   // unique user ids
	Views     int64           `bson:"views"      json:"views"`
	Resolved  bool            `bson:"resolved"   json:"resolved"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

// QuestionPatch carries the author-editable fields of a question.
type QuestionPatch struct {
	Title string
	Body  string
	Tags  []string
}

// Normalize replaces nil slices so the JSON form always carries arrays.
func (q *Question) Normalize() *Question {
	if q.Tags == nil {
		q.Tags = []string{}
	}
	if q.Answers == nil {
		q.Answers = []bson.ObjectID{}
	}
	if q.Likes == nil {
		q.Likes = []bson.ObjectID{}
	}
	return q
}

func (q *Question) IsAuthor(uid bson.ObjectID) bool {
	return !uid.IsZero() && q.AuthorID == uid
}

func (q *Question) LikedBy(uid bson.ObjectID) bool {
	return slices.Contains(q.Likes, uid)
}
