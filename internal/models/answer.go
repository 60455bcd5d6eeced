package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Answer struct {
	ID         bson.ObjectID   `bson:"_id"         json:"id"`
	QuestionID bson.ObjectID   `bson:"question_id" json:"questionId"`
	AuthorID   bson.ObjectID   `bson:"author_id"   json:"authorId"`
	Content    string          `bson:"content"     json:"content"`
	Likes      []bson.ObjectID `bson:"likes"       json:"likes"`
	Comments   []Comment       `bson:"comments"    json:"comments"`
	Accepted   bool            `bson:"accepted"    json:"accepted"`
	CreatedAt  time.Time       `bson:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time       `bson:"updated_at"  json:"updatedAt"`
}

// Comment is embedded in its answer and never edited once appended.
type Comment struct {
	ID        bson.ObjectID `bson:"_id"        json:"id"`
	AuthorID  bson.ObjectID `bson:"author_id"  json:"authorId"`
	Content   string        `bson:"content"    json:"content"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

func (a *Answer) Normalize() *Answer {
	if a.Likes == nil {
		a.Likes = []bson.ObjectID{}
	}
	if a.Comments == nil {
		a.Comments = []Comment{}
	}
	return a
}

func (a *Answer) IsAuthor(uid bson.ObjectID) bool {
	return !uid.IsZero() && a.AuthorID == uid
}

func (a *Answer) LikedBy(uid bson.ObjectID) bool {
	return slices.Contains(a.Likes, uid)
}
