package dto

import (
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Socket payloads that are not a bare entity, id, or likes array.

// answer-likes-updated
type AnswerLikesPayload struct {
	AnswerID bson.ObjectID   `json:"answerId"`
	Likes    []bson.ObjectID `json:"likes"`
}

// new-comment
type NewCommentPayload struct {
	AnswerID bson.ObjectID  `json:"answerId"`
	Comment  models.Comment `json:"comment"`
}

// answer-accepted
type AnswerAcceptedPayload struct {
	AnswerID   bson.ObjectID `json:"answerId"`
	QuestionID bson.ObjectID `json:"questionId"`
}
