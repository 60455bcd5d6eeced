package services

import (
	"context"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *QAService) questionTopic(a *models.Answer) realtime.Topic {
	return realtime.QuestionTopic(a.QuestionID.Hex())
}

func (s *QAService) CreateAnswer(ctx context.Context, uid, questionID bson.ObjectID, content string) (*models.Answer, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	text, err := requireText("content", content)
	if err != nil {
		return nil, err
	}
	if _, err := s.Questions.FindByID(ctx, questionID); err != nil {
		return nil, storeErr("question", err)
	}

	now := s.Now()
	a := &models.Answer{
		ID:         bson.NewObjectID(),
		QuestionID: questionID,
		AuthorID:   uid,
		Content:    text,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Answers.Insert(ctx, a); err != nil {
		return nil, storeErr("question", err)
	}
	a.Normalize()

	s.publish(s.questionTopic(a), realtime.EventNewAnswer, a)
	return a, nil
}

func (s *QAService) GetAnswer(ctx context.Context, id bson.ObjectID) (*models.Answer, error) {
	a, err := s.Answers.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("answer", err)
	}
	return a, nil
}

func (s *QAService) UpdateAnswer(ctx context.Context, uid, id bson.ObjectID, content string) (*models.Answer, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	text, err := requireText("content", content)
	if err != nil {
		return nil, err
	}
	a, err := s.Answers.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("answer", err)
	}
	if !a.IsAuthor(uid) {
		return nil, wrap(ErrForbidden, "only the author can edit this answer")
	}

	updated, err := s.Answers.UpdateContent(ctx, id, text, s.Now())
	if err != nil {
		return nil, storeErr("answer", err)
	}

	s.publish(s.questionTopic(updated), realtime.EventAnswerUpdated, updated)
	return updated, nil
}

func (s *QAService) DeleteAnswer(ctx context.Context, uid, id bson.ObjectID) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	a, err := s.Answers.FindByID(ctx, id)
	if err != nil {
		return storeErr("answer", err)
	}
	if !a.IsAuthor(uid) {
		return wrap(ErrForbidden, "only the author can delete this answer")
	}
	if err := s.Answers.Delete(ctx, a); err != nil {
		return storeErr("answer", err)
	}

	s.publish(s.questionTopic(a), realtime.EventAnswerDeleted, a.ID)
	return nil
}

func (s *QAService) ToggleAnswerLike(ctx context.Context, uid, id bson.ObjectID) (dto.LikeToggleResp, error) {
	if err := requireUser(uid); err != nil {
		return dto.LikeToggleResp{}, err
	}
	a, liked, err := s.Answers.ToggleLike(ctx, id, uid)
	if err != nil {
		return dto.LikeToggleResp{}, storeErr("answer", err)
	}
	a.Normalize()

	s.publish(s.questionTopic(a), realtime.EventAnswerLikesUpdated, dto.AnswerLikesPayload{
		AnswerID: a.ID,
		Likes:    a.Likes,
	})
	return dto.LikeToggleResp{Liked: liked, LikeCount: len(a.Likes)}, nil
}

// AcceptAnswer moves an answer from unaccepted to accepted and resolves its
// question. Only the question's author may call it. Accepting an already
// accepted answer is a no-op and broadcasts nothing.
func (s *QAService) AcceptAnswer(ctx context.Context, uid, id bson.ObjectID) (*models.Answer, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	a, err := s.Answers.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("answer", err)
	}
	q, err := s.Questions.FindByID(ctx, a.QuestionID)
	if err != nil {
		return nil, storeErr("question", err)
	}
	if !q.IsAuthor(uid) {
		return nil, wrap(ErrForbidden, "only the question author can accept an answer")
	}
	if a.Accepted {
		return a, nil
	}

	changed, err := s.Answers.Accept(ctx, a)
	if err != nil {
		return nil, storeErr("answer", err)
	}
	a.Accepted = true
	if !changed {
		// lost a race with another accept of the same answer
		log.Debugf("answer %s was already accepted", id.Hex())
		return a, nil
	}

	s.publish(s.questionTopic(a), realtime.EventAnswerAccepted, dto.AnswerAcceptedPayload{
		AnswerID:   a.ID,
		QuestionID: a.QuestionID,
	})
	return a, nil
}

// AddComment appends to the answer's comment list. Comments have no edit or delete.
func (s *QAService) AddComment(ctx context.Context, uid, answerID bson.ObjectID, content string) (*models.Comment, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	text, err := requireText("content", content)
	if err != nil {
		return nil, err
	}
	a, err := s.Answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, storeErr("answer", err)
	}

	c := models.Comment{
		ID:        bson.NewObjectID(),
		AuthorID:  uid,
		Content:   text,
		CreatedAt: s.Now(),
	}
	if err := s.Answers.AppendComment(ctx, answerID, c); err != nil {
		return nil, storeErr("answer", err)
	}

	s.publish(s.questionTopic(a), realtime.EventNewComment, dto.NewCommentPayload{
		AnswerID: answerID,
		Comment:  c,
	})
	return &c, nil
}
