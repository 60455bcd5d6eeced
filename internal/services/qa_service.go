package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuestionStore interface {
	Insert(ctx context.Context, q *models.Question) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Question, error)
	ListByCollege(ctx context.Context, collegeID bson.ObjectID, cursor string, limit int64) ([]models.Question, *string, error)
	Update(ctx context.Context, id bson.ObjectID, patch models.QuestionPatch, now time.Time) (*models.Question, error)
	ToggleLike(ctx context.Context, id, userID bson.ObjectID) (*models.Question, bool, error)
	IncViews(ctx context.Context, id bson.ObjectID) (*models.Question, error)
	DeleteCascade(ctx context.Context, id bson.ObjectID) (int64, error)
}

type AnswerStore interface {
	Insert(ctx context.Context, a *models.Answer) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID bson.ObjectID) ([]models.Answer, error)
	UpdateContent(ctx context.Context, id bson.ObjectID, content string, now time.Time) (*models.Answer, error)
	ToggleLike(ctx context.Context, id, userID bson.ObjectID) (*models.Answer, bool, error)
	Accept(ctx context.Context, a *models.Answer) (bool, error)
	AppendComment(ctx context.Context, id bson.ObjectID, c models.Comment) error
	Delete(ctx context.Context, a *models.Answer) error
}

// QAService owns every question/answer state transition. Each mutation runs
// authorize -> locate -> transition -> persist and only then broadcasts, so a
// failed call is never observed by other clients.
type QAService struct {
	Questions QuestionStore
	Answers   AnswerStore
	Pub       realtime.Publisher
	Now       func() time.Time
}

func NewQAService(questions QuestionStore, answers AnswerStore, pub realtime.Publisher) *QAService {
	return &QAService{
		Questions: questions,
		Answers:   answers,
		Pub:       pub,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *QAService) publish(topic realtime.Topic, event string, payload any) {
	n := s.Pub.Broadcast(topic, event, payload)
	log.Debugf("%s -> %s (%d subscribers)", event, topic, n)
}

func requireUser(uid bson.ObjectID) error {
	if uid.IsZero() {
		return wrap(ErrUnauthenticated, "login required")
	}
	return nil
}

func requireText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", wrap(ErrInvalid, field+" required")
	}
	return v, nil
}

// ---------- questions ----------

type NewQuestion struct {
	CollegeID bson.ObjectID
	Title     string
	Body      string
	Tags      []string
}

func (s *QAService) CreateQuestion(ctx context.Context, uid bson.ObjectID, in NewQuestion) (*models.Question, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if in.CollegeID.IsZero() {
		return nil, wrap(ErrInvalid, "collegeId required")
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	body, err := requireText("body", in.Body)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	q := &models.Question{
		ID:        bson.NewObjectID(),
		AuthorID:  uid,
		CollegeID: in.CollegeID,
		Title:     title,
		Body:      body,
		Tags:      cleanTags(slices.Concat(in.Tags, utils.ExtractHashtags(body))),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Questions.Insert(ctx, q); err != nil {
		return nil, err
	}
	q.Normalize()

	s.publish(realtime.CollegeTopic(q.CollegeID.Hex()), realtime.EventNewQuestion, q)
	return q, nil
}

func (s *QAService) UpdateQuestion(ctx context.Context, uid, id bson.ObjectID, patch models.QuestionPatch) (*models.Question, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	title, err := requireText("title", patch.Title)
	if err != nil {
		return nil, err
	}
	body, err := requireText("body", patch.Body)
	if err != nil {
		return nil, err
	}

	q, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("question", err)
	}
	if !q.IsAuthor(uid) {
		return nil, wrap(ErrForbidden, "only the author can edit this question")
	}

	updated, err := s.Questions.Update(ctx, id, models.QuestionPatch{
		Title: title,
		Body:  body,
		Tags:  cleanTags(slices.Concat(patch.Tags, utils.ExtractHashtags(body))),
	}, s.Now())
	if err != nil {
		return nil, storeErr("question", err)
	}

	s.publish(realtime.CollegeTopic(updated.CollegeID.Hex()), realtime.EventQuestionUpdated, updated)
	return updated, nil
}

// DeleteQuestion removes the answers first, then the question, and emits a single
// question-deleted. Answer deletions inside the cascade are not broadcast.
func (s *QAService) DeleteQuestion(ctx context.Context, uid, id bson.ObjectID) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	q, err := s.Questions.FindByID(ctx, id)
	if err != nil {
		return storeErr("question", err)
	}
	if !q.IsAuthor(uid) {
		return wrap(ErrForbidden, "only the author can delete this question")
	}

	n, err := s.Questions.DeleteCascade(ctx, id)
	if err != nil {
		return storeErr("question", err)
	}
	log.Infof("question %s deleted with %d answers", id.Hex(), n)

	s.publish(realtime.CollegeTopic(q.CollegeID.Hex()), realtime.EventQuestionDeleted, id)
	return nil
}

// ToggleQuestionLike likes or unlikes for uid and returns the new state. Self-likes are allowed.
func (s *QAService) ToggleQuestionLike(ctx context.Context, uid, id bson.ObjectID) (dto.LikeToggleResp, error) {
	if err := requireUser(uid); err != nil {
		return dto.LikeToggleResp{}, err
	}
	q, liked, err := s.Questions.ToggleLike(ctx, id, uid)
	if err != nil {
		return dto.LikeToggleResp{}, storeErr("question", err)
	}
	q.Normalize()

	s.publish(realtime.QuestionTopic(id.Hex()), realtime.EventLikesUpdated, q.Likes)
	return dto.LikeToggleResp{Liked: liked, LikeCount: len(q.Likes)}, nil
}

// GetQuestion is the bootstrap fetch for a live question view; it counts a view.
func (s *QAService) GetQuestion(ctx context.Context, id bson.ObjectID) (*dto.QuestionDetailResp, error) {
	q, err := s.Questions.IncViews(ctx, id)
	if err != nil {
		return nil, storeErr("question", err)
	}
	answers, err := s.Answers.ListByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.QuestionDetailResp{Question: q, Answers: answers}, nil
}

func (s *QAService) ListCollegeQuestions(ctx context.Context, collegeID bson.ObjectID, cursor string, limit int64) (dto.ListQuestionsResp, error) {
	items, next, err := s.Questions.ListByCollege(ctx, collegeID, cursor, limit)
	if err != nil {
		if strings.Contains(err.Error(), "invalid cursor") {
			return dto.ListQuestionsResp{}, wrap(ErrInvalid, err.Error())
		}
		return dto.ListQuestionsResp{}, err
	}
	if items == nil {
		items = []models.Question{}
	}
	return dto.ListQuestionsResp{Questions: items, NextCursor: next, HasMore: next != nil}, nil
}

// cleanTags lowercases, trims and dedupes tags, keeping first-seen order.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
