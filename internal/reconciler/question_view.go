package reconciler

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// QuestionView is the local copy of one question page. It starts from a
// bootstrap snapshot and is then kept current purely by applying socket
// events. It is not safe for concurrent use.
type QuestionView struct {
	Question models.Question
	Answers  []models.Answer
}

func NewQuestionView(snap dto.QuestionDetailResp) *QuestionView {
	v := &QuestionView{Answers: slices.Clone(snap.Answers)}
	if snap.Question != nil {
		v.Question = *snap.Question
	}
	v.Question.Normalize()
	if v.Answers == nil {
		v.Answers = []models.Answer{}
	}
	return v
}

// Apply folds one event into the view and reports whether anything changed.
// Unknown events are ignored. Replayed events are harmless.
func (v *QuestionView) Apply(event string, data json.RawMessage) (bool, error) {
	switch event {
	case realtime.EventNewAnswer:
		var a models.Answer
		if err := decode(event, data, &a); err != nil {
			return false, err
		}
		if a.QuestionID != v.Question.ID || v.answerIndex(a.ID) >= 0 {
			return false, nil
		}
		v.Answers = append(v.Answers, *a.Normalize())
		if !slices.Contains(v.Question.Answers, a.ID) {
			v.Question.Answers = append(v.Question.Answers, a.ID)
		}
		return true, nil

	case realtime.EventAnswerUpdated:
		var a models.Answer
		if err := decode(event, data, &a); err != nil {
			return false, err
		}
		i := v.answerIndex(a.ID)
		if i < 0 {
			return false, nil
		}
		v.Answers[i] = *a.Normalize()
		return true, nil

	case realtime.EventAnswerDeleted:
		var id bson.ObjectID
		if err := decode(event, data, &id); err != nil {
			return false, err
		}
		i := v.answerIndex(id)
		v.Question.Answers = slices.DeleteFunc(v.Question.Answers, func(x bson.ObjectID) bool { return x == id })
		if i < 0 {
			return false, nil
		}
		v.Answers = slices.Delete(v.Answers, i, i+1)
		return true, nil

	case realtime.EventAnswerLikesUpdated:
		var p dto.AnswerLikesPayload
		if err := decode(event, data, &p); err != nil {
			return false, err
		}
		i := v.answerIndex(p.AnswerID)
		if i < 0 {
			return false, nil
		}
		v.Answers[i].Likes = nonNil(p.Likes)
		return true, nil

	case realtime.EventNewComment:
		var p dto.NewCommentPayload
		if err := decode(event, data, &p); err != nil {
			return false, err
		}
		i := v.answerIndex(p.AnswerID)
		if i < 0 {
			return false, nil
		}
		for _, c := range v.Answers[i].Comments {
			if c.ID == p.Comment.ID {
				return false, nil
			}
		}
		v.Answers[i].Comments = append(v.Answers[i].Comments, p.Comment)
		return true, nil

	case realtime.EventLikesUpdated:
		var likes []bson.ObjectID
		if err := decode(event, data, &likes); err != nil {
			return false, err
		}
		v.Question.Likes = nonNil(likes)
		return true, nil

	case realtime.EventAnswerAccepted:
		var p dto.AnswerAcceptedPayload
		if err := decode(event, data, &p); err != nil {
			return false, err
		}
		if p.QuestionID != v.Question.ID {
			return false, nil
		}
		changed := !v.Question.Resolved
		v.Question.Resolved = true
		if i := v.answerIndex(p.AnswerID); i >= 0 && !v.Answers[i].Accepted {
			v.Answers[i].Accepted = true
			changed = true
		}
		return changed, nil
	}
	return false, nil
}

// Answer returns the local copy of an answer, if the view holds it.
func (v *QuestionView) Answer(id bson.ObjectID) (models.Answer, bool) {
	i := v.answerIndex(id)
	if i < 0 {
		return models.Answer{}, false
	}
	return v.Answers[i], true
}

func (v *QuestionView) answerIndex(id bson.ObjectID) int {
	return slices.IndexFunc(v.Answers, func(a models.Answer) bool { return a.ID == id })
}

func decode(event string, data json.RawMessage, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: decode payload: %w", event, err)
	}
	return nil
}

func nonNil(ids []bson.ObjectID) []bson.ObjectID {
	if ids == nil {
		return []bson.ObjectID{}
	}
	return ids
}
