package reconciler

import (
	"encoding/json"
	"slices"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CollegeFeed mirrors a college's question list, newest first.
type CollegeFeed struct {
	CollegeID bson.ObjectID
	Questions []models.Question
}

func NewCollegeFeed(collegeID bson.ObjectID, questions []models.Question) *CollegeFeed {
	qs := slices.Clone(questions)
	if qs == nil {
		qs = []models.Question{}
	}
	return &CollegeFeed{CollegeID: collegeID, Questions: qs}
}

func (f *CollegeFeed) Apply(event string, data json.RawMessage) (bool, error) {
	switch event {
	case realtime.EventNewQuestion:
		var q models.Question
		if err := decode(event, data, &q); err != nil {
			return false, err
		}
		if q.CollegeID != f.CollegeID || f.index(q.ID) >= 0 {
			return false, nil
		}
		f.Questions = slices.Insert(f.Questions, 0, *q.Normalize())
		return true, nil

	case realtime.EventQuestionUpdated:
		var q models.Question
		if err := decode(event, data, &q); err != nil {
			return false, err
		}
		i := f.index(q.ID)
		if i < 0 {
			return false, nil
		}
		f.Questions[i] = *q.Normalize()
		return true, nil

	case realtime.EventQuestionDeleted:
		var id bson.ObjectID
		if err := decode(event, data, &id); err != nil {
			return false, err
		}
		i := f.index(id)
		if i < 0 {
			return false, nil
		}
		f.Questions = slices.Delete(f.Questions, i, i+1)
		return true, nil
	}
	return false, nil
}

func (f *CollegeFeed) index(id bson.ObjectID) int {
	return slices.IndexFunc(f.Questions, func(q models.Question) bool { return q.ID == id })
}
