// Package inmem is a process-local store used by tests and STORE=memory.
package inmem

import (
	"slices"
	"sync"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type DB struct {
	mutex     sync.RWMutex
	questions map[bson.ObjectID]*models.Question
	answers   map[bson.ObjectID]*models.Answer
}

func Open() *DB {
	return &DB{
		questions: make(map[bson.ObjectID]*models.Question),
		answers:   make(map[bson.ObjectID]*models.Answer),
	}
}

func copyQuestion(q *models.Question) *models.Question {
	out := *q
	out.Tags = slices.Clone(q.Tags)
	out.Answers = slices.Clone(q.Answers)
	out.Likes = slices.Clone(q.Likes)
	return out.Normalize()
}

func copyAnswer(a *models.Answer) *models.Answer {
	out := *a
	out.Likes = slices.Clone(a.Likes)
	out.Comments = slices.Clone(a.Comments)
	return out.Normalize()
}

// toggle removes id from set if present, otherwise appends it.
func toggle(set []bson.ObjectID, id bson.ObjectID) ([]bson.ObjectID, bool) {
	if i := slices.Index(set, id); i >= 0 {
		return slices.Delete(set, i, i+1), false
	}
	return append(set, id), true
}
