package inmem

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AnswerRepository struct {
	db *DB
}

func NewAnswerRepository(db *DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

func (repo *AnswerRepository) Insert(_ context.Context, a *models.Answer) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q, ok := repo.db.questions[a.QuestionID]
	if !ok {
		return repository.ErrNotFound
	}
	if a.ID.IsZero() {
		a.ID = bson.NewObjectID()
	}
	a.Normalize()
	repo.db.answers[a.ID] = copyAnswer(a)
	q.Answers = append(q.Answers, a.ID)
	return nil
}

func (repo *AnswerRepository) FindByID(_ context.Context, id bson.ObjectID) (*models.Answer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if a, ok := repo.db.answers[id]; ok {
		return copyAnswer(a), nil
	}
	return nil, repository.ErrNotFound
}

func (repo *AnswerRepository) ListByQuestion(_ context.Context, questionID bson.ObjectID) ([]models.Answer, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	out := []models.Answer{}
	for _, a := range repo.db.answers {
		if a.QuestionID == questionID {
			out = append(out, *copyAnswer(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (repo *AnswerRepository) UpdateContent(_ context.Context, id bson.ObjectID, content string, now time.Time) (*models.Answer, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.answers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a.Content = content
	a.UpdatedAt = now
	return copyAnswer(a), nil
}

func (repo *AnswerRepository) ToggleLike(_ context.Context, id, userID bson.ObjectID) (*models.Answer, bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.answers[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	var liked bool
	a.Likes, liked = toggle(a.Likes, userID)
	return copyAnswer(a), liked, nil
}

func (repo *AnswerRepository) Accept(_ context.Context, target *models.Answer) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.answers[target.ID]
	if !ok {
		return false, repository.ErrNotFound
	}
	q, ok := repo.db.questions[a.QuestionID]
	if !ok {
		return false, repository.ErrNotFound
	}
	for _, other := range repo.db.answers {
		if other.QuestionID == a.QuestionID && other.ID != a.ID && other.Accepted {
			return false, repository.ErrConflict
		}
	}
	if a.Accepted {
		return false, nil
	}
	a.Accepted = true
	q.Resolved = true
	return true, nil
}

func (repo *AnswerRepository) AppendComment(_ context.Context, id bson.ObjectID, c models.Comment) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.answers[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Comments = append(a.Comments, c)
	return nil
}

func (repo *AnswerRepository) Delete(_ context.Context, target *models.Answer) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	a, ok := repo.db.answers[target.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(repo.db.answers, a.ID)
	if q, ok := repo.db.questions[a.QuestionID]; ok {
		if i := slices.Index(q.Answers, a.ID); i >= 0 {
			q.Answers = slices.Delete(q.Answers, i, i+1)
		}
	}
	return nil
}

// CountByQuestion is used by tests to check cascades.
func (repo *AnswerRepository) CountByQuestion(questionID bson.ObjectID) int {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	n := 0
	for _, a := range repo.db.answers {
		if a.QuestionID == questionID {
			n++
		}
	}
	return n
}
