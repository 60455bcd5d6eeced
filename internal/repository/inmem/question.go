package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/cursor"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type QuestionRepository struct {
	db *DB
}

func NewQuestionRepository(db *DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (repo *QuestionRepository) Insert(_ context.Context, q *models.Question) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if q.ID.IsZero() {
		q.ID = bson.NewObjectID()
	}
	q.Normalize()
	repo.db.questions[q.ID] = copyQuestion(q)
	return nil
}

func (repo *QuestionRepository) FindByID(_ context.Context, id bson.ObjectID) (*models.Question, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if q, ok := repo.db.questions[id]; ok {
		return copyQuestion(q), nil
	}
	return nil, repository.ErrNotFound
}

func (repo *QuestionRepository) ListByCollege(_ context.Context, collegeID bson.ObjectID, cursorStr string, limit int64) ([]models.Question, *string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var (
		curT   time.Time
		curID  bson.ObjectID
		hasCur bool
	)
	if cursorStr != "" {
		t, oid, err := cursor.DecodeCursor(cursorStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid cursor: %w", err)
		}
		curT, curID, hasCur = t, oid, true
	}

	all := make([]models.Question, 0)
	for _, q := range repo.db.questions {
		if q.CollegeID != collegeID {
			continue
		}
		if hasCur && !cursor.Before(q.CreatedAt, q.ID, curT, curID) {
			continue
		}
		all = append(all, *copyQuestion(q))
	}
	sort.Slice(all, func(i, j int) bool {
		return cursor.Before(all[j].CreatedAt, all[j].ID, all[i].CreatedAt, all[i].ID)
	})

	if int64(len(all)) > limit {
		items := all[:limit]
		last := items[len(items)-1]
		next := cursor.EncodeCursor(last.CreatedAt, last.ID)
		return items, &next, nil
	}
	return all, nil, nil
}

func (repo *QuestionRepository) Update(_ context.Context, id bson.ObjectID, patch models.QuestionPatch, now time.Time) (*models.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q, ok := repo.db.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Title = patch.Title
	q.Body = patch.Body
	q.Tags = append([]string{}, patch.Tags...)
	q.UpdatedAt = now
	return copyQuestion(q), nil
}

func (repo *QuestionRepository) ToggleLike(_ context.Context, id, userID bson.ObjectID) (*models.Question, bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q, ok := repo.db.questions[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	var liked bool
	q.Likes, liked = toggle(q.Likes, userID)
	return copyQuestion(q), liked, nil
}

func (repo *QuestionRepository) IncViews(_ context.Context, id bson.ObjectID) (*models.Question, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	q, ok := repo.db.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	q.Views++
	return copyQuestion(q), nil
}

func (repo *QuestionRepository) DeleteCascade(_ context.Context, id bson.ObjectID) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.questions[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var n int64
	for aid, a := range repo.db.answers {
		if a.QuestionID == id {
			delete(repo.db.answers, aid)
			n++
		}
	}
	delete(repo.db.questions, id)
	return n, nil
}
