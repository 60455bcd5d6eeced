package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/repository/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type sent struct {
	Topic   realtime.Topic
	Event   string
	Payload any
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recorder) Broadcast(topic realtime.Topic, event string, payload any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{topic, event, payload})
	return 1
}

func (r *recorder) all() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}

func (r *recorder) events(event string) []sent {
	var out []sent
	for _, s := range r.all() {
		if s.Event == event {
			out = append(out, s)
		}
	}
	return out
}

type fixture struct {
	svc     *QAService
	rec     *recorder
	answers *inmem.AnswerRepository
	college bson.ObjectID
	author  bson.ObjectID
	other   bson.ObjectID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := inmem.Open()
	rec := &recorder{}
	answers := inmem.NewAnswerRepository(db)
	svc := NewQAService(inmem.NewQuestionRepository(db), answers, rec)

	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return &fixture{
		svc:     svc,
		rec:     rec,
		answers: answers,
		college: bson.NewObjectID(),
		author:  bson.NewObjectID(),
		other:   bson.NewObjectID(),
	}
}

func (f *fixture) question(t *testing.T) *models.Question {
	t.Helper()
	q, err := f.svc.CreateQuestion(context.Background(), f.author, NewQuestion{
		CollegeID: f.college,
		Title:     "How do I register for electives?",
		Body:      "The portal keeps timing out.",
		Tags:      []string{"Registration", " registration ", ""},
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) answer(t *testing.T, q *models.Question, by bson.ObjectID, content string) *models.Answer {
	t.Helper()
	a, err := f.svc.CreateAnswer(context.Background(), by, q.ID, content)
	require.NoError(t, err)
	return a
}

func TestCreateQuestion_BroadcastsOnCollegeTopic(t *testing.T) {
	f := setup(t)
	q := f.question(t)

	assert.Equal(t, []string{"registration"}, q.Tags)
	got := f.rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, realtime.CollegeTopic(f.college.Hex()), got[0].Topic)
	assert.Equal(t, realtime.EventNewQuestion, got[0].Event)
	assert.Equal(t, q.ID, got[0].Payload.(*models.Question).ID)
}

func TestCreateQuestion_ValidationNeverBroadcasts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CreateQuestion(ctx, f.author, NewQuestion{CollegeID: f.college, Title: "   ", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = f.svc.CreateQuestion(ctx, f.author, NewQuestion{Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = f.svc.CreateQuestion(ctx, bson.NilObjectID, NewQuestion{CollegeID: f.college, Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Empty(t, f.rec.all())
}

func TestToggleQuestionLike_Symmetry(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	f.rec.reset()

	first, err := f.svc.ToggleQuestionLike(ctx, f.other, q.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeToggleResp{Liked: true, LikeCount: 1}, first)

	second, err := f.svc.ToggleQuestionLike(ctx, f.other, q.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.LikeToggleResp{Liked: false, LikeCount: 0}, second)

	likes := f.rec.events(realtime.EventLikesUpdated)
	require.Len(t, likes, 2)
	assert.Equal(t, realtime.QuestionTopic(q.ID.Hex()), likes[0].Topic)
	assert.Equal(t, []bson.ObjectID{f.other}, likes[0].Payload)
	assert.Equal(t, []bson.ObjectID{}, likes[1].Payload)
}

func TestToggleQuestionLike_SelfLikeAllowed(t *testing.T) {
	f := setup(t)
	q := f.question(t)

	res, err := f.svc.ToggleQuestionLike(context.Background(), f.author, q.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
}

func TestToggleQuestionLike_NotFound(t *testing.T) {
	f := setup(t)
	_, err := f.svc.ToggleQuestionLike(context.Background(), f.other, bson.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.rec.all())
}

func TestUpdateQuestion_AuthorOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	f.rec.reset()

	patch := models.QuestionPatch{Title: "Edited", Body: "Still timing out"}
	_, err := f.svc.UpdateQuestion(ctx, f.other, q.ID, patch)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.rec.all())

	updated, err := f.svc.UpdateQuestion(ctx, f.author, q.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	got := f.rec.events(realtime.EventQuestionUpdated)
	require.Len(t, got, 1)
	assert.Equal(t, realtime.CollegeTopic(f.college.Hex()), got[0].Topic)
}

func TestDeleteQuestion_CascadeEmitsSingleEvent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	for _, c := range []string{"one", "two", "three"} {
		f.answer(t, q, f.other, c)
	}
	f.rec.reset()

	require.NoError(t, f.svc.DeleteQuestion(ctx, f.author, q.ID))

	got := f.rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, realtime.EventQuestionDeleted, got[0].Event)
	assert.Equal(t, realtime.CollegeTopic(f.college.Hex()), got[0].Topic)
	assert.Equal(t, q.ID, got[0].Payload)
	assert.Empty(t, f.rec.events(realtime.EventAnswerDeleted))
	assert.Equal(t, 0, f.answers.CountByQuestion(q.ID))

	_, err := f.svc.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteQuestion_ForbiddenLeavesEverything(t *testing.T) {
	f := setup(t)
	q := f.question(t)
	f.answer(t, q, f.other, "answer")
	f.rec.reset()

	err := f.svc.DeleteQuestion(context.Background(), f.other, q.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, f.answers.CountByQuestion(q.ID))
	assert.Empty(t, f.rec.all())
}

func TestCreateAnswer_AppendsRefAndBroadcasts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	f.rec.reset()

	a := f.answer(t, q, f.other, "  Try clearing cookies.  ")
	assert.Equal(t, "Try clearing cookies.", a.Content)

	got := f.rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, realtime.QuestionTopic(q.ID.Hex()), got[0].Topic)
	assert.Equal(t, realtime.EventNewAnswer, got[0].Event)

	detail, err := f.svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []bson.ObjectID{a.ID}, detail.Question.Answers)
	assert.Equal(t, int64(1), detail.Question.Views)
	require.Len(t, detail.Answers, 1)
	assert.Equal(t, a.ID, detail.Answers[0].ID)
}

func TestCreateAnswer_Errors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	f.rec.reset()

	_, err := f.svc.CreateAnswer(ctx, f.other, q.ID, "")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = f.svc.CreateAnswer(ctx, f.other, bson.NewObjectID(), "hi")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.rec.all())
}

func TestUpdateAndDeleteAnswer_AuthorOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	a := f.answer(t, q, f.other, "first")
	f.rec.reset()

	_, err := f.svc.UpdateAnswer(ctx, f.author, a.ID, "hijack")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteAnswer(ctx, f.author, a.ID), ErrForbidden)
	assert.Empty(t, f.rec.all())

	updated, err := f.svc.UpdateAnswer(ctx, f.other, a.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Content)

	require.NoError(t, f.svc.DeleteAnswer(ctx, f.other, a.ID))
	got := f.rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, realtime.EventAnswerUpdated, got[0].Event)
	assert.Equal(t, realtime.EventAnswerDeleted, got[1].Event)
	assert.Equal(t, a.ID, got[1].Payload)

	detail, err := f.svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Question.Answers)
	assert.Empty(t, detail.Answers)
}

func TestToggleAnswerLike_PayloadNamesAnswer(t *testing.T) {
	f := setup(t)
	q := f.question(t)
	a := f.answer(t, q, f.other, "a")
	f.rec.reset()

	res, err := f.svc.ToggleAnswerLike(context.Background(), f.author, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikeCount)

	got := f.rec.events(realtime.EventAnswerLikesUpdated)
	require.Len(t, got, 1)
	assert.Equal(t, dto.AnswerLikesPayload{AnswerID: a.ID, Likes: []bson.ObjectID{f.author}}, got[0].Payload)
}

func TestAcceptAnswer_OnlyQuestionAuthor(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	a := f.answer(t, q, f.other, "a")
	f.rec.reset()

	_, err := f.svc.AcceptAnswer(ctx, f.other, a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := f.svc.GetAnswer(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.Accepted)
	assert.Empty(t, f.rec.all())
}

func TestAcceptAnswer_IdempotentAndResolves(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	a := f.answer(t, q, f.other, "a")
	f.rec.reset()

	got, err := f.svc.AcceptAnswer(ctx, f.author, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Accepted)

	again, err := f.svc.AcceptAnswer(ctx, f.author, a.ID)
	require.NoError(t, err)
	assert.True(t, again.Accepted)

	accepted := f.rec.events(realtime.EventAnswerAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, realtime.QuestionTopic(q.ID.Hex()), accepted[0].Topic)
	assert.Equal(t, dto.AnswerAcceptedPayload{AnswerID: a.ID, QuestionID: q.ID}, accepted[0].Payload)

	detail, err := f.svc.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, detail.Question.Resolved)
}

func TestAcceptAnswer_SecondAnswerConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	first := f.answer(t, q, f.other, "first")
	second := f.answer(t, q, f.other, "second")

	_, err := f.svc.AcceptAnswer(ctx, f.author, first.ID)
	require.NoError(t, err)
	f.rec.reset()

	_, err = f.svc.AcceptAnswer(ctx, f.author, second.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, f.rec.all())
}

func TestAddComment_TargetsAnswer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	q := f.question(t)
	x := f.answer(t, q, f.other, "x")
	y := f.answer(t, q, f.other, "y")
	f.rec.reset()

	c, err := f.svc.AddComment(ctx, f.author, x.ID, "thanks!")
	require.NoError(t, err)

	got := f.rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, realtime.EventNewComment, got[0].Event)
	payload := got[0].Payload.(dto.NewCommentPayload)
	assert.Equal(t, x.ID, payload.AnswerID)
	assert.Equal(t, c.ID, payload.Comment.ID)

	storedX, _ := f.svc.GetAnswer(ctx, x.ID)
	storedY, _ := f.svc.GetAnswer(ctx, y.ID)
	assert.Len(t, storedX.Comments, 1)
	assert.Empty(t, storedY.Comments)

	_, err = f.svc.AddComment(ctx, f.author, x.ID, " ")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = f.svc.AddComment(ctx, f.author, bson.NewObjectID(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, f.rec.all(), 1)
}

func TestListCollegeQuestions_Pages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	var ids []bson.ObjectID
	for i := 0; i < 3; i++ {
		ids = append(ids, f.question(t).ID)
	}

	page, err := f.svc.ListCollegeQuestions(ctx, f.college, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Questions, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[2], page.Questions[0].ID)
	assert.Equal(t, ids[1], page.Questions[1].ID)

	rest, err := f.svc.ListCollegeQuestions(ctx, f.college, *page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, rest.Questions, 1)
	assert.Equal(t, ids[0], rest.Questions[0].ID)
	assert.False(t, rest.HasMore)

	_, err = f.svc.ListCollegeQuestions(ctx, f.college, "@@", 2)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCreateQuestion_HarvestsHashtagsFromBody(t *testing.T) {
	f := setup(t)
	q, err := f.svc.CreateQuestion(context.Background(), f.author, NewQuestion{
		CollegeID: f.college,
		Title:     "Hostel curfew",
		Body:      "Is the #Hostel curfew still 11pm? #rules",
		Tags:      []string{"hostel"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hostel", "rules"}, q.Tags)
}
