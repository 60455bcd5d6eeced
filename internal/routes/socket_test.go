package routes

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// serve starts the app on a real port and returns its ws url. Later h.do calls
// go over the network too.
func (h *harness) serve(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = h.app.Listener(ln) }()
	t.Cleanup(func() { _ = h.app.ShutdownWithTimeout(2 * time.Second) })
	h.base = "http://" + ln.Addr().String()
	return "ws://" + ln.Addr().String() + "/ws"
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, event, data string) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(realtime.Envelope[string]{Event: event, Data: data}))
}

func next(t *testing.T, ws *websocket.Conn) realtime.Envelope[json.RawMessage] {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f realtime.Envelope[json.RawMessage]
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func expectAck(t *testing.T, ws *websocket.Conn, event string, topic realtime.Topic) {
	t.Helper()
	f := next(t, ws)
	require.Equal(t, event, f.Event)
	var got string
	require.NoError(t, json.Unmarshal(f.Data, &got))
	require.Equal(t, string(topic), got)
}

func expectSilence(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, msg, err := ws.ReadMessage()
	require.Error(t, err, "unexpected frame %s", msg)
	var ne net.Error
	require.ErrorAs(t, err, &ne)
	assert.True(t, ne.Timeout())
}

func TestSocketAnswerReachesOnlyQuestionRoom(t *testing.T) {
	h := newHarness(t)
	url := h.serve(t)

	author := bson.NewObjectID()
	tok := token(t, author)
	q := h.createQuestion(t, tok, bson.NewObjectID(), "Is the gym open on Sunday?")
	other := h.createQuestion(t, tok, bson.NewObjectID(), "Parking permits?")

	room := realtime.QuestionTopic(q.ID.Hex())
	a, b, c := dialWS(t, url), dialWS(t, url), dialWS(t, url)
	send(t, a, realtime.EventJoinQuestion, q.ID.Hex())
	send(t, b, realtime.EventJoinQuestion, q.ID.Hex())
	send(t, c, realtime.EventJoinQuestion, other.ID.Hex())
	expectAck(t, a, realtime.EventJoined, room)
	expectAck(t, b, realtime.EventJoined, room)
	expectAck(t, c, realtime.EventJoined, realtime.QuestionTopic(other.ID.Hex()))
	assert.Equal(t, 2, h.registry.Count(room))

	var posted models.Answer
	code := h.do(t, http.MethodPost, "/answers", tok, dto.CreateAnswerReq{QuestionID: q.ID.Hex(), Content: "Yes, 8 to 5"}, &posted)
	require.Equal(t, fiber.StatusCreated, code)

	for _, ws := range []*websocket.Conn{a, b} {
		f := next(t, ws)
		assert.Equal(t, realtime.EventNewAnswer, f.Event)
		var got models.Answer
		require.NoError(t, json.Unmarshal(f.Data, &got))
		assert.Equal(t, posted.ID, got.ID)
		assert.Equal(t, "Yes, 8 to 5", got.Content)
	}
	expectSilence(t, c)
}

func TestSocketCollegeRoomAndLeave(t *testing.T) {
	h := newHarness(t)
	url := h.serve(t)
	tok := token(t, bson.NewObjectID())
	college := bson.NewObjectID()
	room := realtime.CollegeTopic(college.Hex())

	ws := dialWS(t, url)
	send(t, ws, realtime.EventJoinCollege, college.Hex())
	expectAck(t, ws, realtime.EventJoined, room)

	q := h.createQuestion(t, tok, college, "Club fair date?")
	f := next(t, ws)
	assert.Equal(t, realtime.EventNewQuestion, f.Event)

	send(t, ws, realtime.EventLeaveCollege, college.Hex())
	expectAck(t, ws, realtime.EventLeft, room)
	assert.Equal(t, 0, h.registry.Count(room))

	code := h.do(t, http.MethodDelete, "/questions/"+q.ID.Hex(), tok, nil, nil)
	require.Equal(t, fiber.StatusNoContent, code)
	expectSilence(t, ws)
}

func TestSocketRejectsMalformedFrames(t *testing.T) {
	h := newHarness(t)
	ws := dialWS(t, h.serve(t))

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, realtime.EventError, next(t, ws).Event)

	send(t, ws, "join-everything", "x")
	assert.Equal(t, realtime.EventError, next(t, ws).Event)

	send(t, ws, realtime.EventJoinQuestion, "  ")
	assert.Equal(t, realtime.EventError, next(t, ws).Event)
}

func TestSocketDisconnectLeavesEveryRoom(t *testing.T) {
	h := newHarness(t)
	url := h.serve(t)

	college, question := realtime.CollegeTopic("c1"), realtime.QuestionTopic("q1")
	ws := dialWS(t, url)
	send(t, ws, realtime.EventJoinCollege, "c1")
	send(t, ws, realtime.EventJoinQuestion, "q1")
	expectAck(t, ws, realtime.EventJoined, college)
	expectAck(t, ws, realtime.EventJoined, question)

	require.NoError(t, ws.Close())

	assert.Eventually(t, func() bool {
		return h.registry.Count(college) == 0 && h.registry.Count(question) == 0
	}, 3*time.Second, 20*time.Millisecond)
}
