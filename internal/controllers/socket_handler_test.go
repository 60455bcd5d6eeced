package controllers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameOf(t *testing.T, c *realtime.Conn) realtime.Envelope[string] {
	t.Helper()
	select {
	case b := <-c.Outbound():
		var f realtime.Envelope[string]
		require.NoError(t, json.Unmarshal(b, &f))
		return f
	default:
		t.Fatal("no frame queued")
		return realtime.Envelope[string]{}
	}
}

func TestDispatchJoinLeave(t *testing.T) {
	h := NewSocketHandler(realtime.NewRegistry(), 8, 0, 0)
	c := realtime.NewConn("c1", 8)

	h.dispatch(c, []byte(`{"event":"join-question","data":"42"}`))
	assert.True(t, h.Registry.IsSubscribed(c, realtime.QuestionTopic("42")))
	assert.Equal(t, realtime.Envelope[string]{Event: realtime.EventJoined, Data: "question-42"}, frameOf(t, c))

	h.dispatch(c, []byte(`{"event":"join-college","data":"42"}`))
	assert.Equal(t, "college-42", frameOf(t, c).Data)
	assert.Len(t, h.Registry.Topics(c), 2)

	h.dispatch(c, []byte(`{"event":"leave-question","data":"42"}`))
	assert.Equal(t, realtime.EventLeft, frameOf(t, c).Event)
	assert.False(t, h.Registry.IsSubscribed(c, realtime.QuestionTopic("42")))
	assert.True(t, h.Registry.IsSubscribed(c, realtime.CollegeTopic("42")))

	h.dispatch(c, []byte(`{"event":"leave-college","data":"42"}`))
	assert.Equal(t, realtime.EventLeft, frameOf(t, c).Event)
	assert.Empty(t, h.Registry.Topics(c))
}

func TestDispatchErrors(t *testing.T) {
	h := NewSocketHandler(realtime.NewRegistry(), 8, 0, 0)
	c := realtime.NewConn("c1", 8)

	for _, msg := range []string{
		`garbage`,
		`{"event":"join-question","data":""}`,
		`{"event":"join-question","data":7}`,
		`{"event":"subscribe","data":"42"}`,
	} {
		h.dispatch(c, []byte(msg))
		assert.Equal(t, realtime.EventError, frameOf(t, c).Event, msg)
	}
	assert.Empty(t, h.Registry.Topics(c))
}

func TestNewSocketHandlerDefaults(t *testing.T) {
	h := NewSocketHandler(realtime.NewRegistry(), 0, 0, 0)
	assert.Equal(t, 32, h.SendBuffer)
	assert.Equal(t, 25*time.Second, h.PingInterval)
	assert.Greater(t, h.PongWait, h.PingInterval)
}
