package realtime

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c := NewConn("a", 4)
	topic := QuestionTopic("42")

	r.Join(c, topic)
	r.Join(c, topic)

	assert.Equal(t, 1, r.Count(topic))
	assert.Equal(t, []*Conn{c}, r.Subscribers(topic))
	assert.Len(t, r.Topics(c), 1)
}

func TestRegistry_LeaveNotSubscribedIsNoop(t *testing.T) {
	r := NewRegistry()
	c := NewConn("a", 4)
	other := NewConn("b", 4)
	r.Join(other, CollegeTopic("1"))

	r.Leave(c, CollegeTopic("1"))
	r.Leave(c, QuestionTopic("9"))

	assert.Equal(t, 1, r.Count(CollegeTopic("1")))
	assert.False(t, r.IsSubscribed(c, CollegeTopic("1")))
}

func TestRegistry_LeaveRemovesOnlyThatTopic(t *testing.T) {
	r := NewRegistry()
	c := NewConn("a", 4)
	r.Join(c, CollegeTopic("1"))
	r.Join(c, QuestionTopic("1"))

	r.Leave(c, QuestionTopic("1"))

	assert.True(t, r.IsSubscribed(c, CollegeTopic("1")))
	assert.False(t, r.IsSubscribed(c, QuestionTopic("1")))
	assert.Equal(t, 0, r.Count(QuestionTopic("1")))
}

func TestRegistry_DisconnectLeavesNothingBehind(t *testing.T) {
	r := NewRegistry()
	c := NewConn("a", 4)
	stay := NewConn("b", 4)

	topics := []Topic{CollegeTopic("1"), QuestionTopic("1"), QuestionTopic("2"), QuestionTopic("3")}
	for _, topic := range topics {
		r.Join(c, topic)
	}
	r.Join(stay, QuestionTopic("2"))

	left := r.Disconnect(c)

	assert.ElementsMatch(t, topics, left)
	for _, topic := range topics {
		assert.False(t, r.IsSubscribed(c, topic), "still in %s", topic)
	}
	assert.Empty(t, r.Topics(c))
	assert.Equal(t, []*Conn{stay}, r.Subscribers(QuestionTopic("2")))
	assert.Equal(t, 0, r.Count(QuestionTopic("3")))
}

func TestRegistry_DisconnectUnknownConn(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Disconnect(NewConn("ghost", 1)))
}

func TestRegistry_NamespacesAreDisjoint(t *testing.T) {
	r := NewRegistry()
	c := NewConn("a", 4)
	r.Join(c, CollegeTopic("7"))

	assert.False(t, r.IsSubscribed(c, QuestionTopic("7")))
	assert.True(t, CollegeTopic("7").IsCollege())
	assert.False(t, CollegeTopic("7").IsQuestion())
	assert.True(t, QuestionTopic("7").IsQuestion())
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry()
	topic := QuestionTopic("hot")

	var wg sync.WaitGroup
	conns := make([]*Conn, 50)
	for i := range conns {
		conns[i] = NewConn(fmt.Sprint(i), 1)
		wg.Add(1)
		go func(c *Conn) {
			defer wg.Done()
			r.Join(c, topic)
			r.Join(c, CollegeTopic("x"))
			_ = r.Subscribers(topic)
			r.Disconnect(c)
		}(conns[i])
	}
	wg.Wait()

	assert.Equal(t, 0, r.Count(topic))
	assert.Equal(t, 0, r.Count(CollegeTopic("x")))
}
