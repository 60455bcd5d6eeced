package realtime

import "sync"

// Conn is the server's handle on one live socket. Frames queued with Enqueue are
// written by the transport's writer goroutine in order; the queue is bounded and
// never blocks the caller.
type Conn struct {
	ID string

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewConn(id string, buffer int) *Conn {
	if buffer <= 0 {
		buffer = 1
	}
	return &Conn{
		ID:   id,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Enqueue reports whether the frame was queued. A closed or lagging connection drops it.
func (c *Conn) Enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Outbound is drained by the writer goroutine.
func (c *Conn) Outbound() <-chan []byte { return c.send }

// Done is closed once the connection is closed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Close is safe to call more than once. The send channel stays open so a
// concurrent Enqueue cannot panic.
func (c *Conn) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Conn) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}
