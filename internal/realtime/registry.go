package realtime

import "sync"

type connSet map[*Conn]struct{}
type topicSet map[Topic]struct{}

// Registry tracks which connections are subscribed to which topics, in memory,
// for this process only.
type Registry struct {
	mu     sync.RWMutex
	topics map[Topic]connSet
	conns  map[*Conn]topicSet
}

func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[Topic]connSet),
		conns:  make(map[*Conn]topicSet),
	}
}

// Join adds c to topic. Joining twice is a no-op.
func (r *Registry) Join(c *Conn, topic Topic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		members = make(connSet)
		r.topics[topic] = members
	}
	members[c] = struct{}{}

	joined, ok := r.conns[c]
	if !ok {
		joined = make(topicSet)
		r.conns[c] = joined
	}
	joined[topic] = struct{}{}
}

// Leave removes c from topic. No-op if c was not subscribed.
func (r *Registry) Leave(c *Conn, topic Topic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(c, topic)
}

func (r *Registry) leaveLocked(c *Conn, topic Topic) {
	if members, ok := r.topics[topic]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.topics, topic)
		}
	}
	if joined, ok := r.conns[c]; ok {
		delete(joined, topic)
		if len(joined) == 0 {
			delete(r.conns, c)
		}
	}
}

// Disconnect removes c from every topic and returns the topics it held.
func (r *Registry) Disconnect(c *Conn) []Topic {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.conns[c]
	out := make([]Topic, 0, len(joined))
	for t := range joined {
		out = append(out, t)
	}
	for _, t := range out {
		r.leaveLocked(c, t)
	}
	delete(r.conns, c)
	return out
}

// Subscribers returns a snapshot of the connections currently joined to topic.
func (r *Registry) Subscribers(topic Topic) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[topic]
	out := make([]*Conn, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Topics(c *Conn) []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined := r.conns[c]
	out := make([]Topic, 0, len(joined))
	for t := range joined {
		out = append(out, t)
	}
	return out
}

func (r *Registry) Count(topic Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topic])
}

func (r *Registry) IsSubscribed(c *Conn, topic Topic) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.topics[topic][c]
	return ok
}
