package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2/log"
)

// Publisher is what mutation handlers depend on.
type Publisher interface {
	Broadcast(topic Topic, event string, payload any) int
}

// Broadcaster fans events out to a topic's current subscribers. It never waits on
// socket I/O: frames go into each connection's bounded queue or are dropped.
type Broadcaster struct {
	mu       sync.Mutex
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast returns how many subscribers the frame was queued for.
func (b *Broadcaster) Broadcast(topic Topic, event string, payload any) int {
	frame, err := Encode(event, payload)
	if err != nil {
		log.Errorf("broadcast %s on %s: encode: %v", event, topic, err)
		return 0
	}

	// one broadcast at a time keeps every subscriber's queue in the same order
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, c := range b.registry.Subscribers(topic) {
		if c.Enqueue(frame) {
			delivered++
		} else {
			log.Debugf("broadcast %s on %s: dropped for conn %s", event, topic, c.ID)
		}
	}
	return delivered
}

// Encode builds a wire frame.
func Encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope[any]{Event: event, Data: payload})
}
