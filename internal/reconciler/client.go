package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/models"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ackTimeout   = 5 * time.Second
	fetchTimeout = 10 * time.Second
)

// Frame is one server frame with its payload left undecoded.
type Frame = realtime.Envelope[json.RawMessage]

// Client talks to one CampusConnect server: REST for the bootstrap snapshot,
// the socket for everything after it.
type Client struct {
	BaseURL string
	Token   string

	ws      *websocket.Conn
	writeMu sync.Mutex

	events chan Frame
	acks   chan realtime.Envelope[string]
	closed chan struct{}
	gone   chan struct{}
	once   sync.Once
}

// Dial opens the socket. baseURL is the HTTP origin, e.g. http://localhost:3000.
func Dial(ctx context.Context, baseURL, token string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		ws:      ws,
		events:  make(chan Frame, 64),
		acks:    make(chan realtime.Envelope[string], 8),
		closed:  make(chan struct{}),
		gone:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events yields broadcast frames in arrival order. It is closed when the
// socket goes away.
func (c *Client) Events() <-chan Frame { return c.events }

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.gone)
	defer close(c.events)
	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warnf("reconciler: socket read: %v", err)
			}
			return
		}

		var f Frame
		if err := json.Unmarshal(msg, &f); err != nil {
			log.Warnf("reconciler: bad frame: %v", err)
			continue
		}

		switch f.Event {
		case realtime.EventJoined, realtime.EventLeft, realtime.EventError:
			var ack realtime.Envelope[string]
			ack.Event = f.Event
			_ = json.Unmarshal(f.Data, &ack.Data)
			select {
			case c.acks <- ack:
			default:
				log.Debugf("reconciler: unexpected %s frame dropped", ack.Event)
			}
		default:
			select {
			case c.events <- f:
			case <-c.closed:
				return
			}
		}
	}
}

// Join subscribes to topic and returns once the server has acknowledged it;
// every event published after that is delivered to Events.
func (c *Client) Join(ctx context.Context, topic realtime.Topic) error {
	event, id, err := frameFor(topic, true)
	if err != nil {
		return err
	}
	return c.request(ctx, event, id, realtime.EventJoined, topic)
}

func (c *Client) Leave(ctx context.Context, topic realtime.Topic) error {
	event, id, err := frameFor(topic, false)
	if err != nil {
		return err
	}
	return c.request(ctx, event, id, realtime.EventLeft, topic)
}

func frameFor(topic realtime.Topic, join bool) (string, string, error) {
	switch {
	case topic.IsCollege():
		id := strings.TrimPrefix(string(topic), "college-")
		if join {
			return realtime.EventJoinCollege, id, nil
		}
		return realtime.EventLeaveCollege, id, nil
	case topic.IsQuestion():
		id := strings.TrimPrefix(string(topic), "question-")
		if join {
			return realtime.EventJoinQuestion, id, nil
		}
		return realtime.EventLeaveQuestion, id, nil
	}
	return "", "", fmt.Errorf("unknown topic %q", topic)
}

func (c *Client) request(ctx context.Context, event, id, wantAck string, topic realtime.Topic) error {
	frame, err := json.Marshal(realtime.Envelope[string]{Event: event, Data: id})
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	err = c.ws.WriteMessage(websocket.TextMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("%s: %w", event, err)
	}

	ctx, cancel := context.WithTimeout(ctx, ackTimeout)
	defer cancel()
	for {
		select {
		case ack := <-c.acks:
			if ack.Event == realtime.EventError {
				return fmt.Errorf("%s: server: %s", event, ack.Data)
			}
			if ack.Event == wantAck && ack.Data == string(topic) {
				return nil
			}
		case <-c.gone:
			return errors.New("socket closed")
		case <-ctx.Done():
			return fmt.Errorf("%s %s: waiting for ack: %w", event, id, ctx.Err())
		}
	}
}

// FetchQuestion is the one-time bootstrap read for a question view.
func (c *Client) FetchQuestion(ctx context.Context, questionID bson.ObjectID) (*dto.QuestionDetailResp, error) {
	var out dto.QuestionDetailResp
	if err := c.getJSON(ctx, "/questions/"+questionID.Hex(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchCollege(ctx context.Context, collegeID bson.ObjectID, limit int) ([]models.Question, error) {
	var out dto.ListQuestionsResp
	path := fmt.Sprintf("/colleges/%s/questions?limit=%d", collegeID.Hex(), limit)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	timeout := fetchTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}

	a := fiber.Get(c.BaseURL + path).Timeout(timeout)
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("GET %s: %w", path, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		var e dto.ErrorResponse
		_ = json.Unmarshal(body, &e)
		return fmt.Errorf("GET %s: status %d: %s", path, code, e.Error)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
