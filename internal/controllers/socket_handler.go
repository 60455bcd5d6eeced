package controllers

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
)

// SocketHandler owns the websocket side of the realtime layer: it turns client
// join/leave frames into registry calls and drains each connection's queue.
type SocketHandler struct {
	Registry     *realtime.Registry
	SendBuffer   int
	PingInterval time.Duration
	PongWait     time.Duration
}

func NewSocketHandler(registry *realtime.Registry, sendBuffer int, pingInterval, pongWait time.Duration) *SocketHandler {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	if pingInterval <= 0 {
		pingInterval = 25 * time.Second
	}
	if pongWait <= pingInterval {
		pongWait = pingInterval * 2
	}
	return &SocketHandler{
		Registry:     registry,
		SendBuffer:   sendBuffer,
		PingInterval: pingInterval,
		PongWait:     pongWait,
	}
}

// Upgrade rejects plain HTTP requests on the socket route.
func (h *SocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// @Summary      Realtime socket
// @Description  Send {"event":"join-question","data":"<id>"} (or join-college, leave-question, leave-college); receive {"event","data"} frames
// @Tags         realtime
// @Param        token  query  string  false  "Bearer token (optional)"
// @Success      101
// @Failure      426
// @Router       /ws [get]
func (h *SocketHandler) Serve() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *SocketHandler) serve(ws *websocket.Conn) {
	conn := realtime.NewConn(uuid.NewString(), h.SendBuffer)
	uid, _ := ws.Locals("user_id").(string)
	log.Infof("ws %s connected (user=%q)", conn.ID, uid)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writePump(ws, conn)
	}()

	defer func() {
		topics := h.Registry.Disconnect(conn)
		conn.Close()
		// the fiber conn is recycled once serve returns
		wg.Wait()
		log.Infof("ws %s disconnected, left %d topics", conn.ID, len(topics))
	}()

	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(h.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.PongWait))
	})

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("ws %s read: %v", conn.ID, err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(h.PongWait))
		h.dispatch(conn, msg)
	}
}

func (h *SocketHandler) dispatch(conn *realtime.Conn, msg []byte) {
	var in realtime.Envelope[string]
	if err := json.Unmarshal(msg, &in); err != nil {
		reply(conn, realtime.EventError, "malformed frame")
		return
	}
	id := strings.TrimSpace(in.Data)
	if id == "" {
		reply(conn, realtime.EventError, in.Event+": missing id")
		return
	}

	switch in.Event {
	case realtime.EventJoinCollege:
		h.join(conn, realtime.CollegeTopic(id))
	case realtime.EventJoinQuestion:
		h.join(conn, realtime.QuestionTopic(id))
	case realtime.EventLeaveCollege:
		h.leave(conn, realtime.CollegeTopic(id))
	case realtime.EventLeaveQuestion:
		h.leave(conn, realtime.QuestionTopic(id))
	default:
		reply(conn, realtime.EventError, "unknown event "+in.Event)
	}
}

// The ack is queued after the registry update, so anything published after a
// client sees "joined" reaches it.
func (h *SocketHandler) join(conn *realtime.Conn, topic realtime.Topic) {
	h.Registry.Join(conn, topic)
	log.Debugf("ws %s joined %s", conn.ID, topic)
	reply(conn, realtime.EventJoined, string(topic))
}

func (h *SocketHandler) leave(conn *realtime.Conn, topic realtime.Topic) {
	h.Registry.Leave(conn, topic)
	log.Debugf("ws %s left %s", conn.ID, topic)
	reply(conn, realtime.EventLeft, string(topic))
}

func reply(conn *realtime.Conn, event, data string) {
	frame, err := realtime.Encode(event, data)
	if err != nil {
		return
	}
	if !conn.Enqueue(frame) {
		log.Debugf("ws %s: %s reply dropped", conn.ID, event)
	}
}

// writePump is the only goroutine that writes to ws.
func (h *SocketHandler) writePump(ws *websocket.Conn, conn *realtime.Conn) {
	ticker := time.NewTicker(h.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame := <-conn.Outbound():
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Debugf("ws %s write: %v", conn.ID, err)
				h.abort(ws, conn)
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debugf("ws %s ping: %v", conn.ID, err)
				h.abort(ws, conn)
				return
			}
		case <-conn.Done():
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// abort unblocks the reader so serve can clean up.
func (h *SocketHandler) abort(ws *websocket.Conn, conn *realtime.Conn) {
	conn.Close()
	_ = ws.Close()
}
