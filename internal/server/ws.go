package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/tracker"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingEvery    = (pongWait * 9) / 10
	maxFrameSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ErrBadFrame is returned for a landmark message that is not a hand frame.
var ErrBadFrame = errors.New("bad landmark frame")

// DecodeFrame parses one landmark message. Text messages are JSON, binary
// messages are CBOR; both use the hand.Frame field names. Side keys are
// accepted in any letter case and a missing time is stamped with now.
func DecodeFrame(messageType int, data []byte, now time.Time) (hand.Frame, error) {
	var raw struct {
		Time  time.Time             `json:"time"`
		Hands map[string]*hand.Data `json:"hands"`
	}

	switch messageType {
	case websocket.TextMessage:
		if err := json.Unmarshal(data, &raw); err != nil {
			return hand.Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
	case websocket.BinaryMessage:
		if err := cbor.Unmarshal(data, &raw); err != nil {
			return hand.Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
	default:
		return hand.Frame{}, fmt.Errorf("%w: message type %d", ErrBadFrame, messageType)
	}

	f := hand.Frame{Time: raw.Time, Hands: make(map[hand.Side]*hand.Data, len(raw.Hands))}
	if f.Time.IsZero() {
		f.Time = now
	}
	for key, d := range raw.Hands {
		side, err := hand.ParseSide(key)
		if err != nil {
			return hand.Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
		if d == nil {
			continue
		}
		for id := range d.Positions {
			if !id.Valid() {
				return hand.Frame{}, fmt.Errorf("%w: %s", ErrBadFrame, id)
			}
		}
		if d.Positions == nil {
			d.Positions = map[hand.Landmark]geometry.Point{}
		}
		f.Hands[side] = d
	}
	return f, nil
}

// LandmarksHandler accepts hand frames from an upstream tracker over
// WebSocket and forwards them to the frame loop.
type LandmarksHandler struct {
	frames chan<- hand.Frame
	log    *slog.Logger
	now    func() time.Time
}

// NewLandmarksHandler creates a LandmarksHandler feeding frames. Frames that
// arrive while the loop is busy are dropped, as a newer one follows.
func NewLandmarksHandler(frames chan<- hand.Frame, logger *slog.Logger) *LandmarksHandler {
	return &LandmarksHandler{frames: frames, log: logger, now: time.Now}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameSize)

	h.log.Info("landmark source connected", "remote", r.RemoteAddr)
	defer h.log.Info("landmark source disconnected", "remote", r.RemoteAddr)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := DecodeFrame(messageType, data, h.now())
		if err != nil {
			h.log.Debug("dropping landmark message", "error", err)
			continue
		}
		select {
		case h.frames <- f:
		default:
			h.log.Debug("frame loop busy, dropping frame")
		}
	}
}

// EventsHandler broadcasts every listener event to connected clients as JSON.
type EventsHandler struct {
	events  chan tracker.Event
	dispose func()
	log     *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

// NewEventsHandler subscribes to t. Run must be started for clients to
// receive anything.
func NewEventsHandler(t *tracker.Tracker, logger *slog.Logger) *EventsHandler {
	h := &EventsHandler{
		events:  make(chan tracker.Event, 64),
		log:     logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
	h.dispose = t.Observe(func(e tracker.Event) {
		select {
		case h.events <- e:
		default:
			h.log.Debug("event queue full, dropping event", "subject", e.Subject)
		}
	})
	return h
}

// Run broadcasts queued events until ctx is done.
func (h *EventsHandler) Run(ctx context.Context) {
	defer h.dispose()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case e := <-h.events:
			payload, err := json.Marshal(e)
			if err != nil {
				h.log.Warn("failed to encode event", "subject", e.Subject, "error", err)
				continue
			}
			h.broadcast(payload)
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writeMu := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = writeMu
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := writeMessage(conn, writeMu, websocket.PingMessage, nil); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()
	defer close(done)
	defer h.remove(conn)

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *EventsHandler) broadcast(payload []byte) {
	var stale []*websocket.Conn
	h.mu.Lock()
	for conn, writeMu := range h.clients {
		if err := writeMessage(conn, writeMu, websocket.TextMessage, payload); err != nil {
			stale = append(stale, conn)
		}
	}
	h.mu.Unlock()
	for _, conn := range stale {
		h.remove(conn)
	}
}

func (h *EventsHandler) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *EventsHandler) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func writeMessage(conn *websocket.Conn, writeMu *sync.Mutex, messageType int, payload []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, payload)
}
