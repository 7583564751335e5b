package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/bus"
	"github.com/ayusman/mudra/internal/geometry"
	"github.com/ayusman/mudra/internal/draw"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/listener"
	"github.com/ayusman/mudra/internal/schedule"
	"github.com/ayusman/mudra/internal/tracker"
)

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func TestDecodeFrame_JSON(t *testing.T) {
	msg := `{"hands":{"left":{"fingerPositions":{"8":{"x":0.25,"y":0.5}},"detectedGesture":"pointing"}}}`

	f, err := DecodeFrame(websocket.TextMessage, []byte(msg), now)
	require.NoError(t, err)

	assert.Equal(t, now, f.Time)
	require.NotNil(t, f.Hand(hand.Left))
	assert.Equal(t, hand.Pointing, f.Hand(hand.Left).Gesture)
	p, ok := f.Hand(hand.Left).Position(hand.IndexTip)
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 0.25, Y: 0.5}, p)
	assert.Nil(t, f.Hand(hand.Right))
}

func TestDecodeFrame_CBOR(t *testing.T) {
	sent := hand.Frame{
		Time: now.Add(time.Second),
		Hands: map[hand.Side]*hand.Data{
			hand.Right: {
				Positions: map[hand.Landmark]geometry.Point{hand.ThumbTip: {X: 10, Y: 20}},
				Gesture:   hand.Pinch,
			},
		},
	}
	data, err := cbor.Marshal(sent)
	require.NoError(t, err)

	f, err := DecodeFrame(websocket.BinaryMessage, data, now)
	require.NoError(t, err)

	assert.True(t, f.Time.Equal(sent.Time), "time %v", f.Time)
	require.NotNil(t, f.Hand(hand.Right))
	assert.Equal(t, hand.Pinch, f.Hand(hand.Right).Gesture)
	assert.Equal(t, geometry.Point{X: 10, Y: 20}, f.Hand(hand.Right).Positions[hand.ThumbTip])
}

func TestDecodeFrame_MissingAxisIsUndefined(t *testing.T) {
	msg := `{"hands":{"Left":{"fingerPositions":{"8":{"x":100}},"detectedGesture":"open_hand"},` +
		`"Right":{"fingerPositions":{"8":{"x":200,"y":null}},"detectedGesture":"open_hand"}}}`

	f, err := DecodeFrame(websocket.TextMessage, []byte(msg), now)
	require.NoError(t, err)

	for _, side := range []hand.Side{hand.Left, hand.Right} {
		p, ok := f.Hand(side).Position(hand.IndexTip)
		require.True(t, ok, side)
		assert.False(t, p.Defined(), "%s index tip decoded as %+v", side, p)
	}

	fs := listener.NewForeshadowing(listener.Options{
		Name:      "chart",
		Region:    listener.Region{Dimensions: geometry.Dimensions{Width: 640, Height: 480}},
		Surface:   draw.NewRecorder(),
		Scheduler: schedule.NewManual(now),
		Logger:    slog.New(slog.DiscardHandler),
	})
	defer fs.Dispose()

	err = fs.HandleNewData(f)
	assert.True(t, errors.Is(err, listener.ErrUndefinedCoordinate), "got %v", err)
	assert.Equal(t, listener.Idle, fs.State())
}

func TestDecodeFrame_CBORMissingAxisIsUndefined(t *testing.T) {
	data, err := cbor.Marshal(map[string]any{
		"hands": map[string]any{
			"Right": map[string]any{
				"fingerPositions": map[int]any{8: map[string]any{"x": 200.0}},
				"detectedGesture": "pointing",
			},
		},
	})
	require.NoError(t, err)

	f, err := DecodeFrame(websocket.BinaryMessage, data, now)
	require.NoError(t, err)

	p, ok := f.Hand(hand.Right).Position(hand.IndexTip)
	require.True(t, ok)
	assert.False(t, p.Defined(), "decoded as %+v", p)
}

func TestDecodeFrame_Rejects(t *testing.T) {
	tests := []struct {
		name string
		kind int
		data string
	}{
		{"malformed json", websocket.TextMessage, `{"hands":`},
		{"unknown side", websocket.TextMessage, `{"hands":{"middle":{}}}`},
		{"unknown landmark", websocket.TextMessage, `{"hands":{"Left":{"fingerPositions":{"21":{"x":1,"y":1}}}}}`},
		{"malformed cbor", websocket.BinaryMessage, "\xff\x00"},
		{"ping message", websocket.PingMessage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.kind, []byte(tt.data), now)
			assert.ErrorIs(t, err, ErrBadFrame)
		})
	}
}

func TestDecodeFrame_EmptyHands(t *testing.T) {
	f, err := DecodeFrame(websocket.TextMessage, []byte(`{"hands":{"Left":null}}`), now)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

func TestLandmarksHandler_ForwardsFrames(t *testing.T) {
	frames := make(chan hand.Frame, 1)
	ts := httptest.NewServer(NewLandmarksHandler(frames, slog.New(slog.DiscardHandler)))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		[]byte(`{"hands":{"Right":{"fingerPositions":{"0":{"x":1,"y":2}},"detectedGesture":"fist"}}}`)))

	select {
	case f := <-frames:
		require.NotNil(t, f.Hand(hand.Right))
		assert.Equal(t, hand.Fist, f.Hand(hand.Right).Gesture)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestEventsHandler_Broadcasts(t *testing.T) {
	tr := newTestTracker(t)
	view := tracker.NewView("main")
	tr.AddView(view)

	h := NewEventsHandler(tr, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	ts := httptest.NewServer(h)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Open[string](view.Subjects(), "greeting").Publish("hello")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		View    string `json:"view"`
		Subject string `json:"subject"`
		Payload string `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, "main", got.View)
	assert.Equal(t, "greeting", got.Subject)
	assert.Equal(t, "hello", got.Payload)
}

func TestEventsHandler_DropsClosedClients(t *testing.T) {
	tr := newTestTracker(t, "main")
	h := NewEventsHandler(tr, slog.New(slog.DiscardHandler))

	ts := httptest.NewServer(h)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
