package controllers

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/languages"
	"github.com/alaaharoun/livetranslate-server/pkg/protocol"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer/fake"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const readTimeout = 2 * time.Second

type testServer struct {
	app    *config.AppConfig
	engine *fake.Engine
	ws     *WebsocketController
	url    string
}

func newTestAppConfig(t *testing.T, withCredentials bool) *config.AppConfig {
	t.Helper()
	if withCredentials {
		t.Setenv(config.EnvSpeechKey, "test-key")
		t.Setenv(config.EnvSpeechRegion, "westeurope")
	} else {
		t.Setenv(config.EnvSpeechKey, "")
		t.Setenv(config.EnvSpeechRegion, "")
	}
	app, err := config.New(&config.AppConfig{})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app.Logger = logger
	return app
}

func newTestServer(t *testing.T, withCredentials bool) *testServer {
	t.Helper()
	app := newTestAppConfig(t, withCredentials)
	engine := fake.NewEngine(fake.StartSucceeds)
	validator := languages.New(&app.Speech, app.Logger)
	ws := NewWebsocketController(app, engine, validator, nil, app.Logger)
	hc := NewHealthCheckController(app)

	f := fiber.New()
	f.Get("/health", hc.HandleHealth)
	f.Use(app.Client.WebsocketPath, ws.HandleUpgradeCheck)
	f.Get(app.Client.WebsocketPath, ws.HandleWebSocket())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = f.Listener(ln)
	}()
	t.Cleanup(func() {
		ws.Shutdown()
		_ = f.Shutdown()
	})

	return &testServer{
		app:    app,
		engine: engine,
		ws:     ws,
		url:    "ws://" + ln.Addr().String() + app.Client.WebsocketPath,
	}
}

func (s *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(s.url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func sendJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readOutbound(t *testing.T, conn *websocket.Conn) *protocol.Outbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, mt)

	out := new(protocol.Outbound)
	require.NoError(t, json.Unmarshal(data, out))
	return out
}

func TestWebsocketController_MissingCredentials(t *testing.T) {
	s := newTestServer(t, false)
	conn := s.dial(t)

	msg := readOutbound(t, conn)
	assert.Equal(t, protocol.TypeError, msg.Type)
	assert.Equal(t, config.SpeechCredentialsMissing, msg.Message)
	assert.Contains(t, msg.Error, config.EnvSpeechKey)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "unexpected error: %v", err)
	assert.Empty(t, s.engine.Handles())
}

func TestWebsocketController_TranscriptionFlow(t *testing.T) {
	s := newTestServer(t, true)
	conn := s.dial(t)

	sendJSON(t, conn, map[string]any{"type": "init", "language": "en-US"})
	status := readOutbound(t, conn)
	assert.Equal(t, protocol.TypeStatus, status.Type)
	assert.Equal(t, "Initialized with language: en-US", status.Message)

	h := s.engine.Handle(1)
	require.NotNil(t, h)
	assert.Equal(t, "en-US", h.Options().Language)

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcm))
	require.Eventually(t, func() bool {
		return len(h.Fed()) == 1
	}, readTimeout, 10*time.Millisecond)
	assert.Equal(t, pcm, h.Fed()[0])

	h.Partial("hel")
	partial := readOutbound(t, conn)
	assert.Equal(t, protocol.TypeTranscription, partial.Type)
	assert.Equal(t, "hel", partial.Text)
	require.NotNil(t, partial.IsPartial)
	assert.True(t, *partial.IsPartial)

	h.Final("hello world")
	final := readOutbound(t, conn)
	assert.Equal(t, protocol.TypeFinal, final.Type)
	assert.Equal(t, "hello world", final.Text)

	sendJSON(t, conn, map[string]any{"type": "ping"})
	assert.Equal(t, protocol.TypePong, readOutbound(t, conn).Type)

	sendJSON(t, conn, map[string]any{"type": "stop"})
	assert.Equal(t, protocol.TypeDone, readOutbound(t, conn).Type)
	assert.True(t, h.Closed())
}

func TestWebsocketController_DisconnectReleasesRecognizer(t *testing.T) {
	s := newTestServer(t, true)
	conn := s.dial(t)

	sendJSON(t, conn, map[string]any{"type": "init", "language": "ar-SA"})
	require.Equal(t, protocol.TypeStatus, readOutbound(t, conn).Type)
	require.Equal(t, 1, s.engine.Active())
	assert.Equal(t, 1, s.ws.ActiveConnections())

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return s.ws.ActiveConnections() == 0
	}, readTimeout, 10*time.Millisecond)
	assert.Zero(t, s.engine.Active())
	assert.Equal(t, 1, s.engine.Handle(1).Closes())
}

func TestWebsocketController_RejectsPlainHTTP(t *testing.T) {
	app := newTestAppConfig(t, true)
	ws := NewWebsocketController(app, fake.NewEngine(fake.StartSucceeds), languages.New(&app.Speech, app.Logger), nil, app.Logger)

	f := fiber.New()
	f.Use(app.Client.WebsocketPath, ws.HandleUpgradeCheck)
	f.Get(app.Client.WebsocketPath, ws.HandleWebSocket())

	resp, err := f.Test(httptest.NewRequest(http.MethodGet, app.Client.WebsocketPath, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestWebsocketController_ShutdownClosesSessions(t *testing.T) {
	s := newTestServer(t, true)
	conn := s.dial(t)

	sendJSON(t, conn, map[string]any{"type": "init", "language": "fr-FR"})
	require.Equal(t, protocol.TypeStatus, readOutbound(t, conn).Type)

	s.ws.Shutdown()
	assert.Zero(t, s.engine.Active())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// a connection accepted after shutdown never gets a session
	late := s.dial(t)
	require.NoError(t, late.SetReadDeadline(time.Now().Add(readTimeout)))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
	assert.Len(t, s.engine.Handles(), 1)
	assert.Zero(t, s.ws.ActiveConnections())
}

func TestWebsocketController_BinaryFrameStartingWithBrace(t *testing.T) {
	s := newTestServer(t, true)
	conn := s.dial(t)

	sendJSON(t, conn, map[string]any{"type": "init", "language": "en-US"})
	require.Equal(t, protocol.TypeStatus, readOutbound(t, conn).Type)

	frame := []byte{0x7B, 0x00, 0x10, 0x00}
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, frame))

	h := s.engine.Handle(1)
	require.Eventually(t, func() bool {
		return len(h.Fed()) == 1
	}, readTimeout, 10*time.Millisecond)
	assert.Equal(t, frame, h.Fed()[0])
}
