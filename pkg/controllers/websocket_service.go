package controllers

import (
	"sync"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/languages"
	"github.com/alaaharoun/livetranslate-server/pkg/metrics"
	"github.com/alaaharoun/livetranslate-server/pkg/protocol"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/alaaharoun/livetranslate-server/pkg/session"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 10 * time.Second

type WebsocketController struct {
	app       *config.AppConfig
	engine    recognizer.Engine
	validator *languages.Validator
	observer  session.Observer
	logger    *logrus.Logger
	log       *logrus.Entry

	mu     sync.Mutex
	conns  map[string]*liveConnection
	closed bool
}

type liveConnection struct {
	conn *websocket.Conn
	ctrl *session.Controller
}

func NewWebsocketController(app *config.AppConfig, engine recognizer.Engine, validator *languages.Validator, observer session.Observer, logger *logrus.Logger) *WebsocketController {
	return &WebsocketController{
		app:       app,
		engine:    engine,
		validator: validator,
		observer:  observer,
		logger:    logger,
		log:       logger.WithField("controller", "websocket"),
		conns:     make(map[string]*liveConnection),
	}
}

// HandleUpgradeCheck rejects plain HTTP requests to the websocket path.
func (wc *WebsocketController) HandleUpgradeCheck(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (wc *WebsocketController) HandleWebSocket() fiber.Handler {
	return websocket.New(wc.serve, websocket.Config{
		EnableCompression: true,
	})
}

// connSender serializes outbound messages as text frames.
type connSender struct {
	conn *websocket.Conn
}

func (s *connSender) Send(msg *protocol.Outbound) error {
	data, err := msg.Marshal()
	if err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (wc *WebsocketController) serve(conn *websocket.Conn) {
	connId := uuid.NewString()
	log := wc.log.WithFields(logrus.Fields{
		"connId": connId,
		"remote": conn.RemoteAddr().String(),
	})
	log.Infoln("client connected")

	metrics.OpenConnections.Inc()
	defer metrics.OpenConnections.Dec()

	sender := &connSender{conn: conn}
	if err := wc.app.Credentials.Validate(); err != nil {
		log.WithError(err).Errorln("refusing connection")
		if err := sender.Send(protocol.NewError(config.SpeechCredentialsMissing, err.Error())); err != nil {
			log.WithError(err).Warnln("failed to notify client")
		}
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "configuration error"), time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	ctrl := session.NewController(session.Params{
		ConnectionID: connId,
		Engine:       wc.engine,
		Validator:    wc.validator,
		Settings:     &wc.app.Speech,
		Sender:       sender,
		Observer:     wc.observer,
		Logger:       wc.logger,
	})
	if !wc.track(connId, &liveConnection{conn: conn, ctrl: ctrl}) {
		log.Warnln("refusing connection, server is shutting down")
		ctrl.Close()
		_ = conn.Close()
		return
	}
	defer wc.untrack(connId)

	lastActivity := time.Now()
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.WithError(err).Warnln("connection closed unexpectedly")
			}
			break
		}
		lastActivity = time.Now()
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		if err := ctrl.Submit(msg, mt == websocket.BinaryMessage); err != nil {
			log.WithError(err).Debugln("session no longer accepts frames")
			break
		}
	}

	ctrl.Close()
	<-ctrl.Done()
	log.WithFields(logrus.Fields{
		"lastActivity": lastActivity.Format(time.RFC3339),
		"finalState":   ctrl.State(),
	}).Infoln("client disconnected")
}

// track registers lc unless Shutdown already ran.
func (wc *WebsocketController) track(id string, lc *liveConnection) bool {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	if wc.closed {
		return false
	}
	wc.conns[id] = lc
	return true
}

func (wc *WebsocketController) untrack(id string) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	delete(wc.conns, id)
}

// ActiveConnections returns the number of connections with a live session.
func (wc *WebsocketController) ActiveConnections() int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return len(wc.conns)
}

// Shutdown tears down every live session and drops the sockets.
// Connections accepted afterwards are refused.
func (wc *WebsocketController) Shutdown() {
	wc.mu.Lock()
	wc.closed = true
	live := make([]*liveConnection, 0, len(wc.conns))
	for _, lc := range wc.conns {
		live = append(live, lc)
	}
	wc.mu.Unlock()

	for _, lc := range live {
		lc.ctrl.Close()
		<-lc.ctrl.Done()
		_ = lc.conn.Close()
	}
	if len(live) > 0 {
		wc.log.WithField("count", len(live)).Infoln("closed live connections")
	}
}
