package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/alaaharoun/livetranslate-server/pkg/languages"
	"github.com/alaaharoun/livetranslate-server/pkg/metrics"
	"github.com/alaaharoun/livetranslate-server/pkg/protocol"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
	"github.com/sirupsen/logrus"
)

// Sender writes one message to the client. Only the controller loop calls it.
type Sender interface {
	Send(msg *protocol.Outbound) error
}

type Params struct {
	ConnectionID string
	Engine       recognizer.Engine
	Validator    *languages.Validator
	Settings     *config.SpeechSettings
	Sender       Sender
	Observer     Observer
	Logger       *logrus.Logger
}

// Controller runs the state machine of one connection on a single goroutine.
// Client frames arrive through Submit, engine callbacks through the mailbox.
type Controller struct {
	id        string
	engine    recognizer.Engine
	validator *languages.Validator
	settings  *config.SpeechSettings
	sender    Sender
	observer  Observer
	log       *logrus.Entry

	inbound   chan frame
	mailbox   *mailbox
	quit      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once

	stateMu sync.RWMutex
	state   State

	// owned by the loop
	gen     uint64
	session *Session
	ingest  *ingest
}

func NewController(p Params) *Controller {
	queueSize := p.Settings.InboundQueueSize
	if queueSize <= 0 {
		queueSize = config.DefaultInboundQueueSize
	}
	log := p.Logger.WithFields(logrus.Fields{
		"service": "session",
		"connId":  p.ConnectionID,
	})

	c := &Controller{
		id:        p.ConnectionID,
		engine:    p.Engine,
		validator: p.Validator,
		settings:  p.Settings,
		sender:    p.Sender,
		observer:  p.Observer,
		log:       log,
		inbound:   make(chan frame, queueSize),
		mailbox:   newMailbox(),
		quit:      make(chan struct{}),
		finished:  make(chan struct{}),
		state:     StateUninitialized,
		ingest:    &ingest{log: log},
	}
	go c.run()
	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	prev := c.state
	c.state = s
	c.stateMu.Unlock()

	if prev != s {
		c.log.WithFields(logrus.Fields{"from": prev, "to": s}).Debugln("state changed")
	}
}

// frame is one websocket message as read from the connection.
type frame struct {
	payload []byte
	binary  bool
}

// Submit queues one raw websocket frame, binary set for binary frames.
// It blocks while the queue is full and returns ErrControllerClosed once
// the controller is shut down.
func (c *Controller) Submit(payload []byte, binary bool) error {
	select {
	case <-c.quit:
		return ErrControllerClosed
	default:
	}

	select {
	case c.inbound <- frame{payload: payload, binary: binary}:
		return nil
	case <-c.quit:
		return ErrControllerClosed
	}
}

// Close tears the session down and waits for the loop to exit.
// It is safe to call more than once and from any goroutine.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	<-c.finished
}

// Done is closed after the loop has released every resource.
func (c *Controller) Done() <-chan struct{} {
	return c.finished
}

func (c *Controller) run() {
	defer close(c.finished)

	for {
		select {
		case <-c.quit:
			c.shutdown()
			return
		case f := <-c.inbound:
			// callbacks that already happened are handled before the next frame
			c.drainMailbox()
			c.handleFrame(f)
		case <-c.mailbox.notify:
			c.drainMailbox()
		}
	}
}

func (c *Controller) drainMailbox() {
	for _, ev := range c.mailbox.drain() {
		c.handleEngineEvent(ev)
	}
}

func (c *Controller) handleFrame(f frame) {
	msg, err := protocol.Decode(f.payload, f.binary)
	if err != nil {
		c.log.WithError(fmt.Errorf("%w: %w", ErrTransport, err)).Warnln("dropping inbound frame")
		metrics.DroppedFrames.WithLabelValues(metrics.DropInvalid).Inc()
		return
	}

	switch msg.Type {
	case protocol.TypeInit:
		c.restart(msg, false)
	case protocol.TypeLanguageUpdate:
		c.restart(msg, true)
	case protocol.TypeAudio:
		c.handleAudio(msg.Audio)
	case protocol.TypePing:
		c.send(protocol.NewPong())
	case protocol.TypeStop:
		c.stop()
	default:
		c.log.WithError(ErrUnsupportedMessage).WithField("type", msg.Type).Warnln("ignoring message")
	}
}

// restart replaces the current handle with a new one for the requested
// language. init and language_update both end up here.
func (c *Controller) restart(msg *protocol.Inbound, update bool) {
	next := &Session{
		Update:    update,
		CreatedAt: time.Now(),
	}

	requested := msg.RequestedLanguage()
	if update {
		requested = msg.SourceLanguage
		if prev := c.session; prev != nil {
			next.TargetLanguage = prev.TargetLanguage
			next.RealTimeMode = prev.RealTimeMode
		}
		next.AutoDetect = config.IsAutoDetectRequest(requested)
	} else {
		next.TargetLanguage = msg.TargetLanguage
		next.RealTimeMode = msg.RealTimeMode != nil && *msg.RealTimeMode
		next.AutoDetect = config.IsAutoDetectRequest(requested) || msg.WantsAutoDetection()
	}
	if !next.AutoDetect {
		next.Language = c.validator.Validate(requested)
	}

	if c.session != nil && c.session.handle != nil {
		c.setState(StateReinitializing)
		c.release("superseded by a new "+msg.Type, true)
	} else {
		c.setState(StateInitializing)
	}
	c.checkAudioConfig(msg.AudioConfig)

	c.gen++
	gen := c.gen
	next.Generation = gen
	c.session = next

	log := c.log.WithFields(logrus.Fields{
		"gen":        gen,
		"language":   next.Language,
		"autoDetect": next.AutoDetect,
	})

	h, err := c.engine.NewHandle(c.options(next), func(ev recognizer.Event) {
		c.mailbox.push(engineEvent{gen: gen, signal: signalEvent, event: ev})
	})
	if err != nil {
		log.WithError(fmt.Errorf("%w: %w", ErrEngineStart, err)).Errorln("failed to create recognizer")
		c.send(protocol.NewError(config.RecognitionCreateFailed, err.Error()))
		c.setState(StateClosing)
		return
	}
	next.handle = h
	c.ingest.reset()

	log.Infoln("starting recognizer")
	h.Start(func() {
		c.mailbox.push(engineEvent{gen: gen, signal: signalStarted})
	}, func(err error) {
		c.mailbox.push(engineEvent{gen: gen, signal: signalStartFailed, err: err})
	})
}

func (c *Controller) options(s *Session) recognizer.Options {
	opts := recognizer.Options{
		Language:                s.Language,
		AutoDetect:              s.AutoDetect,
		InitialSilenceTimeoutMs: c.settings.InitialSilenceTimeoutMs,
		EndSilenceTimeoutMs:     c.settings.EndSilenceTimeoutMs,
		DetailedResult:          c.settings.DetailedResult == nil || *c.settings.DetailedResult,
	}
	if s.AutoDetect {
		opts.AutoDetectCandidates = c.validator.AutoDetectCandidates()
	}
	return opts
}

func (c *Controller) checkAudioConfig(ac *protocol.AudioConfig) {
	if ac == nil {
		return
	}
	mismatch := (ac.SampleRate != 0 && ac.SampleRate != config.AudioSampleRate) ||
		(ac.Channels != 0 && ac.Channels != config.AudioChannels) ||
		(ac.BitsPerSample != 0 && ac.BitsPerSample != config.AudioBitsPerSample)
	if mismatch {
		c.log.WithFields(logrus.Fields{
			"sampleRate":    ac.SampleRate,
			"channels":      ac.Channels,
			"bitsPerSample": ac.BitsPerSample,
		}).Warnln("client audio config differs from the 16kHz 16bit mono format the recognizer expects")
	}
}

func (c *Controller) handleAudio(frame []byte) {
	if len(frame) == 0 {
		c.log.Debugln("dropping zero-length audio frame")
		c.ingest.drop(metrics.DropEmpty)
		return
	}
	if state := c.State(); state != StateActive || c.session == nil || c.session.handle == nil {
		if state.starting() {
			c.log.WithField("state", state).Warnln("dropping audio frame, recognizer not started yet")
		} else {
			c.log.WithField("state", state).Warnln("dropping audio frame, no active session")
		}
		c.ingest.drop(metrics.DropNotActive)
		return
	}
	c.ingest.feed(c.session.handle, frame)
}

func (c *Controller) stop() {
	s := c.session
	if s == nil || s.handle == nil {
		c.log.Debugln("stop received without a recognizer")
		return
	}
	c.setState(StateClosing)
	c.release("stopped by client", true)
	if !s.doneSent {
		s.doneSent = true
		c.send(protocol.NewDone())
	}
}

// current reports whether ev belongs to the handle the session still owns.
func (c *Controller) current(gen uint64) bool {
	return c.session != nil && c.session.Generation == gen && c.session.handle != nil
}

func (c *Controller) handleEngineEvent(ev engineEvent) {
	if !c.current(ev.gen) {
		c.log.WithFields(logrus.Fields{"gen": ev.gen, "current": c.gen}).Debugln("ignoring callback from a released recognizer")
		return
	}
	s := c.session

	switch ev.signal {
	case signalStarted:
		s.ActiveAt = time.Now()
		s.answered()
		c.setState(StateActive)
		metrics.ActiveRecognizers.Inc()
		c.send(statusMessage(s))
		if c.observer != nil {
			c.observer.SessionStarted(c.usageRecord(s, IngestStats{}))
		}

	case signalStartFailed:
		c.log.WithError(fmt.Errorf("%w: %w", ErrEngineStart, ev.err)).Errorln("recognizer failed to start")
		s.answered()
		c.send(protocol.NewError(config.RecognitionStartFailed, ev.err.Error()))
		c.release("start failed", false)
		c.setState(StateClosing)

	case signalEvent:
		c.handleRecognizerEvent(s, ev.event)
	}
}

func (c *Controller) handleRecognizerEvent(s *Session, ev recognizer.Event) {
	switch ev.Kind {
	case recognizer.EventRecognizing, recognizer.EventRecognized:
		msg := relay(ev)
		if msg == nil {
			return
		}
		if ev.Kind == recognizer.EventRecognized {
			s.finalCount++
			c.reportTranscript(s, ev)
		}
		c.send(msg)

	case recognizer.EventCanceled:
		if ev.CancelReason != recognizer.CancelError {
			c.log.WithField("details", ev.ErrorDetails).Infoln("recognition canceled without fault")
			return
		}
		c.log.WithError(fmt.Errorf("%w: %s", ErrEngineRuntime, ev.ErrorDetails)).Errorln("recognition canceled")
		c.setState(StateError)
		s.answered()
		c.send(protocol.NewError(config.RecognitionRuntimeError, ev.ErrorDetails))
		c.release("engine canceled", false)
		c.setState(StateClosing)

	case recognizer.EventSessionStopped:
		c.log.Infoln("recognition session stopped")
		if !s.doneSent {
			s.doneSent = true
			c.send(protocol.NewDone())
		}
		c.release("session stopped", true)
		c.setState(StateClosing)
	}
}

// release stops and closes the session handle. Teardown failures are logged
// and swallowed. When notify is set and the handle never answered its
// init, the client gets an error so no request is left without a reply.
func (c *Controller) release(reason string, notify bool) {
	s := c.session
	if s == nil || s.handle == nil {
		return
	}
	h := s.handle
	s.handle = nil

	log := c.log.WithFields(logrus.Fields{"gen": s.Generation, "reason": reason})
	if notify && !s.isAnswered {
		s.answered()
		c.send(protocol.NewError("Initialization canceled", reason))
	}

	safeTeardown(log, "stop", h.Stop)
	safeTeardown(log, "close", h.Close)
	log.Debugln("recognizer released")

	stats := c.ingest.reset()
	if s.wasActive() {
		metrics.ActiveRecognizers.Dec()
		c.reportUsage(s, stats)
	}
}

func safeTeardown(log *logrus.Entry, op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("op", op).Errorf("panic during recognizer teardown: %v", r)
		}
	}()
	if err := fn(); err != nil {
		log.WithError(err).WithField("op", op).Warnln("recognizer teardown failed")
	}
}

func (c *Controller) shutdown() {
	c.setState(StateClosing)
	c.release("connection closed", false)
	c.session = nil
	c.setState(StateClosed)
	c.log.Infoln("session closed")
}

func (c *Controller) send(msg *protocol.Outbound) {
	metrics.OutboundMessages.WithLabelValues(msg.Type).Inc()
	if err := c.sender.Send(msg); err != nil {
		c.log.WithError(err).WithField("type", msg.Type).Debugln("failed to send message")
	}
}

func (c *Controller) reportUsage(s *Session, stats IngestStats) {
	if c.observer == nil {
		return
	}
	rec := c.usageRecord(s, stats)
	rec.EndedAt = time.Now()
	c.observer.SessionEnded(rec)
}

func (c *Controller) usageRecord(s *Session, stats IngestStats) *UsageRecord {
	return &UsageRecord{
		ConnectionID:   c.id,
		Generation:     s.Generation,
		Language:       s.Language,
		TargetLanguage: s.TargetLanguage,
		AutoDetect:     s.AutoDetect,
		RealTimeMode:   s.RealTimeMode,
		StartedAt:      s.ActiveAt,
		Frames:         stats.Frames,
		Bytes:          stats.Bytes,
		DroppedFrames:  stats.Dropped,
		Finals:         s.finalCount,
	}
}

func (c *Controller) reportTranscript(s *Session, ev recognizer.Event) {
	if c.observer == nil {
		return
	}
	c.observer.FinalTranscript(&Transcript{
		ConnectionID:     c.id,
		Generation:       s.Generation,
		Language:         s.Language,
		DetectedLanguage: ev.DetectedLanguage,
		Text:             ev.Text,
		At:               time.Now(),
	})
}
