// Package fake provides a scriptable recognizer.Engine for tests.
package fake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
)

type StartMode int

const (
	// StartSucceeds confirms the start as soon as Start is called.
	StartSucceeds StartMode = iota
	// StartPending leaves the start unconfirmed until Confirm or Fail is called.
	StartPending
	// StartFails reports StartErr as soon as Start is called.
	StartFails
)

var ErrStartFailed = errors.New("fake start failure")

type Engine struct {
	mu       sync.Mutex
	mode     StartMode
	newErr   error
	startErr error
	stopErr  error

	handles   []*Handle
	journal   []string
	active    int
	maxActive int
}

func NewEngine(mode StartMode) *Engine {
	return &Engine{mode: mode, startErr: ErrStartFailed}
}

func (e *Engine) SetStartMode(mode StartMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
}

// FailNewHandle makes every following NewHandle call return err.
func (e *Engine) FailNewHandle(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newErr = err
}

// FailStop makes Stop of every following handle return err.
func (e *Engine) FailStop(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopErr = err
}

func (e *Engine) NewHandle(opts recognizer.Options, dispatch recognizer.Dispatch) (recognizer.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.newErr != nil {
		return nil, e.newErr
	}
	h := &Handle{
		engine:   e,
		id:       len(e.handles) + 1,
		opts:     opts,
		dispatch: dispatch,
		stopErr:  e.stopErr,
	}
	e.handles = append(e.handles, h)
	e.record("new", h.id)
	return h, nil
}

func (e *Engine) Handles() []*Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Handle, len(e.handles))
	copy(out, e.handles)
	return out
}

// Handle returns the n-th created handle, counting from one, or nil.
func (e *Engine) Handle(n int) *Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 1 || n > len(e.handles) {
		return nil
	}
	return e.handles[n-1]
}

// Journal lists "op:id" entries in call order.
func (e *Engine) Journal() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.journal))
	copy(out, e.journal)
	return out
}

// MaxActive is the highest number of started, unclosed handles seen at once.
func (e *Engine) MaxActive() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxActive
}

func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

func (e *Engine) record(op string, id int) {
	e.journal = append(e.journal, fmt.Sprintf("%s:%d", op, id))
}

type Handle struct {
	engine   *Engine
	id       int
	opts     recognizer.Options
	dispatch recognizer.Dispatch
	stopErr  error

	mu        sync.Mutex
	onStarted func()
	onFailed  func(error)
	started   bool
	live      bool
	stops     int
	closes    int
	fed       [][]byte
}

func (h *Handle) ID() int {
	return h.id
}

func (h *Handle) Options() recognizer.Options {
	return h.opts
}

func (h *Handle) Start(onStarted func(), onFailed func(error)) {
	e := h.engine
	e.mu.Lock()
	e.record("start", h.id)
	mode, startErr := e.mode, e.startErr
	e.mu.Unlock()

	h.mu.Lock()
	h.onStarted, h.onFailed = onStarted, onFailed
	h.mu.Unlock()

	switch mode {
	case StartSucceeds:
		h.Confirm()
	case StartFails:
		h.Fail(startErr)
	}
}

// Confirm completes a pending start successfully.
func (h *Handle) Confirm() {
	h.mu.Lock()
	cb := h.onStarted
	closed := h.closes > 0
	h.started = true
	if !closed && !h.live {
		h.live = true
		h.engine.markActive(1)
	}
	h.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Fail completes a pending start with err.
func (h *Handle) Fail(err error) {
	h.mu.Lock()
	cb := h.onFailed
	h.mu.Unlock()

	if cb != nil {
		cb(err)
	}
}

// Emit delivers ev through the dispatch function as the engine would.
func (h *Handle) Emit(ev recognizer.Event) {
	h.dispatch(ev)
}

func (h *Handle) Partial(text string) {
	h.Emit(recognizer.Event{Kind: recognizer.EventRecognizing, Text: text})
}

func (h *Handle) Final(text string) {
	h.Emit(recognizer.Event{Kind: recognizer.EventRecognized, Text: text})
}

func (h *Handle) Cancel(details string) {
	h.Emit(recognizer.Event{Kind: recognizer.EventCanceled, CancelReason: recognizer.CancelError, ErrorDetails: details})
}

func (h *Handle) SessionStopped() {
	h.Emit(recognizer.Event{Kind: recognizer.EventSessionStopped})
}

func (h *Handle) Feed(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closes > 0 {
		return recognizer.ErrHandleClosed
	}
	frame := make([]byte, len(p))
	copy(frame, p)
	h.fed = append(h.fed, frame)
	return nil
}

func (h *Handle) Stop() error {
	h.engine.mu.Lock()
	h.engine.record("stop", h.id)
	h.engine.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stops++
	return h.stopErr
}

func (h *Handle) Close() error {
	h.mu.Lock()
	h.closes++
	first := h.closes == 1
	wasLive := h.live
	h.live = false
	h.mu.Unlock()

	if first {
		h.engine.mu.Lock()
		h.engine.record("close", h.id)
		h.engine.mu.Unlock()
	}
	if wasLive {
		h.engine.markActive(-1)
	}
	return nil
}

func (h *Handle) Fed() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([][]byte, len(h.fed))
	copy(out, h.fed)
	return out
}

func (h *Handle) Stops() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stops
}

func (h *Handle) Closes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes
}

func (h *Handle) Closed() bool {
	return h.Closes() > 0
}

func (e *Engine) markActive(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active += delta
	if e.active > e.maxActive {
		e.maxActive = e.active
	}
}
