package session

import (
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
)

type State string

const (
	StateUninitialized  State = "uninitialized"
	StateInitializing   State = "initializing"
	StateActive         State = "active"
	StateReinitializing State = "reinitializing"
	StateError          State = "error"
	StateClosing        State = "closing"
	StateClosed         State = "closed"
)

// starting reports whether a handle exists whose start is not yet confirmed.
func (s State) starting() bool {
	return s == StateInitializing || s == StateReinitializing
}

// Session is the recognition context bound to one handle generation.
type Session struct {
	Generation     uint64
	Language       string
	TargetLanguage string
	RealTimeMode   bool
	AutoDetect     bool
	Update         bool

	CreatedAt time.Time
	ActiveAt  time.Time

	handle     recognizer.Handle
	isAnswered bool
	doneSent   bool
	finalCount int
}

// answered marks that the request which created the session got its status or error.
func (s *Session) answered() {
	s.isAnswered = true
}

func (s *Session) wasActive() bool {
	return !s.ActiveAt.IsZero()
}
