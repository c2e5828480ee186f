package recognizer

import "errors"

var ErrHandleClosed = errors.New("recognizer handle is closed")

// EventKind enumerates the engine callbacks a Handle forwards.
type EventKind int

const (
	EventRecognizing EventKind = iota + 1
	EventRecognized
	EventCanceled
	EventSessionStopped
)

func (k EventKind) String() string {
	switch k {
	case EventRecognizing:
		return "recognizing"
	case EventRecognized:
		return "recognized"
	case EventCanceled:
		return "canceled"
	case EventSessionStopped:
		return "session_stopped"
	}
	return "unknown"
}

type CancelReason int

const (
	CancelError CancelReason = iota + 1
	CancelEndOfStream
	CancelByUser
)

// Event is an engine callback normalized away from the SDK types.
type Event struct {
	Kind             EventKind
	Text             string
	DetectedLanguage string
	CancelReason     CancelReason
	ErrorDetails     string
}

// Dispatch receives every Event of one Handle. Implementations call it from
// engine owned goroutines, so it must not block.
type Dispatch func(Event)

type Options struct {
	Language                string
	AutoDetect              bool
	AutoDetectCandidates    []string
	InitialSilenceTimeoutMs int
	EndSilenceTimeoutMs     int
	DetailedResult          bool
}

// Engine builds one Handle per recognition session.
type Engine interface {
	NewHandle(opts Options, dispatch Dispatch) (Handle, error)
}

// Handle is an input stream and recognizer pair.
// Start is asynchronous: exactly one of onStarted or onFailed is invoked later.
// Close must be idempotent and safe after Stop.
type Handle interface {
	Start(onStarted func(), onFailed func(error))
	Feed(p []byte) error
	Stop() error
	Close() error
}
