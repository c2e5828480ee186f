package session

import (
	"fmt"
	"time"
)

// Observer receives records about finished sessions and final transcripts.
// Calls come from the controller loop, so implementations must hand off work
// instead of blocking.
type Observer interface {
	SessionStarted(rec *UsageRecord)
	SessionEnded(rec *UsageRecord)
	FinalTranscript(t *Transcript)
}

type UsageRecord struct {
	ConnectionID   string
	Generation     uint64
	Language       string
	TargetLanguage string
	AutoDetect     bool
	RealTimeMode   bool
	StartedAt      time.Time
	EndedAt        time.Time
	Frames         int64
	Bytes          int64
	DroppedFrames  int64
	Finals         int
}

// Key identifies one recognizer of a connection.
func (r *UsageRecord) Key() string {
	return fmt.Sprintf("%s:%d", r.ConnectionID, r.Generation)
}

func (r *UsageRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

type Transcript struct {
	ConnectionID     string
	Generation       uint64
	Language         string
	DetectedLanguage string
	Text             string
	At               time.Time
}
