package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "recognizing", EventRecognizing.String())
	assert.Equal(t, "recognized", EventRecognized.String())
	assert.Equal(t, "canceled", EventCanceled.String())
	assert.Equal(t, "session_stopped", EventSessionStopped.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}
