package natsservice

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNatsService_TranscriptSubject(t *testing.T) {
	s := New(nil, "livetranslate.transcripts", testLogger())
	assert.Equal(t, "livetranslate.transcripts.abc", s.TranscriptSubject("abc"))
}

// needs a running server, e.g. NATS_TEST_URL=nats://127.0.0.1:4222
func TestNatsService_PublishTranscript(t *testing.T) {
	url := os.Getenv("NATS_TEST_URL")
	if url == "" {
		t.Skip("NATS_TEST_URL not set")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	s := New(nc, "livetranslate.test", testLogger())
	sub, err := nc.SubscribeSync(s.TranscriptSubject("conn-1"))
	require.NoError(t, err)

	require.NoError(t, s.PublishTranscript(&TranscriptEvent{
		ConnectionID: "conn-1",
		Generation:   1,
		Language:     "en-US",
		Text:         "hello",
		Timestamp:    time.Now().Unix(),
	}))

	msg, err := sub.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var ev TranscriptEvent
	require.NoError(t, json.Unmarshal(msg.Data, &ev))
	assert.Equal(t, "hello", ev.Text)
	assert.Equal(t, uint64(1), ev.Generation)
}
