package natsservice

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type NatsService struct {
	nc          *nats.Conn
	topicPrefix string
	logger      *logrus.Entry
}

func New(nc *nats.Conn, topicPrefix string, logger *logrus.Logger) *NatsService {
	return &NatsService{
		nc:          nc,
		topicPrefix: topicPrefix,
		logger:      logger.WithField("service", "nats"),
	}
}

// TranscriptSubject returns the subject finals of connId are published on.
func (s *NatsService) TranscriptSubject(connId string) string {
	return fmt.Sprintf("%s.%s", s.topicPrefix, connId)
}

type TranscriptEvent struct {
	ConnectionID     string `json:"connection_id"`
	Generation       uint64 `json:"generation"`
	Language         string `json:"language,omitempty"`
	DetectedLanguage string `json:"detected_language,omitempty"`
	Text             string `json:"text"`
	Timestamp        int64  `json:"timestamp"`
}

func (s *NatsService) PublishTranscript(ev *TranscriptEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.nc.Publish(s.TranscriptSubject(ev.ConnectionID), data)
}
