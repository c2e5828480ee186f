package session

import (
	"strings"

	"github.com/alaaharoun/livetranslate-server/pkg/protocol"
	"github.com/alaaharoun/livetranslate-server/pkg/recognizer"
)

// relay maps an engine event to the outbound message it produces, if any.
// Canceled and session-stopped events change controller state, so they are
// handled by the controller and never relayed here.
func relay(ev recognizer.Event) *protocol.Outbound {
	switch ev.Kind {
	case recognizer.EventRecognizing:
		if strings.TrimSpace(ev.Text) == "" {
			return nil
		}
		return protocol.NewTranscription(ev.Text, ev.DetectedLanguage)
	case recognizer.EventRecognized:
		if strings.TrimSpace(ev.Text) == "" {
			return nil
		}
		return protocol.NewFinal(ev.Text, ev.DetectedLanguage)
	}
	return nil
}

func statusMessage(s *Session) *protocol.Outbound {
	lang := s.Language
	if s.AutoDetect {
		lang = "auto"
	}
	if s.Update {
		return protocol.NewStatus("Language updated to: "+lang, lang)
	}
	return protocol.NewStatus("Initialized with language: "+lang, lang)
}
