package protocol

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrMalformedFrame = errors.New("malformed control frame")
	ErrInvalidAudio   = errors.New("invalid base64 audio payload")
)

type AudioConfig struct {
	SampleRate    int `json:"sampleRate"`
	Channels      int `json:"channels"`
	BitsPerSample int `json:"bitsPerSample"`
}

// Inbound is a decoded client frame. Audio holds the raw bytes of both binary
// frames and base64 wrapped audio messages.
type Inbound struct {
	Type           string       `json:"type"`
	Language       string       `json:"language,omitempty"`
	SourceLanguage string       `json:"sourceLanguage,omitempty"`
	TargetLanguage string       `json:"targetLanguage,omitempty"`
	RealTimeMode   *bool        `json:"realTimeMode,omitempty"`
	AutoDetection  *bool        `json:"autoDetection,omitempty"`
	AudioConfig    *AudioConfig `json:"audioConfig,omitempty"`
	Data           string       `json:"data,omitempty"`
	Format         string       `json:"format,omitempty"`

	Audio []byte `json:"-"`
}

// RequestedLanguage returns language, falling back to sourceLanguage.
func (m *Inbound) RequestedLanguage() string {
	if m.Language != "" {
		return m.Language
	}
	return m.SourceLanguage
}

func (m *Inbound) WantsAutoDetection() bool {
	return m.AutoDetection != nil && *m.AutoDetection
}

// Decode turns one websocket frame into an Inbound message.
// Binary frames are always raw audio. Text frames that do not look like a
// JSON object are treated as raw audio too.
func Decode(payload []byte, binary bool) (*Inbound, error) {
	if binary {
		return &Inbound{Type: TypeAudio, Audio: payload}, nil
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &Inbound{Type: TypeAudio, Audio: payload}, nil
	}

	m := new(Inbound)
	if err := json.Unmarshal(trimmed, m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedFrame, err.Error())
	}
	if m.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}

	if m.Type == TypeAudio {
		audio, err := base64.StdEncoding.DecodeString(m.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAudio, err.Error())
		}
		m.Audio = audio
		m.Data = ""
	}
	return m, nil
}
