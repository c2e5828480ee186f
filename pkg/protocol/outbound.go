package protocol

import "github.com/goccy/go-json"

const (
	TypeInit           = "init"
	TypeLanguageUpdate = "language_update"
	TypeAudio          = "audio"
	TypePing           = "ping"
	TypeStop           = "stop"

	TypeStatus        = "status"
	TypeTranscription = "transcription"
	TypeFinal         = "final"
	TypeError         = "error"
	TypeDone          = "done"
	TypePong          = "pong"
)

type Outbound struct {
	Type             string `json:"type"`
	Text             string `json:"text,omitempty"`
	Message          string `json:"message,omitempty"`
	Error            string `json:"error,omitempty"`
	IsPartial        *bool  `json:"isPartial,omitempty"`
	DetectedLanguage string `json:"detectedLanguage,omitempty"`
	Language         string `json:"language,omitempty"`
}

func (o *Outbound) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

func NewStatus(message, language string) *Outbound {
	return &Outbound{Type: TypeStatus, Message: message, Language: language}
}

func NewTranscription(text, detectedLanguage string) *Outbound {
	partial := true
	return &Outbound{Type: TypeTranscription, Text: text, IsPartial: &partial, DetectedLanguage: detectedLanguage}
}

func NewFinal(text, detectedLanguage string) *Outbound {
	partial := false
	return &Outbound{Type: TypeFinal, Text: text, IsPartial: &partial, DetectedLanguage: detectedLanguage}
}

// NewError carries the detail in error and a short summary in message.
func NewError(message, detail string) *Outbound {
	return &Outbound{Type: TypeError, Message: message, Error: detail}
}

func NewDone() *Outbound {
	return &Outbound{Type: TypeDone}
}

func NewPong() *Outbound {
	return &Outbound{Type: TypePong}
}
