package protocol

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Init(t *testing.T) {
	m, err := Decode([]byte(`{"type":"init","sourceLanguage":"en-US","targetLanguage":"ar-SA","realTimeMode":true,"autoDetection":false,"audioConfig":{"sampleRate":48000,"channels":2,"bitsPerSample":16}}`), false)
	require.NoError(t, err)

	assert.Equal(t, TypeInit, m.Type)
	assert.Equal(t, "en-US", m.RequestedLanguage())
	assert.Equal(t, "ar-SA", m.TargetLanguage)
	assert.True(t, *m.RealTimeMode)
	assert.False(t, m.WantsAutoDetection())
	require.NotNil(t, m.AudioConfig)
	assert.Equal(t, 48000, m.AudioConfig.SampleRate)

	m, err = Decode([]byte(`{"type":"init","language":"auto","sourceLanguage":"en-US"}`), false)
	require.NoError(t, err)
	assert.Equal(t, "auto", m.RequestedLanguage())
}

func TestDecode_Audio(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	m, err := Decode([]byte(`{"type":"audio","data":"` + base64.StdEncoding.EncodeToString(pcm) + `","format":"pcm"}`), false)
	require.NoError(t, err)
	assert.Equal(t, TypeAudio, m.Type)
	assert.Equal(t, pcm, m.Audio)
	assert.Empty(t, m.Data)

	_, err = Decode([]byte(`{"type":"audio","data":"@@not-base64@@"}`), false)
	assert.ErrorIs(t, err, ErrInvalidAudio)
}

func TestDecode_RawFallback(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0x7f}
	m, err := Decode(raw, false)
	require.NoError(t, err)
	assert.Equal(t, TypeAudio, m.Type)
	assert.Equal(t, raw, m.Audio)

	m, err = Decode(nil, false)
	require.NoError(t, err)
	assert.Equal(t, TypeAudio, m.Type)
	assert.Empty(t, m.Audio)
}

func TestDecode_BinaryFramesAreAlwaysAudio(t *testing.T) {
	tests := []struct {
		name  string
		frame []byte
	}{
		{name: "brace low byte", frame: []byte{0x7B, 0x00, 0x10, 0x00}},
		{name: "whitespace then brace", frame: []byte{0x20, 0x0A, 0x7B, 0x01}},
		{name: "json text", frame: []byte(`{"type":"ping"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.frame, true)
			require.NoError(t, err)
			assert.Equal(t, TypeAudio, m.Type)
			assert.Equal(t, tt.frame, m.Audio)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"type":"init",`), false)
	assert.ErrorIs(t, err, ErrMalformedFrame)

	_, err = Decode([]byte(`{"language":"en-US"}`), false)
	assert.ErrorIs(t, err, ErrMalformedFrame)
}

func TestOutbound_Marshal(t *testing.T) {
	b, err := NewPong().Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(b))

	b, err = NewFinal("hello", "").Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"final","text":"hello","isPartial":false}`, string(b))

	b, err = NewTranscription("hel", "en-US").Marshal()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, true, out["isPartial"])
	assert.Equal(t, "en-US", out["detectedLanguage"])
}
