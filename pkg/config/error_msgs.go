package config

const (
	SpeechCredentialsMissing = "Azure Speech credentials missing!"
	RecognitionStartFailed   = "Failed to start recognition"
	RecognitionRuntimeError  = "Speech recognition error"
	RecognitionCreateFailed  = "Failed to create recognizer"
	InvalidAudioPayload      = "invalid audio payload"
)
