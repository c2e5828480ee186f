package config

const (
	EnvSpeechKey    = "AZURE_SPEECH_KEY"
	EnvSpeechRegion = "AZURE_SPEECH_REGION"

	DefaultPort             = 10000
	DefaultWebsocketPath    = "/ws"
	DefaultReportingWorkers = 4
	DefaultTranscriptTopic  = "livetranslate.transcripts"
	DefaultInboundQueueSize = 64

	DefaultLanguage                = "ar-SA"
	DefaultInitialSilenceTimeoutMs = 15000
	DefaultEndSilenceTimeoutMs     = 10000

	// the engine input is bound to this PCM format
	AudioSampleRate    = 16000
	AudioBitsPerSample = 16
	AudioChannels      = 1

	// continuous language identification accepts at most this many candidates
	MaxAutoDetectLanguages = 10
)

var DefaultSupportedLanguages = []string{
	"ar-SA", "en-US", "es-ES", "fr-FR", "de-DE", "it-IT", "pt-BR", "ru-RU",
	"ja-JP", "ko-KR", "zh-CN", "tr-TR", "nl-NL", "pl-PL", "sv-SE", "da-DK",
	"no-NO", "fi-FI", "cs-CZ", "sk-SK", "hu-HU", "ro-RO", "bg-BG", "hr-HR",
	"sl-SI", "et-EE", "lv-LV", "lt-LT", "el-GR", "he-IL", "th-TH", "vi-VN",
	"id-ID", "ms-MY", "fil-PH", "hi-IN", "bn-IN", "ur-PK", "fa-IR", "uk-UA",
}

var DefaultAutoDetectLanguages = []string{
	"ar-SA", "ar-EG", "en-US", "en-GB", "fr-FR", "es-ES", "de-DE", "tr-TR", "ru-RU", "zh-CN",
}
