package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleYaml = `
client:
  port: 8080
  websocket_path: stream
  prometheus:
    enable: true
speech:
  default_language: en-US
  auto_detect_languages: [ar-SA, ar-EG, en-US, en-GB, fr-FR, es-ES, de-DE, tr-TR, ru-RU, zh-CN, ja-JP, ko-KR]
`

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvSpeechKey, "")
	t.Setenv(EnvSpeechRegion, "")

	cnf, err := New(&AppConfig{})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cnf.Client.Port)
	assert.Equal(t, DefaultWebsocketPath, cnf.Client.WebsocketPath)
	assert.Equal(t, DefaultLanguage, cnf.Speech.DefaultLanguage)
	assert.Len(t, cnf.Speech.SupportedLanguages, 40)
	assert.Equal(t, DefaultInitialSilenceTimeoutMs, cnf.Speech.InitialSilenceTimeoutMs)
	assert.Equal(t, DefaultEndSilenceTimeoutMs, cnf.Speech.EndSilenceTimeoutMs)
	assert.True(t, *cnf.Speech.DetailedResult)
	assert.Equal(t, DefaultInboundQueueSize, cnf.Speech.InboundQueueSize)
	assert.Equal(t, DefaultReportingWorkers, cnf.Reporting.MaxWorkers)
	assert.False(t, cnf.Credentials.IsConfigured())
	assert.False(t, cnf.RedisInfo.Enabled())
	assert.False(t, cnf.NatsInfo.Enabled())
	assert.False(t, cnf.DatabaseInfo.Enabled())
}

func TestNew_FromYaml(t *testing.T) {
	t.Setenv(EnvSpeechKey, " key ")
	t.Setenv(EnvSpeechRegion, "westeurope")

	var appCnf AppConfig
	require.NoError(t, yaml.Unmarshal([]byte(sampleYaml), &appCnf))

	cnf, err := New(&appCnf)
	require.NoError(t, err)

	assert.Equal(t, 8080, cnf.Client.Port)
	assert.Equal(t, "/stream", cnf.Client.WebsocketPath)
	assert.Equal(t, "/metrics", cnf.Client.PrometheusConf.MetricsPath)
	assert.Equal(t, "en-US", cnf.Speech.DefaultLanguage)
	assert.Len(t, cnf.Speech.AutoDetectLanguages, MaxAutoDetectLanguages)
	assert.Equal(t, "key", cnf.Credentials.APIKey)
	assert.True(t, cnf.Credentials.IsConfigured())
}

func TestNew_UnsupportedDefaultLanguage(t *testing.T) {
	_, err := New(&AppConfig{
		Speech: SpeechSettings{
			DefaultLanguage:    "xx-XX",
			SupportedLanguages: []string{"en-US"},
		},
	})
	assert.Error(t, err)
}

func TestCredentialsConfig_Validate(t *testing.T) {
	err := CredentialsConfig{Region: "eastus"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSpeechKey)
	assert.NotContains(t, err.Error(), EnvSpeechRegion)

	assert.NoError(t, CredentialsConfig{APIKey: "k", Region: "eastus"}.Validate())
}

func TestIsAutoDetectRequest(t *testing.T) {
	assert.True(t, IsAutoDetectRequest("auto"))
	assert.True(t, IsAutoDetectRequest(" AUTO "))
	assert.False(t, IsAutoDetectRequest("en-US"))
	assert.False(t, IsAutoDetectRequest(""))
}

func TestFormatDBTable(t *testing.T) {
	dbTablePrefix = "lt_"
	defer func() { dbTablePrefix = "" }()
	assert.Equal(t, "lt_transcription_sessions", FormatDBTable("transcription_sessions"))
}
