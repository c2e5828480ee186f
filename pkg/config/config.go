package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var dbTablePrefix string

type AppConfig struct {
	RDS      *redis.Client
	DB       *gorm.DB
	Logger   *logrus.Logger
	NatsConn *nats.Conn

	RootWorkingDir string
	Credentials    CredentialsConfig `yaml:"-"`
	Client         ClientInfo        `yaml:"client"`
	LogSettings    LogSettings       `yaml:"log_settings"`
	Speech         SpeechSettings    `yaml:"speech"`
	Reporting      ReportingSettings `yaml:"reporting"`
	RedisInfo      RedisInfo         `yaml:"redis_info"`
	NatsInfo       NatsInfo          `yaml:"nats_info"`
	DatabaseInfo   DatabaseInfo      `yaml:"database_info"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	WebsocketPath  string         `yaml:"websocket_path"`
	ProxyHeader    string         `yaml:"proxy_header"`
	EnvFile        string         `yaml:"env_file"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogLevel   *string `yaml:"log_level"`
	LogFile    string  `yaml:"log_file"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type ReportingSettings struct {
	MaxWorkers      int    `yaml:"max_workers"`
	TranscriptTopic string `yaml:"transcript_topic"`
}

type RedisInfo struct {
	Host              string   `yaml:"host"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DBName            int      `yaml:"db"`
	UseTLS            bool     `yaml:"use_tls"`
	MasterName        string   `yaml:"sentinel_master_name"`
	SentinelUsername  string   `yaml:"sentinel_username"`
	SentinelPassword  string   `yaml:"sentinel_password"`
	SentinelAddresses []string `yaml:"sentinel_addresses"`
}

// Enabled reports whether a redis backend was configured at all.
func (r RedisInfo) Enabled() bool {
	return r.Host != "" || len(r.SentinelAddresses) > 0
}

type NatsInfo struct {
	NatsUrls []string `yaml:"nats_urls"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
}

func (n NatsInfo) Enabled() bool {
	return len(n.NatsUrls) > 0
}

type DatabaseInfo struct {
	Host            string         `yaml:"host"`
	Port            int32          `yaml:"port"`
	Username        string         `yaml:"username"`
	Password        string         `yaml:"password"`
	DBName          string         `yaml:"db"`
	Prefix          string         `yaml:"prefix"`
	Charset         *string        `yaml:"charset"`
	Loc             *string        `yaml:"loc"`
	ConnMaxLifetime *time.Duration `yaml:"conn_max_lifetime"`
	MaxOpenConns    *int           `yaml:"max_open_conns"`
}

func (d DatabaseInfo) Enabled() bool {
	return d.Host != "" && d.DBName != ""
}

func New(appCnf *AppConfig) (*AppConfig, error) {
	if appCnf.Client.Port == 0 {
		appCnf.Client.Port = DefaultPort
	}
	if appCnf.Client.WebsocketPath == "" {
		appCnf.Client.WebsocketPath = DefaultWebsocketPath
	}
	if !strings.HasPrefix(appCnf.Client.WebsocketPath, "/") {
		appCnf.Client.WebsocketPath = "/" + appCnf.Client.WebsocketPath
	}
	if appCnf.Client.PrometheusConf.Enable && appCnf.Client.PrometheusConf.MetricsPath == "" {
		appCnf.Client.PrometheusConf.MetricsPath = "/metrics"
	}

	if appCnf.Reporting.MaxWorkers <= 0 {
		appCnf.Reporting.MaxWorkers = DefaultReportingWorkers
	}
	if appCnf.Reporting.TranscriptTopic == "" {
		appCnf.Reporting.TranscriptTopic = DefaultTranscriptTopic
	}

	err := appCnf.Speech.setDefaults()
	if err != nil {
		return nil, err
	}

	if appCnf.DatabaseInfo.Prefix != "" {
		dbTablePrefix = appCnf.DatabaseInfo.Prefix
	}

	appCnf.Credentials = LoadCredentialsFromEnv()
	return appCnf, nil
}

// LoadCredentialsFromEnv reads the engine credentials from the process environment.
// They are read once at startup and never mutated afterwards.
func LoadCredentialsFromEnv() CredentialsConfig {
	return CredentialsConfig{
		APIKey: strings.TrimSpace(os.Getenv(EnvSpeechKey)),
		Region: strings.TrimSpace(os.Getenv(EnvSpeechRegion)),
	}
}

// CredentialsConfig holds the subscription key and region of the speech service.
type CredentialsConfig struct {
	APIKey string
	Region string
}

func (c CredentialsConfig) IsConfigured() bool {
	return c.APIKey != "" && c.Region != ""
}

// Validate returns a descriptive error naming the missing variables.
func (c CredentialsConfig) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, EnvSpeechKey)
	}
	if c.Region == "" {
		missing = append(missing, EnvSpeechRegion)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %s", SpeechCredentialsMissing, strings.Join(missing, ", "))
	}
	return nil
}

func FormatDBTable(table string) string {
	if dbTablePrefix != "" {
		return dbTablePrefix + table
	}
	return table
}
