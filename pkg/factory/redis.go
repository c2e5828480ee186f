package factory

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	redisClientName   = "livetranslate-server"
	redisDialTimeout  = 5 * time.Second
	redisIOTimeout    = 3 * time.Second
	redisPoolSize     = 10
	redisSentinelMode = "sentinel"
	redisSingleMode   = "standalone"
)

// redisOptions maps the redis_info block onto client options. Usage
// counters are small and written off the session path, so the pool stays
// small and timeouts are short.
func redisOptions(rf config.RedisInfo) *redis.UniversalOptions {
	opts := &redis.UniversalOptions{
		ClientName:       redisClientName,
		Username:         rf.Username,
		Password:         rf.Password,
		DB:               rf.DBName,
		MasterName:       rf.MasterName,
		SentinelUsername: rf.SentinelUsername,
		SentinelPassword: rf.SentinelPassword,
		DialTimeout:      redisDialTimeout,
		ReadTimeout:      redisIOTimeout,
		WriteTimeout:     redisIOTimeout,
		PoolSize:         redisPoolSize,
	}
	if len(rf.SentinelAddresses) > 0 {
		opts.Addrs = rf.SentinelAddresses
	} else {
		opts.Addrs = []string{rf.Host}
	}
	if rf.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}
	return opts
}

func redisMode(rf config.RedisInfo) string {
	if len(rf.SentinelAddresses) > 0 {
		return redisSentinelMode
	}
	return redisSingleMode
}

// redisServerVersion pulls redis_version out of an INFO server reply.
func redisServerVersion(info string) string {
	for _, line := range strings.Split(info, "\r\n") {
		if version, ok := strings.CutPrefix(line, "redis_version:"); ok {
			return version
		}
	}
	return ""
}

// NewRedisConnection opens the usage counter store and sets appCnf.RDS.
func NewRedisConnection(ctx context.Context, appCnf *config.AppConfig) error {
	rf := appCnf.RedisInfo
	opts := redisOptions(rf)
	mode := redisMode(rf)

	var rdb *redis.Client
	if mode == redisSentinelMode {
		rdb = redis.NewFailoverClient(opts.Failover())
	} else {
		rdb = redis.NewClient(opts.Simple())
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}

	fields := logrus.Fields{
		"mode": mode,
		"db":   rf.DBName,
		"tls":  rf.UseTLS,
	}
	if info, err := rdb.Info(ctx, "server").Result(); err == nil {
		if version := redisServerVersion(info); version != "" {
			fields["version"] = version
		}
	}
	appCnf.Logger.WithFields(fields).Infoln("usage counters connected to redis")

	appCnf.RDS = rdb
	return nil
}
