package factory

import (
	"testing"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name     string
		info     config.RedisInfo
		mode     string
		addrs    []string
		withTLS  bool
		failover bool
	}{
		{
			name:  "standalone",
			info:  config.RedisInfo{Host: "127.0.0.1:6379", DBName: 2},
			mode:  redisSingleMode,
			addrs: []string{"127.0.0.1:6379"},
		},
		{
			name: "sentinel with tls",
			info: config.RedisInfo{
				MasterName:        "lt-master",
				SentinelAddresses: []string{"10.0.0.1:26379", "10.0.0.2:26379"},
				UseTLS:            true,
			},
			mode:     redisSentinelMode,
			addrs:    []string{"10.0.0.1:26379", "10.0.0.2:26379"},
			withTLS:  true,
			failover: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := redisOptions(tt.info)
			assert.Equal(t, redisClientName, opts.ClientName)
			assert.Equal(t, tt.addrs, opts.Addrs)
			assert.Equal(t, tt.info.DBName, opts.DB)
			assert.Equal(t, redisDialTimeout, opts.DialTimeout)
			assert.Equal(t, tt.mode, redisMode(tt.info))
			if tt.withTLS {
				require.NotNil(t, opts.TLSConfig)
			} else {
				assert.Nil(t, opts.TLSConfig)
			}
			if tt.failover {
				fo := opts.Failover()
				assert.Equal(t, "lt-master", fo.MasterName)
				assert.Equal(t, tt.addrs, fo.SentinelAddrs)
			} else {
				assert.Equal(t, "127.0.0.1:6379", opts.Simple().Addr)
			}
		})
	}
}

func TestRedisServerVersion(t *testing.T) {
	info := "# Server\r\nredis_version:7.2.4\r\nredis_mode:standalone\r\n"
	assert.Equal(t, "7.2.4", redisServerVersion(info))
	assert.Empty(t, redisServerVersion("# Server\r\n"))
}
