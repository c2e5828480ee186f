package redisservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TranscriptionUsageKey = Prefix + "transcription_usage:%s"
	ActiveSessionsKey     = Prefix + "transcription_active_sessions"

	TotalUsageField    = "total_usage"
	TotalSessionsField = "total_sessions"

	usageKeyTTL = 7 * 24 * time.Hour
)

func usageKey(day time.Time) string {
	return fmt.Sprintf(TranscriptionUsageKey, day.UTC().Format("2006-01-02"))
}

// HandleActiveSession keeps the start time of every running recognizer.
func (s *RedisService) HandleActiveSession(ctx context.Context, sessionKey string, isStarted bool) error {
	if isStarted {
		return s.rc.HSet(ctx, ActiveSessionsKey, sessionKey, time.Now().Unix()).Err()
	}
	err := s.rc.HDel(ctx, ActiveSessionsKey, sessionKey).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// AddTranscriptionUsage accumulates the seconds of one finished session into
// the daily usage hash, per language and in total.
func (s *RedisService) AddTranscriptionUsage(ctx context.Context, language string, endedAt time.Time, seconds int64) error {
	if seconds < 0 {
		seconds = 0
	}
	key := usageKey(endedAt)

	pipe := s.rc.TxPipeline()
	pipe.HIncrBy(ctx, key, language, seconds)
	pipe.HIncrBy(ctx, key, TotalUsageField, seconds)
	pipe.HIncrBy(ctx, key, TotalSessionsField, 1)
	pipe.Expire(ctx, key, usageKeyTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetTranscriptionUsage returns the seconds recorded for field on day.
func (s *RedisService) GetTranscriptionUsage(ctx context.Context, day time.Time, field string) (int64, error) {
	res, err := s.rc.HGet(ctx, usageKey(day), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(res, 10, 64)
}

func (s *RedisService) CountActiveSessions(ctx context.Context) (int64, error) {
	return s.rc.HLen(ctx, ActiveSessionsKey).Result()
}
