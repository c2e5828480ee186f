package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/alaaharoun/livetranslate-server/pkg/config"
	"golang.org/x/sync/errgroup"
)

const connectTimeout = 15 * time.Second

// ConnectBackends opens every reporting backend present in the config.
// None of them is required for transcription to work.
func ConnectBackends(ctx context.Context, appCnf *config.AppConfig) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if appCnf.RedisInfo.Enabled() {
		g.Go(func() error {
			if err := NewRedisConnection(gctx, appCnf); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		})
	}
	if appCnf.NatsInfo.Enabled() {
		g.Go(func() error {
			if err := NewNatsConnection(appCnf); err != nil {
				return fmt.Errorf("nats: %w", err)
			}
			return nil
		})
	}
	if appCnf.DatabaseInfo.Enabled() {
		g.Go(func() error {
			if err := NewDatabaseConnection(gctx, appCnf); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
