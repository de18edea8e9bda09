// Package redisstream hands turn notifications to the delivery workers
// through a Redis stream.
package redisstream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"warfront/internal/app/ports"
)

const (
	DefaultStream = "warfront:turn-notifications"
	defaultMaxLen = 10000
)

type Dispatcher struct {
	Client redis.Cmdable
	Stream string
	MaxLen int64
}

func New(client redis.Cmdable, stream string) Dispatcher {
	if stream == "" {
		stream = DefaultStream
	}
	return Dispatcher{Client: client, Stream: stream, MaxLen: defaultMaxLen}
}

// Open connects using a redis:// URL.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (d Dispatcher) Dispatch(ctx context.Context, n ports.TurnNotification) error {
	args := &redis.XAddArgs{
		Stream: d.Stream,
		MaxLen: d.MaxLen,
		Approx: true,
		Values: Fields(n),
	}
	if err := d.Client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", d.Stream, err)
	}
	return nil
}

// Fields is the stream entry layout consumed by the delivery workers.
func Fields(n ports.TurnNotification) map[string]any {
	f := map[string]any{
		"game_id":         n.GameID,
		"player_id":       string(n.ExpectedPlayerID),
		"user_id":         n.UserID,
		"turn_started_at": n.TurnStartedAt.UTC().Format(time.RFC3339Nano),
	}
	if !n.TurnDeadlineAt.IsZero() {
		f["turn_deadline_at"] = n.TurnDeadlineAt.UTC().Format(time.RFC3339Nano)
	}
	return f
}

// LogDispatcher is used when no Redis is configured.
type LogDispatcher struct {
	Logger logrus.FieldLogger
}

func (d LogDispatcher) Dispatch(_ context.Context, n ports.TurnNotification) error {
	d.Logger.WithFields(logrus.Fields{
		"game_id":   n.GameID,
		"player_id": n.ExpectedPlayerID,
		"user_id":   n.UserID,
	}).Info("turn notification")
	return nil
}
