package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/hospital-api/internal/repository"
)

// NewClient parses url and verifies the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

type sequencer struct {
	client redis.Cmdable
	prefix string
}

// NewSequencer returns an INCR based sequencer. Values are unique across
// instances, but a value taken by a request whose database write later fails
// is not returned, leaving a gap.
func NewSequencer(client redis.Cmdable, prefix string) repository.Sequencer {
	return &sequencer{client: client, prefix: prefix}
}

func (s *sequencer) Next(ctx context.Context, name string) (int64, error) {
	v, err := s.client.Incr(ctx, s.prefix+name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return v, nil
}
