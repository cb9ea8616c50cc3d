package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestSequencer_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	seq := NewSequencer(client, "test:seq:")
	_, err := seq.Next(context.Background(), "patient")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to advance sequence patient")
}
