package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/matchday-service/internal/events"
)

const DefaultRedisChannelPrefix = "games"

// redisClient is the slice of *redis.Client the publisher needs.
type redisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

// RedisPublisher sends each event as JSON on the channel <prefix>:<organizationId>.
type RedisPublisher struct {
	cli    redisClient
	prefix string
}

// NewRedisPublisher connects lazily to the server described by url (redis://host:port/db).
func NewRedisPublisher(url, prefix string) (*RedisPublisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return newRedisPublisher(redis.NewClient(opt), prefix), nil
}

func newRedisPublisher(cli redisClient, prefix string) *RedisPublisher {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultRedisChannelPrefix
	}
	return &RedisPublisher{cli: cli, prefix: prefix}
}

// Channel returns the channel events for orgID are published on.
func (p *RedisPublisher) Channel(orgID string) string {
	return p.prefix + ":" + orgID
}

func (p *RedisPublisher) Publish(ctx context.Context, ev events.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.cli.Publish(ctx, p.Channel(ev.OrganizationID), string(body)).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", ev.Kind, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error { return p.cli.Close() }
