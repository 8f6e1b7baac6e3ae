package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m4dpr0f/cjsr-sub004/internal/model"
	"github.com/m4dpr0f/cjsr-sub004/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Prompt operations

func (s *Storage) SavePrompts(ctx context.Context, texts []string) error {
	key := promptsKey()

	// Replace the pool atomically; order is preserved so prompt selection
	// by index stays stable across backends
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key)

	if len(texts) > 0 {
		members := make([]interface{}, len(texts))
		for i, t := range texts {
			members[i] = t
		}
		pipe.RPush(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPrompts(ctx context.Context) ([]string, error) {
	texts, err := s.client.LRange(ctx, promptsKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, model.ErrNoPrompts
	}
	return texts, nil
}

// Race history operations

func (s *Storage) SaveRaceSummary(ctx context.Context, summary *model.RaceSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := summariesKey(summary.RoomID)

	// Append and keep the history TTL in sync
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.cfg.SummaryTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRaceSummaries(ctx context.Context, roomID model.RoomID) ([]model.RaceSummary, error) {
	entries, err := s.client.LRange(ctx, summariesKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.RaceSummary, 0, len(entries))
	for _, entry := range entries {
		var summary model.RaceSummary
		if err := json.Unmarshal([]byte(entry), &summary); err != nil {
			continue // Skip invalid data
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
