// Package redisstore backs storage.Store with Redis. Update uses
// WATCH/MULTI so concurrent writers for one user retry instead of
// overwriting each other.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/storage"
)

const pingTimeout = 3 * time.Second

type Options struct {
	URL      string
	Password string
	// Prefix is prepended to every key, e.g. "jobmatch:".
	Prefix     string
	MaxRetries int
}

type Store struct {
	client     *redis.Client
	prefix     string
	maxRetries int
	logger     *zap.Logger
}

// New connects and pings Redis.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Store, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("redis url is required")
	}

	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.Password != "" {
		redisOpts.Password = opts.Password
	}

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", redisOpts.Addr, err)
	}

	s := NewWithClient(client, opts.Prefix, opts.MaxRetries, logger)
	s.logger.Info("redis store connected", zap.String("addr", redisOpts.Addr))
	return s, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string, maxRetries int, logger *zap.Logger) *Store {
	if maxRetries <= 0 {
		maxRetries = storage.DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, prefix: prefix, maxRetries: maxRetries, logger: logger}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (any, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Store) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	k := s.key(key)

	txf := func(tx *redis.Tx) error {
		var current any
		exists := true
		val, err := tx.Get(ctx, k).Result()
		switch {
		case errors.Is(err, redis.Nil):
			exists = false
		case err != nil:
			return err
		default:
			current = val
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		s.logger.Debug("redis optimistic lock lost, retrying",
			zap.String("key", k),
			zap.Int("attempt", attempt),
		)
	}

	return fmt.Errorf("update %q: %w", key, storage.ErrConflict)
}

func (s *Store) Close() error {
	return s.client.Close()
}
