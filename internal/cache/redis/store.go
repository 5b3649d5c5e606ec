// Package redis stores optimization results in Redis as msgpack payloads.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
)

// Payloads reuse the json field names.
const structTag = "json"

// Store implements domain.ResultCache on a Redis string key per result.
type Store struct {
	client redis.UniversalClient
}

// NewStore creates a store over client.
func NewStore(client redis.UniversalClient) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	return &Store{client: client}, nil
}

// Get retrieves and decodes the result stored under key.
func (s *Store) Get(ctx context.Context, key string) (*domain.OptimizationResult, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}

	result, err := Decode(data)
	if err != nil {
		observability.FromContext(ctx).Warn("dropping undecodable cache entry",
			observability.String("cache_key", key),
			observability.Error(err))
		return nil, err
	}
	return result, nil
}

// Set encodes result and stores it under key for ttl.
func (s *Store) Set(ctx context.Context, key string, result *domain.OptimizationResult, ttl time.Duration) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	data, err := Encode(result)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	observability.FromContext(ctx).Debug("result stored",
		observability.String("cache_key", key),
		observability.Int("data_size", len(data)),
		observability.Duration("ttl", ttl))
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Encode serialises result as msgpack.
func Encode(result *domain.OptimizationResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag(structTag)
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a payload written by Encode.
func Decode(data []byte) (*domain.OptimizationResult, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag(structTag)

	var result domain.OptimizationResult
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &result, nil
}
