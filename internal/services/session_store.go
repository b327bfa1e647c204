package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mlima-digital/whatsapp-bridge/internal/redisclient"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for the session store namespace
const (
	authSessionPrefix = "auth_session:"
	phoneIndexPrefix  = "phone_index:"
)

// AuthSessionKey builds the store key for a session authorization record
func AuthSessionKey(sessionID string) string {
	return authSessionPrefix + sessionID
}

// PhoneIndexKey builds the store key for a phone index record
func PhoneIndexKey(phone string) string {
	return phoneIndexPrefix + phone
}

// SessionStore is the narrow interface this module uses against the
// external key-value store. Get returns (nil, nil) when the key is absent;
// records are written without a store-level TTL, expiry is a field checked
// by the reader.
type SessionStore interface {
	Get(ctx context.Context, key string) (map[string]interface{}, error)
	Set(ctx context.Context, key string, value map[string]interface{}) error
}

// RedisSessionStore implements SessionStore over the traced Redis client
type RedisSessionStore struct {
	client *redisclient.Client
	logger *zap.Logger
}

// NewRedisSessionStore creates a new Redis-backed session store
func NewRedisSessionStore(client *redisclient.Client, logger *zap.Logger) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		logger: logger,
	}
}

// Get reads and decodes a JSON document stored under key
func (s *RedisSessionStore) Get(ctx context.Context, key string) (map[string]interface{}, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to read session key", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to read session key: %w", err)
	}

	var value map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Error("failed to decode session value", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to decode session value: %w", err)
	}

	return value, nil
}

// Set encodes value as JSON and writes it under key
func (s *RedisSessionStore) Set(ctx context.Context, key string, value map[string]interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.logger.Error("failed to write session key", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write session key: %w", err)
	}

	return nil
}
