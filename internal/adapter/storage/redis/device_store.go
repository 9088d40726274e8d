package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// DeviceStore implements ports.DeviceStore using Redis. It maps a user
// to their current push device registration token. Tokens are written
// by the (external) device registration flow and read by the
// notification gateway.
type DeviceStore struct {
	client *goredis.Client
	prefix string
}

// NewDeviceStore creates a new Redis-backed device token store.
func NewDeviceStore(client *goredis.Client) *DeviceStore {
	return &DeviceStore{
		client: client,
		prefix: "device:",
	}
}

// GetToken retrieves a user's device token.
// Returns "" if the user has no registered device.
func (s *DeviceStore) GetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+userID.String()).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis device get: %w", err)
	}
	return val, nil
}

// SetToken stores a user's device token. Tokens do not expire; a new
// registration overwrites the previous one.
func (s *DeviceStore) SetToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.client.Set(ctx, s.prefix+userID.String(), token, 0).Err(); err != nil {
		return fmt.Errorf("redis device set: %w", err)
	}
	return nil
}
