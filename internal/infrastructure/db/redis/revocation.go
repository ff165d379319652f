package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RevocationStore tracks revoked session tokens in Redis.
// Key format: revoked:<token_hash>
//
// Session tokens never expire, so revocation entries are stored without TTL:
// a logged-out token must stay dead for as long as it could be replayed.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks the token hash as revoked. Revoking an already-revoked token
// is a no-op.
func (s *RevocationStore) Revoke(ctx context.Context, tokenHash string) error {
	if err := s.client.Set(ctx, s.key(tokenHash), "1", 0).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token hash has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(tokenHash string) string {
	return "revoked:" + tokenHash
}
