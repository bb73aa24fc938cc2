package security

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out session ids until they would have
// expired anyway. It also keeps a per-user cutoff that invalidates every
// session issued up to a point in time, used after a password change.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeUserSessions(ctx context.Context, userID int32, cutoff UserCutoff, ttl time.Duration) error
	UserCutoff(ctx context.Context, userID int32) (UserCutoff, error)
}

// UserCutoff revokes a user's sessions issued at or before IssuedBefore,
// except the session named by Keep.
type UserCutoff struct {
	IssuedBefore time.Time
	Keep         string
}

// Covers reports whether the cutoff revokes the session.
func (c UserCutoff) Covers(claims *UserClaims) bool {
	if c.IssuedBefore.IsZero() || claims == nil {
		return false
	}
	if c.Keep != "" && claims.ID == c.Keep {
		return false
	}
	if claims.IssuedAt == nil {
		return true
	}
	// iat has second precision, so a session issued in the same second as
	// the cutoff is treated as older
	return !claims.IssuedAt.Time.After(c.IssuedBefore.Truncate(time.Second))
}

const (
	revokedKeyPrefix    = "session:revoked:"
	userCutoffKeyPrefix = "session:user:"
)

func userCutoffKey(userID int32) string {
	return userCutoffKeyPrefix + strconv.Itoa(int(userID))
}

type redisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) RevocationStore {
	return &redisRevocationStore{client: client}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *redisRevocationStore) RevokeUserSessions(ctx context.Context, userID int32, cutoff UserCutoff, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := userCutoffKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "before", cutoff.IssuedBefore.Unix(), "keep", cutoff.Keep)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *redisRevocationStore) UserCutoff(ctx context.Context, userID int32) (UserCutoff, error) {
	fields, err := s.client.HGetAll(ctx, userCutoffKey(userID)).Result()
	if err != nil {
		return UserCutoff{}, err
	}
	raw, ok := fields["before"]
	if !ok {
		return UserCutoff{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return UserCutoff{}, err
	}
	return UserCutoff{IssuedBefore: time.Unix(sec, 0), Keep: fields["keep"]}, nil
}

// memoryRevocationStore is used when no Redis address is configured. It only
// works for a single server process.
type memoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	cutoffs map[int32]memoryCutoff
	now     func() time.Time
}

type memoryCutoff struct {
	cutoff UserCutoff
	until  time.Time
}

func NewMemoryRevocationStore() RevocationStore {
	return &memoryRevocationStore{
		revoked: make(map[string]time.Time),
		cutoffs: make(map[int32]memoryCutoff),
		now:     time.Now,
	}
}

func (s *memoryRevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.revoked[jti] = now.Add(ttl)
	// drop expired entries so the map does not grow without bound
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	return nil
}

func (s *memoryRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (s *memoryRevocationStore) RevokeUserSessions(_ context.Context, userID int32, cutoff UserCutoff, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cutoffs[userID] = memoryCutoff{cutoff: cutoff, until: s.now().Add(ttl)}
	return nil
}

func (s *memoryRevocationStore) UserCutoff(_ context.Context, userID int32) (UserCutoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cutoffs[userID]
	if !ok {
		return UserCutoff{}, nil
	}
	if s.now().After(c.until) {
		delete(s.cutoffs, userID)
		return UserCutoff{}, nil
	}
	return c.cutoff, nil
}
