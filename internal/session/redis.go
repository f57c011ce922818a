package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout.
const (
	visitorCountKey      = "visitors:total"
	visitorSessionPrefix = "visitors:session:"
	consentPrefix        = "consent:session:"
)

// Compile-time check that Redis implements Store.
var _ Store = (*Redis)(nil)

// Redis is the production Store. The counter is a plain INCR guarded by a
// per-token SETNX key with a TTL, so a session counts once until its marker
// expires. Consent records have no TTL; a visitor's choice persists until
// they change it.
type Redis struct {
	rdb        *redis.Client
	sessionTTL time.Duration
}

// NewRedis creates a Redis-backed session store. sessionTTL bounds how long
// a session marker suppresses re-counting.
func NewRedis(rdb *redis.Client, sessionTTL time.Duration) *Redis {
	return &Redis{rdb: rdb, sessionTTL: sessionTTL}
}

// VisitorCount returns the current total, zero when nobody has ever
// registered.
func (r *Redis) VisitorCount(ctx context.Context) (int64, error) {
	count, err := r.rdb.Get(ctx, visitorCountKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get visitor count: %w", err)
	}
	return count, nil
}

// RegisterVisitor counts the token once per session TTL window.
func (r *Redis) RegisterVisitor(ctx context.Context, token string) (int64, error) {
	fresh, err := r.rdb.SetNX(ctx, visitorSessionPrefix+token, "1", r.sessionTTL).Result()
	if err != nil {
		return 0, fmt.Errorf("mark visitor session: %w", err)
	}
	if !fresh {
		return r.VisitorCount(ctx)
	}

	count, err := r.rdb.Incr(ctx, visitorCountKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment visitor count: %w", err)
	}
	return count, nil
}

// Consent returns the stored choice for the token.
func (r *Redis) Consent(ctx context.Context, token string) (Consent, error) {
	val, err := r.rdb.Get(ctx, consentPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return ConsentUnset, nil
	}
	if err != nil {
		return ConsentUnset, fmt.Errorf("get consent: %w", err)
	}
	return Consent(val), nil
}

// SetConsent records the choice for the token.
func (r *Redis) SetConsent(ctx context.Context, token string, status Consent) error {
	if err := r.rdb.Set(ctx, consentPrefix+token, string(status), 0).Err(); err != nil {
		return fmt.Errorf("set consent: %w", err)
	}
	return nil
}
