package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/view"
)

// ViewStore persists per-session scheduler state between requests.
type ViewStore interface {
	Load(ctx context.Context, key string) (view.State, bool, error)
	Save(ctx context.Context, key string, s view.State) error
}

const viewKeyPrefix = "frontdesk:view:"

// RedisViewStore keeps one JSON snapshot per session with a sliding TTL.
// Appointment data is not persisted; a restored view always re-fetches.
type RedisViewStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisViewStore(rdb *goredis.Client, ttl time.Duration) *RedisViewStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisViewStore{rdb: rdb, ttl: ttl}
}

func (s *RedisViewStore) Load(ctx context.Context, key string) (view.State, bool, error) {
	var st view.State
	raw, err := s.rdb.GetEx(ctx, viewKeyPrefix+key, s.ttl).Bytes()
	if errors.Is(err, goredis.Nil) {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("load view state: %w", err)
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, false, fmt.Errorf("decode view state: %w", err)
	}
	return st, true, nil
}

func (s *RedisViewStore) Save(ctx context.Context, key string, st view.State) error {
	st.Appointments = nil
	st.Loading = true
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	if err := s.rdb.Set(ctx, viewKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save view state: %w", err)
	}
	return nil
}
