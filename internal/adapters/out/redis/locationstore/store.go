// Package locationstore implements the latest-location store on Redis.
// One key per task holds the newest sample as the client wire payload, so
// readers can serve it without another mapping step. Writes go through a Lua
// script that compares capture timestamps server-side, keeping the
// strictly-newer rule atomic under concurrent reporters.
package locationstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces tracking keys in a shared Redis instance.
const keyPrefix = "dispatch:task:"

// putIfNewer stores the payload only when its capture timestamp is strictly
// greater than the stored one. Equal timestamps lose, so duplicate reports
// are no-ops.
var putIfNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
  local ts = cjson.decode(cur)['ts']
  if tonumber(ARGV[2]) <= ts then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// Store is a Redis-backed ports.LocationStore.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a location store on the given Redis client.
// ttl bounds how long a sample outlives its last report; tasks normally drop
// their key explicitly on completion, the TTL only cleans up after crashes.
func NewStore(client *redis.Client, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("sample ttl must be positive")
	}

	return &Store{client: client, ttl: ttl}, nil
}

// Put stores the sample if it is strictly newer than the current one.
func (s *Store) Put(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) (bool, error) {
	if err := taskID.Validate(); err != nil {
		return false, err
	}
	if err := sample.Validate(); err != nil {
		return false, err
	}

	wire := sample.Wire()
	payload, err := json.Marshal(wire)
	if err != nil {
		return false, fmt.Errorf("marshal location sample: %w", err)
	}

	stored, err := putIfNewer.Run(
		ctx,
		s.client,
		[]string{key(taskID)},
		payload,
		wire.Ts,
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("store location sample: %w", err)
	}

	return stored == 1, nil
}

// Get returns the latest sample for the task, if any.
func (s *Store) Get(ctx context.Context, taskID kernel.UUID) (tracking.LocationSample, bool, error) {
	if err := taskID.Validate(); err != nil {
		return tracking.LocationSample{}, false, err
	}

	payload, err := s.client.Get(ctx, key(taskID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return tracking.LocationSample{}, false, nil
	}
	if err != nil {
		return tracking.LocationSample{}, false, fmt.Errorf("read location sample: %w", err)
	}

	var wire tracking.LocationWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return tracking.LocationSample{}, false, fmt.Errorf("decode location sample: %w", err)
	}

	sample, err := tracking.SampleFromWire(wire)
	if err != nil {
		return tracking.LocationSample{}, false, err
	}

	return sample, true, nil
}

// Remove drops the task's sample. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	if err := s.client.Del(ctx, key(taskID)).Err(); err != nil {
		return fmt.Errorf("remove location sample: %w", err)
	}
	return nil
}

func key(taskID kernel.UUID) string {
	return keyPrefix + taskID.String() + ":loc"
}
