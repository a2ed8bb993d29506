package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradestack/trade-store/internal/model"
)

const keyPrefix = "request:"

// createScript writes a PENDING record only if the key is absent.
// Returns 1 on success, 0 on collision.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1],
  'request_id', ARGV[1],
  'status', 'PENDING',
  'trade_id', ARGV[2],
  'version', ARGV[3],
  'created_at', ARGV[4],
  'updated_at', ARGV[4])
redis.call('EXPIRE', KEYS[1], ARGV[5])
return 1
`)

// transitionScript moves PENDING to a terminal status.
// Returns 'OK' on transition, 'TERMINAL' when already resolved (treated as
// success by the caller), 'NOT_FOUND' when the record is missing.
var transitionScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'status')
if not cur then
  return 'NOT_FOUND'
end
if cur ~= 'PENDING' then
  return 'TERMINAL'
end
redis.call('HSET', KEYS[1], 'status', ARGV[1], 'updated_at', ARGV[2])
if ARGV[3] ~= '' then
  redis.call('HSET', KEYS[1], 'failure_reason', ARGV[3])
end
return 'OK'
`)

// RedisStore is the Redis-backed Store implementation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore around an existing client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create implements Store.
func (s *RedisStore) Create(ctx context.Context, requestID string, trade model.TradeSubmission) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := createScript.Run(ctx, s.client, []string{key(requestID)},
		requestID,
		trade.TradeID,
		strconv.Itoa(trade.Version),
		now,
		int(s.ttl.Seconds()),
	).Int()
	if err != nil {
		return fmt.Errorf("create request %s: %w", requestID, err)
	}
	if res == 0 {
		return fmt.Errorf("create request %s: %w", requestID, ErrAlreadyExists)
	}
	return nil
}

// Transition implements Store.
func (s *RedisStore) Transition(ctx context.Context, requestID string, status model.RequestStatus, failureReason string) error {
	if !status.Terminal() {
		return fmt.Errorf("transition request %s: status %s is not terminal", requestID, status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := transitionScript.Run(ctx, s.client, []string{key(requestID)},
		string(status),
		now,
		failureReason,
	).Text()
	if err != nil {
		return fmt.Errorf("transition request %s: %w", requestID, err)
	}
	switch res {
	case "OK", "TERMINAL":
		return nil
	case "NOT_FOUND":
		return fmt.Errorf("transition request %s: %w", requestID, ErrNotFound)
	default:
		return fmt.Errorf("transition request %s: unexpected script result %q", requestID, res)
	}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, requestID string) (model.RequestRecord, error) {
	fields, err := s.client.HGetAll(ctx, key(requestID)).Result()
	if err != nil {
		return model.RequestRecord{}, fmt.Errorf("get request %s: %w", requestID, err)
	}
	if len(fields) == 0 {
		return model.RequestRecord{}, fmt.Errorf("get request %s: %w", requestID, ErrNotFound)
	}
	return recordFromFields(fields), nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

func key(requestID string) string {
	return keyPrefix + requestID
}

func recordFromFields(fields map[string]string) model.RequestRecord {
	rec := model.RequestRecord{
		RequestID:     fields["request_id"],
		Status:        model.RequestStatus(fields["status"]),
		TradeID:       fields["trade_id"],
		FailureReason: fields["failure_reason"],
	}
	if v, err := strconv.Atoi(fields["version"]); err == nil {
		rec.Version = v
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["created_at"]); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		rec.UpdatedAt = t
	}
	return rec
}
