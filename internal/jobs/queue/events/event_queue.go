// Package eventqueue buffers ingest batches in redis so reporting scripts
// get a fast ack while workers drain into Postgres at their own pace.
package eventqueue

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"inboxradar/internal/api/dto"
	"inboxradar/internal/config"
	"inboxradar/internal/jobs/runtime"
	"inboxradar/internal/support"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	batchKeyPrefix  = "ingest:batch:"
	queueKey        = "ingest_queue"
	emptyQueueSleep = 1 * time.Second
)

//go:embed pop.lua
var luaPopScript string

type RedisEventQueue struct {
	client    *redis.Client
	ctx       context.Context
	popScript *redis.Script
	sequence  atomic.Uint64
	idleSleep atomic.Int64 // nanoseconds between polls of an empty queue
}

var PublicEventQueue *RedisEventQueue

func Init() error {
	client, err := support.GetRedisClient()
	if err != nil {
		return fmt.Errorf("event queue: redis client: %w", err)
	}
	PublicEventQueue = NewRedisEventQueue(client)

	go func() {
		updates := config.IngestIntervalUpdates()
		for interval := range updates {
			PublicEventQueue.SetIdleSleep(interval)
			log.Debug("Ingest poll interval updated", "interval", interval)
		}
	}()

	return nil
}

func NewRedisEventQueue(client *redis.Client) *RedisEventQueue {
	q := &RedisEventQueue{
		client:    client,
		ctx:       context.Background(),
		popScript: redis.NewScript(luaPopScript),
	}
	q.idleSleep.Store(int64(emptyQueueSleep))
	return q
}

// SetIdleSleep changes how long workers wait before re-polling an empty
// queue. Non-positive intervals keep the previous value.
func (q *RedisEventQueue) SetIdleSleep(interval time.Duration) {
	if interval <= 0 {
		return
	}
	q.idleSleep.Store(int64(interval))
}

// IdleSleep returns the current empty-queue poll interval.
func (q *RedisEventQueue) IdleSleep() time.Duration {
	return time.Duration(q.idleSleep.Load())
}

// AddToQueue stores the batch payload and schedules it for immediate
// pickup. The id carries a process-local sequence so concurrent producers
// never collide.
func (q *RedisEventQueue) AddToQueue(batch *dto.IngestBatch) error {
	if q == nil {
		return errors.New("redis event queue is nil")
	}
	if batch == nil || batch.Size() == 0 {
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest batch: %w", err)
	}

	id := strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + strconv.FormatUint(q.sequence.Add(1), 10)

	pipe := q.client.Pipeline()
	pipe.Set(q.ctx, batchKeyPrefix+id, payload, 0)
	pipe.ZAddArgs(q.ctx, queueKey, redis.ZAddArgs{
		NX: true,
		Members: []redis.Z{{
			Score:  float64(time.Now().Unix()),
			Member: id,
		}},
	})

	if _, err := pipe.Exec(q.ctx); err != nil {
		return fmt.Errorf("enqueue pipeline failed: %w", err)
	}
	return nil
}

// GetNextBatchContext blocks until a due batch is available or the context
// ends.
func (q *RedisEventQueue) GetNextBatchContext(ctx context.Context) (string, *dto.IngestBatch, error) {
	if ctx == nil {
		ctx = q.ctx
	}

	for {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		default:
		}

		currentTime := time.Now().Unix()
		result, err := q.popScript.Run(ctx, q.client, []string{queueKey, batchKeyPrefix}, currentTime).Result()

		if errors.Is(err, redis.Nil) {
			select {
			case <-ctx.Done():
				return "", nil, ctx.Err()
			case <-time.After(q.IdleSleep()):
			}
			continue
		} else if err != nil {
			return "", nil, fmt.Errorf("lua script failed: %w", err)
		}

		resSlice := result.([]interface{})
		id := resSlice[0].(string)
		payload := resSlice[1].(string)

		var batch dto.IngestBatch
		if err := json.Unmarshal([]byte(payload), &batch); err != nil {
			return "", nil, fmt.Errorf("failed to unmarshal ingest batch: %w", err)
		}

		return id, &batch, nil
	}
}

// RequeueBatch puts a failed batch back with a delay so a broken database
// does not spin the workers.
func (q *RedisEventQueue) RequeueBatch(id string, batch *dto.IngestBatch, delay time.Duration) error {
	if batch == nil {
		return nil
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal ingest batch: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Set(q.ctx, batchKeyPrefix+id, payload, 0)
	pipe.ZAdd(q.ctx, queueKey, redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: id,
	})

	if _, err := pipe.Exec(q.ctx); err != nil {
		return fmt.Errorf("requeue pipeline failed: %w", err)
	}
	return nil
}

func (q *RedisEventQueue) GetBatchCount() (int64, error) {
	return q.client.ZCard(q.ctx, queueKey).Result()
}

func (q *RedisEventQueue) GetActiveInstances() (int, error) {
	return runtime.CountActiveInstances(q.ctx, q.client)
}

func (q *RedisEventQueue) Close() error {
	return support.CloseRedisClient()
}

// Drain logs and discards everything still queued. Only used by tests and
// operational tooling.
func (q *RedisEventQueue) Drain() error {
	ids, err := q.client.ZRange(q.ctx, queueKey, 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := q.client.Pipeline()
	for _, id := range ids {
		pipe.Del(q.ctx, batchKeyPrefix+id)
	}
	pipe.Del(q.ctx, queueKey)
	if _, err := pipe.Exec(q.ctx); err != nil {
		return err
	}

	if len(ids) > 0 {
		log.Warn("Event queue drained", "discarded", len(ids))
	}
	return nil
}
