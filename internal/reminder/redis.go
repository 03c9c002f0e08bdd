package reminder

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const remindedPrefix = "reminded:"

// Redis keeps session markers in a redis set per session, expiring with the
// session's maximum lifetime so abandoned sessions clean themselves up.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) MarkReminded(ctx context.Context, sessionID string, apptID int64) error {
	key := remindedPrefix + sessionID
	if err := r.client.SAdd(ctx, key, strconv.FormatInt(apptID, 10)).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, r.ttl).Err()
}

func (r *Redis) Reminded(ctx context.Context, sessionID string, apptID int64) (bool, error) {
	return r.client.SIsMember(ctx, remindedPrefix+sessionID, strconv.FormatInt(apptID, 10)).Result()
}

func (r *Redis) EndSession(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, remindedPrefix+sessionID).Err()
}
