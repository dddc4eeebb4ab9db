package redis

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

func (r repo) expire(ctx context.Context, c redis.Cmdable, key string) {
	if r.expireDuration > 0 {
		c.Expire(ctx, key, r.expireDuration)
	}
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}

func (r repo) marshalField(value any) (string, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r repo) unmarshalField(field string, value any) error {
	if field == "" {
		return nil
	}

	return json.Unmarshal([]byte(field), value)
}
