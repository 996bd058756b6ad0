package worker

import (
	"context"

	"text2phenotype.com/postag/redis"
)

type redisTransactions interface {
	lockOutput(ctx context.Context, name string) (redis.ReleaseLock, error)
	close()
}

type redisClientWrapper struct {
	redisClient *redis.Client
}

func (wrapper *redisClientWrapper) close() {
	wrapper.redisClient.Close()
}

func (wrapper *redisClientWrapper) lockOutput(ctx context.Context, name string) (redis.ReleaseLock, error) {
	return wrapper.redisClient.Lock(ctx, "pos:output:"+name)
}
