package stash

import (
	"context"
	"errors"
	"strings"
)

type FactoryConfig struct {
	Backend     string
	DynamoTable string
	RedisAddr   string
}

func NewStore(ctx context.Context, cfg FactoryConfig) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "memory"
	}

	switch backend {
	case "memory":
		return NewMemoryStore(), nil

	case "dynamo":
		if strings.TrimSpace(cfg.DynamoTable) == "" {
			return nil, errors.New("DYNAMO_TABLE is required when STASH_BACKEND=dynamo")
		}
		return NewDynamoStore(ctx, cfg.DynamoTable)

	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, errors.New("REDIS_ADDR is required when STASH_BACKEND=redis")
		}
		return NewRedisStore(cfg.RedisAddr), nil

	default:
		return nil, errors.New("unknown STASH_BACKEND (use memory, dynamo or redis)")
	}
}
