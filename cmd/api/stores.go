package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/signup-api/internal/application/verification"
	"github.com/signup-api/internal/config"
	"github.com/signup-api/internal/infrastructure/dynamo"
	"github.com/signup-api/internal/infrastructure/memory"
	redisinfra "github.com/signup-api/internal/infrastructure/redis"
	transporthttp "github.com/signup-api/internal/transport/http"
)

type stores struct {
	codes  verification.CodeStore
	users  transporthttp.UserRepository
	closer func()
}

func (s *stores) close() {
	if s.closer != nil {
		s.closer()
	}
}

// openStores builds the code and user stores named by CODE_STORE and USER_STORE.
// The DynamoDB client is created once and shared when both use it.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	st := &stores{}

	var dynamoClient *dynamodb.Client
	if cfg.CodeStore == "dynamo" || cfg.UserStore == "dynamo" {
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, client, selectedTables(cfg))
		dynamoClient = client
	}

	switch cfg.CodeStore {
	case "memory":
		st.codes = memory.NewCodeStore()
	case "dynamo":
		st.codes = dynamo.NewCodeStore(dynamoClient, cfg.DynamoTables.PendingVerifications)
	case "redis":
		client, err := redisinfra.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		st.codes = redisinfra.NewCodeStore(client, cfg.RedisKeyPrefix)
		st.closer = func() {
			if err := client.Close(); err != nil {
				slog.Warn("redis close failed", "err", err)
			}
		}
	default:
		return nil, fmt.Errorf("unknown CODE_STORE %q", cfg.CodeStore)
	}

	switch cfg.UserStore {
	case "memory":
		st.users = memory.NewUserRepo()
	case "dynamo":
		st.users = dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	default:
		st.close()
		return nil, fmt.Errorf("unknown USER_STORE %q", cfg.UserStore)
	}
	return st, nil
}

// selectedTables keeps only the DynamoDB tables backing a store that uses dynamo.
func selectedTables(cfg *config.Config) config.DynamoTables {
	var t config.DynamoTables
	if cfg.UserStore == "dynamo" {
		t.Users = cfg.DynamoTables.Users
	}
	if cfg.CodeStore == "dynamo" {
		t.PendingVerifications = cfg.DynamoTables.PendingVerifications
	}
	return t
}
