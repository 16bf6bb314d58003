// Package suite provides a Redis instance for repository tests.
//
// Tests use REDIS_TEST_ADDR when it is set and otherwise start a throwaway
// container through dockertest. Without either the test is skipped.
package suite

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	addrEnv = "REDIS_TEST_ADDR"

	containerTTL = 300 // seconds
	maxWait      = 120 * time.Second

	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "7-alpine"
)

type Suite struct {
	*testing.T

	Storage *redis.Client
}

var (
	once       sync.Once
	sharedErr  error
	sharedAddr string
)

// New returns a client on an empty database. The container, when one is
// needed, is started once and shared by every test of the package.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	t.Cleanup(cancel)

	addr, err := redisAddr()
	if err != nil {
		t.Skipf("redis is not available: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() {
		_ = client.Close()
	})

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, &Suite{
		T:       t,
		Storage: client,
	}
}

func redisAddr() (string, error) {
	if addr := os.Getenv(addrEnv); addr != "" {
		return addr, nil
	}

	once.Do(func() {
		sharedAddr, sharedErr = startContainer()
	})

	return sharedAddr, sharedErr
}

// startContainer runs Redis in docker. The container removes itself once
// stopped and is hard killed after containerTTL.
func startContainer() (string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", err
	}

	if err = pool.Client.Ping(); err != nil {
		return "", err
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", err
	}

	_ = resource.Expire(containerTTL)

	addr := resource.GetHostPort(redisPort)
	pool.MaxWait = maxWait

	err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		return client.Ping(context.Background()).Err()
	})
	if err != nil {
		_ = pool.Purge(resource)
		return "", err
	}

	return addr, nil
}
