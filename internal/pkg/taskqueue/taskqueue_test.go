package taskqueue

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisc "github.com/trendscope/core/internal/pkg/redis"
)

// unreachableClient returns a client whose every command fails with a
// connection error.
func unreachableClient(t *testing.T) *redisc.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	return redisc.New(rdb)
}

func TestUpdateStatusSurfacesBackendError(t *testing.T) {
	svc := NewService(unreachableClient(t))

	err := svc.UpdateStatus(context.Background(), "task-1", TaskRunning, nil, "")

	require.Error(t, err)
	assert.NotEqual(t, "task not found", err.Error())
	assert.Contains(t, err.Error(), "task-1")
}
