package transcript

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisSink_AppendAndLoad(t *testing.T) {
	mr, client := setupMiniredis(t)
	sink := NewRedisSink(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, createTestRecord("t1", "s1")))
	second := createTestRecord("t2", "s1")
	second.Question = "Why are customers churning?"
	require.NoError(t, sink.Append(ctx, second))
	require.NoError(t, sink.Append(ctx, createTestRecord("t3", "other")))

	recs, err := sink.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "t1", recs[0].TurnID)
	assert.Equal(t, "t2", recs[1].TurnID)
	assert.Equal(t, "Why are customers churning?", recs[1].Question)
	assert.Contains(t, recs[0].Response.DirectAnswer, "$3.24M")
	assert.True(t, recs[0].Timestamp.Equal(createTestRecord("t1", "s1").Timestamp))

	assert.Equal(t, time.Hour, mr.TTL("copilot:transcript:s1"))
}

func TestRedisSink_NoTTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	sink := NewRedisSink(client, 0)

	require.NoError(t, sink.Append(context.Background(), createTestRecord("t1", "s1")))

	assert.Equal(t, time.Duration(0), mr.TTL("copilot:transcript:s1"))
}

func TestRedisSink_Clear(t *testing.T) {
	mr, client := setupMiniredis(t)
	sink := NewRedisSink(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, createTestRecord("t1", "s1")))
	require.NoError(t, sink.Clear(ctx, "s1"))

	assert.False(t, mr.Exists("copilot:transcript:s1"))
	recs, err := sink.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRedisSink_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	sink := NewRedisSink(client, time.Hour)
	ctx := context.Background()

	mock.ExpectDel("copilot:transcript:s1").SetErr(errors.New("connection refused"))
	err := sink.Clear(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis clear s1")

	mock.ExpectLRange("copilot:transcript:s1", 0, -1).SetVal([]string{"not json"})
	_, err = sink.Load(ctx, "s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode record")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_AppendFailsWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	sink := NewRedisSink(client, time.Hour)
	mr.Close()

	err = sink.Append(context.Background(), createTestRecord("t1", "s1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis append")
}
