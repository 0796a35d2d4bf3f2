package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "pilgrims:detail:42", DetailKey(42))
	assert.Equal(t, "pilgrims:list:v3:abc", ListKey(3, "abc"))
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Nop
	c.SetPilgrim(ctx, domain.Pilgrim{ID: 1})
	_, ok := c.GetPilgrim(ctx, 1)
	assert.False(t, ok)
	_, version, ok := c.GetPage(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, NoVersion, version)
	assert.NoError(t, c.InvalidateLists(ctx))
	assert.NoError(t, c.InvalidateDetails(ctx, 1, 2))
}

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"},
		func(hc *docker.HostConfig) {
			hc.AutoRemove = true
			hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
		})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	}))

	return client
}

func TestPilgrimCache_Redis(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	c := NewPilgrimCache(client, time.Minute)

	p := domain.Pilgrim{ID: 7, Name: domain.LocalizedName{AR: "محمد"}, TagIDs: []uint{1}, SupervisorIDs: []uint{}}
	c.SetPilgrim(ctx, p)
	got, ok := c.GetPilgrim(ctx, 7)
	require.True(t, ok)
	assert.Equal(t, p.Name, got.Name)

	require.NoError(t, c.InvalidateDetails(ctx, 7))
	_, ok = c.GetPilgrim(ctx, 7)
	assert.False(t, ok)

	page := domain.PilgrimPage{Items: []domain.Pilgrim{p}, Total: 1, Page: 1, Limit: 20}
	_, version, ok := c.GetPage(ctx, "q")
	require.False(t, ok)
	c.SetPage(ctx, version, "q", page)
	_, _, ok = c.GetPage(ctx, "q")
	require.True(t, ok)

	require.NoError(t, c.InvalidateLists(ctx))
	_, _, ok = c.GetPage(ctx, "q")
	assert.False(t, ok)
}

func newMiniCache(t *testing.T) (*miniredis.Miniredis, *PilgrimCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewPilgrimCache(client, time.Minute)
}

func TestPilgrimCache_PageReadBeforeInvalidationIsNotServed(t *testing.T) {
	_, c := newMiniCache(t)
	ctx := context.Background()

	stale := domain.PilgrimPage{Items: []domain.Pilgrim{{ID: 1}}, Total: 1, Page: 1, Limit: 20}
	fresh := domain.PilgrimPage{Items: []domain.Pilgrim{{ID: 1, BusID: new(uint)}}, Total: 1, Page: 1, Limit: 20}

	_, readAt, ok := c.GetPage(ctx, "q")
	require.False(t, ok)
	require.NoError(t, c.InvalidateLists(ctx))
	c.SetPage(ctx, readAt, "q", stale)

	_, current, ok := c.GetPage(ctx, "q")
	assert.False(t, ok, "a page read before the invalidation must stay unreachable")
	assert.Equal(t, readAt+1, current)

	c.SetPage(ctx, current, "q", fresh)
	got, _, ok := c.GetPage(ctx, "q")
	require.True(t, ok)
	assert.NotNil(t, got.Items[0].BusID)
}

func TestPilgrimCache_UnreadableVersionSkipsWrite(t *testing.T) {
	mr, c := newMiniCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(listVersionKey, "not-a-number"))
	_, version, ok := c.GetPage(ctx, "q")
	assert.False(t, ok)
	assert.Equal(t, NoVersion, version)

	c.SetPage(ctx, version, "q", domain.PilgrimPage{Total: 1})
	assert.Equal(t, []string{listVersionKey}, mr.Keys())
}

func TestPilgrimCache_Details(t *testing.T) {
	_, c := newMiniCache(t)
	ctx := context.Background()

	c.SetPilgrim(ctx, domain.Pilgrim{ID: 3, NationalID: "1012345678"})
	got, ok := c.GetPilgrim(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, "1012345678", got.NationalID)

	require.NoError(t, c.InvalidateDetails(ctx, 3))
	_, ok = c.GetPilgrim(ctx, 3)
	assert.False(t, ok)
}
