package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/config"
	"github.com/Khushi-Panchall/Smart-Seminar---Event-Management-System/internal/model"
)

func newTestCache(t *testing.T) (*RegistrationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "test"}
	return NewRegistrationCache(cfg, rdb, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestRegistrationCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	_, gen, ok := c.Get(ctx, "c1", "s1")
	require.False(t, ok)
	require.Zero(t, gen)

	regs := []model.Registration{{
		ID: "r1", CollegeID: "c1", SeminarID: "s1", SeatCode: "A-5", SeatRow: 1, SeatCol: 5,
		Attendee: model.Attendee{StudentName: "Asha", Email: "asha@example.com", Phone: "99"},
		TicketID: "AB12CD34",
	}}
	c.Set(ctx, "c1", "s1", gen, regs)
	require.True(t, mr.Exists("test:registrations:c1:s1:g0"))
	require.Equal(t, time.Minute, mr.TTL("test:registrations:c1:s1:g0"))

	got, _, ok := c.Get(ctx, "c1", "s1")
	require.True(t, ok)
	require.Equal(t, regs, got)

	_, _, ok = c.Get(ctx, "c2", "s1")
	require.False(t, ok, "entries are scoped by college")

	c.Invalidate(ctx, "c1", "s1")
	_, gen, ok = c.Get(ctx, "c1", "s1")
	require.False(t, ok)
	require.EqualValues(t, 1, gen)
	require.Equal(t, generationTTL, mr.TTL("test:registrations:c1:s1:gen"))
}

func TestRegistrationCache_SetUnderRetiredGeneration(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	_, gen, ok := c.Get(ctx, "c1", "s1")
	require.False(t, ok)

	// A write lands while the caller is still reading the store.
	c.Invalidate(ctx, "c1", "s1")
	c.Set(ctx, "c1", "s1", gen, []model.Registration{})

	_, _, ok = c.Get(ctx, "c1", "s1")
	require.False(t, ok, "a list read before the invalidation must not be served")
}

func TestRegistrationCache_UnreadableGeneration(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("test:registrations:c1:s1:gen", "not a number"))

	_, gen, ok := c.Get(ctx, "c1", "s1")
	require.False(t, ok)
	require.Negative(t, gen)
	c.Set(ctx, "c1", "s1", gen, []model.Registration{})
	require.False(t, mr.Exists("test:registrations:c1:s1:g-1"))
}

func TestRegistrationCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("test:registrations:c1:s1:g0", "not json"))
	_, _, ok := c.Get(context.Background(), "c1", "s1")
	require.False(t, ok)
}

func TestRegistrationCache_Disabled(t *testing.T) {
	var c *RegistrationCache
	c.Set(context.Background(), "c1", "s1", 0, nil)
	c.Invalidate(context.Background(), "c1", "s1")
	_, _, ok := c.Get(context.Background(), "c1", "s1")
	require.False(t, ok)

	require.Nil(t, NewRegistrationCache(config.CacheConfig{Enabled: true}, nil, nil))
	require.Nil(t, NewRegistrationCache(config.CacheConfig{Enabled: false}, redis.NewClient(&redis.Options{}), nil))
}
