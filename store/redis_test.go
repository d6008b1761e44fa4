package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "ams", time.Second), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	rs, _ := newRedisStore(t)

	if rs.Has() {
		t.Fatal("fresh store should be empty")
	}
	if err := rs.Set("tok-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	tok, ok := rs.Get()
	if !ok || tok != "tok-1" {
		t.Fatalf("get returned (%q, %v)", tok, ok)
	}
}

func TestRedisStoreClearSweepsLegacyKeys(t *testing.T) {
	rs, mr := newRedisStore(t)

	if err := rs.Set("tok"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	// Legacy unprefixed keys from older builds.
	mr.Set(KeyAccessToken, "stale")
	mr.Set(KeyRefreshToken, "stale")
	mr.Set(KeyUser, "stale")
	mr.Set("ams:"+KeyUser, "stale")

	for i := 0; i < 2; i++ {
		if err := rs.Clear(); err != nil {
			t.Fatalf("clear #%d failed: %v", i+1, err)
		}
	}

	if rs.Has() {
		t.Fatal("token survived clear")
	}
	for _, key := range []string{
		KeyAccessToken, KeyRefreshToken, KeyUser,
		"ams:" + KeyAccessToken, "ams:" + KeyRefreshToken, "ams:" + KeyUser,
	} {
		if mr.Exists(key) {
			t.Fatalf("key %q survived clear", key)
		}
	}
}

func TestRedisStoreUnreachableReadsAsNoToken(t *testing.T) {
	rs, mr := newRedisStore(t)

	if err := rs.Set("tok"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.Close()

	if rs.Has() {
		t.Fatal("unreachable store must read as no token")
	}
}
