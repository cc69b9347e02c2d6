package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "hostal_ops/internal/adapters/redis"
	"hostal_ops/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := []domain.CleaningTask{{
		ID: "r1", Apartment: "101",
		DayType: domain.DayCheckInOut, CleaningType: domain.CleanCompleta,
		MergedIDs: []string{"r1", "r2"},
	}}
	if err := c.Set(ctx, "plan:centro:2026-08-15", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out []domain.CleaningTask
	ok, err := c.Get(ctx, "plan:centro:2026-08-15", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(out) != 1 || out[0].Apartment != "101" || len(out[0].MergedIDs) != 2 {
		t.Fatalf("round trip mangled value: %+v", out)
	}
}

func TestCache_MissAndDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var dst string
	ok, err := c.Get(ctx, "nope", &dst)
	if err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", "v", 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, "k", &dst)
	if ok {
		t.Fatal("key survived delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var dst string
	ok, _ := c.Get(ctx, "k", &dst)
	if ok {
		t.Fatal("key survived its TTL")
	}
}
