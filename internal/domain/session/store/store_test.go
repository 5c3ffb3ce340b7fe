package store

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"plantid-bot-go/internal/domain/session/model"
	"plantid-bot-go/internal/platform/testutil"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := New(Config{Driver: DriverSQLite}, Dependencies{DB: testutil.MemoryDB(t)})
	if err != nil {
		t.Fatalf("New sqlite store: %v", err)
	}
	return s
}

func newRedisStore(t *testing.T) Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s, err := New(Config{
		Driver: DriverRedis,
		Redis:  &RedisConfig{Addr: mr.Addr()},
	}, Dependencies{})
	if err != nil {
		t.Fatalf("New redis store: %v", err)
	}
	return s
}

func TestStoreLifecycle(t *testing.T) {
	builders := map[string]func(t *testing.T) Store{
		DriverMemory: func(*testing.T) Store { return NewMemory() },
		DriverSQLite: newSQLiteStore,
		DriverRedis:  newRedisStore,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := build(t)
			t.Cleanup(func() { _ = s.Close(ctx) })

			if _, ok, err := s.Get(ctx, "42"); err != nil || ok {
				t.Fatalf("expected missing session, got ok=%v err=%v", ok, err)
			}

			sess := model.Session{
				UserID:              "42",
				Language:            "en",
				IdentificationToken: "tok-1",
				LastImage:           "aGVsbG8=",
				LastPlant:           "Ficus lyrata",
				Geoposition:         &model.Geoposition{Longitude: 37.6, Latitude: 55.7},
			}
			if err := s.Save(ctx, sess); err != nil {
				t.Fatalf("Save error: %v", err)
			}

			got, ok, err := s.Get(ctx, "42")
			if err != nil || !ok {
				t.Fatalf("Get failed: ok=%v err=%v", ok, err)
			}
			if got.Language != "en" || got.IdentificationToken != "tok-1" || got.LastPlant != "Ficus lyrata" {
				t.Fatalf("unexpected session: %+v", got)
			}
			if got.LastImage != "aGVsbG8=" {
				t.Fatalf("unexpected image: %q", got.LastImage)
			}
			if got.Geoposition == nil || got.Geoposition.Latitude != 55.7 || got.Geoposition.Longitude != 37.6 {
				t.Fatalf("unexpected geoposition: %+v", got.Geoposition)
			}

			// overwrite keeps a single row
			got.Language = "ru"
			got.Geoposition = nil
			if err := s.Save(ctx, got); err != nil {
				t.Fatalf("second Save error: %v", err)
			}
			if err := s.Save(ctx, model.Session{UserID: "7", Language: "ru"}); err != nil {
				t.Fatalf("Save other error: %v", err)
			}

			again, _, err := s.Get(ctx, "42")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if again.Language != "ru" || again.Geoposition != nil {
				t.Fatalf("update not applied: %+v", again)
			}

			stats, err := s.Stats(ctx)
			if err != nil {
				t.Fatalf("Stats error: %v", err)
			}
			if fmt.Sprint(stats["total"]) != "2" {
				t.Fatalf("unexpected stats: %v", stats)
			}
			if _, ok, _ := s.Get(ctx, "missing"); ok {
				t.Fatal("unknown user reported as stored")
			}
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	if err := s.Save(ctx, model.Session{UserID: "1", Geoposition: &model.Geoposition{Latitude: 1}}); err != nil {
		t.Fatal(err)
	}
	got, _, _ := s.Get(ctx, "1")
	got.Geoposition.Latitude = 99

	fresh, _, _ := s.Get(ctx, "1")
	if fresh.Geoposition.Latitude != 1 {
		t.Fatalf("stored session mutated through returned copy: %+v", fresh.Geoposition)
	}
}

func TestSaveRequiresUserID(t *testing.T) {
	if err := NewMemory().Save(context.Background(), model.Session{}); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedis(Config{Redis: &RedisConfig{Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("NewRedis: %v", err)
	}
	defer s.Close(context.Background())

	if err := s.Save(context.Background(), model.Session{UserID: "99", Language: "ru"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists(DefaultRedisPrefix + "99") {
		t.Fatalf("expected key %s99", DefaultRedisPrefix)
	}
	if ttl := mr.TTL(DefaultRedisPrefix + "99"); ttl != 0 {
		t.Fatalf("session keys must not expire, ttl=%s", ttl)
	}
}

func TestFactory(t *testing.T) {
	if _, err := New(Config{Driver: DriverSQLite}, Dependencies{}); err == nil {
		t.Fatal("expected error without database handle")
	}
	if _, err := New(Config{Driver: DriverRedis}, Dependencies{}); err == nil {
		t.Fatal("expected error without redis config")
	}
	if _, err := New(Config{Driver: "unknown"}, Dependencies{}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	s, err := New(Config{}, Dependencies{})
	if err != nil {
		t.Fatalf("default driver: %v", err)
	}
	stats, _ := s.Stats(context.Background())
	if stats["type"] != "memory" {
		t.Fatalf("expected memory default, got %v", stats["type"])
	}
}
