package history

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, size int) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, size, time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func newMemoryStore(t *testing.T, size int) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(100, size)
	require.NoError(t, err)
	return store
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return newMemoryStore(t, 3) },
		"redis": func(t *testing.T) Store {
			s, _ := newRedisStore(t, 3)
			return s
		},
	}

	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("most recent first and deduplicated", func(t *testing.T) {
				s := newStore(t)
				for _, q := range []string{"cloud", "design", "cloud"} {
					require.NoError(t, s.Record(ctx, "v1", q))
				}
				got, err := s.Recent(ctx, "v1", 10)
				require.NoError(t, err)
				assert.Equal(t, []string{"cloud", "design"}, got)
			})

			t.Run("capped", func(t *testing.T) {
				s := newStore(t)
				for _, q := range []string{"a1", "b2", "c3", "d4"} {
					require.NoError(t, s.Record(ctx, "v1", q))
				}
				got, err := s.Recent(ctx, "v1", 0)
				require.NoError(t, err)
				assert.Equal(t, []string{"d4", "c3", "b2"}, got)

				got, err = s.Recent(ctx, "v1", 1)
				require.NoError(t, err)
				assert.Equal(t, []string{"d4"}, got)
			})

			t.Run("visitors are isolated", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Record(ctx, "v1", "pricing"))
				got, err := s.Recent(ctx, "v2", 5)
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("whitespace is collapsed and blanks ignored", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Record(ctx, "v1", "  web   design "))
				require.NoError(t, s.Record(ctx, "v1", "   "))
				got, err := s.Recent(ctx, "v1", 5)
				require.NoError(t, err)
				assert.Equal(t, []string{"web design"}, got)
			})

			t.Run("case-insensitive dedupe", func(t *testing.T) {
				s := newStore(t)
				require.NoError(t, s.Record(ctx, "v1", "web"))
				require.NoError(t, s.Record(ctx, "v1", "pricing"))
				require.NoError(t, s.Record(ctx, "v1", "Web"))
				got, err := s.Recent(ctx, "v1", 5)
				require.NoError(t, err)
				assert.Equal(t, []string{"web", "pricing"}, got)
			})

			t.Run("empty visitor", func(t *testing.T) {
				s := newStore(t)
				assert.ErrorIs(t, s.Record(ctx, "", "x"), ErrEmptyVisitor)
				_, err := s.Recent(ctx, "", 1)
				assert.ErrorIs(t, err, ErrEmptyVisitor)
			})
		})
	}
}

func TestMemoryStore_EvictsVisitors(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(2, 5)
	require.NoError(t, err)

	for i := range 3 {
		require.NoError(t, s.Record(ctx, fmt.Sprintf("v%d", i), "query"))
	}

	got, err := s.Recent(ctx, "v0", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Recent(ctx, "v2", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"query"}, got)
}

func TestMemoryStore_ConcurrentRecords(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(10, 100)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Record(ctx, "v", fmt.Sprintf("q%d", i)))
		}()
	}
	wg.Wait()

	got, err := s.Recent(ctx, "v", 0)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestRedisStore_SetsTTL(t *testing.T) {
	s, mr := newRedisStore(t, 5)
	require.NoError(t, s.Record(context.Background(), "v1", "audit"))

	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"v1"))
	assert.Equal(t, "redis", s.Name())
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "not-a-url", 5)
	require.Error(t, err)
}
