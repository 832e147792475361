package loader

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"moviehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	mu      sync.Mutex
	users   map[string]models.User
	batches [][]string
	err     error
}

func newCountingFetcher(ids ...string) *countingFetcher {
	f := &countingFetcher{users: make(map[string]models.User)}
	for _, id := range ids {
		f.users[id] = models.User{ID: id, Name: "name-" + id}
	}
	return f
}

func (f *countingFetcher) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := append([]string(nil), ids...)
	sort.Strings(keys)
	f.batches = append(f.batches, keys)

	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *countingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func TestUserLoader_CollapsesConcurrentLoads(t *testing.T) {
	f := newCountingFetcher("a", "b", "c")
	l := NewUserLoader(f, WithWait(20*time.Millisecond))
	ctx := context.Background()

	ids := []string{"a", "b", "c", "a", "b", "c", "a"}
	results := make([]*models.User, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := l.Load(ctx, id)
			assert.NoError(t, err)
			results[i] = u
		}()
	}
	wg.Wait()

	require.Equal(t, 1, f.calls())
	assert.Equal(t, []string{"a", "b", "c"}, f.batches[0])
	for i, id := range ids {
		require.NotNil(t, results[i])
		assert.Equal(t, id, results[i].ID)
	}
}

func TestUserLoader_LoadManyAlignsAndReturnsNilForUnknown(t *testing.T) {
	f := newCountingFetcher("a", "b")
	l := NewUserLoader(f)

	users, err := l.LoadMany(context.Background(), []string{"b", "missing", "a", "b"})
	require.NoError(t, err)
	require.Len(t, users, 4)

	assert.Equal(t, "b", users[0].ID)
	assert.Nil(t, users[1])
	assert.Equal(t, "a", users[2].ID)
	assert.Equal(t, "b", users[3].ID)
	assert.Equal(t, 1, f.calls())
}

func TestUserLoader_Memoises(t *testing.T) {
	f := newCountingFetcher("a")
	l := NewUserLoader(f)
	ctx := context.Background()

	first, err := l.Load(ctx, "a")
	require.NoError(t, err)
	second, err := l.Load(ctx, "a")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.calls())
}

func TestUserLoader_MaxBatchSplits(t *testing.T) {
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = fmt.Sprintf("u%d", i)
	}
	f := newCountingFetcher(ids...)
	l := NewUserLoader(f, WithMaxBatch(2), WithWait(50*time.Millisecond))

	users, err := l.LoadMany(context.Background(), ids)
	require.NoError(t, err)
	for i, u := range users {
		assert.Equal(t, ids[i], u.ID)
	}
	assert.Equal(t, 3, f.calls())
}

func TestUserLoader_ErrorIsNotMemoised(t *testing.T) {
	f := newCountingFetcher("a")
	f.err = errors.New("db down")
	l := NewUserLoader(f)
	ctx := context.Background()

	_, err := l.Load(ctx, "a")
	assert.EqualError(t, err, "db down")

	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()

	u, err := l.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", u.ID)
	assert.Equal(t, 2, f.calls())
}

func TestUserLoaderContext(t *testing.T) {
	assert.Nil(t, UserLoaderFromContext(context.Background()))

	l := NewUserLoader(newCountingFetcher())
	ctx := WithUserLoader(context.Background(), l)
	assert.Same(t, l, UserLoaderFromContext(ctx))
}
