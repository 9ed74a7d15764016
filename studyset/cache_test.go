package studyset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/andrewpaige1/nodebook-web/models"
)

func TestCacheCoalescesConcurrentFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := NewCache(time.Minute)
	release := make(chan struct{})
	var loads int32
	load := func(ctx context.Context) (*models.FlashcardSet, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return &models.FlashcardSet{Title: "shared"}, nil
	}

	var wg sync.WaitGroup
	results := make([]*models.FlashcardSet, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set, err := cache.Fetch(context.Background(), "id", load)
			assert.NoError(t, err)
			results[i] = set
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for _, set := range results {
		assert.Same(t, results[0], set)
	}
}

func TestCacheFetchSurvivesFirstCallerCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := NewCache(time.Minute)
	started := make(chan struct{})
	var once sync.Once
	release := make(chan struct{})
	load := func(ctx context.Context) (*models.FlashcardSet, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &models.FlashcardSet{Title: "shared"}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Fetch(ctx, "id", load)
		firstErr <- err
	}()
	<-started

	secondErr := make(chan error, 1)
	var second *models.FlashcardSet
	go func() {
		set, err := cache.Fetch(context.Background(), "id", load)
		second = set
		secondErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	close(release)

	require.NoError(t, <-secondErr)
	assert.Equal(t, "shared", second.Title)
	assert.NoError(t, <-firstErr)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCache(time.Minute)
	cache.now = func() time.Time { return now }

	_, err := cache.Fetch(context.Background(), "id", func(context.Context) (*models.FlashcardSet, error) {
		return &models.FlashcardSet{Title: "a"}, nil
	})
	require.NoError(t, err)

	_, ok := cache.Get("id")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("id")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len(), "expired entry is dropped on read")
}

func TestCachePrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewCache(time.Minute)
	cache.now = func() time.Time { return now }
	load := func(context.Context) (*models.FlashcardSet, error) {
		return &models.FlashcardSet{}, nil
	}

	_, err := cache.Fetch(context.Background(), "old", load)
	require.NoError(t, err)
	now = now.Add(50 * time.Second)
	_, err = cache.Fetch(context.Background(), "new", load)
	require.NoError(t, err)
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, cache.Prune())
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("new")
	assert.True(t, ok)
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewCache(time.Minute)
	boom := errors.New("boom")

	_, err := cache.Fetch(context.Background(), "id", func(context.Context) (*models.FlashcardSet, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok := cache.Get("id")
	assert.False(t, ok)
}

func TestCacheZeroTTLStoresNothing(t *testing.T) {
	cache := NewCache(0)
	_, err := cache.Fetch(context.Background(), "id", func(context.Context) (*models.FlashcardSet, error) {
		return &models.FlashcardSet{}, nil
	})
	require.NoError(t, err)

	_, ok := cache.Get("id")
	assert.False(t, ok)
}

func TestCacheEvict(t *testing.T) {
	cache := NewCache(time.Minute)
	_, err := cache.Fetch(context.Background(), "id", func(context.Context) (*models.FlashcardSet, error) {
		return &models.FlashcardSet{}, nil
	})
	require.NoError(t, err)

	cache.Evict("id")
	_, ok := cache.Get("id")
	assert.False(t, ok)
}
