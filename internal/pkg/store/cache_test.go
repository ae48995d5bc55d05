package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachedCoalescesConcurrentFetches(t *testing.T) {
	cache := NewCache()

	var fetches int32
	fetch := func(context.Context) ([]string, error) {
		atomic.AddInt32(&fetches, 1)
		time.Sleep(50 * time.Millisecond)
		return []string{"a", "b"}, nil
	}

	var wg sync.WaitGroup
	results := make([][]string, 5)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := Cached(context.Background(), cache, "counties", fetch)
			require.NoError(t, err)
			results[i] = list
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&fetches))
	for _, list := range results {
		require.Equal(t, []string{"a", "b"}, list)
	}
}

func TestCachedResolvedValueReturnedWithoutRefetch(t *testing.T) {
	cache := NewCache()

	var fetches int32
	fetch := func(context.Context) ([]int, error) {
		atomic.AddInt32(&fetches, 1)
		return []int{1, 2, 3}, nil
	}

	first, err := Cached(context.Background(), cache, "items", fetch)
	require.NoError(t, err)
	second, err := Cached(context.Background(), cache, "items", fetch)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.EqualValues(t, 1, atomic.LoadInt32(&fetches))
}

func TestCachedFailureIsRetriable(t *testing.T) {
	cache := NewCache()

	calls := 0
	fetch := func(context.Context) ([]int, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("upstream down")
		}
		return []int{42}, nil
	}

	_, err := Cached(context.Background(), cache, "units", fetch)
	require.Error(t, err)

	list, err := Cached(context.Background(), cache, "units", fetch)
	require.NoError(t, err)
	require.Equal(t, []int{42}, list)
	require.Equal(t, 2, calls)
}

func TestCachedKeysAreIndependent(t *testing.T) {
	cache := NewCache()

	a, err := Cached(context.Background(), cache, "a", func(context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	require.NoError(t, err)

	b, err := Cached(context.Background(), cache, "b", func(context.Context) ([]string, error) {
		return []string{"b"}, nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{"a"}, a)
	require.Equal(t, []string{"b"}, b)
}
