package fileproc

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCollectsAllResults(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	results := Map(items, 8, func(n int) (int, error) {
		return n * 2, nil
	}, nil, nil)

	sort.Ints(results)
	assert.Len(t, results, 100)
	assert.Equal(t, 0, results[0])
	assert.Equal(t, 198, results[99])
}

func TestMapEmptyInput(t *testing.T) {
	assert.Nil(t, Map(nil, 4, func(s string) (string, error) { return s, nil }, nil, nil))
}

func TestMapSkipsFailedItems(t *testing.T) {
	items := []int{1, 2, 3, 4}

	var mu sync.Mutex
	var failed []int
	results := Map(items, 2, func(n int) (int, error) {
		if n%2 == 0 {
			return 0, errors.New("even")
		}
		return n, nil
	}, nil, func(item int, err error) {
		mu.Lock()
		failed = append(failed, item)
		mu.Unlock()
	})

	sort.Ints(results)
	sort.Ints(failed)
	assert.Equal(t, []int{1, 3}, results)
	assert.Equal(t, []int{2, 4}, failed)
}

func TestMapReportsProgressPerItem(t *testing.T) {
	items := []string{"a", "b", "c"}

	var ticks atomic.Int64
	Map(items, 0, func(s string) (string, error) {
		return strconv.Quote(s), nil
	}, func() {
		ticks.Add(1)
	}, nil)

	assert.Equal(t, int64(3), ticks.Load())
}
