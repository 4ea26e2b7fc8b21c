package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelize_CoversAllItems(t *testing.T) {
	for _, items := range []int{0, 1, 7, 100, 1000} {
		seen := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, count := range seen {
			if count != 1 {
				t.Errorf("items=%d: index %d visited %d times, want 1", items, i, count)
			}
		}
	}
}

func TestParallelizeWithThreshold_Sequential(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, 100, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("range = [%d, %d), want [0, 10)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (sequential path)", calls)
	}
}

func TestSum(t *testing.T) {
	// Sum of 0..n-1 in both the sequential and parallel regimes.
	for _, items := range []int{5, 5000} {
		got := Sum(items, 100, func(start, end int) float64 {
			var s float64
			for i := start; i < end; i++ {
				s += float64(i)
			}
			return s
		})
		want := float64(items*(items-1)) / 2
		if got != want {
			t.Errorf("Sum(%d) = %v, want %v", items, got, want)
		}
	}
}

func TestSum_Empty(t *testing.T) {
	got := Sum(0, 10, func(start, end int) float64 {
		var s float64
		for i := start; i < end; i++ {
			s++
		}
		return s
	})
	if got != 0 {
		t.Errorf("Sum(0) = %v, want 0", got)
	}
}
