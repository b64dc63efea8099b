package ringbuf

import (
	"strconv"
	"testing"
)

// BenchmarkRingPushPop benchmarks a push followed by a pop across capacities.
func BenchmarkRingPushPop(b *testing.B) {
	benchmarks := []struct {
		name     string
		capacity int
	}{
		{"Cap_8", 8},
		{"Cap_1024", 1024},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			rb, err := New(make([]int, bm.capacity), bm.capacity)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = rb.Push(i)
				_, _ = rb.Pop()
			}
		})
	}
}

// BenchmarkBytesEnqueueDequeue benchmarks byte elements of several sizes.
func BenchmarkBytesEnqueueDequeue(b *testing.B) {
	for _, size := range []int{1, 16, 256} {
		b.Run("Elem_"+strconv.Itoa(size), func(b *testing.B) {
			rb, err := NewBytes(make([]byte, 64*size), 64, size)
			if err != nil {
				b.Fatal(err)
			}
			elem := make([]byte, size)
			out := make([]byte, size)
			b.SetBytes(int64(size))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = rb.Enqueue(elem)
				_ = rb.Dequeue(out)
			}
		})
	}
}

// BenchmarkClearOnRemove compares dequeue cost with and without zero-fill.
func BenchmarkClearOnRemove(b *testing.B) {
	for _, enabled := range []bool{true, false} {
		name := "Off"
		if enabled {
			name = "On"
		}
		b.Run(name, func(b *testing.B) {
			rb, err := NewBytes(make([]byte, 8*4096), 8, 4096, WithClearOnRemove(enabled))
			if err != nil {
				b.Fatal(err)
			}
			elem := make([]byte, 4096)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = rb.Enqueue(elem)
				_ = rb.Dequeue(nil)
			}
		})
	}
}
