package ringbuf

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics tracks buffer operation counts. Counters are atomic so they may be
// read from another goroutine while the owning goroutine mutates the buffer.
type Statistics struct {
	enqueues      atomic.Int64
	dequeues      atomic.Int64
	peeks         atomic.Int64
	rejectedFull  atomic.Int64
	rejectedEmpty atomic.Int64
	nilEnqueues   atomic.Int64
	discards      atomic.Int64
	currentSize   atomic.Int64
	maxSize       atomic.Int64

	mu        sync.RWMutex
	startTime time.Time
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{
		startTime: time.Now(),
	}
}

// Enqueue records a successful enqueue.
func (s *Statistics) Enqueue() {
	s.enqueues.Add(1)
}

// Dequeue records a successful dequeue. Discarded dequeues count here too.
func (s *Statistics) Dequeue() {
	s.dequeues.Add(1)
}

// Peek records a successful peek.
func (s *Statistics) Peek() {
	s.peeks.Add(1)
}

// RejectFull records an enqueue refused because the buffer was full.
func (s *Statistics) RejectFull() {
	s.rejectedFull.Add(1)
}

// RejectEmpty records a dequeue or peek refused because the buffer was empty.
func (s *Statistics) RejectEmpty() {
	s.rejectedEmpty.Add(1)
}

// NilEnqueue records an enqueue of an absent element (a no-op).
func (s *Statistics) NilEnqueue() {
	s.nilEnqueues.Add(1)
}

// Discard records a dequeue whose element was dropped instead of copied out.
func (s *Statistics) Discard() {
	s.discards.Add(1)
}

// UpdateSize updates the current buffer size and the high-water mark.
func (s *Statistics) UpdateSize(size int64) {
	s.currentSize.Store(size)
	for {
		current := s.maxSize.Load()
		if size <= current || s.maxSize.CompareAndSwap(current, size) {
			return
		}
	}
}

// Enqueues returns the total number of successful enqueues.
func (s *Statistics) Enqueues() int64 {
	return s.enqueues.Load()
}

// Dequeues returns the total number of successful dequeues.
func (s *Statistics) Dequeues() int64 {
	return s.dequeues.Load()
}

// Peeks returns the total number of successful peeks.
func (s *Statistics) Peeks() int64 {
	return s.peeks.Load()
}

// RejectedFull returns the number of enqueues refused with ErrFull.
func (s *Statistics) RejectedFull() int64 {
	return s.rejectedFull.Load()
}

// RejectedEmpty returns the number of dequeues and peeks refused with ErrEmpty.
func (s *Statistics) RejectedEmpty() int64 {
	return s.rejectedEmpty.Load()
}

// NilEnqueues returns the number of no-op enqueues of absent elements.
func (s *Statistics) NilEnqueues() int64 {
	return s.nilEnqueues.Load()
}

// Discards returns the number of dequeues that dropped their element.
func (s *Statistics) Discards() int64 {
	return s.discards.Load()
}

// CurrentSize returns the current number of items in the buffer.
func (s *Statistics) CurrentSize() int64 {
	return s.currentSize.Load()
}

// MaxSize returns the maximum number of items the buffer has held.
func (s *Statistics) MaxSize() int64 {
	return s.maxSize.Load()
}

// Throughput returns the average number of enqueues per second.
func (s *Statistics) Throughput() float64 {
	elapsed := s.Uptime()
	if elapsed == 0 {
		return 0.0
	}
	return float64(s.Enqueues()) / elapsed.Seconds()
}

// FullRate returns the fraction of enqueue attempts refused with ErrFull (0.0 to 1.0).
func (s *Statistics) FullRate() float64 {
	rejected := s.RejectedFull()
	attempts := s.Enqueues() + rejected
	if attempts == 0 {
		return 0.0
	}
	return float64(rejected) / float64(attempts)
}

// Utilization returns the current buffer utilization as a fraction (0.0 to 1.0).
func (s *Statistics) Utilization(capacity int64) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.CurrentSize()) / float64(capacity)
}

// Uptime returns how long the statistics have been collected.
func (s *Statistics) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.startTime)
}

// Reset resets all statistics to zero.
func (s *Statistics) Reset() {
	s.enqueues.Store(0)
	s.dequeues.Store(0)
	s.peeks.Store(0)
	s.rejectedFull.Store(0)
	s.rejectedEmpty.Store(0)
	s.nilEnqueues.Store(0)
	s.discards.Store(0)
	s.currentSize.Store(0)
	s.maxSize.Store(0)

	s.mu.Lock()
	s.startTime = time.Now()
	s.mu.Unlock()
}

// StatsSummary is a snapshot of all statistics.
type StatsSummary struct {
	Enqueues      int64         `json:"enqueues"`
	Dequeues      int64         `json:"dequeues"`
	Peeks         int64         `json:"peeks"`
	RejectedFull  int64         `json:"rejected_full"`
	RejectedEmpty int64         `json:"rejected_empty"`
	NilEnqueues   int64         `json:"nil_enqueues"`
	Discards      int64         `json:"discards"`
	CurrentSize   int64         `json:"current_size"`
	MaxSize       int64         `json:"max_size"`
	Throughput    float64       `json:"throughput"`
	FullRate      float64       `json:"full_rate"`
	Uptime        time.Duration `json:"uptime"`
}

// Summary returns a snapshot of all statistics.
func (s *Statistics) Summary() StatsSummary {
	return StatsSummary{
		Enqueues:      s.Enqueues(),
		Dequeues:      s.Dequeues(),
		Peeks:         s.Peeks(),
		RejectedFull:  s.RejectedFull(),
		RejectedEmpty: s.RejectedEmpty(),
		NilEnqueues:   s.NilEnqueues(),
		Discards:      s.Discards(),
		CurrentSize:   s.CurrentSize(),
		MaxSize:       s.MaxSize(),
		Throughput:    s.Throughput(),
		FullRate:      s.FullRate(),
		Uptime:        s.Uptime(),
	}
}
