package main

import (
	"context"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/c360/ringbuf/config"
	"github.com/c360/ringbuf/errors"
	"github.com/c360/ringbuf/health"
	"github.com/c360/ringbuf/metric"
	"github.com/c360/ringbuf/pkg/ringbuf"
)

// record is the structured element used by the record scenarios.
type record struct {
	ID   int32
	Name string
}

func (r record) String() string {
	return fmt.Sprintf("{%d, '%s'}", r.ID, r.Name)
}

// scenarioFunc exercises one buffer shape and returns an error on any unexpected outcome.
type scenarioFunc func(ctx context.Context, r *Runner) error

var scenarios = map[string]scenarioFunc{
	config.ScenarioChar:        runChar,
	config.ScenarioInt:         runInt,
	config.ScenarioRecord:      runRecord,
	config.ScenarioRecordBytes: runRecordBytes,
}

// Runner executes scenarios against freshly bound buffers.
type Runner struct {
	cfg      config.RingConfig
	logger   *slog.Logger
	registry *metric.MetricsRegistry
	monitor  *health.Monitor

	// per-scenario state, reset by runOne
	name     string
	buf      ringbuf.Buffer
	refusals int
}

// NewRunner creates a scenario runner. registry may be nil to skip metrics.
func NewRunner(cfg config.RingConfig, logger *slog.Logger, registry *metric.MetricsRegistry) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger, registry: registry}
}

// WithHealth reports the outcome of every scenario to monitor.
func (r *Runner) WithHealth(monitor *health.Monitor) *Runner {
	r.monitor = monitor
	return r
}

// Run executes the named scenarios in order and stops at the first failure.
// Duplicate names run once.
func (r *Runner) Run(ctx context.Context, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		fn, ok := scenarios[name]
		if !ok {
			return errors.WrapInvalid(fmt.Errorf("%w: unknown scenario %q", errors.ErrInvalidConfig, name),
				"Runner", "Run", "lookup scenario")
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.runOne(ctx, name, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, name string, fn scenarioFunc) error {
	r.name = name
	r.buf = nil
	r.refusals = 0
	r.logger.Info("==== scenario start ====", "scenario", name)

	start := time.Now()
	err := fn(ctx, r)
	elapsed := time.Since(start)

	if r.registry != nil {
		core := r.registry.CoreMetrics()
		core.RecordScenarioDuration(name, elapsed)
		core.RecordScenarioRun(name, err == nil)
		if err != nil {
			core.RecordError(name, errors.Classify(err).String())
		}
	}

	r.reportHealth(err, elapsed)

	if err != nil {
		r.logger.Error("scenario failed", "scenario", name, "error", err, "duration", elapsed)
		return err
	}
	r.logger.Info("==== scenario end ====", "scenario", name, "duration", elapsed)
	return nil
}

func (r *Runner) reportHealth(err error, elapsed time.Duration) {
	if r.monitor == nil {
		return
	}

	var status health.Status
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		status = health.NewDegraded(r.name, "interrupted")
	} else {
		status = health.FromError(r.name, err, "passed")
	}

	m := &health.Metrics{Duration: elapsed, ErrorCount: r.refusals}
	if err != nil {
		m.ErrorCount++
	}
	if r.buf != nil {
		m.Enqueues = r.buf.Stats().Enqueues()
		m.Dequeues = r.buf.Stats().Dequeues()
	}
	r.monitor.Update(r.name, status.WithMetrics(m))
}

// track remembers the scenario's buffer for health reporting.
func (r *Runner) track(b ringbuf.Buffer) {
	r.buf = b
}

// options returns the buffer options shared by every scenario.
func (r *Runner) options() []ringbuf.Option {
	opts := []ringbuf.Option{
		ringbuf.WithLogger(r.logger.With("scenario", r.name)),
		ringbuf.WithClearOnRemove(r.cfg.ClearOnRemove),
	}
	if r.registry != nil {
		opts = append(opts, ringbuf.WithMetrics(r.registry, r.name))
	}
	return opts
}

// expectRejected checks that err is the transient refusal want and counts it.
func (r *Runner) expectRejected(err, want error, step string) error {
	if !stderrors.Is(err, want) {
		return r.mismatch(step, "expected %v, got %v", want, err)
	}
	r.refusals++
	if r.registry != nil {
		r.registry.CoreMetrics().RecordError(r.name, errors.Classify(err).String())
	}
	r.logger.Debug("refused as expected", "scenario", r.name, "step", step, "error", err)
	return nil
}

func (r *Runner) mismatch(step, format string, args ...any) error {
	return errors.WrapFatal(fmt.Errorf(format, args...), "Scenario", r.name, step)
}

func (r *Runner) logState(b ringbuf.Buffer, dump string) {
	r.logger.Info("ring buffer state", "scenario", r.name, "state", b.State().String())
	if dump != "" {
		r.logger.Info("hex dump", "scenario", r.name, "bytes", strings.Count(dump, " ")+1, "dump", dump)
	}
}

func (r *Runner) logStats(b ringbuf.Buffer) {
	s := b.Stats().Summary()
	r.logger.Info("ring buffer stats", "scenario", r.name,
		"enqueues", s.Enqueues, "dequeues", s.Dequeues,
		"rejected_full", s.RejectedFull, "rejected_empty", s.RejectedEmpty,
		"max_size", s.MaxSize)
}

// hexDump renders fixed-size storage the way it is laid out in memory (little endian).
func hexDump(data any) string {
	raw, err := binary.Append(nil, binary.LittleEndian, data)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("% x", raw)
}

// runChar fills one-byte elements with letters, wraps once and drains.
func runChar(_ context.Context, r *Runner) error {
	capacity := r.cfg.Capacity
	storage := make([]byte, capacity)
	rb, err := ringbuf.NewBytes(storage, capacity, 1, r.options()...)
	if err != nil {
		return err
	}
	r.track(rb)
	rb.SetPrintFunc(func(b []byte) string { return string(b[:1]) })
	r.logState(rb, "")

	var want []byte
	for i := 0; i < capacity; i++ {
		c := byte('a' + i%26)
		if err := rb.Enqueue([]byte{c}); err != nil {
			return r.mismatch("fill", "enqueue %q: %v", c, err)
		}
		want = append(want, c)
	}
	if err := r.expectRejected(rb.Enqueue([]byte{'!'}), ringbuf.ErrFull, "overfill"); err != nil {
		return err
	}

	out := make([]byte, 1)
	if err := rb.Dequeue(out); err != nil {
		return r.mismatch("wrap", "dequeue: %v", err)
	}
	if out[0] != want[0] {
		return r.mismatch("wrap", "dequeued %q, want %q", out[0], want[0])
	}
	if err := rb.Enqueue([]byte{'Z'}); err != nil {
		return r.mismatch("wrap", "enqueue after dequeue: %v", err)
	}
	want = append(want[1:], 'Z')
	r.logState(rb, rb.HexDump())

	got := make([]byte, 0, capacity)
	for i := 0; i < capacity; i++ {
		if err := rb.Dequeue(out); err != nil {
			return r.mismatch("drain", "dequeue %d: %v", i, err)
		}
		got = append(got, out[0])
	}
	if !slices.Equal(got, want) {
		return r.mismatch("drain", "drained %q, want %q", got, want)
	}
	if err := r.expectRejected(rb.Dequeue(out), ringbuf.ErrEmpty, "overdrain"); err != nil {
		return err
	}
	r.logState(rb, rb.HexDump())
	r.logStats(rb)
	return nil
}

// runInt does the same walk with typed int32 elements.
func runInt(_ context.Context, r *Runner) error {
	capacity := r.cfg.Capacity
	storage := make([]int32, capacity)
	rb, err := ringbuf.New(storage, capacity, r.options()...)
	if err != nil {
		return err
	}
	r.track(rb)
	rb.SetPrintFunc(func(v int32) string { return strconv.Itoa(int(v)) })
	r.logState(rb, "")

	var want []int32
	for i := 0; i < capacity; i++ {
		v := int32(i + 1)
		if err := rb.Push(v); err != nil {
			return r.mismatch("fill", "push %d: %v", v, err)
		}
		want = append(want, v)
	}
	if err := r.expectRejected(rb.Push(-1), ringbuf.ErrFull, "overfill"); err != nil {
		return err
	}

	v, err := rb.Pop()
	if err != nil {
		return r.mismatch("wrap", "pop: %v", err)
	}
	v *= 10
	if err := rb.Push(v); err != nil {
		return r.mismatch("wrap", "push after pop: %v", err)
	}
	want = append(want[1:], v)
	r.logState(rb, hexDump(storage))

	got := slices.Collect(rb.All())
	if !slices.Equal(got, want) {
		return r.mismatch("inspect", "contents %v, want %v", got, want)
	}
	for range capacity {
		if _, err := rb.Pop(); err != nil {
			return r.mismatch("drain", "pop: %v", err)
		}
	}
	_, err = rb.Pop()
	if err := r.expectRejected(err, ringbuf.ErrEmpty, "overdrain"); err != nil {
		return err
	}
	r.logState(rb, hexDump(storage))
	r.logStats(rb)
	return nil
}

// truncateName keeps at most n-1 bytes of name, like a bounded C string copy.
func truncateName(name string, n int) string {
	if len(name) > n-1 {
		return name[:n-1]
	}
	return name
}

// runRecord moves structured elements through a copy hook that truncates names.
func runRecord(_ context.Context, r *Runner) error {
	capacity := r.cfg.Capacity
	nameLen := r.cfg.NameLength
	storage := make([]record, capacity)
	rb, err := ringbuf.New(storage, capacity, r.options()...)
	if err != nil {
		return err
	}
	r.track(rb)
	rb.SetCopyFunc(func(dst, src *record) {
		dst.ID = src.ID
		dst.Name = truncateName(src.Name, nameLen)
	})
	rb.SetPrintFunc(record.String)
	r.logState(rb, "")

	var want []record
	for i := 0; i < capacity; i++ {
		rec := record{ID: int32(100 + i), Name: fmt.Sprintf("name_%d", i)}
		if err := rb.Enqueue(&rec); err != nil {
			return r.mismatch("fill", "enqueue %v: %v", rec, err)
		}
		rec.Name = truncateName(rec.Name, nameLen)
		want = append(want, rec)
	}
	overflow := record{ID: -1}
	if err := r.expectRejected(rb.Enqueue(&overflow), ringbuf.ErrFull, "overfill"); err != nil {
		return err
	}

	var out record
	if err := rb.Dequeue(&out); err != nil {
		return r.mismatch("wrap", "dequeue: %v", err)
	}
	zero := record{}
	if err := rb.Enqueue(&zero); err != nil {
		return r.mismatch("wrap", "enqueue zero record: %v", err)
	}
	want = append(want[1:], zero)
	r.logState(rb, "")

	for i := range want {
		if err := rb.Dequeue(&out); err != nil {
			return r.mismatch("drain", "dequeue %d: %v", i, err)
		}
		if out != want[i] {
			return r.mismatch("drain", "element %d is %v, want %v", i, out, want[i])
		}
	}
	if err := r.expectRejected(rb.Dequeue(&out), ringbuf.ErrEmpty, "overdrain"); err != nil {
		return err
	}

	long := record{ID: 7, Name: strings.Repeat("x", nameLen*2)}
	if err := rb.Enqueue(&long); err != nil {
		return r.mismatch("truncate", "enqueue long name: %v", err)
	}
	if err := rb.Dequeue(&out); err != nil {
		return r.mismatch("truncate", "dequeue long name: %v", err)
	}
	if len(out.Name) != nameLen-1 {
		return r.mismatch("truncate", "name kept %d bytes, want %d", len(out.Name), nameLen-1)
	}
	r.logState(rb, "")
	r.logStats(rb)
	return nil
}

// recordCodec packs a record into a fixed layout: little-endian int32 id followed
// by a zero-terminated name field of nameLen bytes.
type recordCodec struct {
	nameLen int
}

func (c recordCodec) size() int {
	return 4 + c.nameLen
}

func (c recordCodec) encode(dst []byte, rec record) {
	binary.LittleEndian.PutUint32(dst[:4], uint32(rec.ID))
	name := dst[4:c.size()]
	clear(name)
	copy(name, truncateName(rec.Name, c.nameLen))
}

func (c recordCodec) decode(src []byte) record {
	name := src[4:c.size()]
	if i := slices.Index(name, 0); i >= 0 {
		name = name[:i]
	}
	return record{
		ID:   int32(binary.LittleEndian.Uint32(src[:4])),
		Name: string(name),
	}
}

// runRecordBytes stores encoded records as opaque fixed-size byte elements in
// heap-allocated storage.
func runRecordBytes(_ context.Context, r *Runner) error {
	capacity := r.cfg.Capacity
	codec := recordCodec{nameLen: r.cfg.NameLength}
	storage := make([]byte, capacity*codec.size())
	rb, err := ringbuf.NewBytes(storage, capacity, codec.size(), r.options()...)
	if err != nil {
		return err
	}
	r.track(rb)
	rb.SetPrintFunc(func(b []byte) string { return codec.decode(b).String() })
	r.logState(rb, "")

	elem := make([]byte, codec.size())
	var want []record
	for i := 0; i < capacity; i++ {
		rec := record{ID: int32(100 + i), Name: fmt.Sprintf("name_%d", i)}
		codec.encode(elem, rec)
		if err := rb.Enqueue(elem); err != nil {
			return r.mismatch("fill", "enqueue %v: %v", rec, err)
		}
		want = append(want, codec.decode(elem))
	}
	if err := r.expectRejected(rb.Enqueue(elem), ringbuf.ErrFull, "overfill"); err != nil {
		return err
	}

	if err := rb.Dequeue(nil); err != nil {
		return r.mismatch("wrap", "discard head: %v", err)
	}
	clear(elem)
	if err := rb.Enqueue(elem); err != nil {
		return r.mismatch("wrap", "enqueue zero record: %v", err)
	}
	want = append(want[1:], record{})
	r.logState(rb, rb.HexDump())

	out := make([]byte, codec.size())
	for i := range want {
		if err := rb.Dequeue(out); err != nil {
			return r.mismatch("drain", "dequeue %d: %v", i, err)
		}
		if got := codec.decode(out); got != want[i] {
			return r.mismatch("drain", "element %d is %v, want %v", i, got, want[i])
		}
	}
	if err := r.expectRejected(rb.Dequeue(out), ringbuf.ErrEmpty, "overdrain"); err != nil {
		return err
	}
	r.logState(rb, rb.HexDump())
	r.logStats(rb)
	return nil
}
