package ringbuf

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTextLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "enqueue", OpEnqueue.String())
	assert.Equal(t, "dequeue", OpDequeue.String())
	assert.Equal(t, "reset", OpReset.String())
	assert.Equal(t, "unknown", Op(42).String())
}

func TestPrintFuncLogsTransitions(t *testing.T) {
	var out bytes.Buffer
	rb, _ := newIntRing(t, 3, WithLogger(newTextLogger(&out, slog.LevelDebug)))
	rb.SetPrintFunc(func(v int32) string { return strconv.Itoa(int(v)) })
	out.Reset()

	require.NoError(t, rb.Push(4))
	require.NoError(t, rb.Push(5))
	_, err := rb.Pop()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `msg="ring buffer enqueue"`)
	assert.Contains(t, lines[0], "elem=4")
	assert.Contains(t, lines[1], `contents="4 5"`)
	assert.Contains(t, lines[2], `msg="ring buffer dequeue"`)
	assert.Contains(t, lines[2], "count=1")
	assert.Contains(t, lines[2], "contents=5")
}

func TestPrintFuncEmptyContents(t *testing.T) {
	var out bytes.Buffer
	rb, err := NewBytes(make([]byte, 2), 2, 1, WithLogger(newTextLogger(&out, slog.LevelDebug)))
	require.NoError(t, err)
	rb.SetPrintFunc(func(b []byte) string { return string(b) })
	out.Reset()

	require.NoError(t, rb.Enqueue([]byte("q")))
	require.NoError(t, rb.Dequeue(nil))

	assert.Contains(t, out.String(), `contents=(empty)`)
	assert.NotContains(t, strings.Split(strings.TrimSpace(out.String()), "\n")[1], "elem=")
}

func TestPrintFuncSilentAboveDebug(t *testing.T) {
	var out bytes.Buffer
	rb, _ := newIntRing(t, 2, WithLogger(newTextLogger(&out, slog.LevelInfo)))

	rendered := 0
	rb.SetPrintFunc(func(v int32) string {
		rendered++
		return ""
	})
	require.NoError(t, rb.Push(1))

	assert.Empty(t, out.String())
	assert.Zero(t, rendered, "renderer must not run when debug is off")
}

func TestPrintFuncNilDisables(t *testing.T) {
	var out bytes.Buffer
	rb, _ := newIntRing(t, 2, WithLogger(newTextLogger(&out, slog.LevelDebug)))
	rb.SetPrintFunc(func(v int32) string { return "v" })
	rb.SetPrintFunc(nil)
	out.Reset()

	require.NoError(t, rb.Push(1))
	assert.Empty(t, out.String())
}

func TestRenderContentsEmptyElements(t *testing.T) {
	rb, _ := newIntRing(t, 2)
	require.NoError(t, rb.Push(1))
	require.NoError(t, rb.Push(2))

	got := renderContents(rb.All(), func(int32) string { return "" })
	assert.Equal(t, " ", got)
}
