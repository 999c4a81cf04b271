package zcio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader plays back a fixed sequence of Read results and counts how
// often it was called. An exhausted script reads as EOF.
type scriptedReader struct {
	steps []scriptStep
	calls int
}

type scriptStep struct {
	data []byte
	err  error
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	r.calls++
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	st := r.steps[0]
	r.steps = r.steps[1:]
	return copy(p, st.data), st.err
}

// skipSource is a scriptedReader with a native Skip whose behavior is
// injected per test.
type skipSource struct {
	scriptedReader
	skipCalls []int
	skipFn    func(count int) (int, error)
}

func (s *skipSource) Skip(count int) (int, error) {
	s.skipCalls = append(s.skipCalls, count)
	return s.skipFn(count)
}

// =============================================================================
// SourceAdapter Next / BackUp Tests
// =============================================================================

func TestSourceAdapter_ReplayAfterBackUp(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("ABCDEFGH"), 4)

	chunk, err := a.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("ABCD"), chunk)

	a.BackUp(2)

	chunk, err = a.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("CD"), chunk)

	chunk, err = a.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("EFGH"), chunk)

	_, err = a.Next()
	require.Equal(t, io.EOF, err)

	assert.Equal(t, int64(8), a.ByteCount())
}

func TestSourceAdapter_ByteCountExcludesBackup(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("ABCDEFGH"), 4)

	_, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.ByteCount())

	a.BackUp(3)
	assert.Equal(t, int64(1), a.ByteCount())

	_, err = a.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(4), a.ByteCount())
}

func TestSourceAdapter_DefaultBlockSize(t *testing.T) {
	data := bytes.Repeat([]byte("x"), DefaultBlockSize+100)
	a := NewSourceAdapter(bytes.NewReader(data), 0)

	chunk, err := a.Next()
	require.NoError(t, err)
	assert.Len(t, chunk, DefaultBlockSize)
}

func TestSourceAdapter_EOFIdempotent(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{data: []byte("hi")}}}
	a := NewSourceAdapter(src, 4)

	_, err := a.Next()
	require.NoError(t, err)

	_, err = a.Next()
	require.Equal(t, io.EOF, err)
	callsAtEOF := src.calls

	// Once EOF has been reported, the source must not be polled again.
	for i := 0; i < 3; i++ {
		_, err = a.Next()
		assert.Equal(t, io.EOF, err)
	}
	assert.Error(t, a.Skip(1))
	assert.Equal(t, callsAtEOF, src.calls)
	assert.Equal(t, int64(2), a.ByteCount())
}

func TestSourceAdapter_ZeroNilReadIsEOF(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{}}}
	a := NewSourceAdapter(src, 4)

	_, err := a.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSourceAdapter_FailureLatches(t *testing.T) {
	boom := errors.New("device on fire")
	src := &scriptedReader{steps: []scriptStep{
		{data: []byte("ok")},
		{err: boom},
	}}
	a := NewSourceAdapter(src, 4)

	_, err := a.Next()
	require.NoError(t, err)

	_, err = a.Next()
	require.Equal(t, boom, err)
	callsAtFailure := src.calls

	// All later operations fail immediately without touching the source.
	_, err = a.Next()
	assert.Equal(t, boom, err)
	assert.Equal(t, boom, a.Skip(1))
	assert.Equal(t, callsAtFailure, src.calls)
	assert.Equal(t, int64(2), a.ByteCount())
}

func TestSourceAdapter_DataWithErrorInOneRead(t *testing.T) {
	boom := errors.New("late error")
	src := &scriptedReader{steps: []scriptStep{{data: []byte("abc"), err: boom}}}
	a := NewSourceAdapter(src, 8)

	chunk, err := a.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), chunk)

	// The deferred error surfaces on the following call without a new read.
	calls := src.calls
	_, err = a.Next()
	assert.Equal(t, boom, err)
	assert.Equal(t, calls, src.calls)
}

func TestSourceAdapter_DataWithEOFInOneRead(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{data: []byte("abc"), err: io.EOF}}}
	a := NewSourceAdapter(src, 8)

	chunk, err := a.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), chunk)

	calls := src.calls
	_, err = a.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, calls, src.calls)
}

// =============================================================================
// SourceAdapter Skip Tests
// =============================================================================

func TestSourceAdapter_SkipWithinBackup(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{
		{data: []byte("ABCD")},
		{data: []byte("EFGH")},
	}}
	a := NewSourceAdapter(src, 4)

	_, err := a.Next()
	require.NoError(t, err)
	a.BackUp(4)

	// Entirely satisfied by backed-up bytes: no I/O.
	calls := src.calls
	require.NoError(t, a.Skip(2))
	assert.Equal(t, calls, src.calls)
	assert.Equal(t, int64(2), a.ByteCount())

	chunk, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("CD"), chunk)
}

func TestSourceAdapter_SkipBeyondBackup(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("ABCDEFGH"), 4)

	_, err := a.Next()
	require.NoError(t, err)
	a.BackUp(2)

	// 2 bytes come out of the backup, 3 more from the source.
	require.NoError(t, a.Skip(5))
	assert.Equal(t, int64(7), a.ByteCount())

	chunk, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("H"), chunk)
}

func TestSourceAdapter_SkipDelegatesToNativeSkip(t *testing.T) {
	src := &skipSource{
		skipFn: func(count int) (int, error) { return count, nil },
	}
	src.steps = []scriptStep{{data: []byte("ABCD")}}
	a := NewSourceAdapter(src, 4)

	require.NoError(t, a.Skip(100))
	require.Equal(t, []int{100}, src.skipCalls)
	assert.Equal(t, int64(100), a.ByteCount())
}

func TestSourceAdapter_ShortSkipAtEOF(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("ABCD"), 4)

	err := a.Skip(10)
	require.Equal(t, io.ErrUnexpectedEOF, err)

	// The stream advanced to its true end.
	assert.Equal(t, int64(4), a.ByteCount())
	_, err = a.Next()
	assert.Equal(t, io.EOF, err)
}

func TestSourceAdapter_ShortSkipOnError(t *testing.T) {
	boom := errors.New("skip failed")
	src := &skipSource{
		skipFn: func(count int) (int, error) { return 3, boom },
	}
	a := NewSourceAdapter(src, 4)

	err := a.Skip(10)
	require.Equal(t, boom, err)
	assert.Equal(t, int64(3), a.ByteCount())

	_, err = a.Next()
	assert.Equal(t, boom, err)
}

func TestSourceAdapter_ZeroSkipAfterEOF(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("AB"), 4)

	_, err := a.Next()
	require.NoError(t, err)
	_, err = a.Next()
	require.Equal(t, io.EOF, err)

	// Skipping nothing is trivially satisfied even at end of stream.
	require.NoError(t, a.Skip(0))
	assert.Equal(t, io.ErrUnexpectedEOF, a.Skip(1))
}

func TestSourceAdapter_SkipNegativePanics(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("AB"), 4)
	require.Panics(t, func() { a.Skip(-1) })
}

// =============================================================================
// SourceAdapter Contract Violation Tests
// =============================================================================

func TestSourceAdapter_BackUpWithoutNextPanics(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("AB"), 4)
	require.Panics(t, func() { a.BackUp(1) })
}

func TestSourceAdapter_BackUpNegativePanics(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("AB"), 4)
	_, err := a.Next()
	require.NoError(t, err)
	require.Panics(t, func() { a.BackUp(-1) })
}

func TestSourceAdapter_DoubleBackUpPanics(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("ABCD"), 4)
	_, err := a.Next()
	require.NoError(t, err)

	// A second BackUp would silently shrink the pending replay (dropping
	// backed-up bytes) if it were accepted; it must fail loudly instead.
	a.BackUp(3)
	require.Panics(t, func() { a.BackUp(1) })

	chunk, err := a.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("BCD"), chunk)
}

func TestSourceAdapter_BackUpTooFarPanics(t *testing.T) {
	a := NewSourceAdapter(strings.NewReader("AB"), 4)
	_, err := a.Next()
	require.NoError(t, err)
	require.Panics(t, func() { a.BackUp(3) })
}

// =============================================================================
// SkipByReading Tests
// =============================================================================

func TestSkipByReading_Full(t *testing.T) {
	r := strings.NewReader(strings.Repeat("z", 10000))
	n, err := SkipByReading(r, 9000)
	require.NoError(t, err)
	assert.Equal(t, 9000, n)
	assert.Equal(t, 1000, r.Len())
}

func TestSkipByReading_ShortAtEOF(t *testing.T) {
	n, err := SkipByReading(strings.NewReader("abcde"), 10)
	require.Equal(t, io.EOF, err)
	assert.Equal(t, 5, n)
}

func TestSkipByReading_ShortOnError(t *testing.T) {
	boom := errors.New("bad read")
	src := &scriptedReader{steps: []scriptStep{
		{data: []byte("abc")},
		{err: boom},
	}}
	n, err := SkipByReading(src, 10)
	require.Equal(t, boom, err)
	assert.Equal(t, 3, n)
}
