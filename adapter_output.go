package zcio

import "io"

// SinkAdapter implements the zero-copy Writer contract on top of an ordinary
// copying sink (any io.Writer). Callers obtain writable views with Next,
// fill some prefix, and retract the rest with BackUp; buffered bytes reach
// the sink when the buffer fills or Flush is called.
//
// The sink is treated as all-or-nothing per call: a Write that accepts fewer
// bytes than requested without an error is reported as io.ErrShortWrite and
// latches the adaptor. FileSink satisfies the all-or-nothing contract by
// resuming partial writes internally.
//
// SinkAdapter does not own the sink. Callers must Flush (directly or via a
// wrapping Close) before discarding the adaptor, or buffered bytes are lost.
type SinkAdapter struct {
	dst       io.Writer
	buf       []byte
	blockSize int

	// used counts bytes handed to the caller as writable and not retracted.
	used int

	// pos counts bytes successfully committed to the sink.
	pos int64

	err      error // latched permanent failure
	aliasing bool
}

var (
	_ Writer        = (*SinkAdapter)(nil)
	_ Flusher       = (*SinkAdapter)(nil)
	_ AliasedWriter = (*SinkAdapter)(nil)
)

// NewSinkAdapter returns a SinkAdapter writing to dst in blocks of blockSize
// bytes. A blockSize <= 0 selects DefaultBlockSize.
func NewSinkAdapter(dst io.Writer, blockSize int) *SinkAdapter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &SinkAdapter{dst: dst, blockSize: blockSize}
}

// Next implements Writer.Next.
//
// It returns a view over the unused remainder of the buffer, flushing first
// when the buffer is full. The entire returned view counts as used until the
// caller gives part of it back with BackUp.
func (a *SinkAdapter) Next() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.used == a.blockSize {
		if err := a.Flush(); err != nil {
			return nil, err
		}
	}
	if a.buf == nil {
		a.buf = make([]byte, a.blockSize)
	}
	view := a.buf[a.used:]
	a.used = a.blockSize
	return view, nil
}

// BackUp implements Writer.BackUp. Retracted bytes are never transmitted.
func (a *SinkAdapter) BackUp(count int) {
	if a.used != a.blockSize {
		panic("zcio: BackUp called without a preceding Next")
	}
	if count < 0 {
		panic("zcio: BackUp count is negative")
	}
	if count > a.used {
		panic("zcio: BackUp past the last view returned by Next")
	}
	a.used -= count
}

// Flush implements Flusher.Flush.
//
// Buffered bytes are committed with a single sink write. On failure the
// adaptor latches: the buffer storage is released, but the pending byte
// count is kept so ByteCount still reports everything logically written.
func (a *SinkAdapter) Flush() error {
	if a.err != nil {
		return a.err
	}
	if a.used == 0 {
		return nil
	}
	n, err := a.dst.Write(a.buf[:a.used])
	if err == nil && n < a.used {
		err = io.ErrShortWrite
	}
	if err != nil {
		a.err = err
		a.buf = nil
		return err
	}
	a.pos += int64(a.used)
	a.used = 0
	return nil
}

// ByteCount implements Writer.ByteCount: committed plus buffered bytes.
func (a *SinkAdapter) ByteCount() int64 {
	return a.pos + int64(a.used)
}

// EnableAliasing opts the adaptor in (or out) of aliased writes.
func (a *SinkAdapter) EnableAliasing(enabled bool) {
	a.aliasing = enabled
}

// AllowsAliasing implements AliasedWriter.AllowsAliasing.
func (a *SinkAdapter) AllowsAliasing() bool {
	return a.aliasing
}

// WriteAliased implements AliasedWriter.WriteAliased.
//
// Buffered bytes are flushed first so that p lands in order, then p is
// written directly to the sink without passing through the buffer.
func (a *SinkAdapter) WriteAliased(p []byte) error {
	if !a.aliasing {
		panic("zcio: WriteAliased on a writer without aliasing enabled")
	}
	if err := a.Flush(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	n, err := a.dst.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		a.err = err
		a.buf = nil
		return err
	}
	a.pos += int64(n)
	return nil
}
