package zcio

import "io"

// SourceAdapter implements the zero-copy Reader contract on top of an
// ordinary copying source (any io.Reader). It reads in blockSize chunks into
// an internal buffer and hands out views into that buffer.
//
// The source should avoid buffering of its own; SourceAdapter already reads
// in large blocks. If the source implements Skipper, bulk skips are
// delegated to it; otherwise SkipByReading is used.
//
// Lifecycle: the buffer is allocated lazily on first use and released on
// permanent EOF or failure. SourceAdapter does not own the source; closing
// it (if it is closable) remains the caller's responsibility.
type SourceAdapter struct {
	src       io.Reader
	buf       []byte
	blockSize int

	// used is the number of valid bytes in buf; backup is how many of its
	// tail bytes must be re-delivered before new data is read.
	used   int
	backup int

	// pos counts bytes pulled from the source; it is never reduced by BackUp.
	pos int64

	eof     bool
	err     error // latched permanent failure
	pending error // deferred error from a read that also returned data
}

var _ Reader = (*SourceAdapter)(nil)

// NewSourceAdapter returns a SourceAdapter reading from src in blocks of
// blockSize bytes. A blockSize <= 0 selects DefaultBlockSize.
func NewSourceAdapter(src io.Reader, blockSize int) *SourceAdapter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &SourceAdapter{src: src, blockSize: blockSize}
}

// Next implements Reader.Next.
//
// Backed-up bytes are replayed before any new read. A source read of zero
// bytes latches EOF; a read error latches failure. Both latched states
// short-circuit every later call without touching the source again.
func (a *SourceAdapter) Next() ([]byte, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.eof {
		return nil, io.EOF
	}

	if a.backup > 0 {
		// Replay data left over from a previous BackUp.
		view := a.buf[a.used-a.backup : a.used]
		a.backup = 0
		return view, nil
	}

	if a.pending != nil {
		err := a.pending
		a.pending = nil
		return nil, a.latch(err)
	}

	if a.buf == nil {
		a.buf = make([]byte, a.blockSize)
	}

	n, err := a.src.Read(a.buf)
	if n > 0 {
		a.used = n
		a.pos += int64(n)
		if err != nil {
			// Data plus an error in one call: deliver the data now, the
			// error on the next call.
			a.pending = err
		}
		return a.buf[:n], nil
	}
	if err == nil {
		// A (0, nil) read means no forward progress will be reported;
		// treat it as end of stream rather than spin.
		err = io.EOF
	}
	return nil, a.latch(err)
}

// BackUp implements Reader.BackUp.
func (a *SourceAdapter) BackUp(count int) {
	if a.buf == nil || a.used == 0 || a.backup != 0 {
		panic("zcio: BackUp called without a preceding Next")
	}
	if count < 0 {
		panic("zcio: BackUp count is negative")
	}
	if count > a.used {
		panic("zcio: BackUp past the last view returned by Next")
	}
	a.backup = count
}

// Skip implements Reader.Skip.
//
// Bytes pending replay are consumed first, without I/O. Any remainder is
// delegated to the source's native skip when available, falling back to
// SkipByReading.
func (a *SourceAdapter) Skip(count int) error {
	if count < 0 {
		panic("zcio: Skip count is negative")
	}
	if a.err != nil {
		return a.err
	}
	if a.eof {
		// A zero-byte skip is trivially satisfied even at end of stream.
		if count == 0 {
			return nil
		}
		return io.ErrUnexpectedEOF
	}

	if a.backup >= count {
		a.backup -= count
		return nil
	}
	count -= a.backup
	a.backup = 0

	var (
		skipped int
		err     error
	)
	if s, ok := a.src.(Skipper); ok {
		skipped, err = s.Skip(count)
	} else {
		skipped, err = SkipByReading(a.src, count)
	}
	a.pos += int64(skipped)
	if skipped == count {
		return nil
	}
	if err != nil && err != io.EOF {
		a.latch(err)
		return err
	}
	// Short skip at end of stream: the position now reflects the true end.
	a.latch(io.EOF)
	return io.ErrUnexpectedEOF
}

// ByteCount implements Reader.ByteCount.
func (a *SourceAdapter) ByteCount() int64 {
	return a.pos - int64(a.backup)
}

// latch records a terminal condition and releases the buffer. EOF latches
// separately from failure so that ByteCount stays queryable and EOF is not
// reported as an error state.
func (a *SourceAdapter) latch(err error) error {
	a.buf = nil
	a.used = 0
	a.backup = 0
	if err == io.EOF {
		a.eof = true
		return io.EOF
	}
	a.err = err
	return err
}
