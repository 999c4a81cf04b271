// Package zcio provides zero-copy stream contracts and adaptors that bridge
// them to ordinary copying I/O primitives. Instead of copying bytes into a
// caller-supplied buffer on every read or write, a zcio stream hands the
// caller a direct view into its internal buffer; the caller consumes (or
// fills) some prefix of that view and gives the rest back with BackUp.
//
// Key pieces:
//   - Reader / Writer: the zero-copy buffer-handoff contracts
//   - SourceAdapter / SinkAdapter: implement those contracts on top of any
//     io.Reader / io.Writer, with internal block buffering
//   - FileReader / FileWriter: the contracts over a raw Unix file descriptor,
//     with interrupt retry, seek-based skipping, and descriptor ownership
//   - BytesReader / BytesWriter: the contracts over an in-memory byte slice
//   - Copy / ReadAll: pump helpers built on the handoff contracts
//
// "Zero-copy" here means the caller's staging buffer is eliminated; one copy
// per transferred byte still happens between the stream's internal buffer and
// the underlying primitive. Kernel-level zero-copy (splice, scatter-gather)
// is out of scope for this package.
//
// Error model:
//
//	EOF is io.EOF and is not a failure: the stream stays queryable and
//	ByteCount remains valid. Transient interrupts (EINTR) are absorbed by
//	the file-backed primitives and never observed by callers. Any other
//	I/O error is permanent: the stream latches it, releases its buffer,
//	and every later call fails immediately with the same error. Contract
//	violations (BackUp without a preceding Next, negative or over-large
//	counts) are programmer errors and panic rather than silently clamp.
//
// Thread Safety:
//
//	Streams are NOT safe for concurrent use. A stream instance is
//	single-owner; callers sharing one must synchronize externally.
//
// Platform Support:
//
//   - FileSource, FileSink, FileReader, FileWriter: Unix-like systems only
//     (operations return syscall.ENOTSUP elsewhere)
//   - All other types: cross-platform
package zcio

import (
	"errors"
	"io"
)

// DefaultBlockSize is the internal buffer size used by the adaptors when the
// caller passes a block size <= 0.
const DefaultBlockSize = 8192

// skipScratchSize is the scratch buffer size used by SkipByReading.
const skipScratchSize = 4096

// ErrClosed is returned by file-backed streams when an operation is attempted
// on an already-closed descriptor, including a second Close. The misuse is
// reported, not fatal: the descriptor is not touched again.
var ErrClosed = errors.New("zcio: file already closed")

// Reader is the zero-copy input contract.
//
// A Reader owns an internal buffer and yields direct views into it. The view
// returned by Next remains valid only until the next call to any method on
// the same Reader.
type Reader interface {
	// Next returns the next chunk of data from the stream.
	//
	// On success the returned slice is non-empty, owned by the stream, and
	// valid only until the next method call. At end of stream Next returns
	// (nil, io.EOF); io.EOF is permanent but not a failure. Any other error
	// is a permanent failure and every subsequent call returns it again
	// without touching the underlying source.
	Next() ([]byte, error)

	// BackUp returns the last count bytes of the view most recently returned
	// by Next to the stream, so they are re-delivered, byte for byte, before
	// any new data.
	//
	// BackUp may only be called immediately after a Next that returned data,
	// with 0 <= count <= len(returned view). Violations panic.
	BackUp(count int)

	// Skip discards the next count bytes. It returns nil if exactly count
	// bytes were skipped, io.ErrUnexpectedEOF if the stream ended first
	// (ByteCount then reflects the true end), or the permanent error that
	// stopped it. count < 0 panics.
	Skip(count int) error

	// ByteCount reports the total number of bytes consumed by the caller:
	// everything returned by Next or discarded by Skip, minus bytes
	// currently backed up. It remains valid after EOF and after failure.
	ByteCount() int64
}

// Writer is the zero-copy output contract.
//
// A Writer hands out writable views into its internal buffer. The caller
// fills some prefix of the view and returns the unused suffix with BackUp;
// backed-up bytes are never transmitted.
type Writer interface {
	// Next returns a writable view. The entire view is considered used until
	// the caller retracts the unfilled suffix with BackUp. Once the writer
	// has latched a failure, Next returns that error immediately.
	Next() ([]byte, error)

	// BackUp retracts the last count bytes of the view most recently
	// returned by Next. It may only be called immediately after Next, with
	// 0 <= count <= len(returned view), and no bytes beyond the retained
	// prefix may have been written. Violations panic.
	BackUp(count int)

	// ByteCount reports the total number of bytes logically written,
	// including bytes buffered but not yet flushed.
	ByteCount() int64
}

// Flusher is implemented by writers that buffer data internally.
type Flusher interface {
	// Flush pushes all buffered bytes to the underlying sink. A failure is
	// permanent: the writer latches it and later calls fail immediately.
	Flush() error
}

// AliasedWriter is an optional Writer extension for sinks that can accept
// caller-owned bytes directly, bypassing the internal buffer.
//
// Support is opt-in and off by default. Calling WriteAliased on a writer
// whose AllowsAliasing reports false is a contract violation and panics.
type AliasedWriter interface {
	Writer

	// AllowsAliasing reports whether WriteAliased may be called.
	AllowsAliasing() bool

	// WriteAliased writes p directly to the underlying sink, after flushing
	// any buffered bytes so ordering is preserved. The caller must keep p
	// valid and unmodified until the write returns.
	WriteAliased(p []byte) error
}

// Skipper is an optional extension for copying sources that can discard
// input more cheaply than reading it (e.g. by seeking). Skip discards up to
// count bytes and returns the number actually discarded; a short count means
// the source ended or failed, with the stopping error alongside.
type Skipper interface {
	Skip(count int) (int, error)
}

// SkipByReading discards count bytes from r by reading them into a scratch
// buffer. It is the generic fallback for sources with no native skip.
//
// It returns the number of bytes discarded and the error that stopped it
// early, if any: io.EOF when the source ended, or the source's read error.
// A full skip returns (count, nil).
func SkipByReading(r io.Reader, count int) (int, error) {
	var scratch [skipScratchSize]byte
	skipped := 0
	for skipped < count {
		n := count - skipped
		if n > len(scratch) {
			n = len(scratch)
		}
		nr, err := r.Read(scratch[:n])
		skipped += nr
		if err != nil {
			return skipped, err
		}
		if nr == 0 {
			return skipped, io.EOF
		}
	}
	return skipped, nil
}
