package zcio

import (
	"io"
	"syscall"
)

// FileSource is a copying source over a raw Unix file descriptor. It does no
// buffering of its own: each Read is one OS read (minus interrupt retries).
// Wrap it in a SourceAdapter (or use FileReader) for the zero-copy contract.
//
// The descriptor is externally owned; FileSource never closes it unless
// Close is called explicitly or ownership is transferred via the wrapping
// stream's SetCloseOnRelease.
type FileSource struct {
	fd             int
	closed         bool
	closeOnRelease bool

	// errno holds the first I/O error observed on this descriptor, or 0.
	// Once set it is not overwritten.
	errno syscall.Errno

	// seekFailed records that a seek attempt already failed; after that the
	// descriptor is assumed non-seekable (e.g. a pipe) and Skip degrades to
	// read-based skipping permanently.
	seekFailed bool
}

var (
	_ io.ReadCloser = (*FileSource)(nil)
	_ Skipper       = (*FileSource)(nil)
)

// NewFileSource returns a FileSource reading from the given open descriptor.
func NewFileSource(fd int) *FileSource {
	return &FileSource{fd: fd}
}

// Read implements io.Reader with a single OS read, retrying transparently
// while the OS reports an interrupt. A zero-byte result is io.EOF; any other
// OS error is recorded in Errno and returned as-is.
func (s *FileSource) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := platformRead(s.fd, p)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			s.setErrno(err)
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

// Skip implements Skipper. It seeks forward when the descriptor supports it;
// after the first failed seek it falls back to SkipByReading for this and
// all future calls. A successful seek discards exactly count bytes.
func (s *FileSource) Skip(count int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if !s.seekFailed {
		if _, err := platformSeek(s.fd, int64(count), io.SeekCurrent); err == nil {
			return count, nil
		}
		// This descriptor doesn't support seeking; don't try again.
		s.seekFailed = true
	}
	return SkipByReading(s, count)
}

// Close closes the descriptor, retrying on interrupt. A second Close returns
// ErrClosed. The descriptor is considered closed even if the OS close fails;
// the failure is recorded in Errno.
func (s *FileSource) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return closeFd(s.fd, &s.errno)
}

// Errno returns the first I/O error recorded on this descriptor, or 0.
func (s *FileSource) Errno() syscall.Errno {
	return s.errno
}

func (s *FileSource) setErrno(err error) {
	if s.errno != 0 {
		return
	}
	if errno, ok := err.(syscall.Errno); ok {
		s.errno = errno
	}
}

// FileSink is a copying sink over a raw Unix file descriptor. Write resumes
// partial writes internally, so a successful Write always means every byte
// landed; this is what lets SinkAdapter treat the sink as all-or-nothing.
type FileSink struct {
	fd             int
	closed         bool
	closeOnRelease bool
	errno          syscall.Errno
}

var _ io.WriteCloser = (*FileSink)(nil)

// NewFileSink returns a FileSink writing to the given open descriptor.
func NewFileSink(fd int) *FileSink {
	return &FileSink{fd: fd}
}

// Write implements io.Writer. OS writes are retried on interrupt and resumed
// from the delivered offset until all of p lands. Zero forward progress is
// reported as io.ErrShortWrite; any OS error is recorded in Errno and
// returned with the partial count.
func (s *FileSink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	written := 0
	for written < len(p) {
		n, err := platformWrite(s.fd, p[written:])
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			s.setErrno(err)
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
		written += n
	}
	return written, nil
}

// Close closes the descriptor, retrying on interrupt. A second Close returns
// ErrClosed. The descriptor is considered closed even if the OS close fails.
func (s *FileSink) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return closeFd(s.fd, &s.errno)
}

// Errno returns the first I/O error recorded on this descriptor, or 0.
func (s *FileSink) Errno() syscall.Errno {
	return s.errno
}

func (s *FileSink) setErrno(err error) {
	if s.errno != 0 {
		return
	}
	if errno, ok := err.(syscall.Errno); ok {
		s.errno = errno
	}
}

func closeFd(fd int, errno *syscall.Errno) error {
	for {
		err := platformClose(fd)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			if e, ok := err.(syscall.Errno); ok && *errno == 0 {
				*errno = e
			}
			return err
		}
		return nil
	}
}

// FileReader is a zero-copy Reader over a Unix file descriptor: a FileSource
// composed with a SourceAdapter.
//
// By default the descriptor is not closed when the stream is released; call
// SetCloseOnRelease(true) to transfer that responsibility. WARNING: doing so
// leaves no way to observe a close failure. If detecting close errors
// matters, keep ownership and call Close yourself.
type FileReader struct {
	src     *FileSource
	adapter *SourceAdapter
}

var _ Reader = (*FileReader)(nil)

// NewFileReader returns a FileReader over the given open descriptor.
// blockSize is the number of bytes read and returned per Next call;
// pass <= 0 for DefaultBlockSize.
func NewFileReader(fd int, blockSize int) *FileReader {
	src := NewFileSource(fd)
	return &FileReader{src: src, adapter: NewSourceAdapter(src, blockSize)}
}

// Next implements Reader.Next.
func (r *FileReader) Next() ([]byte, error) { return r.adapter.Next() }

// BackUp implements Reader.BackUp.
func (r *FileReader) BackUp(count int) { r.adapter.BackUp(count) }

// Skip implements Reader.Skip.
func (r *FileReader) Skip(count int) error { return r.adapter.Skip(count) }

// ByteCount implements Reader.ByteCount.
func (r *FileReader) ByteCount() int64 { return r.adapter.ByteCount() }

// Close closes the underlying descriptor. Returns ErrClosed on a second
// call; use Errno to examine an OS close failure.
func (r *FileReader) Close() error { return r.src.Close() }

// SetCloseOnRelease transfers (or revokes) descriptor ownership: when true,
// Release closes the descriptor.
func (r *FileReader) SetCloseOnRelease(v bool) { r.src.closeOnRelease = v }

// Release ends the stream's use of the descriptor, closing it only if
// SetCloseOnRelease(true) was called. Any close failure is discarded; call
// Close directly when error visibility matters.
func (r *FileReader) Release() {
	if r.src.closeOnRelease && !r.src.closed {
		_ = r.src.Close()
	}
}

// Errno returns the first I/O error recorded on the descriptor, or 0.
func (r *FileReader) Errno() syscall.Errno { return r.src.Errno() }

// FileWriter is a zero-copy Writer over a Unix file descriptor: a FileSink
// composed with a SinkAdapter.
//
// Buffered bytes reach the descriptor on Flush or Close. As with FileReader,
// the descriptor is only closed by Release after SetCloseOnRelease(true),
// at the cost of observing close (and final flush) failures.
type FileWriter struct {
	sink    *FileSink
	adapter *SinkAdapter
}

var (
	_ Writer  = (*FileWriter)(nil)
	_ Flusher = (*FileWriter)(nil)
)

// NewFileWriter returns a FileWriter over the given open descriptor.
// blockSize is the size of the buffers returned by Next; pass <= 0 for
// DefaultBlockSize.
func NewFileWriter(fd int, blockSize int) *FileWriter {
	sink := NewFileSink(fd)
	return &FileWriter{sink: sink, adapter: NewSinkAdapter(sink, blockSize)}
}

// Next implements Writer.Next.
func (w *FileWriter) Next() ([]byte, error) { return w.adapter.Next() }

// BackUp implements Writer.BackUp.
func (w *FileWriter) BackUp(count int) { w.adapter.BackUp(count) }

// ByteCount implements Writer.ByteCount.
func (w *FileWriter) ByteCount() int64 { return w.adapter.ByteCount() }

// Flush pushes buffered bytes to the descriptor without closing it. No
// attempt is made to sync the OS file object to disk.
func (w *FileWriter) Flush() error { return w.adapter.Flush() }

// Close flushes buffered bytes and closes the descriptor. The descriptor is
// closed even when the flush fails; the flush error takes priority in the
// return value.
func (w *FileWriter) Close() error {
	flushErr := w.Flush()
	closeErr := w.sink.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// SetCloseOnRelease transfers (or revokes) descriptor ownership: when true,
// Release closes the descriptor after the final flush.
func (w *FileWriter) SetCloseOnRelease(v bool) { w.sink.closeOnRelease = v }

// Release flushes buffered bytes and, if SetCloseOnRelease(true) was called,
// closes the descriptor. Failures are discarded; call Flush or Close
// directly when error visibility matters.
func (w *FileWriter) Release() {
	_ = w.Flush()
	if w.sink.closeOnRelease && !w.sink.closed {
		_ = w.sink.Close()
	}
}

// Errno returns the first I/O error recorded on the descriptor, or 0.
func (w *FileWriter) Errno() syscall.Errno { return w.sink.Errno() }
