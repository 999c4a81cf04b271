package zcio

import "io"

// BytesReader is a zero-copy Reader over an in-memory byte slice. Views
// returned by Next point directly into the caller's slice; no internal
// buffer exists and no copying happens.
//
// A positive blockSize caps the size of each view, which is mainly useful in
// tests that need to exercise chunked consumption; blockSize <= 0 yields the
// whole remainder in one view.
type BytesReader struct {
	data      []byte
	blockSize int
	off       int
	last      int // size of the view most recently returned by Next
}

var _ Reader = (*BytesReader)(nil)

// NewBytesReader returns a BytesReader over data. The slice must remain
// valid and unmodified while the reader is in use.
func NewBytesReader(data []byte, blockSize int) *BytesReader {
	return &BytesReader{data: data, blockSize: blockSize}
}

// Next implements Reader.Next.
func (r *BytesReader) Next() ([]byte, error) {
	if r.off == len(r.data) {
		r.last = 0
		return nil, io.EOF
	}
	n := len(r.data) - r.off
	if r.blockSize > 0 && n > r.blockSize {
		n = r.blockSize
	}
	view := r.data[r.off : r.off+n]
	r.off += n
	r.last = n
	return view, nil
}

// BackUp implements Reader.BackUp.
func (r *BytesReader) BackUp(count int) {
	if r.last == 0 {
		panic("zcio: BackUp called without a preceding Next")
	}
	if count < 0 {
		panic("zcio: BackUp count is negative")
	}
	if count > r.last {
		panic("zcio: BackUp past the last view returned by Next")
	}
	r.off -= count
	r.last = 0
}

// Skip implements Reader.Skip. Skipping past the end advances to the end and
// returns io.ErrUnexpectedEOF.
func (r *BytesReader) Skip(count int) error {
	if count < 0 {
		panic("zcio: Skip count is negative")
	}
	r.last = 0
	if remain := len(r.data) - r.off; count > remain {
		r.off = len(r.data)
		return io.ErrUnexpectedEOF
	}
	r.off += count
	return nil
}

// ByteCount implements Reader.ByteCount.
func (r *BytesReader) ByteCount() int64 {
	return int64(r.off)
}

// BytesWriter is a zero-copy Writer into a fixed-size byte slice. Next hands
// out slices of the caller's buffer directly; when the buffer is full, Next
// returns io.ErrShortBuffer.
type BytesWriter struct {
	buf       []byte
	blockSize int
	off       int
	last      int // size of the view most recently returned by Next
}

var _ Writer = (*BytesWriter)(nil)

// NewBytesWriter returns a BytesWriter filling buf. A positive blockSize
// caps the size of each view; blockSize <= 0 yields the whole remaining
// space in one view.
func NewBytesWriter(buf []byte, blockSize int) *BytesWriter {
	return &BytesWriter{buf: buf, blockSize: blockSize}
}

// Next implements Writer.Next.
func (w *BytesWriter) Next() ([]byte, error) {
	if w.off == len(w.buf) {
		w.last = 0
		return nil, io.ErrShortBuffer
	}
	n := len(w.buf) - w.off
	if w.blockSize > 0 && n > w.blockSize {
		n = w.blockSize
	}
	view := w.buf[w.off : w.off+n]
	w.off += n
	w.last = n
	return view, nil
}

// BackUp implements Writer.BackUp.
func (w *BytesWriter) BackUp(count int) {
	if w.last == 0 {
		panic("zcio: BackUp called without a preceding Next")
	}
	if count < 0 {
		panic("zcio: BackUp count is negative")
	}
	if count > w.last {
		panic("zcio: BackUp past the last view returned by Next")
	}
	w.off -= count
	w.last = 0
}

// ByteCount implements Writer.ByteCount.
func (w *BytesWriter) ByteCount() int64 {
	return int64(w.off)
}

// Bytes returns the written prefix of the underlying buffer.
func (w *BytesWriter) Bytes() []byte {
	return w.buf[:w.off]
}
