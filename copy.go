package zcio

import "io"

// Copy pumps src into dst through the buffer-handoff contracts until src
// reports EOF or either stream fails. It returns the number of bytes moved.
//
// On a destination failure, input bytes not yet copied are backed up into
// src, so the caller can resume from the exact failure point with a fresh
// destination. Copy does not flush dst; that remains the caller's call.
func Copy(dst Writer, src Reader) (int64, error) {
	var written int64
	for {
		in, err := src.Next()
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		for len(in) > 0 {
			out, err := dst.Next()
			if err != nil {
				src.BackUp(len(in))
				return written, err
			}
			n := copy(out, in)
			if n < len(out) {
				dst.BackUp(len(out) - n)
			}
			in = in[n:]
			written += int64(n)
		}
	}
}

// ReadAll drains src and returns everything it yielded. Like io.ReadAll, an
// EOF that ends the stream is not reported as an error.
func ReadAll(src Reader) ([]byte, error) {
	var out []byte
	for {
		chunk, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, chunk...)
	}
}
