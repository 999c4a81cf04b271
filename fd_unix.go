//go:build unix

package zcio

import (
	"golang.org/x/sys/unix"
)

// platformRead wraps unix.Read. Returns (bytes_read, error) matching the
// syscall signature; interrupt retry is handled by the caller.
func platformRead(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

// platformWrite wraps unix.Write.
func platformWrite(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

// platformSeek wraps unix.Seek (lseek).
func platformSeek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

// platformClose wraps unix.Close.
func platformClose(fd int) error {
	return unix.Close(fd)
}
