//go:build !unix

package zcio

import "syscall"

// platformRead stub for non-Unix platforms.
// Always returns ENOTSUP; file-backed streams are Unix-only.
func platformRead(fd int, p []byte) (int, error) {
	return 0, syscall.ENOTSUP
}

// platformWrite stub for non-Unix platforms.
func platformWrite(fd int, p []byte) (int, error) {
	return 0, syscall.ENOTSUP
}

// platformSeek stub for non-Unix platforms.
func platformSeek(fd int, offset int64, whence int) (int64, error) {
	return 0, syscall.ENOTSUP
}

// platformClose stub for non-Unix platforms.
func platformClose(fd int) error {
	return syscall.ENOTSUP
}
