// Package fifoctl manages the lifecycle of the named pipe the command
// interpreter reads from: creation, non-blocking open, non-blocking read,
// and close-then-unlink on shutdown.
package fifoctl

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CreateAndOpen creates path as a named pipe (mode 0666) if it does not
// already exist, then opens it read-only in non-blocking mode. Returns the
// raw file descriptor.
func CreateAndOpen(path string) (int, error) {
	if err := unix.Mkfifo(path, 0666); err != nil && !errors.Is(err, unix.EEXIST) {
		return -1, fmt.Errorf("mkfifo %q: %w", path, err)
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return -1, fmt.Errorf("open %q: %w", path, err)
	}
	return fd, nil
}

// CloseAndUnlink closes fd and removes the pipe at path.
func CloseAndUnlink(fd int, path string) error {
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("unlink %q: %w", path, err)
	}
	return nil
}

// Read performs one non-blocking read of fd into buf. It returns
// (0, nil) both for a zero-byte read and for EAGAIN/EWOULDBLOCK — both
// are "no data yet" from the poll engine's perspective — and returns a
// non-nil error only for a genuine I/O failure.
func Read(fd int, buf []byte) (int, error) {
	n, err := unix.Read(fd, buf)
	if err == nil {
		if n < 0 {
			return 0, nil
		}
		return n, nil
	}
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
		return 0, nil
	}
	return 0, fmt.Errorf("read: %w", err)
}
