package task

import "github.com/pecora0/ribezal/internal/fifoctl"

// readNonBlocking performs one non-blocking read on the fifo context's
// descriptor. A return of (0, nil) means "no data yet": a zero-byte read
// and EAGAIN are both treated as Pending.
func readNonBlocking(fd int, buf []byte) (int, error) {
	return fifoctl.Read(fd, buf)
}
