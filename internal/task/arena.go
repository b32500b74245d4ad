package task

// Arena is a bump allocator over a single growable byte buffer. It backs
// the response bytes a CurlPerform/ParseJsonValue pair needs to keep alive
// for the lifetime of the enclosing Arena context.
type Arena struct {
	buf []byte
}

// Reset clears the arena without releasing the backing array, so the next
// CurlPerform into the same context can reuse the capacity.
func (a *Arena) Reset() {
	a.buf = a.buf[:0]
}

// Append copies p into the arena and returns the stable slice backing it.
// The returned slice is only valid until the arena is freed.
func (a *Arena) Append(p []byte) []byte {
	start := len(a.buf)
	a.buf = append(a.buf, p...)
	return a.buf[start:len(a.buf):len(a.buf)]
}

// Bytes returns the arena's current contents.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Free releases the arena's backing storage.
func (a *Arena) Free() {
	a.buf = nil
}
