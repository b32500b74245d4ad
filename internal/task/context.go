package task

import (
	"fmt"

	"github.com/pecora0/ribezal/internal/fifoctl"
	"github.com/pecora0/ribezal/internal/httpclient"
)

// ContextKind enumerates the external-resource kinds a Context node can
// layer onto the ambient Context.
type ContextKind int

const (
	ContextFifo ContextKind = iota
	ContextArena
	ContextCurlGlobal
	ContextCurlMulti
	ContextCurlEasy
	contextKindCount
)

// Context carries the currently-active external resources visible to an
// in-progress poll. A resource handle is valid iff its matching flag is
// set. Parallel copies a Context into each child's slot on first entry so
// siblings layer resources independently.
type Context struct {
	flag [contextKindCount]bool

	FD    int
	Arena *Arena
	Multi *httpclient.MultiSession
	Easy  *httpclient.EasySession
}

// NewContext returns an empty Context with no resources acquired.
func NewContext() Context {
	return Context{FD: -1}
}

// IsEmpty reports whether no resource is currently held.
func (c *Context) IsEmpty() bool {
	for _, f := range c.flag {
		if f {
			return false
		}
	}
	return true
}

func (c *Context) Has(k ContextKind) bool { return c.flag[k] }

// AcquireFifo creates (if absent) and opens the named pipe in non-blocking
// read-only mode.
func (c *Context) AcquireFifo(path string) error {
	fd, err := fifoctl.CreateAndOpen(path)
	if err != nil {
		return fmt.Errorf("acquire fifo %q: %w", path, err)
	}
	c.FD = fd
	c.flag[ContextFifo] = true
	return nil
}

// ReleaseFifo closes the descriptor and unlinks the pipe.
func (c *Context) ReleaseFifo(path string) error {
	err := fifoctl.CloseAndUnlink(c.FD, path)
	c.FD = -1
	c.flag[ContextFifo] = false
	return err
}

// AcquireArena installs an empty arena. Nested arena contexts are
// forbidden by the caller checking Has(ContextArena) first.
func (c *Context) AcquireArena() {
	c.Arena = &Arena{}
	c.flag[ContextArena] = true
}

func (c *Context) ReleaseArena() {
	if c.Arena != nil {
		c.Arena.Free()
	}
	c.Arena = nil
	c.flag[ContextArena] = false
}

func (c *Context) AcquireCurlGlobal() error {
	if err := httpclient.GlobalAcquire(); err != nil {
		return err
	}
	c.flag[ContextCurlGlobal] = true
	return nil
}

func (c *Context) ReleaseCurlGlobal() {
	httpclient.GlobalRelease()
	c.flag[ContextCurlGlobal] = false
}

func (c *Context) AcquireCurlMulti() {
	c.Multi = httpclient.NewMultiSession()
	c.flag[ContextCurlMulti] = true
}

func (c *Context) ReleaseCurlMulti() {
	if c.Multi != nil {
		c.Multi.Close()
	}
	c.Multi = nil
	c.flag[ContextCurlMulti] = false
}

// AcquireCurlEasy creates an easy session. If the enclosing context already
// has CurlMulti set, the easy session is additionally registered with the
// multi session so its request is driven non-blockingly.
func (c *Context) AcquireCurlEasy() {
	c.Easy = httpclient.NewEasySession()
	c.flag[ContextCurlEasy] = true
	if c.flag[ContextCurlMulti] {
		c.Multi.Add(c.Easy)
	}
}

func (c *Context) ReleaseCurlEasy() {
	if c.flag[ContextCurlMulti] && c.Multi != nil && c.Easy != nil {
		c.Multi.Remove(c.Easy)
	}
	c.Easy = nil
	c.flag[ContextCurlEasy] = false
}
