package task

import "fmt"

// ErrPoolExhausted is returned by Allocate when the pool has no free slots.
var ErrPoolExhausted = fmt.Errorf("task: pool exhausted")

// Pool is the sole source of task storage: a fixed-capacity array of Node
// slots threaded into an intrusive free list. Allocate pops the head;
// Release pushes onto it. Slots are addressed by index rather than
// pointer so a Node never needs to know its own address.
type Pool struct {
	nodes []Node
	head  Ref
}

// NewPool allocates a pool with the given fixed capacity and links every
// slot into the free list.
func NewPool(capacity int) *Pool {
	p := &Pool{nodes: make([]Node, capacity)}
	p.freeAll()
	return p
}

func (p *Pool) freeAll() {
	p.head = NoRef
	for i := range p.nodes {
		p.nodes[i] = Node{next: p.head}
		p.head = Ref(i)
	}
}

// Capacity returns the pool's fixed slot count.
func (p *Pool) Capacity() int { return len(p.nodes) }

// FreeCount returns how many slots are currently unallocated.
func (p *Pool) FreeCount() int {
	n := 0
	for r := p.head; r != NoRef; r = p.nodes[r].next {
		n++
	}
	return n
}

// InPool reports whether ref addresses a slot owned by this pool.
func (p *Pool) InPool(ref Ref) bool {
	return ref >= 0 && int(ref) < len(p.nodes)
}

func (p *Pool) allocate() (Ref, error) {
	if p.head == NoRef {
		return NoRef, ErrPoolExhausted
	}
	ref := p.head
	p.head = p.nodes[ref].next
	p.nodes[ref] = Node{live: true}
	return ref, nil
}

// Release returns ref's slot to the free list. Releasing a ref outside the
// pool's range is a programmer error and panics.
func (p *Pool) Release(ref Ref) {
	if ref == NoRef {
		return
	}
	if !p.InPool(ref) {
		panic(fmt.Sprintf("task: Release called with out-of-range ref %d", ref))
	}
	p.nodes[ref] = Node{next: p.head}
	p.head = ref
}

// At returns a pointer to the live node for ref. Callers must only use this
// for pool-resident refs obtained from an allocator below.
func (p *Pool) At(ref Ref) *Node {
	return &p.nodes[ref]
}

// --- node constructors -----------------------------------------------

func (p *Pool) mustAlloc() Ref {
	ref, err := p.allocate()
	if err != nil {
		panic(err)
	}
	return ref
}

// Const allocates a node that always resolves to r.
func (p *Pool) Const(r Result) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindConst
	n.constResult = r
	return ref
}

// Log allocates a node that prints "[LOG] msg" and completes.
func (p *Pool) Log(msg string) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindLog
	n.logMsg = msg
	return ref
}

// Wait allocates a node that completes once durationSeconds have elapsed.
func (p *Pool) Wait(durationSeconds float64) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindWait
	n.waitDuration = durationSeconds
	return ref
}

// Sequence allocates an empty sequence node; append children with SeqAppend.
func (p *Pool) Sequence() Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindSequence
	return ref
}

// SeqAppend appends child to seq's ordered children.
func (p *Pool) SeqAppend(seq, child Ref) {
	n := p.At(seq)
	if n.seqCount >= MaxSeqCount {
		panic("task: sequence exceeds MaxSeqCount")
	}
	n.seq[n.seqCount] = child
	n.seqCount++
}

// Parallel allocates an empty parallel runner; append children with ParAppend.
func (p *Pool) Parallel() Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindParallel
	return ref
}

// ParAppend appends child to par's round-robin child set. It is safe to
// call during a poll tick, including from within a ThenFunc invoked by one
// of par's own children — the new child simply joins the rotation.
func (p *Pool) ParAppend(par, child Ref) error {
	n := p.At(par)
	if len(n.par) >= MaxParCount {
		return fmt.Errorf("task: parallel exceeds MaxParCount (%d)", MaxParCount)
	}
	n.par = append(n.par, child)
	n.parCtx = append(n.parCtx, Context{FD: -1})
	return nil
}

// Then allocates a bind node: fst runs first, then fn(result) produces the
// successor.
func (p *Pool) Then(fst Ref, fn ThenFunc) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindThen
	n.fst = fst
	n.snd = NoRef
	n.thenFn = fn
	return ref
}

// Iterate allocates a loop node: it runs body to completion, builds a
// condition task from the result, and if that condition is true builds the
// next body from the loop's last result and repeats.
func (p *Pool) Iterate(body Ref, nextFn, buildCondFn ThenFunc) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindIterate
	n.iterBody = body
	n.iterCond = NoRef
	n.iterNextFn = nextFn
	n.iterBuildCondFn = buildCondFn
	n.iterPhase = 0
	return ref
}

// FifoRepl allocates a node that reads commands from the fifo and
// dispatches them to handler.
func (p *Pool) FifoRepl(handler ReplHandler) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindFifoRepl
	n.replHandler = handler
	n.readBuf = make([]byte, ReadBufCapacity)
	return ref
}

// ContextNode allocates a node that acquires the given resource kind
// before polling body, and releases it when body terminates.
func (p *Pool) ContextNode(kind ContextKind, body Ref) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindContext
	n.ctxKind = kind
	n.ctxBody = body
	return ref
}

// FifoContext is ContextNode(ContextFifo, body) with the pipe path bound.
func (p *Pool) FifoContext(path string, body Ref) Ref {
	ref := p.ContextNode(ContextFifo, body)
	p.At(ref).ctxFifoPth = path
	return ref
}

// CurlPerform allocates a node that performs an HTTP GET against url. With
// no CurlMulti context active the response body is stored in the active
// Arena; under CurlMulti the body is carried in the Result only and the
// Arena is not written.
func (p *Pool) CurlPerform(url string) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindCurlPerform
	n.curlURL = url
	return ref
}

// ParseJSONValue allocates a node that parses src into a JSON value tree.
func (p *Pool) ParseJSONValue(src []byte) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindParseJSONValue
	n.jsonSource = src
	return ref
}

// GetTgUser allocates a node that projects root as a getMe response.
func (p *Pool) GetTgUser(root JSONValue) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindGetTgUser
	n.jsonRoot = root
	return ref
}

// GetTgUpdateList allocates a node that projects root as a getUpdates response.
func (p *Pool) GetTgUpdateList(root JSONValue) Ref {
	ref := p.mustAlloc()
	n := p.At(ref)
	n.Kind = KindGetTgUpdateList
	n.jsonRoot = root
	return ref
}

// ReadBufCapacity bounds a FifoRepl node's per-poll read buffer.
const ReadBufCapacity = 64
