package task

import (
	"fmt"
	"time"

	"github.com/pecora0/ribezal/internal/jsonvalue"
)

// Poll advances ref by exactly one non-blocking step and returns its
// result. It never loops — each call does at most the work needed to
// decide whether ref's node can progress — and it does not block, except
// for a CurlPerform polled outside any CurlMulti context, which performs
// its request synchronously.
func (p *Pool) Poll(ref Ref, ctx *Context) Result {
	n := p.At(ref)
	switch n.Kind {
	case KindConst:
		return n.constResult

	case KindSequence:
		return p.pollSequence(n, ctx)

	case KindParallel:
		return p.pollParallel(n, ctx)

	case KindThen:
		return p.pollThen(n, ctx)

	case KindIterate:
		return p.pollIterate(n, ctx)

	case KindWait:
		return p.pollWait(n)

	case KindLog:
		fmt.Printf("[LOG] %s\n", n.logMsg)
		return ResultDone(VoidValue())

	case KindFifoRepl:
		return p.pollFifoRepl(n, ctx)

	case KindContext:
		return p.pollContext(n, ctx)

	case KindCurlPerform:
		return p.pollCurlPerform(n, ctx)

	case KindParseJSONValue:
		return p.pollParseJSONValue(n, ctx)

	case KindGetTgUser:
		return p.pollGetTgUser(n)

	case KindGetTgUpdateList:
		return p.pollGetTgUpdateList(n)

	default:
		panic(fmt.Sprintf("task: Poll called on node with unknown Kind %d", n.Kind))
	}
}

func (p *Pool) pollSequence(n *Node, ctx *Context) Result {
	if n.seqCount == 0 {
		return ResultDone(VoidValue())
	}
	child := n.seq[n.seqIndex]
	r := p.Poll(child, ctx)
	switch r.State {
	case Done:
		p.Release(child)
		n.seqIndex++
		if n.seqIndex == n.seqCount {
			return r
		}
	case Error:
		p.Release(child)
		return r
	case Pending:
	}
	return ResultPending
}

func (p *Pool) pollParallel(n *Node, ctx *Context) Result {
	count := len(n.par)
	if count == 0 {
		return ResultDone(VoidValue())
	}
	sub := &n.parCtx[n.parIndex]
	if sub.IsEmpty() {
		*sub = *ctx
	}
	r := p.Poll(n.par[n.parIndex], sub)
	switch r.State {
	case Done, Error:
		if r.State == Error {
			fmt.Printf("[ERROR] parallel child terminated with error: %s\n", r.Err)
		}
		p.Release(n.par[n.parIndex])
		last := count - 1
		n.par[n.parIndex] = n.par[last]
		n.parCtx[n.parIndex] = n.parCtx[last]
		n.par = n.par[:last]
		n.parCtx = n.parCtx[:last]
		if len(n.par) > 0 {
			n.parIndex %= len(n.par)
		} else {
			n.parIndex = 0
		}
	case Pending:
		n.parIndex = (n.parIndex + 1) % len(n.par)
	}
	return ResultPending
}

func (p *Pool) pollThen(n *Node, ctx *Context) Result {
	if n.snd == NoRef {
		r := p.Poll(n.fst, ctx)
		switch r.State {
		case Done:
			p.Release(n.fst)
			n.snd = n.thenFn(p, r)
		case Error:
			return r
		case Pending:
		}
		return ResultPending
	}
	r := p.Poll(n.snd, ctx)
	if r.State == Done || r.State == Error {
		p.Release(n.snd)
	}
	return r
}

func (p *Pool) pollIterate(n *Node, ctx *Context) Result {
	switch n.iterPhase {
	case 0:
		r := p.Poll(n.iterBody, ctx)
		switch r.State {
		case Done:
			n.iterLast = r
			p.Release(n.iterBody)
			n.iterBody = NoRef
			n.iterPhase = 1
			n.iterCond = n.iterBuildCondFn(p, r)
		case Error:
			return r
		case Pending:
		}
		return ResultPending
	case 1:
		r := p.Poll(n.iterCond, ctx)
		switch r.State {
		case Done:
			p.Release(n.iterCond)
			n.iterCond = NoRef
			if r.Value.Kind != ValueBool {
				return ResultError(fmt.Errorf("task: iterate condition did not produce a bool"))
			}
			if r.Value.Bool {
				n.iterPhase = 0
				n.iterBody = n.iterNextFn(p, n.iterLast)
				return ResultPending
			}
			return n.iterLast
		case Error:
			return r
		case Pending:
			return ResultPending
		}
	}
	panic("task: iterate in invalid phase")
}

func (p *Pool) pollWait(n *Node) Result {
	if !n.waitStarted {
		n.waitStart = time.Now().Unix()
		n.waitStarted = true
		return ResultPending
	}
	if float64(time.Now().Unix()-n.waitStart) >= n.waitDuration {
		return ResultDone(VoidValue())
	}
	return ResultPending
}

func (p *Pool) pollFifoRepl(n *Node, ctx *Context) Result {
	if !ctx.Has(ContextFifo) {
		panic("task: FifoRepl polled without an active Fifo context")
	}
	nr, err := readNonBlocking(ctx.FD, n.readBuf)
	if err != nil {
		fmt.Printf("[ERROR] Could not read from file: %s\n", err)
		return ResultError(err)
	}
	if nr <= 0 {
		return ResultPending
	}
	switch n.replHandler(n.readBuf[:nr]) {
	case ReplyClose:
		return ResultDone(VoidValue())
	case ReplyAck:
		return ResultPending
	case ReplyError:
		fmt.Println("[ERROR] Command caused error, try again")
		return ResultPending
	default:
		panic("task: invalid Reply")
	}
}

func (p *Pool) pollContext(n *Node, ctx *Context) Result {
	switch n.ctxKind {
	case ContextFifo:
		if !ctx.Has(ContextFifo) {
			if err := ctx.AcquireFifo(n.ctxFifoPth); err != nil {
				return ResultError(err)
			}
			fmt.Println("[INFO] opened fifo successfully")
			return ResultPending
		}
		r := p.Poll(n.ctxBody, ctx)
		if r.State == Done || r.State == Error {
			p.Release(n.ctxBody)
			if err := ctx.ReleaseFifo(n.ctxFifoPth); err != nil {
				return ResultError(err)
			}
			fmt.Println("[INFO] closed fifo successfully")
		}
		return r

	case ContextArena:
		if !ctx.Has(ContextArena) {
			ctx.AcquireArena()
		}
		r := p.Poll(n.ctxBody, ctx)
		if r.State == Done || r.State == Error {
			p.Release(n.ctxBody)
			ctx.ReleaseArena()
		}
		return r

	case ContextCurlGlobal:
		if !ctx.Has(ContextCurlGlobal) {
			if err := ctx.AcquireCurlGlobal(); err != nil {
				return ResultError(err)
			}
		}
		r := p.Poll(n.ctxBody, ctx)
		if r.State == Done || r.State == Error {
			p.Release(n.ctxBody)
			ctx.ReleaseCurlGlobal()
		}
		return r

	case ContextCurlMulti:
		if !ctx.Has(ContextCurlGlobal) {
			panic("task: CurlMulti requires CurlGlobal")
		}
		if !ctx.Has(ContextCurlMulti) {
			ctx.AcquireCurlMulti()
		}
		r := p.Poll(n.ctxBody, ctx)
		if r.State == Done || r.State == Error {
			p.Release(n.ctxBody)
			ctx.ReleaseCurlMulti()
		}
		return r

	case ContextCurlEasy:
		if !ctx.Has(ContextCurlGlobal) {
			panic("task: CurlEasy requires CurlGlobal")
		}
		if !ctx.Has(ContextCurlEasy) {
			ctx.AcquireCurlEasy()
		}
		r := p.Poll(n.ctxBody, ctx)
		if r.State == Done || r.State == Error {
			p.Release(n.ctxBody)
			ctx.ReleaseCurlEasy()
		}
		return r

	default:
		panic("task: invalid ContextKind")
	}
}

func (p *Pool) pollCurlPerform(n *Node, ctx *Context) Result {
	if !ctx.Has(ContextCurlEasy) {
		panic("task: CurlPerform polled without an active CurlEasy context")
	}
	if !ctx.Has(ContextArena) {
		panic("task: CurlPerform requires an Arena context for response storage")
	}
	if ctx.Has(ContextCurlMulti) {
		// The response comes back over Multi.Poll's channel, not through the
		// arena, so no writer is wired here. SetURL/SetWriter only need to
		// run once, before the request is launched; the session must not be
		// touched again while its background goroutine is still running.
		if !ctx.Easy.InFlight() {
			ctx.Easy.SetURL(n.curlURL)
			ctx.Easy.SetWriter(nil)
		}
		body, done, err := ctx.Multi.Poll(ctx.Easy)
		if err != nil {
			fmt.Printf("[ERROR] failed curl perform: %s\n", err)
			return ResultError(err)
		}
		if !done {
			return ResultPending
		}
		return ResultDone(StringValue(string(body)))
	}

	ctx.Arena.Reset()
	ctx.Easy.SetURL(n.curlURL)
	ctx.Easy.SetWriter(ctx.Arena)

	body, err := ctx.Easy.PerformSync()
	if err != nil {
		fmt.Printf("[ERROR] failed curl_easy_perform: %s\n", err)
		return ResultError(err)
	}
	return ResultDone(StringValue(string(body)))
}

func (p *Pool) pollParseJSONValue(n *Node, ctx *Context) Result {
	if !ctx.Has(ContextArena) {
		panic("task: ParseJsonValue requires an Arena context")
	}
	root, err := jsonvalue.Parse(n.jsonSource)
	if err != nil {
		fmt.Println("[ERROR] Failed to parse json value")
		return ResultError(err)
	}
	return ResultDone(JSONValueOf(root))
}

func (p *Pool) pollGetTgUser(n *Node) Result {
	user, err := jsonvalue.AsUser(n.jsonRoot)
	if err != nil {
		return ResultError(err)
	}
	fmt.Printf("[INFO] getMe to bot named: '%s'\n", user.FirstName)
	return ResultDone(VoidValue())
}

func (p *Pool) pollGetTgUpdateList(n *Node) Result {
	updates, err := jsonvalue.AsUpdateList(n.jsonRoot)
	if err != nil {
		return ResultError(err)
	}
	fmt.Printf("[INFO] received %d update(s)\n", len(updates))
	return ResultDone(VoidValue())
}
