package task

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func drain(p *Pool, ref Ref, ctx *Context) Result {
	r := ResultPending
	for i := 0; r.State == Pending && i < 10000; i++ {
		r = p.Poll(ref, ctx)
	}
	return r
}

func TestSequence(t *testing.T) {
	Convey("Given a sequence of three Const nodes", t, func() {
		p := NewPool(16)
		seq := p.Sequence()
		p.SeqAppend(seq, p.Const(ResultDone(IntValue(1))))
		p.SeqAppend(seq, p.Const(ResultDone(IntValue(2))))
		p.SeqAppend(seq, p.Const(ResultDone(IntValue(3))))

		Convey("it resolves to the last child's result", func() {
			ctx := NewContext()
			r := drain(p, seq, &ctx)
			So(r.State, ShouldEqual, Done)
			So(r.Value.Int, ShouldEqual, 3)
		})
	})

	Convey("Given a sequence whose second child errors", t, func() {
		p := NewPool(16)
		seq := p.Sequence()
		p.SeqAppend(seq, p.Const(ResultDone(VoidValue())))
		p.SeqAppend(seq, p.Const(ResultError(ErrPoolExhausted)))
		p.SeqAppend(seq, p.Const(ResultDone(IntValue(99))))

		Convey("the sequence stops and propagates the error", func() {
			ctx := NewContext()
			r := drain(p, seq, &ctx)
			So(r.State, ShouldEqual, Error)
		})
	})
}

func TestParallel(t *testing.T) {
	Convey("Given a parallel runner with two Const children", t, func() {
		p := NewPool(16)
		par := p.Parallel()
		p.ParAppend(par, p.Const(ResultDone(IntValue(1))))
		p.ParAppend(par, p.Const(ResultDone(IntValue(2))))

		Convey("it completes once both children have terminated", func() {
			ctx := NewContext()
			r := drain(p, par, &ctx)
			So(r.State, ShouldEqual, Done)
		})
	})

	Convey("Given a parallel runner already mid-rotation", t, func() {
		p := NewPool(16)
		par := p.Parallel()
		p.ParAppend(par, p.Wait(1000))
		ctx := NewContext()
		p.Poll(par, &ctx)

		Convey("a new child can be appended reentrantly without disrupting the existing one", func() {
			err := p.ParAppend(par, p.Const(ResultDone(VoidValue())))
			So(err, ShouldBeNil)
			n := p.At(par)
			So(len(n.par), ShouldEqual, 2)
		})
	})
}

func TestThen(t *testing.T) {
	Convey("Given a Then node chaining two Const values", t, func() {
		p := NewPool(16)
		fst := p.Const(ResultDone(IntValue(10)))
		then := p.Then(fst, func(p *Pool, r Result) Ref {
			return p.Const(ResultDone(IntValue(r.Value.Int * 2)))
		})

		Convey("it resolves to the continuation's result", func() {
			ctx := NewContext()
			r := drain(p, then, &ctx)
			So(r.State, ShouldEqual, Done)
			So(r.Value.Int, ShouldEqual, 20)
		})
	})

	Convey("Given a Then node whose predecessor errors", t, func() {
		p := NewPool(16)
		fst := p.Const(ResultError(ErrPoolExhausted))
		called := false
		then := p.Then(fst, func(p *Pool, r Result) Ref {
			called = true
			return p.Const(ResultDone(VoidValue()))
		})

		Convey("the continuation is never built and the error propagates", func() {
			ctx := NewContext()
			r := drain(p, then, &ctx)
			So(r.State, ShouldEqual, Error)
			So(called, ShouldBeFalse)
		})
	})
}

func TestIterate(t *testing.T) {
	Convey("Given an Iterate node counting up to 3", t, func() {
		p := NewPool(16)
		count := 0
		body := p.Const(ResultDone(VoidValue()))
		it := p.Iterate(body,
			func(p *Pool, last Result) Ref {
				count++
				return p.Const(ResultDone(VoidValue()))
			},
			func(p *Pool, last Result) Ref {
				return p.Const(ResultDone(BoolValue(count < 3)))
			},
		)

		Convey("it builds a next body exactly 3 times then stops", func() {
			ctx := NewContext()
			r := drain(p, it, &ctx)
			So(r.State, ShouldEqual, Done)
			So(count, ShouldEqual, 3)
		})
	})
}

func TestWait(t *testing.T) {
	Convey("Given a Wait node with a zero duration", t, func() {
		p := NewPool(4)
		w := p.Wait(0)

		Convey("it completes on the second poll", func() {
			r1 := p.Poll(w, nil)
			So(r1.State, ShouldEqual, Pending)
			time.Sleep(time.Millisecond)
			r2 := p.Poll(w, nil)
			So(r2.State, ShouldEqual, Done)
		})
	})
}

func TestContextArenaLifecycle(t *testing.T) {
	Convey("Given an Arena context wrapping a Const body", t, func() {
		p := NewPool(8)
		body := p.Const(ResultDone(VoidValue()))
		ctxNode := p.ContextNode(ContextArena, body)

		Convey("the arena is acquired then released across the node's lifetime", func() {
			ctx := NewContext()
			r := drain(p, ctxNode, &ctx)
			So(r.State, ShouldEqual, Done)
			So(ctx.Has(ContextArena), ShouldBeFalse)
		})
	})
}
