package task

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPoolAllocation(t *testing.T) {
	Convey("Given a pool with capacity 2", t, func() {
		p := NewPool(2)

		Convey("it starts fully free", func() {
			So(p.FreeCount(), ShouldEqual, 2)
		})

		Convey("allocating beyond capacity panics with ErrPoolExhausted", func() {
			p.Const(ResultDone(VoidValue()))
			p.Const(ResultDone(VoidValue()))
			So(func() { p.Const(ResultDone(VoidValue())) }, ShouldPanicWith, ErrPoolExhausted)
		})

		Convey("releasing a node frees its slot for reuse", func() {
			ref := p.Const(ResultDone(VoidValue()))
			p.Release(ref)
			So(p.FreeCount(), ShouldEqual, 2)
		})

		Convey("Release on an out-of-range ref panics", func() {
			So(func() { p.Release(Ref(99)) }, ShouldPanic)
		})
	})
}

func TestPoolConstants(t *testing.T) {
	Convey("A fresh Sequence/Parallel node has zero children", t, func() {
		p := NewPool(4)
		seq := p.Sequence()
		So(p.Poll(seq, nil), ShouldResemble, ResultDone(VoidValue()))

		par := p.Parallel()
		So(p.Poll(par, nil), ShouldResemble, ResultDone(VoidValue()))
	})
}
