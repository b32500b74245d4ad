package replcmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pecora0/ribezal/internal/task"
)

func newTestInterpreter() (*Interpreter, *[]string) {
	var printed []string
	print := func(line string) { printed = append(printed, line) }
	enqueue := func(task.Ref) error { return nil }
	return NewInterpreter(task.NewPool(8), enqueue, print), &printed
}

func TestInterpreter(t *testing.T) {
	Convey("Given a fresh interpreter", t, func() {
		in, printed := newTestInterpreter()

		Convey("2 3 + print leaves [5] on the stack and prints it", func() {
			reply := in.Execute([]byte("2 3 + print"))
			So(reply, ShouldEqual, task.ReplyAck)
			So(in.Stack.String(), ShouldEqual, "[5]")
			So(*printed, ShouldContain, "[5]")
		})

		Convey("1 0 / errors on division by zero", func() {
			reply := in.Execute([]byte("1 0 /"))
			So(reply, ShouldEqual, task.ReplyError)
		})

		Convey("quit returns ReplyClose", func() {
			reply := in.Execute([]byte("quit"))
			So(reply, ShouldEqual, task.ReplyClose)
		})

		Convey("an unknown bare word is pushed as a string", func() {
			reply := in.Execute([]byte("hello"))
			So(reply, ShouldEqual, task.ReplyAck)
			top, ok := in.Stack.Top()
			So(ok, ShouldBeTrue)
			So(top.Kind, ShouldEqual, ValString)
			So(top.Str, ShouldEqual, "hello")
		})

		Convey("+ with fewer than two ints on the stack errors", func() {
			reply := in.Execute([]byte("1 +"))
			So(reply, ShouldEqual, task.ReplyError)
		})

		Convey("drop pops exactly one value", func() {
			in.Execute([]byte("1 2"))
			reply := in.Execute([]byte("drop"))
			So(reply, ShouldEqual, task.ReplyAck)
			So(in.Stack.Len(), ShouldEqual, 1)
		})

		Convey("clear empties the stack regardless of its contents", func() {
			in.Execute([]byte("1 2 3"))
			reply := in.Execute([]byte("clear"))
			So(reply, ShouldEqual, task.ReplyAck)
			So(in.Stack.Len(), ShouldEqual, 0)
		})

		Convey("tg-getMe without a token on the stack errors", func() {
			reply := in.Execute([]byte("tg-getMe"))
			So(reply, ShouldEqual, task.ReplyError)
		})

		Convey("tg-getMe with a token on the stack enqueues a subtask and drops the token", func() {
			reply := in.Execute([]byte("mytoken tg-getMe"))
			So(reply, ShouldEqual, task.ReplyAck)
			So(in.Stack.Len(), ShouldEqual, 0)
		})

		Convey("120a is not a valid integer token, so it is pushed as a string", func() {
			reply := in.Execute([]byte("120a"))
			So(reply, ShouldEqual, task.ReplyAck)
			top, _ := in.Stack.Top()
			So(top.Kind, ShouldEqual, ValString)
		})

		Convey("whitespace-only input produces no tokens and acks", func() {
			reply := in.Execute([]byte("   \t  "))
			So(reply, ShouldEqual, task.ReplyAck)
			So(in.Stack.Len(), ShouldEqual, 0)
		})
	})
}

func TestTokenize(t *testing.T) {
	Convey("Given various raw lines", t, func() {
		Convey("multiple spaces collapse to one split", func() {
			So(tokenize([]byte("1   2\t3")), ShouldResemble, []string{"1", "2", "3"})
		})
		Convey("leading and trailing whitespace is trimmed", func() {
			So(tokenize([]byte("  1 2  ")), ShouldResemble, []string{"1", "2"})
		})
		Convey("an empty line yields no tokens", func() {
			So(tokenize([]byte("")), ShouldBeNil)
		})
	})
}

func TestParseNonNegativeInt(t *testing.T) {
	Convey("Given candidate tokens", t, func() {
		Convey("an all-digit token parses", func() {
			v, ok := parseNonNegativeInt("42")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 42)
		})
		Convey("a partial match is rejected outright", func() {
			_, ok := parseNonNegativeInt("12abc")
			So(ok, ShouldBeFalse)
		})
		Convey("an empty token is rejected", func() {
			_, ok := parseNonNegativeInt("")
			So(ok, ShouldBeFalse)
		})
	})
}
