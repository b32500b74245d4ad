package replcmd

import (
	"errors"
	"fmt"

	"github.com/pecora0/ribezal/internal/task"
	"github.com/pecora0/ribezal/internal/tgapi"
)

// isWhitespace reports membership in the ASCII whitespace set tokens split
// on: " \f\n\r\t\v".
func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\f', '\n', '\r', '\t', '\v':
		return true
	default:
		return false
	}
}

func isGraphic(b byte) bool {
	return b > 0x20 && b < 0x7f
}

func tokenize(line []byte) []string {
	var tokens []string
	start := -1
	for i := 0; i <= len(line); i++ {
		atEnd := i == len(line)
		ws := !atEnd && isWhitespace(line[i])
		if !atEnd && !ws {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			tokens = append(tokens, string(line[start:i]))
			start = -1
		}
	}
	return tokens
}

// parseNonNegativeInt accepts only a non-empty, all-digit token as an int;
// any partial match (e.g. "12abc") is rejected outright rather than parsed
// up to the first non-digit.
func parseNonNegativeInt(token string) (int32, bool) {
	if len(token) == 0 {
		return 0, false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}
	var v uint32
	for i := 0; i < len(token); i++ {
		v = v*10 + uint32(token[i]-'0') // two's-complement wrap on overflow
	}
	return int32(v), true
}

// EnqueueFunc appends a new child to the global parallel runner. It is
// supplied by the caller (the runner owns the Context the new child's
// CurlMulti context will be copied from on first poll).
type EnqueueFunc func(child task.Ref) error

// PrintFunc emits one line of REPL-visible output (the [HELP] and [ERROR]
// lines, and the bare stack printed by `print`); supplied by the caller so the interpreter doesn't depend
// directly on a particular logger.
type PrintFunc func(line string)

// Interpreter holds the value stack and the collaborators needed to build
// and enqueue HTTP subtasks: the pool that owns task storage and a hook to
// append to the global runner.
type Interpreter struct {
	Stack   *Stack
	Pool    *task.Pool
	Enqueue EnqueueFunc
	Print   PrintFunc
}

// NewInterpreter wires an Interpreter against pool/enqueue/print.
func NewInterpreter(pool *task.Pool, enqueue EnqueueFunc, print PrintFunc) *Interpreter {
	return &Interpreter{Stack: NewStack(), Pool: pool, Enqueue: enqueue, Print: print}
}

// Execute tokenises line and evaluates each token in turn, returning the
// Reply for the whole line.
func (in *Interpreter) Execute(line []byte) task.Reply {
	for _, token := range tokenize(line) {
		if v, ok := parseNonNegativeInt(token); ok {
			if err := in.Stack.Push(IntVal(v)); err != nil {
				in.Print(fmt.Sprintf("[ERROR] %s", err))
				return task.ReplyError
			}
			continue
		}
		if !allGraphic(token) {
			return task.ReplyError
		}
		if kw, ok := lookupKeyword(token); ok {
			switch in.dispatch(kw) {
			case task.ReplyAck:
				continue
			case task.ReplyClose:
				return task.ReplyClose
			case task.ReplyError:
				return task.ReplyError
			}
		}
		if err := in.Stack.Push(StringVal(token)); err != nil {
			in.Print(fmt.Sprintf("[ERROR] %s", err))
			return task.ReplyError
		}
	}
	return task.ReplyAck
}

func allGraphic(token string) bool {
	for i := 0; i < len(token); i++ {
		if !isGraphic(token[i]) {
			return false
		}
	}
	return true
}

func (in *Interpreter) dispatch(kw Keyword) task.Reply {
	switch kw {
	case KwHelp:
		in.printHelp()
		return task.ReplyAck
	case KwQuit:
		return task.ReplyClose
	case KwPrint:
		in.Print(in.Stack.String())
		return task.ReplyAck
	case KwDrop:
		in.Stack.Drop()
		return task.ReplyAck
	case KwClear:
		in.Stack.Clear()
		return task.ReplyAck
	case KwPlus:
		return in.arith(func(a, b int32) int32 { return a + b })
	case KwMinus:
		return in.arith(func(a, b int32) int32 { return a - b })
	case KwTimes:
		return in.arith(func(a, b int32) int32 { return a * b })
	case KwDivide:
		return in.divide()
	case KwTgGetMe:
		return in.enqueueTelegramCall(tgapi.GetMe)
	case KwTgGetUpdates:
		return in.enqueueTelegramCall(tgapi.GetUpdates)
	default:
		return task.ReplyError
	}
}

func (in *Interpreter) printHelp() {
	in.Print("[HELP] The following commands are accepted:")
	for _, k := range keywordTable {
		in.Print(fmt.Sprintf("[HELP] %q", k.token))
		in.Print(fmt.Sprintf("[HELP]     Stack: %s", k.stackEffect))
		in.Print(fmt.Sprintf("[HELP]     Description: %s", k.description))
	}
}

// arith implements +, -, * with two's-complement wraparound on overflow.
func (in *Interpreter) arith(op func(a, b int32) int32) task.Reply {
	x, y, ok := in.Stack.TopTwoInts()
	if !ok {
		return task.ReplyError
	}
	in.Stack.ReplaceTopWithInt(op(x, y))
	return task.ReplyAck
}

func (in *Interpreter) divide() task.Reply {
	x, y, ok := in.Stack.TopTwoInts()
	if !ok {
		return task.ReplyError
	}
	if y == 0 {
		return task.ReplyError
	}
	in.Stack.ReplaceTopWithInt(x / y)
	return task.ReplyAck
}

// enqueueTelegramCall backs the tg-getMe/tg-getUpdates keywords: it
// requires a top-of-stack String (the bot token), builds the URL, appends
// a CurlMulti(CurlEasy(Arena(Const(url) ▸ CurlPerform ▸ ParseJsonValue ▸
// interpret))) tree to the runner, then pops the token.
func (in *Interpreter) enqueueTelegramCall(method tgapi.Method) task.Reply {
	top, ok := in.Stack.Top()
	if !ok || top.Kind != ValString {
		return task.ReplyError
	}

	var call tgapi.MethodCall
	switch method {
	case tgapi.GetMe:
		call = tgapi.NewGetMeCall(top.Str)
	case tgapi.GetUpdates:
		call = tgapi.NewGetUpdatesCall(top.Str)
	default:
		return task.ReplyError
	}
	url := tgapi.BuildURL(call)

	child := buildTelegramRequestTree(in.Pool, url, method)
	if err := in.Enqueue(child); err != nil {
		if errors.Is(err, errParallelFull) {
			in.Print(fmt.Sprintf("[ERROR] %s", err))
		}
		return task.ReplyError
	}

	in.Stack.Drop()
	return task.ReplyAck
}

var errParallelFull = errors.New("replcmd: runner is at MaxParCount")

// buildTelegramRequestTree builds the bind chain
// Const(url) ▸ CurlPerform ▸ ParseJsonValue ▸ (GetTgUser | GetTgUpdateList)
// wrapped in Arena ▸ CurlEasy ▸ CurlMulti contexts.
func buildTelegramRequestTree(pool *task.Pool, url string, method tgapi.Method) task.Ref {
	start := pool.Const(task.ResultDone(task.StringValue(url)))

	performChain := pool.Then(start, func(p *task.Pool, r task.Result) task.Ref {
		return p.CurlPerform(r.Value.Str)
	})

	parseChain := pool.Then(performChain, func(p *task.Pool, r task.Result) task.Ref {
		return p.ParseJSONValue([]byte(r.Value.Str))
	})

	interpretChain := pool.Then(parseChain, func(p *task.Pool, r task.Result) task.Ref {
		switch method {
		case tgapi.GetUpdates:
			return p.GetTgUpdateList(r.Value.JSON)
		default:
			return p.GetTgUser(r.Value.JSON)
		}
	})

	arenaCtx := pool.ContextNode(task.ContextArena, interpretChain)
	easyCtx := pool.ContextNode(task.ContextCurlEasy, arenaCtx)
	multiCtx := pool.ContextNode(task.ContextCurlMulti, easyCtx)
	return multiCtx
}
