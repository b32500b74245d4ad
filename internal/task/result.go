// Package task implements the cooperative task runtime: a fixed-capacity
// pool of task nodes, a non-blocking poll engine, and the layered context
// that manages scoped external resources (pipe descriptors, arenas, HTTP
// sessions) those nodes need.
package task

// State is the outcome of a single poll of a task node.
type State int

const (
	Pending State = iota
	Done
	Error
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ValueKind discriminates the payload carried by a Done Result.
type ValueKind int

const (
	ValueVoid ValueKind = iota
	ValueBool
	ValueInt
	ValueString
	ValueJSON
)

// JSONValue is an opaque handle to a parsed JSON value tree. The task
// package never inspects it directly — ParseJsonValue produces one and
// GetTgUser/GetTgUpdateList consume it via internal/jsonvalue, which is the
// only package that knows the concrete representation.
type JSONValue any

// Value is a tagged union over the payload kinds a Result can carry.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
	JSON JSONValue
}

func VoidValue() Value              { return Value{Kind: ValueVoid} }
func BoolValue(b bool) Value        { return Value{Kind: ValueBool, Bool: b} }
func IntValue(x int64) Value        { return Value{Kind: ValueInt, Int: x} }
func StringValue(s string) Value    { return Value{Kind: ValueString, Str: s} }
func JSONValueOf(v JSONValue) Value { return Value{Kind: ValueJSON, JSON: v} }

// Result is the (state, value) pair every poll returns. Pending and Error
// results carry a Void value; only Done results carry a meaningful payload.
type Result struct {
	State State
	Value Value
	Err   error
}

var ResultPending = Result{State: Pending, Value: VoidValue()}

func ResultDone(v Value) Result {
	return Result{State: Done, Value: v}
}

func ResultError(err error) Result {
	return Result{State: Error, Value: VoidValue(), Err: err}
}
