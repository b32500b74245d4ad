package replcmd

// Keyword enumerates the interpreter's exhaustive keyword set.
type Keyword int

const (
	KwHelp Keyword = iota
	KwQuit
	KwPrint
	KwDrop
	KwClear
	KwPlus
	KwMinus
	KwTimes
	KwDivide
	KwTgGetMe
	KwTgGetUpdates
	keywordCount
)

// keywordInfo pairs each keyword with its literal token, stack-effect
// notation, and description — what the help command prints for each row.
type keywordInfo struct {
	token       string
	keyword     Keyword
	stackEffect string
	description string
}

var keywordTable = []keywordInfo{
	{"help", KwHelp, "( -> )", "print command table"},
	{"quit", KwQuit, "( -> )", "terminate"},
	{"print", KwPrint, "( -> )", "print current stack"},
	{"drop", KwDrop, "( a -> )", "pop one"},
	{"clear", KwClear, "( ... -> )", "pop all"},
	{"+", KwPlus, "( int int -> int )", "add the top two values"},
	{"-", KwMinus, "( int int -> int )", "subtract the top two values"},
	{"*", KwTimes, "( int int -> int )", "multiply the top two values"},
	{"/", KwDivide, "( int int -> int )", "divide the top two values"},
	{"tg-getMe", KwTgGetMe, "( string -> )", "enqueue GetMe call with token on top-of-stack"},
	{"tg-getUpdates", KwTgGetUpdates, "( string -> )", "enqueue GetUpdates call with token"},
}

// lookupKeyword returns the keyword matching token, if any.
func lookupKeyword(token string) (Keyword, bool) {
	for _, k := range keywordTable {
		if k.token == token {
			return k.keyword, true
		}
	}
	return 0, false
}
