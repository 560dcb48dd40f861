package parser

// CharPred is a named test over a single symbol. The name shows up in
// error messages as the thing that was expected.
type CharPred struct {
	Name string
	fn   func(c rune) bool
}

// NewCharPred returns a predicate called name that accepts c when fn(c).
func NewCharPred(name string, fn func(c rune) bool) CharPred {
	return CharPred{Name: name, fn: fn}
}

// Match reports whether c satisfies the predicate. EOF never matches.
func (p CharPred) Match(c rune) bool {
	if c == EOF || p.fn == nil {
		return false
	}
	return p.fn(c)
}

func (p CharPred) String() string {
	return p.Name
}

var (
	IsSpace = NewCharPred("space", func(c rune) bool {
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
	IsDigit = NewCharPred("digit", func(c rune) bool {
		return c >= '0' && c <= '9'
	})
	IsUpper = NewCharPred("uppercase", func(c rune) bool {
		return c >= 'A' && c <= 'Z'
	})
	IsLower = NewCharPred("lowercase", func(c rune) bool {
		return c >= 'a' && c <= 'z'
	})
	IsAlpha = NewCharPred("alphabetic", func(c rune) bool {
		return IsUpper.Match(c) || IsLower.Match(c)
	})
	IsAlnum = NewCharPred("alphanumeric", func(c rune) bool {
		return IsAlpha.Match(c) || IsDigit.Match(c)
	})
	IsPrint = NewCharPred("printable", func(c rune) bool {
		return c >= 0x20 && c < 0x7f
	})
	IsMinus = IsChar('-')
)

// IsChar matches exactly k.
func IsChar(k rune) CharPred {
	return NewCharPred("'"+string(k)+"'", func(c rune) bool {
		return c == k
	})
}

// Either matches when a or b matches.
func Either(a, b CharPred) CharPred {
	return NewCharPred("("+a.Name+" | "+b.Name+")", func(c rune) bool {
		return a.Match(c) || b.Match(c)
	})
}

// Not matches any symbol a rejects, except EOF.
func Not(a CharPred) CharPred {
	return NewCharPred("~"+a.Name, func(c rune) bool {
		return !a.Match(c)
	})
}

var (
	isNewline    = IsChar('\n')
	isInlineSp   = NewCharPred("inline space", func(c rune) bool { return c == ' ' || c == '\t' || c == '\r' })
	isIdentTail  = Either(IsAlnum, IsChar('_'))
	isQuote      = IsChar('"')
	isBackslash  = IsChar('\\')
	isOperatorCh = NewCharPred("operator", func(c rune) bool {
		switch c {
		case '+', '-', '*', '/', '<', '>', '=', '!', '~':
			return true
		}
		return false
	})
	isAssignOpCh = NewCharPred("operator", func(c rune) bool {
		return c != '=' && isOperatorCh.Match(c)
	})
)
