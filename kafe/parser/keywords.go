package parser

var keywords = map[string]bool{
	"cst":   true,
	"fun":   true,
	"cls":   true,
	"new":   true,
	"if":    true,
	"then":  true,
	"elif":  true,
	"else":  true,
	"end":   true,
	"while": true,
	"do":    true,
	"ret":   true,
	"true":  true,
	"false": true,
	"and":   true,
	"or":    true,
	"not":   true,
}

var operators = map[string]bool{
	"+":   true,
	"-":   true,
	"*":   true,
	"/":   true,
	"<<":  true,
	"~":   true,
	"and": true,
	"or":  true,
	"not": true,
	"==":  true,
	"!=":  true,
	"<":   true,
	">":   true,
	"<=":  true,
	">=":  true,
}

var prefixOperators = map[string]bool{
	"-":   true,
	"~":   true,
	"not": true,
}

// compound assignment operators, as in `x += 1`
var assignOperators = map[string]bool{
	"+":  true,
	"-":  true,
	"*":  true,
	"/":  true,
	"<<": true,
}

// IsKeyword reports whether name is reserved and so cannot name a variable.
func IsKeyword(name string) bool {
	return keywords[name]
}

// IsOperator reports whether sym is a known operator.
func IsOperator(sym string) bool {
	return operators[sym]
}
