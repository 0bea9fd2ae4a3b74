package ir

// Op is a binary operator.
type Op int

// Binary operators. Comparisons yield 1 or 0. Or and And operate on
// logical values and evaluate both operands.
const (
	Or Op = iota
	And
	Eq
	Ne
	Le
	Ge
	Lt
	Gt
	Add
	Sub
	Mul
	Div
	Mod
)

var opNames = [...]string{
	Or:  "OR",
	And: "AND",
	Eq:  "EQU",
	Ne:  "NEQ",
	Le:  "LEQ",
	Ge:  "GEQ",
	Lt:  "LTH",
	Gt:  "GTH",
	Add: "ADD",
	Sub: "SUB",
	Mul: "MUL",
	Div: "DIV",
	Mod: "MOD",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "UNKNOWN"
	}
	return opNames[op]
}

// IsComparison reports whether op yields a logical value from two operands
// of the same type.
func (op Op) IsComparison() bool {
	return op >= Eq && op <= Gt
}
