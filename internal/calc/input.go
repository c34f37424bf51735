package calc

// Kind is the class a raw input falls into.
type Kind int

const (
	KindDigit Kind = iota + 1
	KindOperator
	KindEquals
	KindClear
	// KindReset is the deferred recovery after a fault; never produced by
	// Classify.
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindDigit:
		return "digit"
	case KindOperator:
		return "operator"
	case KindEquals:
		return "equals"
	case KindClear:
		return "clear"
	case KindReset:
		return "reset"
	}
	return "unknown"
}

type Input struct {
	Kind   Kind
	Symbol string
}

// Reset is delivered once the fault delay has elapsed.
var Reset = Input{Kind: KindReset}

// Classify maps a button value to exactly one input kind. Anything that is
// not a digit, ".", an operator, "=" or "C" is rejected.
func Classify(raw string) (Input, bool) {
	switch raw {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".":
		return Input{Kind: KindDigit, Symbol: raw}, true
	case "+", "-", "*", "/":
		return Input{Kind: KindOperator, Symbol: raw}, true
	case "=":
		return Input{Kind: KindEquals, Symbol: raw}, true
	case "C":
		return Input{Kind: KindClear, Symbol: raw}, true
	}
	return Input{}, false
}

var keySymbols = map[string]string{
	"+":      "+",
	"-":      "-",
	"*":      "*",
	"/":      "/",
	"Enter":  "=",
	"=":      "=",
	"Escape": "C",
	"c":      "C",
	"C":      "C",
}

// KeySymbol maps a keyboard key name to a button symbol.
func KeySymbol(key string) (string, bool) {
	if len(key) == 1 && (key[0] >= '0' && key[0] <= '9' || key[0] == '.') {
		return key, true
	}
	sym, ok := keySymbols[key]
	return sym, ok
}
