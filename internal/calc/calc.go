// Package calc is a four-function calculator expressed as a pure transition
// function over an explicit State. Callers render State.Display() and honour
// the returned Effect; nothing in here touches a terminal or a clock.
package calc

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DivideByZeroMessage replaces the display while a fault is pending.
const DivideByZeroMessage = "Error: Division by zero"

type Operator string

const (
	OpNone Operator = ""
	OpAdd  Operator = "+"
	OpSub  Operator = "-"
	OpMul  Operator = "*"
	OpDiv  Operator = "/"
)

// State is the whole calculator. The zero value is the cleared calculator.
type State struct {
	Current     string
	Previous    string
	HasPrevious bool
	Op          Operator
	// ResetNext makes the next digit start a fresh number.
	ResetNext bool
	// Fault is the user-visible error while recovery is pending.
	Fault string
}

// Display is what the calculator screen shows.
func (s State) Display() string {
	switch {
	case s.Fault != "":
		return s.Fault
	case s.Current == "":
		return "0"
	default:
		return s.Current
	}
}

// Pending reports whether an operator awaits its second operand.
func (s State) Pending() bool { return s.Op != OpNone }

// Effect asks the caller to do something outside the state.
type Effect struct {
	// ScheduleReset: deliver Reset after the fault delay. There is no
	// cancellation; a Clear in between does not stop it.
	ScheduleReset bool
}

// Step applies one input. While a fault is shown only Clear and Reset are
// processed.
func Step(s State, in Input) (State, Effect) {
	if s.Fault != "" && in.Kind != KindClear && in.Kind != KindReset {
		return s, Effect{}
	}

	switch in.Kind {
	case KindDigit:
		return digit(s, in.Symbol), Effect{}
	case KindOperator:
		return operator(s, Operator(in.Symbol))
	case KindEquals:
		if s.Op == OpNone {
			return s, Effect{}
		}
		return compute(s)
	case KindClear, KindReset:
		return State{}, Effect{}
	}
	return s, Effect{}
}

func digit(s State, d string) State {
	if s.ResetNext {
		s.Current = ""
		s.ResetNext = false
	}
	if s.Current == "0" && d != "." {
		s.Current = d
	} else {
		s.Current += d
	}
	return s
}

func operator(s State, op Operator) (State, Effect) {
	var eff Effect
	if s.Op != OpNone && s.HasPrevious && !s.ResetNext {
		// left-to-right chaining, no precedence
		s, eff = compute(s)
	}
	if !s.HasPrevious {
		s.Previous = s.Current
		if s.Previous == "" {
			s.Previous = "0"
		}
		s.HasPrevious = true
	}
	s.Op = op
	s.ResetNext = true
	return s, eff
}

// compute applies the pending operator. Non-numeric operands leave s as is.
func compute(s State) (State, Effect) {
	if !s.HasPrevious {
		return s, Effect{}
	}
	prev, ok := ParseNumber(s.Previous)
	if !ok {
		return s, Effect{}
	}
	cur, ok := ParseNumber(s.Current)
	if !ok {
		return s, Effect{}
	}

	var r float64
	switch s.Op {
	case OpAdd:
		r = prev + cur
	case OpSub:
		r = prev - cur
	case OpMul:
		r = prev * cur
	case OpDiv:
		if cur == 0 {
			s.Fault = DivideByZeroMessage
			return s, Effect{ScheduleReset: true}
		}
		r = prev / cur
	default:
		return s, Effect{}
	}
	return State{Current: FormatNumber(r), ResetNext: true}, Effect{}
}

var numberPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseNumber reads the longest numeric prefix of s, ignoring leading
// whitespace, so "1.2.3" is 1.2 and "" or "." are not numbers.
func ParseNumber(s string) (float64, bool) {
	m := numberPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

// FormatNumber renders v in plain decimal notation, shortest form.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Eval feeds raw symbols through KeySymbol, Classify and Step starting from
// the cleared state. Unrecognised symbols are skipped.
func Eval(symbols ...string) State {
	var s State
	for _, raw := range symbols {
		sym, ok := KeySymbol(raw)
		if !ok {
			continue
		}
		in, ok := Classify(sym)
		if !ok {
			continue
		}
		s, _ = Step(s, in)
	}
	return s
}
