package interp

import (
	"github.com/agenthands/bitlogic/pkg/core/diag"
	"github.com/agenthands/bitlogic/pkg/core/value"
)

// Operator is a logic operator of the language.
type Operator uint8

const (
	OpAnd Operator = iota + 1
	OpOr
	OpXor
	OpNot
	OpNand
	OpNor
	OpXnor
)

var operatorNames = map[string]Operator{
	"and":  OpAnd,
	"or":   OpOr,
	"xor":  OpXor,
	"not":  OpNot,
	"nand": OpNand,
	"nor":  OpNor,
	"xnor": OpXnor,
}

// LookupOperator resolves the operator spelled text.
func LookupOperator(text string) (Operator, error) {
	op, ok := operatorNames[text]
	if !ok {
		return 0, diag.Errorf(diag.KindUnknownOperator, "%s", text)
	}
	return op, nil
}

func (op Operator) String() string {
	for name, o := range operatorNames {
		if o == op {
			return name
		}
	}
	return "unknown"
}

// Apply folds the operator over all operands. Every operator needs at least
// one operand; not takes exactly one.
func (op Operator) Apply(operands []value.Value) (value.Value, error) {
	if len(operands) == 0 {
		return value.Void, diag.Errorf(diag.KindOperandCount, "%s expects at least one operand", op)
	}

	ones := 0
	for _, v := range operands {
		ones += v.Int()
	}
	all := ones == len(operands)
	some := ones > 0
	odd := ones%2 == 1

	switch op {
	case OpAnd:
		return value.Bit(all), nil
	case OpOr:
		return value.Bit(some), nil
	case OpXor:
		return value.Bit(odd), nil
	case OpNand:
		return value.Bit(!all), nil
	case OpNor:
		return value.Bit(!some), nil
	case OpXnor:
		return value.Bit(!odd), nil
	case OpNot:
		if len(operands) != 1 {
			return value.Void, diag.Errorf(diag.KindOperandCount, "not expects 1 operand, got %d", len(operands))
		}
		return value.Bit(!all), nil
	}
	return value.Void, diag.Errorf(diag.KindUnknownOperator, "%s", op)
}
