package value

import "fmt"

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeVoid Type = iota // no value, e.g. the result of a call without rt
	TypeBit
)

// Value is a tagged union.
type Value struct {
	Type Type
	Data uint64 // 0 or 1 for TypeBit
}

var (
	Void = Value{}
	Zero = Value{Type: TypeBit, Data: 0}
	One  = Value{Type: TypeBit, Data: 1}
)

// Bit returns One for true and Zero for false.
func Bit(b bool) Value {
	if b {
		return One
	}
	return Zero
}

// Parse converts the literal text "0" or "1" into a bit. Any other text is
// rejected.
func Parse(s string) (Value, bool) {
	switch s {
	case "0":
		return Zero, true
	case "1":
		return One, true
	}
	return Void, false
}

// IsBit reports whether the value holds a bit.
func (v Value) IsBit() bool {
	return v.Type == TypeBit
}

// Int returns the bit as 0 or 1.
func (v Value) Int() int {
	return int(v.Data & 1)
}

// Format returns the printed form of the value.
func (v Value) Format() string {
	switch v.Type {
	case TypeBit:
		if v.Data != 0 {
			return "1"
		}
		return "0"
	case TypeVoid:
		return "None"
	default:
		return fmt.Sprintf("%v", v.Data)
	}
}

func (v Value) String() string {
	return v.Format()
}
