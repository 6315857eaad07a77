package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/bitlogic/pkg/core/value"
)

func TestValueCreation(t *testing.T) {
	assert.Equal(t, value.One, value.Bit(true))
	assert.Equal(t, value.Zero, value.Bit(false))
	assert.Equal(t, value.TypeBit, value.Bit(true).Type)
	assert.False(t, value.Void.IsBit(), "void must not be a bit")
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want value.Value
		ok   bool
	}{
		{"0", value.Zero, true},
		{"1", value.One, true},
		{"2", value.Void, false},
		{"", value.Void, false},
		{"01", value.Void, false},
		{"0x1", value.Void, false},
	}

	for _, tt := range tests {
		got, ok := value.Parse(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1", value.One.Format())
	assert.Equal(t, "0", value.Zero.String())
	assert.Equal(t, "None", value.Void.Format())
	assert.Equal(t, 1, value.One.Int())
	assert.Equal(t, 0, value.Zero.Int())
}
