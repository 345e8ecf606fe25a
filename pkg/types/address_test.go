package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeAddress(t *testing.T) {
	tests := []struct {
		in      string
		value   uint32
		width   uint8
		wantErr error
	}{
		{"000", 0, 3, nil},
		{"101", 5, 3, nil},
		{"111", 7, 3, nil},
		{" 01 ", 1, 2, nil},
		{"", 0, 0, ErrEmptyAddress},
		{"1a1", 0, 0, ErrInvalidAddress},
		{"10000000000000000", 0, 0, ErrInvalidAddressWidth},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseNodeAddress(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, a.Value())
			assert.Equal(t, tt.width, a.Width())
		})
	}
}

func TestNodeAddress_String(t *testing.T) {
	// 定宽补零
	assert.Equal(t, "000", MustNodeAddress(0, 3).String())
	assert.Equal(t, "011", MustNodeAddress(3, 3).String())
	assert.Equal(t, "0101", MustNodeAddress(5, 4).String())
	assert.Equal(t, "", NodeAddress{}.String())
}

func TestNewNodeAddress_OutOfRange(t *testing.T) {
	_, err := NewNodeAddress(8, 3)
	assert.ErrorIs(t, err, ErrAddressOutOfRange)

	_, err = NewNodeAddress(0, 0)
	assert.ErrorIs(t, err, ErrInvalidAddressWidth)
}

func TestNodeAddress_Distance(t *testing.T) {
	a := MustNodeAddress(0b000, 3)
	b := MustNodeAddress(0b101, 3)

	assert.Equal(t, 2, a.Distance(b))
	assert.Equal(t, 0, a.Distance(a))
	assert.Equal(t, uint32(0b101), a.Xor(b))
	assert.Equal(t, MustNodeAddress(0b100, 3), a.FlipBit(2))
}

func TestNodeAddress_JSON(t *testing.T) {
	in := map[string]NodeAddress{"owner": MustNodeAddress(6, 3)}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"110"}`, string(data))

	var out map[string]NodeAddress
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestSpaceForNodes(t *testing.T) {
	tests := []struct {
		n    int
		bits uint8
	}{
		{1, 1},
		{2, 1},
		{3, 2},
		{8, 3},
		{9, 4},
		{16, 4},
	}

	for _, tt := range tests {
		s, err := SpaceForNodes(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.bits, s.Bits(), "n=%d", tt.n)
	}

	_, err := SpaceForNodes(0)
	assert.Error(t, err)
}

func TestSpace_All(t *testing.T) {
	s := DefaultSpace()
	all := s.All()

	require.Len(t, all, 8)
	for i, a := range all {
		assert.Equal(t, uint32(i), a.Value())
		assert.True(t, s.Contains(a))
	}
	assert.Equal(t, "000", all[0].String())
	assert.Equal(t, "111", all[7].String())
}

func TestSpace_Parse(t *testing.T) {
	s := DefaultSpace()

	a, err := s.Parse("110")
	require.NoError(t, err)
	assert.Equal(t, uint32(6), a.Value())

	// 宽度不匹配
	_, err = s.Parse("10")
	assert.ErrorIs(t, err, ErrInvalidAddressWidth)
}
