package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFinitePositiveF64(t *testing.T) {
	t.Parallel()

	v, err := NewFinitePositiveF64(3.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.Float64())

	v, err = NewFinitePositiveF64(0.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Float64())

	_, err = NewFinitePositiveF64(-3.0)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewFinitePositiveF64(math.Copysign(0, -1))
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewFinitePositiveF64(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewFinitePositiveF64(math.Inf(1))
	assert.ErrorIs(t, err, ErrInvalidNumber)

	_, err = NewFinitePositiveF64(math.Inf(-1))
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestParseFinitePositiveF64(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "decimal", input: "1.4", want: 1.4},
		{name: "empty", input: "", wantErr: true},
		{name: "non numeric", input: "blah", wantErr: true},
		{name: "negative zero", input: "-0", wantErr: true},
		{name: "negative", input: "-3.4", wantErr: true},
		{name: "leading and trailing whitespace", input: "  1.4  ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFinitePositiveF64(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Float64())
		})
	}
}

func TestParseFinitePositiveF64Overflow(t *testing.T) {
	t.Parallel()
	// Scientific notation overflowing to +Inf must be rejected, not silently
	// clamped to a finite value.
	_, err := ParseFinitePositiveF64("1e500")
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestFinitePositiveF64Compare(t *testing.T) {
	t.Parallel()

	a, err := NewFinitePositiveF64(1)
	require.NoError(t, err)
	b, err := NewFinitePositiveF64(2)
	require.NoError(t, err)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}
