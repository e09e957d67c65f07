// internal/measure/measure_test.go
package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	b := Encode(Measurement{Mean: 1.2345, Variance: VarianceUnknown})
	assert.Equal(t, [PayloadSize]byte{0xF0, 0x3C, 0x00, 0x00}, b)

	b = Encode(Measurement{Mean: -2, Variance: 1})
	assert.Equal(t, [PayloadSize]byte{0x00, 0xC0, 0x00, 0x3C}, b)
}

func TestDecode_QuantizedRoundTrip(t *testing.T) {
	in := Measurement{Mean: 1.2345, Variance: 0.5}
	b := Encode(in)

	out, err := Decode(b[:])
	require.NoError(t, err)
	assert.InDelta(t, in.Mean, out.Mean, 0.001)
	assert.Equal(t, float32(0.5), out.Variance)

	again := Encode(out)
	assert.Equal(t, b, again, "second quantization must be a no-op")
}

func TestVarianceUnknownSurvivesWire(t *testing.T) {
	m, err := Static{Mean: 3}.Measure()
	require.NoError(t, err)

	b := Encode(m)
	out, err := Decode(b[:])
	require.NoError(t, err)
	assert.False(t, out.VarianceKnown())
}

func TestDecode_RejectsLength(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestSourceFunc(t *testing.T) {
	calls := 0
	src := SourceFunc(func() (Measurement, error) {
		calls++
		return Measurement{Mean: float32(calls)}, nil
	})

	m, err := src.Measure()
	require.NoError(t, err)
	assert.Equal(t, float32(1), m.Mean)
	assert.Equal(t, 1, calls)
}
