// internal/measure/measure.go

// Package measure holds the published physical quantity and its payload codec.
package measure

import (
	"encoding/binary"
	"fmt"

	"github.com/tamzrod/canode/internal/float16"
)

// DataTypeTrueAirspeed is the data type id of the measurement message.
const DataTypeTrueAirspeed uint16 = 1020

// PayloadSize is the encoded measurement size.
const PayloadSize = 4

// VarianceUnknown marks a measurement whose uncertainty is not known.
// A variance of exactly zero never means perfect knowledge.
const VarianceUnknown float32 = 0

// Measurement is a mean with its variance.
type Measurement struct {
	Mean     float32
	Variance float32
}

// VarianceKnown reports whether Variance carries information.
func (m Measurement) VarianceKnown() bool {
	return m.Variance != VarianceUnknown
}

// Source produces a fresh measurement per call.
type Source interface {
	Measure() (Measurement, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Measurement, error)

func (f SourceFunc) Measure() (Measurement, error) { return f() }

// Static always returns the same value.
type Static Measurement

func (s Static) Measure() (Measurement, error) { return Measurement(s), nil }

// Encode packs half(mean) ++ half(variance), both little-endian.
func Encode(m Measurement) [PayloadSize]byte {
	var b [PayloadSize]byte
	binary.LittleEndian.PutUint16(b[0:2], float16.ToHalf(m.Mean))
	binary.LittleEndian.PutUint16(b[2:4], float16.ToHalf(m.Variance))
	return b
}

// Decode is the receive-side inverse of Encode.
func Decode(b []byte) (Measurement, error) {
	if len(b) != PayloadSize {
		return Measurement{}, fmt.Errorf("measure: payload length %d, want %d", len(b), PayloadSize)
	}
	return Measurement{
		Mean:     float16.FromHalf(binary.LittleEndian.Uint16(b[0:2])),
		Variance: float16.FromHalf(binary.LittleEndian.Uint16(b[2:4])),
	}, nil
}
