// Package filter provides scale generation and complex Morlet wavelet
// bank synthesis for the continuous wavelet transform.
package filter

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// minScaleCount is the smallest scale count for which geometric spacing is
// defined (the spacing exponent divides by n-1).
const minScaleCount = 2

// ScaleSet is an ordered set of wavelet scales and their companion
// frequencies. Scales are strictly increasing; frequencies are the
// reciprocals and therefore strictly decreasing, running from the upper
// frequency down to the lower frequency of the configured range.
type ScaleSet struct {
	// Scales in seconds, strictly increasing.
	Scales []float64

	// Frequencies in Hz, Frequencies[i] = 1/Scales[i].
	Frequencies []float64
}

// NScales returns the number of scales in the set.
func (s ScaleSet) NScales() int {
	return len(s.Scales)
}

// MaxScale returns the largest (last) scale. The set must be non-empty.
func (s ScaleSet) MaxScale() float64 {
	return s.Scales[len(s.Scales)-1]
}

// GeometricScales derives n geometrically spaced scales covering the
// frequency range [lowerFreq, upperFreq].
//
// The first scale is 1/upperFreq and the last is 1/lowerFreq, with a
// constant ratio between consecutive scales:
//
//	base = (s_n/s_0)^(1/(n-1)), scale[i] = s_0 · base^i
//
// Exponential spacing keeps relative frequency resolution constant across
// octaves, matching common wavelet-transform practice.
func GeometricScales(lowerFreq, upperFreq float64, n int) (ScaleSet, error) {
	if lowerFreq <= 0 {
		return ScaleSet{}, fmt.Errorf("lower frequency must be positive, got %g", lowerFreq)
	}
	if lowerFreq >= upperFreq {
		return ScaleSet{}, fmt.Errorf("invalid frequency range: lower %g >= upper %g", lowerFreq, upperFreq)
	}
	if n < minScaleCount {
		return ScaleSet{}, fmt.Errorf("need at least %d scales, got %d", minScaleCount, n)
	}

	s0 := 1.0 / upperFreq
	sn := 1.0 / lowerFreq

	// LogSpan fills the slice with geometrically spaced values from s0 to
	// sn inclusive, which is exactly s_0 · base^i.
	scales := floats.LogSpan(make([]float64, n), s0, sn)

	frequencies := make([]float64, n)
	for i, s := range scales {
		frequencies[i] = 1.0 / s
	}

	return ScaleSet{Scales: scales, Frequencies: frequencies}, nil
}
