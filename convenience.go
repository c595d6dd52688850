package cwt

import "github.com/tphakala/go-cwt/internal/mathutil"

// NewMagnitude creates a Transform emitting magnitude scalograms with
// otherwise default settings for the given frequency range.
func NewMagnitude(lowerFreq, upperFreq float64, nScales int, sampleRate float64) (*Transform, error) {
	config := DefaultConfig(lowerFreq, upperFreq, nScales, sampleRate)
	config.OutputMode = OutputMagnitude
	return New(config)
}

// NewPhase creates a Transform emitting phase scalograms with otherwise
// default settings for the given frequency range.
func NewPhase(lowerFreq, upperFreq float64, nScales int, sampleRate float64) (*Transform, error) {
	config := DefaultConfig(lowerFreq, upperFreq, nScales, sampleRate)
	config.OutputMode = OutputPhase
	return New(config)
}

// MagnitudeScalogram computes a one-shot magnitude scalogram of a mono
// signal with default settings. For repeated transforms, construct a
// Transform once and reuse it.
func MagnitudeScalogram(samples []float64, lowerFreq, upperFreq float64, nScales int, sampleRate float64) (*Scalogram[float64], error) {
	transform, err := NewMagnitude(lowerFreq, upperFreq, nScales, sampleRate)
	if err != nil {
		return nil, err
	}
	return transform.ApplyMono(samples)
}

// EffectiveCycles returns the approximate number of carrier cycles a
// Morlet wavelet of the given width completes inside its truncation window,
// about sqrt(18·width). Width 0.9 gives roughly 4 cycles.
func EffectiveCycles(width float64) float64 {
	return mathutil.EffectiveCycles(width)
}

// WidthForCycles returns the wavelet width giving the requested number of
// effective carrier cycles, cycles²/18. Useful because practitioners pick
// wavelets by cycle count rather than by width directly.
func WidthForCycles(cycles float64) float64 {
	return mathutil.WidthForCycles(cycles)
}
