package filter

import (
	"math"
)

// defaultResponsePoints is used when the caller passes a non-positive count.
const defaultResponsePoints = 512

// BankResponse holds the frequency response of one scale column of a bank.
type BankResponse struct {
	// Frequencies at which the response was evaluated, in Hz (0 to fs/2).
	Frequencies []float64

	// Magnitude response at each frequency (linear scale).
	Magnitude []float64

	// Phase response at each frequency (radians).
	Phase []float64
}

// ComputeBankResponse evaluates the DTFT of one complex scale column
// h[n] = real[n] + j·imag[n] at numPoints frequencies from 0 to Nyquist:
//
//	H(f) = Σ h[n] · e^(-j·2π·f·n/fs)
//
// A well-formed Morlet column peaks near its nominal scale frequency,
// which makes this the primary diagnostic for bank synthesis.
func ComputeBankResponse(bank Bank, scaleIdx int, fs float64, numPoints int) BankResponse {
	if numPoints <= 0 {
		numPoints = defaultResponsePoints
	}

	real := bank.Real[scaleIdx]
	imag := bank.Imag[scaleIdx]

	response := BankResponse{
		Frequencies: make([]float64, numPoints),
		Magnitude:   make([]float64, numPoints),
		Phase:       make([]float64, numPoints),
	}

	nyquist := fs / 2.0
	for k := range numPoints {
		freq := nyquist * float64(k) / float64(numPoints)
		response.Frequencies[k] = freq

		omega := 2 * math.Pi * freq / fs

		// (re + j·im)·(cos - j·sin) accumulated over taps.
		var realPart, imagPart float64
		for n := range real {
			angle := omega * float64(n)
			c, s := math.Cos(angle), math.Sin(angle)
			realPart += real[n]*c + imag[n]*s
			imagPart += imag[n]*c - real[n]*s
		}

		response.Magnitude[k] = math.Sqrt(realPart*realPart + imagPart*imagPart)
		response.Phase[k] = math.Atan2(imagPart, realPart)
	}

	return response
}

// PeakFrequency returns the frequency of the maximum magnitude in the
// response.
func (r BankResponse) PeakFrequency() float64 {
	peakIdx := 0
	for i, m := range r.Magnitude {
		if m > r.Magnitude[peakIdx] {
			peakIdx = i
		}
	}
	return r.Frequencies[peakIdx]
}

// MagnitudeDB converts linear magnitude to decibels.
func MagnitudeDB(magnitude float64) float64 {
	const (
		minMagnitude = 1e-10 // Avoid log(0)
		dbMultiplier = 20.0  // 20*log10 for magnitude
	)

	if magnitude < minMagnitude {
		magnitude = minMagnitude
	}
	return dbMultiplier * math.Log10(magnitude)
}
