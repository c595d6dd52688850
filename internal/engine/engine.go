// Package engine applies a complex filter bank to batched signals,
// producing cropped, formatted scalogram tensors.
package engine

import (
	"fmt"
	"math"
	"sync"
)

// OutputMode selects how the complex response is formatted.
type OutputMode int

const (
	// ModeComplex concatenates real and imaginary responses along the
	// channel axis, doubling the channel count.
	ModeComplex OutputMode = iota

	// ModeMagnitude emits sqrt(re² + im²) per channel.
	ModeMagnitude

	// ModePhase emits atan2(im, re) per channel.
	ModePhase
)

// Layout is the axis order of input and output tensors.
type Layout int

const (
	// ChannelsLast is [batch, time, channels] in, [batch, time, scales, channels] out.
	ChannelsLast Layout = iota

	// ChannelsFirst is [batch, channels, time] in, [batch, channels, time, scales] out.
	ChannelsFirst
)

// Result is a scalogram tensor in flat row-major storage. The axis order
// of Data follows Layout; Batch/Time/Scales/Channels are the semantic
// dimensions regardless of layout.
type Result[F Float] struct {
	Data     []F
	Batch    int
	Time     int
	Scales   int
	Channels int
	Layout   Layout
}

// Index returns the flat offset of the element at the semantic coordinates
// (batch, time, scale, channel).
func (r *Result[F]) Index(b, t, s, c int) int {
	if r.Layout == ChannelsFirst {
		return ((b*r.Channels+c)*r.Time+t)*r.Scales + s
	}
	return ((b*r.Time+t)*r.Scales+s)*r.Channels + c
}

// At returns the element at the semantic coordinates.
func (r *Result[F]) At(b, t, s, c int) F {
	return r.Data[r.Index(b, t, s, c)]
}

// Transformer runs the scalogram computation for a fixed configuration.
// It holds no mutable state: Apply is a pure function of the signal batch
// and the bank taps passed to it, and is safe for concurrent calls.
type Transformer[F Float] struct {
	nScales    int
	borderCrop int
	stride     int
	mode       OutputMode
	layout     Layout
	parallel   bool
}

// NewTransformer validates the static configuration eagerly.
func NewTransformer[F Float](nScales, borderCrop, stride int, mode OutputMode, layout Layout, parallel bool) (*Transformer[F], error) {
	if nScales < 2 {
		return nil, fmt.Errorf("need at least 2 scales, got %d", nScales)
	}
	if borderCrop < 0 {
		return nil, fmt.Errorf("border crop must be non-negative, got %d", borderCrop)
	}
	if stride < 1 {
		return nil, fmt.Errorf("stride must be at least 1, got %d", stride)
	}
	switch mode {
	case ModeComplex, ModeMagnitude, ModePhase:
	default:
		return nil, fmt.Errorf("unknown output mode %d", mode)
	}
	switch layout {
	case ChannelsLast, ChannelsFirst:
	default:
		return nil, fmt.Errorf("unknown layout %d", layout)
	}

	return &Transformer[F]{
		nScales:    nScales,
		borderCrop: borderCrop,
		stride:     stride,
		mode:       mode,
		layout:     layout,
		parallel:   parallel,
	}, nil
}

// SignalDims validates the shape of a signal batch for the given layout
// and returns its dimensions. Every batch entry must agree on the time
// and channel extents.
func SignalDims[F Float](signal [][][]F, layout Layout) (batch, timeIn, channels int, err error) {
	batch = len(signal)
	if batch == 0 {
		return 0, 0, 0, fmt.Errorf("empty batch")
	}

	if layout == ChannelsFirst {
		channels = len(signal[0])
		if channels == 0 {
			return 0, 0, 0, fmt.Errorf("batch entry 0 has no channels")
		}
		timeIn = len(signal[0][0])
		if timeIn == 0 {
			return 0, 0, 0, fmt.Errorf("empty time axis")
		}
		for b := range signal {
			if len(signal[b]) != channels {
				return 0, 0, 0, fmt.Errorf("batch entry %d has %d channels, want %d", b, len(signal[b]), channels)
			}
			for c := range signal[b] {
				if len(signal[b][c]) != timeIn {
					return 0, 0, 0, fmt.Errorf("batch entry %d channel %d has length %d, want %d", b, c, len(signal[b][c]), timeIn)
				}
			}
		}
		return batch, timeIn, channels, nil
	}

	timeIn = len(signal[0])
	if timeIn == 0 {
		return 0, 0, 0, fmt.Errorf("empty time axis")
	}
	channels = len(signal[0][0])
	if channels == 0 {
		return 0, 0, 0, fmt.Errorf("batch entry 0 has no channels")
	}
	for b := range signal {
		if len(signal[b]) != timeIn {
			return 0, 0, 0, fmt.Errorf("batch entry %d has time length %d, want %d", b, len(signal[b]), timeIn)
		}
		for t := range signal[b] {
			if len(signal[b][t]) != channels {
				return 0, 0, 0, fmt.Errorf("batch entry %d sample %d has %d channels, want %d", b, t, len(signal[b][t]), channels)
			}
		}
	}
	return batch, timeIn, channels, nil
}

// OutputTime returns the cropped output time length for an input of the
// given length, or an error when cropping would consume the whole axis.
func (e *Transformer[F]) OutputTime(timeIn int) (int, error) {
	timeConv := ceilDiv(timeIn, e.stride)
	crop := e.borderCrop / e.stride
	timeOut := timeConv - 2*crop
	if timeOut <= 0 {
		return 0, fmt.Errorf("border crop %d consumes the whole time axis (%d strided samples)", e.borderCrop, timeConv)
	}
	return timeOut, nil
}

// Apply convolves every channel of the signal batch against every bank
// column, crops the borders, and formats the result. realTaps and imagTaps
// are indexed [scale][tap] with one row per configured scale, all rows of
// one odd length. Channels are processed independently; the imaginary
// response uses the negated taps (see bankApplier).
func (e *Transformer[F]) Apply(signal [][][]F, realTaps, imagTaps [][]float64) (*Result[F], error) {
	batch, timeIn, channels, err := SignalDims(signal, e.layout)
	if err != nil {
		return nil, err
	}
	if err := e.checkBank(realTaps, imagTaps); err != nil {
		return nil, err
	}

	timeOut, err := e.OutputTime(timeIn)
	if err != nil {
		return nil, err
	}
	crop := e.borderCrop / e.stride

	channelsOut := channels
	if e.mode == ModeComplex {
		channelsOut = 2 * channels
	}

	result := &Result[F]{
		Data:     make([]F, batch*timeOut*e.nScales*channelsOut),
		Batch:    batch,
		Time:     timeOut,
		Scales:   e.nScales,
		Channels: channelsOut,
		Layout:   e.layout,
	}

	applier := newBankApplier[F](realTaps, imagTaps)
	_, padLeft, padTotal := samePadding(timeIn, applier.kernelLen, e.stride)

	work := func(b, c int) {
		padded := make([]F, timeIn+padTotal)
		e.gatherChannel(padded[padLeft:], signal, b, c)

		re, im := applier.respond(padded)
		e.writeChannel(result, re, im, b, c, channels, crop)
	}

	if e.parallel && batch*channels > 1 {
		var wg sync.WaitGroup
		for b := range batch {
			for c := range channels {
				wg.Add(1)
				go func(b, c int) {
					defer wg.Done()
					work(b, c)
				}(b, c)
			}
		}
		wg.Wait()
	} else {
		for b := range batch {
			for c := range channels {
				work(b, c)
			}
		}
	}

	return result, nil
}

// checkBank verifies the bank taps against the configured scale count.
func (e *Transformer[F]) checkBank(realTaps, imagTaps [][]float64) error {
	if len(realTaps) != e.nScales || len(imagTaps) != e.nScales {
		return fmt.Errorf("bank has %d real / %d imaginary rows, want %d", len(realTaps), len(imagTaps), e.nScales)
	}
	kernelLen := len(realTaps[0])
	if kernelLen == 0 || kernelLen%2 == 0 {
		return fmt.Errorf("kernel length %d must be odd", kernelLen)
	}
	for i := range realTaps {
		if len(realTaps[i]) != kernelLen || len(imagTaps[i]) != kernelLen {
			return fmt.Errorf("bank row %d has ragged kernel length", i)
		}
	}
	return nil
}

// gatherChannel copies one channel's samples into dst, transposing from
// channels-last storage when needed.
func (e *Transformer[F]) gatherChannel(dst []F, signal [][][]F, b, c int) {
	if e.layout == ChannelsFirst {
		copy(dst, signal[b][c])
		return
	}
	for t := range signal[b] {
		dst[t] = signal[b][t][c]
	}
}

// writeChannel subsamples the full-rate responses by the stride, applies
// the border crop, formats per the output mode, and stores into the
// result tensor. Each (batch, channel) pair writes a disjoint set of
// elements, so concurrent calls need no locking.
func (e *Transformer[F]) writeChannel(result *Result[F], re, im [][]F, b, c, channelsIn, crop int) {
	for s := range e.nScales {
		reRow, imRow := re[s], im[s]
		for t := range result.Time {
			full := (t + crop) * e.stride
			rv, iv := reRow[full], imRow[full]

			switch e.mode {
			case ModeComplex:
				result.Data[result.Index(b, t, s, c)] = rv
				result.Data[result.Index(b, t, s, channelsIn+c)] = iv
			case ModeMagnitude:
				result.Data[result.Index(b, t, s, c)] = F(math.Sqrt(float64(rv)*float64(rv) + float64(iv)*float64(iv)))
			case ModePhase:
				result.Data[result.Index(b, t, s, c)] = F(math.Atan2(float64(iv), float64(rv)))
			}
		}
	}
}
