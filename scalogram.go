package cwt

import "github.com/tphakala/go-cwt/internal/engine"

// Float constrains the sample types the transform can process.
type Float = engine.Float

// Scalogram is a transform result in flat row-major storage. The axis
// order of Data follows Format; Batch, Time, Scales, and Channels are the
// semantic dimensions regardless of layout. In complex output mode
// Channels is twice the input channel count, real responses first.
type Scalogram[F Float] struct {
	Data     []F
	Batch    int
	Time     int
	Scales   int
	Channels int
	Format   DataFormat
}

// Shape returns the dimensions in storage order: [batch, time, scales,
// channels] for channels-last, [batch, channels, time, scales] for
// channels-first.
func (s *Scalogram[F]) Shape() []int {
	if s.Format == ChannelsFirst {
		return []int{s.Batch, s.Channels, s.Time, s.Scales}
	}
	return []int{s.Batch, s.Time, s.Scales, s.Channels}
}

// Index returns the flat offset of the element at the semantic coordinates
// (batch, time, scale, channel).
func (s *Scalogram[F]) Index(b, t, sc, c int) int {
	if s.Format == ChannelsFirst {
		return ((b*s.Channels+c)*s.Time+t)*s.Scales + sc
	}
	return ((b*s.Time+t)*s.Scales+sc)*s.Channels + c
}

// At returns the element at the semantic coordinates.
func (s *Scalogram[F]) At(b, t, sc, c int) F {
	return s.Data[s.Index(b, t, sc, c)]
}

func fromResult[F Float](r *engine.Result[F], format DataFormat) *Scalogram[F] {
	return &Scalogram[F]{
		Data:     r.Data,
		Batch:    r.Batch,
		Time:     r.Time,
		Scales:   r.Scales,
		Channels: r.Channels,
		Format:   format,
	}
}
