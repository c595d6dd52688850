package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tphakala/go-cwt"
)

// PCM normalization constants
const (
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
)

// I/O constants
const (
	csvWriterBufferSize = 256 * 1024

	// CSV number formatting
	csvFloatPrecision = 6
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit",
			format.SampleRate, format.NumChannels, decoder.BitDepth)
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: int(decoder.BitDepth),
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// ReadAll decodes the whole file into a channels-first batch of one:
// [1][channels][time], with samples normalized to [-1, 1].
func (w *wavInputInfo) ReadAll() ([][][]float64, error) {
	buf, err := w.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode PCM data: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, fmt.Errorf("no audio data in file")
	}

	norm, err := normalizationFactor(w.bitDepth)
	if err != nil {
		return nil, err
	}

	frames := len(buf.Data) / w.channels
	channels := deinterleave(buf.Data, w.channels, frames, norm)
	return [][][]float64{channels}, nil
}

// normalizationFactor returns the scaling divisor for a PCM bit depth.
func normalizationFactor(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// deinterleave splits interleaved integer PCM into per-channel float64
// slices scaled by 1/norm.
func deinterleave(data []int, channels, frames int, norm float64) [][]float64 {
	out := make([][]float64, channels)
	for c := range channels {
		out[c] = make([]float64, frames)
	}
	for i := range frames {
		for c := range channels {
			out[c][i] = float64(data[i*channels+c]) / norm
		}
	}
	return out
}

// writeScalogramCSV writes a channels-first scalogram as CSV. The first
// column is the frame time in seconds, offset by the cropped border so
// labels refer to positions in the original signal; the remaining columns
// are one per (channel, scale) pair, labeled with the scale's center
// frequency.
func writeScalogramCSV(path string, s *cwt.Scalogram[float64], frequencies []float64, sampleRate float64, stride, borderCrop int) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = outputFile.Close() }()

	writer := bufio.NewWriterSize(outputFile, csvWriterBufferSize)

	// Header: time, then ch<c>_<freq>hz per column.
	if _, err := writer.WriteString("time"); err != nil {
		return err
	}
	for c := range s.Channels {
		for _, f := range frequencies {
			if _, err := fmt.Fprintf(writer, ",ch%d_%.1fhz", c, f); err != nil {
				return err
			}
		}
	}
	if err := writer.WriteByte('\n'); err != nil {
		return err
	}

	cropFrames := borderCrop / stride

	for b := range s.Batch {
		for t := range s.Time {
			frameTime := float64((t+cropFrames)*stride) / sampleRate
			if _, err := writer.WriteString(strconv.FormatFloat(frameTime, 'f', csvFloatPrecision, 64)); err != nil {
				return err
			}
			for c := range s.Channels {
				for sc := range s.Scales {
					if err := writer.WriteByte(','); err != nil {
						return err
					}
					value := strconv.FormatFloat(s.At(b, t, sc, c), 'g', csvFloatPrecision, 64)
					if _, err := writer.WriteString(value); err != nil {
						return err
					}
				}
			}
			if err := writer.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	return writer.Flush()
}
