package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

// Fallback tone parameters: a short, quiet fixed-pitch beep used when the
// primary notification asset fails to play.
const (
	FallbackFreq     = 880.0
	FallbackDuration = 150 * time.Millisecond
	FallbackGain     = 0.15

	sampleRate = 22050
	bitDepth   = 16
)

// WAVTone synthesizes a mono 16-bit PCM sine tone as a complete WAV file.
// The edges are faded over a few milliseconds to avoid clicks.
func WAVTone(freq float64, duration time.Duration, gain float64) []byte {
	if gain < 0 {
		gain = 0
	}
	if gain > 1 {
		gain = 1
	}

	sampleCount := int(float64(sampleRate) * duration.Seconds())
	fade := sampleRate / 200 // 5ms
	if fade*2 > sampleCount {
		fade = sampleCount / 2
	}

	samples := make([]int16, sampleCount)
	for i := range samples {
		v := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)

		envelope := 1.0
		if i < fade {
			envelope = float64(i) / float64(fade)
		} else if remaining := sampleCount - 1 - i; remaining < fade {
			envelope = float64(remaining) / float64(fade)
		}

		samples[i] = int16(v * envelope * gain * math.MaxInt16)
	}

	return encodeWAV(samples)
}

func encodeWAV(samples []int16) []byte {
	dataSize := len(samples) * 2
	var buf bytes.Buffer

	le := binary.LittleEndian
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, le, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, le, uint32(16))           // chunk size
	_ = binary.Write(&buf, le, uint16(1))            // PCM
	_ = binary.Write(&buf, le, uint16(1))            // mono
	_ = binary.Write(&buf, le, uint32(sampleRate))   // sample rate
	_ = binary.Write(&buf, le, uint32(sampleRate*2)) // byte rate
	_ = binary.Write(&buf, le, uint16(2))            // block align
	_ = binary.Write(&buf, le, uint16(bitDepth))     // bits per sample

	buf.WriteString("data")
	_ = binary.Write(&buf, le, uint32(dataSize))
	_ = binary.Write(&buf, le, samples)

	return buf.Bytes()
}
