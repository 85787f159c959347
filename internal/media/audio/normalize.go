package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidsum/internal/media/ffprobe"
	"vidsum/internal/services"
)

// Canonical PCM layout handed to transcription.
const (
	CanonicalSampleRate = 16000
	CanonicalChannels   = 1
	CanonicalBitDepth   = 16
	CanonicalCodec      = "pcm_s16le"
)

// DefaultFFmpegBinary is used when no ffmpeg path is configured.
const DefaultFFmpegBinary = "ffmpeg"

// NormalizeArgs returns the ffmpeg arguments that convert source into a
// canonical WAV at dest, overwriting dest.
func NormalizeArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-ac", fmt.Sprint(CanonicalChannels),
		"-ar", fmt.Sprint(CanonicalSampleRate),
		"-c:a", CanonicalCodec,
		dest,
	}
}

// IsCanonical reports whether format already matches the canonical layout.
func IsCanonical(format ffprobe.AudioFormat) bool {
	return format.SampleRate == CanonicalSampleRate &&
		format.Channels == CanonicalChannels &&
		format.BitDepth == CanonicalBitDepth
}

// Normalizer converts audio files with ffmpeg.
type Normalizer struct {
	binary string
	run    services.CommandRunner
}

// NewNormalizer creates a Normalizer. An empty binary selects "ffmpeg" and a
// nil runner selects services.RunCommand.
func NewNormalizer(binary string, run services.CommandRunner) *Normalizer {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultFFmpegBinary
	}
	if run == nil {
		run = services.RunCommand
	}
	return &Normalizer{binary: binary, run: run}
}

// Normalize writes a canonical copy of source to dest. source is left in place.
func (n *Normalizer) Normalize(ctx context.Context, source, dest string) error {
	if source == "" || dest == "" {
		return errors.New("normalize audio: source and destination required")
	}
	if source == dest {
		return fmt.Errorf("normalize audio: source and destination are the same file %q", source)
	}
	if err := n.run(ctx, n.binary, NormalizeArgs(source, dest)...); err != nil {
		return fmt.Errorf("normalize audio: %w", err)
	}
	return nil
}
