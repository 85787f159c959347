// Package audio converts arbitrary audio files into the canonical PCM layout
// the transcription engines expect: mono, 16 kHz, 16-bit signed little-endian
// WAV.
//
// Normalizer shells out to ffmpeg; IsCanonical checks an ffprobe layout
// against the target so callers can skip conversion when nothing would change.
package audio
