// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Inspect runs ffprobe against a file and decodes the streams and container
// format. Helper methods on Result expose the first audio stream's sample
// rate, channel count and bit depth, which the acquisition stage uses to
// verify that an artifact is already canonical PCM.
package ffprobe
