package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const wavProbe = `{
  "streams": [
    {"index": 0, "codec_name": "pcm_s16le", "codec_type": "audio", "sample_rate": "16000", "sample_fmt": "s16", "channels": 1, "bits_per_sample": 16}
  ],
  "format": {"filename": "audio.wav", "duration": "12.5", "size": "400044", "format_name": "wav"}
}`

func TestPrimaryAudio(t *testing.T) {
	result, err := Parse([]byte(wavProbe))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, ok := result.PrimaryAudio()
	if !ok {
		t.Fatal("expected audio stream")
	}
	want := AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 16, Codec: "pcm_s16le"}
	if got != want {
		t.Fatalf("PrimaryAudio = %+v, want %+v", got, want)
	}
	if result.DurationSeconds() != 12.5 || result.SizeBytes() != 400044 {
		t.Fatalf("unexpected format: %+v", result.Format)
	}
}

func TestBitDepthFallsBackToSampleFormat(t *testing.T) {
	result := Result{Streams: []Stream{
		{CodecType: "video"},
		{CodecType: "audio", CodecName: "aac", SampleRate: "44100", SampleFmt: "fltp", Channels: 2},
	}}
	got, ok := result.PrimaryAudio()
	if !ok || got.BitDepth != 32 || got.SampleRate != 44100 || got.Channels != 2 {
		t.Fatalf("unexpected format: %+v ok=%v", got, ok)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("AudioStreamCount = %d", result.AudioStreamCount())
	}
}

func TestPrimaryAudioMissing(t *testing.T) {
	if _, ok := (Result{Streams: []Stream{{CodecType: "video"}}}).PrimaryAudio(); ok {
		t.Fatal("expected no audio stream")
	}
}

func TestHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestInspectRunsBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + wavProbe + "\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	result, err := Inspect(context.Background(), stub, filepath.Join(dir, "audio.wav"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestInspectMissingBinary(t *testing.T) {
	_, err := Inspect(context.Background(), filepath.Join(t.TempDir(), "nope"), "audio.wav")
	if !errors.Is(err, exec.ErrNotFound) && !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
