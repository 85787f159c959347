package audio

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"vidsum/internal/media/ffprobe"
)

func TestNormalizeArgs(t *testing.T) {
	got := NormalizeArgs("in.m4a", "out.wav")
	want := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", "in.m4a", "-vn", "-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le", "out.wav"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args = %v\nwant %v", got, want)
	}
}

func TestIsCanonical(t *testing.T) {
	tests := []struct {
		name   string
		format ffprobe.AudioFormat
		want   bool
	}{
		{"canonical", ffprobe.AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 16}, true},
		{"stereo", ffprobe.AudioFormat{SampleRate: 16000, Channels: 2, BitDepth: 16}, false},
		{"cd rate", ffprobe.AudioFormat{SampleRate: 44100, Channels: 1, BitDepth: 16}, false},
		{"float", ffprobe.AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 32}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCanonical(tt.format); got != tt.want {
				t.Fatalf("IsCanonical = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizerUsesRunner(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := NewNormalizer("", func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	})
	if err := n.Normalize(context.Background(), "a.mp3", "a.wav"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if gotName != DefaultFFmpegBinary || gotArgs[len(gotArgs)-1] != "a.wav" {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
}

func TestNormalizerErrors(t *testing.T) {
	boom := errors.New("boom")
	n := NewNormalizer("ffmpeg", func(context.Context, string, ...string) error { return boom })
	if err := n.Normalize(context.Background(), "a.mp3", "a.wav"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped runner error, got %v", err)
	}
	if err := n.Normalize(context.Background(), "a.wav", "a.wav"); err == nil {
		t.Fatal("expected error for identical paths")
	}
}
