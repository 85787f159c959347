package whisperx_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"vidsum/internal/services/whisper"
	"vidsum/internal/services/whisperx"
)

func TestModelName(t *testing.T) {
	cases := map[whisper.Model]string{
		whisper.ModelMedium: "medium",
		whisper.ModelLarge:  "large-v3",
		whisper.ModelTurbo:  "large-v3-turbo",
		"":                  "large-v3-turbo",
	}
	for tier, want := range cases {
		if got := whisperx.ModelName(tier); got != want {
			t.Fatalf("ModelName(%q) = %q, want %q", tier, got, want)
		}
	}
}

func TestBuildArgsCPUAndPyannote(t *testing.T) {
	svc := whisperx.NewService(whisperx.Config{Model: whisper.ModelLarge, VADMethod: "pyannote", HFToken: "hf_x"})
	args := svc.BuildArgs("/w/audio.wav", "/tmp/out", "fr")
	for _, want := range []string{"large-v3", "--hf_token", "hf_x", "--compute_type", "float32", "fr", "--beam_size"} {
		if !slices.Contains(args, want) {
			t.Fatalf("expected %q in %v", want, args)
		}
	}
	if slices.Contains(args, "--extra-index-url") || slices.Contains(args, "cuda") {
		t.Fatalf("cuda settings should be absent: %v", args)
	}
}

func TestBuildArgsCUDAWithCustomTuning(t *testing.T) {
	tuning := whisperx.DefaultTuning()
	tuning.BeamSize = "5"
	tuning.BestOf = ""
	svc := whisperx.NewService(whisperx.Config{CUDAEnabled: true, Tuning: &tuning})
	args := svc.BuildArgs("/w/audio.wav", "/tmp/out", "")

	if i := slices.Index(args, "--beam_size"); i < 0 || args[i+1] != "5" {
		t.Fatalf("beam size not overridden: %v", args)
	}
	if slices.Contains(args, "--best_of") || slices.Contains(args, "--language") || slices.Contains(args, "--hf_token") {
		t.Fatalf("unexpected flags: %v", args)
	}
	if args[len(args)-1] != "cuda" || !slices.Contains(args, "--extra-index-url") {
		t.Fatalf("expected cuda device: %v", args)
	}
}

func TestTranscribeFileJoinsSegments(t *testing.T) {
	svc := whisperx.NewService(whisperx.Config{})
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != whisperx.UVXCommand {
			t.Fatalf("unexpected binary %q", name)
		}
		idx := slices.Index(args, "--output_dir")
		payload := `{"segments":[{"text":" Bonjour "},{"text":""},{"text":"le monde."}]}`
		return os.WriteFile(filepath.Join(args[idx+1], "audio.json"), []byte(payload), 0o644)
	})

	text, err := svc.TranscribeFile(context.Background(), "/w/audio.wav", "fr")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if text != "Bonjour le monde." {
		t.Fatalf("text = %q", text)
	}
}
