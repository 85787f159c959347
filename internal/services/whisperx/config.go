package whisperx

import "vidsum/internal/services/whisper"

// Config selects the WhisperX checkpoint and runtime.
type Config struct {
	Model       whisper.Model
	CUDAEnabled bool
	// VADMethod is "silero" (default) or "pyannote"; pyannote needs HFToken.
	VADMethod string
	HFToken   string
	// Tuning overrides decoding parameters; the zero value means DefaultTuning.
	Tuning *Tuning
}

// Tuning holds the decoding knobs passed to whisperx. Values are kept as the
// strings the CLI expects.
type Tuning struct {
	BatchSize   string
	ChunkSize   string
	VADOnset    string
	VADOffset   string
	BeamSize    string
	BestOf      string
	Temperature string
	Patience    string
}

// DefaultTuning favours accuracy on long spoken-word recordings.
func DefaultTuning() Tuning {
	return Tuning{
		BatchSize:   "4",
		ChunkSize:   "15",
		VADOnset:    "0.08",
		VADOffset:   "0.07",
		BeamSize:    "10",
		BestOf:      "10",
		Temperature: "0.0",
		Patience:    "1.0",
	}
}

func (t Tuning) flags() [][2]string {
	return [][2]string{
		{"--batch_size", t.BatchSize},
		{"--chunk_size", t.ChunkSize},
		{"--vad_onset", t.VADOnset},
		{"--vad_offset", t.VADOffset},
		{"--beam_size", t.BeamSize},
		{"--best_of", t.BestOf},
		{"--temperature", t.Temperature},
		{"--patience", t.Patience},
	}
}

const (
	// UVXCommand launches whisperx in an ephemeral Python environment.
	UVXCommand = "uvx"
	// OutputFormat is the whisperx writer vidsum reads back.
	OutputFormat = "json"

	pypiIndex  = "https://pypi.org/simple"
	torchIndex = "https://download.pytorch.org/whl/cu128"

	vadSilero   = "silero"
	vadPyannote = "pyannote"
)

// ModelName maps a whisper tier onto the WhisperX checkpoint name.
func ModelName(tier whisper.Model) string {
	switch tier {
	case whisper.ModelMedium:
		return "medium"
	case whisper.ModelLarge:
		return "large-v3"
	default:
		return "large-v3-turbo"
	}
}
