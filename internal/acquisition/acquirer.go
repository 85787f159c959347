package acquisition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"vidsum/internal/config"
	"vidsum/internal/fileutil"
	"vidsum/internal/logging"
	"vidsum/internal/media/audio"
	"vidsum/internal/media/ffprobe"
	"vidsum/internal/services/ytdlp"
)

// Artifact is the canonical audio file handed to transcription.
type Artifact struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	SizeBytes  int64
	Strategy   Strategy
	// Verified is false when ffprobe was unavailable and the format fields
	// hold the requested canonical layout rather than measured values.
	Verified bool
}

// Extractor runs yt-dlp with a prepared argument list.
type Extractor interface {
	Extract(ctx context.Context, args []string, progress func(ytdlp.ProgressUpdate)) error
}

// Normalizer converts an audio file into canonical WAV.
type Normalizer interface {
	Normalize(ctx context.Context, source, dest string) error
}

// Prober reports the audio layout of a file.
type Prober func(ctx context.Context, path string) (ffprobe.AudioFormat, error)

// Acquirer fetches audio for a source URL.
type Acquirer struct {
	workDir      string
	audioBase    string
	fallbackBase string
	extractor    Extractor
	normalizer   Normalizer
	probe        Prober
	exists       func(string) bool
	progress     func(ytdlp.ProgressUpdate)
	logger       *slog.Logger
}

// Option customizes an Acquirer.
type Option func(*Acquirer)

// WithExtractor replaces the yt-dlp client.
func WithExtractor(e Extractor) Option {
	return func(a *Acquirer) {
		if e != nil {
			a.extractor = e
		}
	}
}

// WithNormalizer replaces the ffmpeg normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(a *Acquirer) {
		if n != nil {
			a.normalizer = n
		}
	}
}

// WithProber replaces the ffprobe inspection.
func WithProber(p Prober) Option {
	return func(a *Acquirer) {
		if p != nil {
			a.probe = p
		}
	}
}

// WithProgress receives yt-dlp download progress.
func WithProgress(fn func(ytdlp.ProgressUpdate)) Option {
	return func(a *Acquirer) { a.progress = fn }
}

// New builds an Acquirer from the [paths] and [acquisition] sections.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Acquirer {
	acq := config.Default().Acquisition
	workDir := "."
	if cfg != nil {
		acq = cfg.Acquisition
		if cfg.Paths.WorkDir != "" {
			workDir = cfg.Paths.WorkDir
		}
	}
	a := &Acquirer{
		workDir:      workDir,
		audioBase:    acq.AudioBaseName,
		fallbackBase: acq.FallbackBaseName,
		extractor:    ytdlp.New(acq.YtDlpBinary),
		normalizer:   audio.NewNormalizer(acq.FFmpegBinary, nil),
		probe:        ffprobeProber(acq.FFprobeBinary),
		exists:       fileutil.Exists,
		logger:       logging.NewComponentLogger(logger, "acquisition"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func ffprobeProber(binary string) Prober {
	return func(ctx context.Context, path string) (ffprobe.AudioFormat, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return ffprobe.AudioFormat{}, err
		}
		format, ok := result.PrimaryAudio()
		if !ok {
			return ffprobe.AudioFormat{}, fmt.Errorf("ffprobe: no audio stream in %s", filepath.Base(path))
		}
		return format, nil
	}
}

// CanonicalPath is where the acquired WAV lands.
func (a *Acquirer) CanonicalPath() string {
	return filepath.Join(a.workDir, a.audioBase+".wav")
}

// Acquire extracts audio for sourceURL, trying the primary strategy and then
// the fallback once. A primary output that cannot be normalized is terminal.
func (a *Acquirer) Acquire(ctx context.Context, sourceURL string) (Artifact, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return Artifact{}, &Error{Kind: KindExtractionFailed, Strategy: StrategyPrimary, Err: errors.New("source url required")}
	}
	if err := os.MkdirAll(a.workDir, 0o755); err != nil {
		return Artifact{}, &Error{Kind: KindExtractionFailed, Strategy: StrategyPrimary, Err: fmt.Errorf("ensure work dir: %w", err)}
	}
	logger := logging.WithContext(ctx, a.logger)

	logger.Info("downloading audio", logging.String("strategy", string(StrategyPrimary)))
	artifact, err := a.primary(ctx, sourceURL)
	if err == nil {
		return a.finish(logger, artifact), nil
	}
	if KindOf(err) == KindNormalizationFailed {
		return Artifact{}, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Artifact{}, &Error{Kind: KindExtractionFailed, Strategy: StrategyPrimary, Err: ctxErr}
	}

	logging.WarnWithContext(logger, "direct wav extraction failed; retrying with best available format", "acquisition_fallback",
		logging.Error(err),
		logging.String("failure_kind", string(KindOf(err))),
		logging.String(logging.FieldErrorHint, "update yt-dlp if extraction keeps failing"),
		logging.String(logging.FieldImpact, "audio will be converted locally with ffmpeg"),
	)
	artifact, err = a.fallback(ctx, sourceURL)
	if err != nil {
		return Artifact{}, err
	}
	return a.finish(logger, artifact), nil
}

func (a *Acquirer) finish(logger *slog.Logger, artifact Artifact) Artifact {
	artifact.SizeBytes = fileutil.Size(artifact.Path)
	logger.Info("audio ready",
		logging.String("audio_path", artifact.Path),
		logging.String("strategy", string(artifact.Strategy)),
		logging.Int64("audio_bytes", artifact.SizeBytes),
		logging.Int("sample_rate", artifact.SampleRate),
		logging.Int("channels", artifact.Channels),
	)
	return artifact
}

func (a *Acquirer) primary(ctx context.Context, sourceURL string) (Artifact, error) {
	base := filepath.Join(a.workDir, a.audioBase)
	args := ytdlp.PrimaryArgs(ytdlp.OutputTemplate(a.workDir, a.audioBase), sourceURL)
	if err := a.clearCandidates(base, PrimaryExtensions); err != nil {
		return Artifact{}, &Error{Kind: KindExtractionFailed, Strategy: StrategyPrimary, Err: err}
	}
	if err := a.extractor.Extract(ctx, args, a.progress); err != nil {
		return Artifact{}, classifyExtraction(StrategyPrimary, err)
	}

	found, ok := ProbeCandidates(base, PrimaryExtensions, a.exists)
	if !ok {
		return Artifact{}, &Error{Kind: KindNoOutputFound, Strategy: StrategyPrimary, Err: fmt.Errorf("no %s{%s} after extraction", filepath.Base(base), strings.Join(PrimaryExtensions, ","))}
	}

	dest := a.CanonicalPath()
	if found == dest {
		return a.ensureCanonical(ctx, dest)
	}

	if err := a.normalizer.Normalize(ctx, found, dest); err != nil {
		return Artifact{}, &Error{Kind: KindNormalizationFailed, Strategy: StrategyPrimary, Err: err}
	}
	if err := fileutil.RemoveIfExists(found); err != nil {
		a.logger.Debug("intermediate cleanup failed", logging.String("path", found), logging.Error(err))
	}
	return a.describe(ctx, dest, StrategyPrimary), nil
}

// ensureCanonical re-normalizes a primary WAV whose measured layout is off.
func (a *Acquirer) ensureCanonical(ctx context.Context, path string) (Artifact, error) {
	format, err := a.probe(ctx, path)
	if err != nil {
		a.logger.Debug("ffprobe unavailable; assuming requested layout", logging.Error(err))
		return assumedArtifact(path, StrategyPrimary), nil
	}
	if audio.IsCanonical(format) {
		return measuredArtifact(path, StrategyPrimary, format), nil
	}

	a.logger.Info("extracted wav is not canonical; normalizing",
		logging.Int("sample_rate", format.SampleRate),
		logging.Int("channels", format.Channels),
		logging.Int("bit_depth", format.BitDepth),
	)
	tmp := strings.TrimSuffix(path, ".wav") + ".canonical.wav"
	if err := a.normalizer.Normalize(ctx, path, tmp); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return Artifact{}, &Error{Kind: KindNormalizationFailed, Strategy: StrategyPrimary, Err: err}
	}
	if err := fileutil.ReplaceFile(tmp, path); err != nil {
		return Artifact{}, &Error{Kind: KindNormalizationFailed, Strategy: StrategyPrimary, Err: err}
	}
	return a.describe(ctx, path, StrategyPrimary), nil
}

func (a *Acquirer) fallback(ctx context.Context, sourceURL string) (Artifact, error) {
	base := filepath.Join(a.workDir, a.fallbackBase)
	args := ytdlp.FallbackArgs(ytdlp.OutputTemplate(a.workDir, a.fallbackBase), sourceURL)
	if err := a.clearCandidates(base, FallbackExtensions); err != nil {
		return Artifact{}, &Error{Kind: KindExtractionFailed, Strategy: StrategyFallback, Err: err}
	}
	if err := a.extractor.Extract(ctx, args, a.progress); err != nil {
		return Artifact{}, classifyExtraction(StrategyFallback, err)
	}

	found, ok := ProbeCandidates(base, FallbackExtensions, a.exists)
	if !ok {
		return Artifact{}, &Error{Kind: KindNoOutputFound, Strategy: StrategyFallback, Err: fmt.Errorf("no %s{%s} after download", filepath.Base(base), strings.Join(FallbackExtensions, ","))}
	}

	dest := a.CanonicalPath()
	a.logger.Info("converting audio", logging.String("source", filepath.Base(found)), logging.String("audio_path", dest))
	if err := a.normalizer.Normalize(ctx, found, dest); err != nil {
		// The download is kept so the conversion can be retried by hand.
		return Artifact{}, &Error{Kind: KindNormalizationFailed, Strategy: StrategyFallback, Err: err}
	}
	if err := fileutil.RemoveIfExists(found); err != nil {
		a.logger.Debug("intermediate cleanup failed", logging.String("path", found), logging.Error(err))
	}
	return a.describe(ctx, dest, StrategyFallback), nil
}

// clearCandidates removes leftovers from earlier runs so the probe after
// extraction only sees files this download produced.
func (a *Acquirer) clearCandidates(base string, exts []string) error {
	for _, ext := range exts {
		path := base + ext
		if !a.exists(path) {
			continue
		}
		a.logger.Debug("removing stale download", logging.String("path", path))
		if err := fileutil.RemoveIfExists(path); err != nil {
			return fmt.Errorf("remove stale %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// describe measures path with ffprobe, falling back to the requested layout.
func (a *Acquirer) describe(ctx context.Context, path string, strategy Strategy) Artifact {
	format, err := a.probe(ctx, path)
	if err != nil {
		a.logger.Debug("ffprobe unavailable; assuming requested layout", logging.Error(err))
		return assumedArtifact(path, strategy)
	}
	return measuredArtifact(path, strategy, format)
}

func assumedArtifact(path string, strategy Strategy) Artifact {
	return Artifact{
		Path:       path,
		SampleRate: audio.CanonicalSampleRate,
		Channels:   audio.CanonicalChannels,
		BitDepth:   audio.CanonicalBitDepth,
		Strategy:   strategy,
	}
}

func measuredArtifact(path string, strategy Strategy, format ffprobe.AudioFormat) Artifact {
	return Artifact{
		Path:       path,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   format.BitDepth,
		Strategy:   strategy,
		Verified:   true,
	}
}

// IsToolMissing reports whether err stems from a binary that could not be found.
func IsToolMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
