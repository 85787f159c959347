// Package acquisition fetches the spoken audio of a remote video and leaves a
// canonical WAV file (mono, 16 kHz, 16-bit PCM) in the working directory.
//
// Acquirer tries a direct yt-dlp extraction to WAV first. When that fails it
// falls back once to downloading the best available audio format and
// converting it locally with ffmpeg. Produced files are discovered with
// ProbeCandidates, a pure ordered lookup over candidate extensions.
// Failures are reported as *Error values carrying a FailureKind and the
// strategy that produced them.
package acquisition
