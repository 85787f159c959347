// Package services defines shared utilities consumed by the pipeline stages and
// the external tool integrations beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp pipeline state names, run correlation
//     identifiers, and the media source for logging.
//   - Structured error markers plus the Wrap helper, and SeverityOf which the
//     command layer uses to pick an exit status (fatal vs aborting vs
//     recoverable).
//   - CommandRunner, the seam every subprocess integration goes through so
//     tests can substitute fakes for yt-dlp, ffmpeg and whisper.
package services
