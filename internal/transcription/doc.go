// Package transcription turns a canonical WAV file into text.
//
// A Transcriber selects the configured engine (the whisper CLI by default, or
// WhisperX through uvx), passes the language explicitly, streams engine
// progress to the operator, and returns the trimmed transcript. Every failure
// is fatal: errors are tagged with ErrFatal so the pipeline terminates the run
// instead of continuing with a partial transcript.
package transcription
