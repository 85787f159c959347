// Package whisper wraps the openai-whisper command line tool.
//
// It owns the model tier vocabulary shared by configuration and the
// transcription stage, and runs the CLI against a normalized WAV file,
// reading the plain-text transcript it writes to a scratch directory.
package whisper
