// Package pipeline drives one video URL through acquisition, transcription
// and summarization.
//
// Orchestrator is a small state machine:
//
//	PreflightCheck -> Aborted       generation model unavailable
//	PreflightCheck -> Summarizing   a transcription already exists (reuse)
//	PreflightCheck -> Acquiring
//	Acquiring      -> Aborted       acquisition failed
//	Acquiring      -> Transcribing
//	Transcribing   -> (fatal)       transcription failed
//	Transcribing   -> Summarizing   after the transcription is persisted
//	Summarizing    -> Done          whether or not a summary was produced
//
// The temporary audio file is removed once summarization has been attempted,
// or when a fatal transcription error ends the run.
package pipeline
