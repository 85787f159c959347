// Package whisperx runs WhisperX through uvx as an alternative transcription
// engine.
//
// WhisperX adds VAD-driven chunking and optional CUDA acceleration on top of
// the whisper checkpoints. Tiers from the whisper package are mapped onto
// WhisperX checkpoint names and the JSON segment output is flattened back
// into plain text.
package whisperx
