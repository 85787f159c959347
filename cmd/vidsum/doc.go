// Package main hosts the vidsum CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration (file, .env, then flags),
// builds the acquisition, transcription, and summarization stages, and hands
// them to the pipeline orchestrator. Auxiliary commands list generation
// models, check external dependencies, and scaffold configuration.
package main
