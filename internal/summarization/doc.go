// Package summarization produces a structured French summary of a transcript
// through a local Ollama model.
//
// CheckAvailability doubles as the pipeline preflight: it confirms the server
// answers and that the configured model is installed. Summarize repeats that
// check, embeds the transcript verbatim in a fixed prompt and issues a single
// generate request with static sampling options.
package summarization
