// Package language normalizes the transcription language tag.
//
// Codes, BCP 47 tags ("fr-CA") and English names ("French") are reduced to the
// short base code handed to whisper, using golang.org/x/text/language for
// parsing and its display tables for human-readable names in log output.
package language
